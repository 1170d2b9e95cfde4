package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"vendpay/entity"
)

// WalletClient talks to the one-time-key wallet provider. It submits
// payments, queries order status and requests refunds; every transport
// fault is converted to a classified error before returning.
//
// The adapter never retries on timeout: it reports ErrTimeout and the
// orchestrator decides on the inquiry fallback.
type WalletClient struct {
	sandboxUrl    string
	productionUrl string
	httpClient    *http.Client
}

func NewWalletClient(sandboxUrl, productionUrl string, httpClient *http.Client) *WalletClient {
	return &WalletClient{
		sandboxUrl:    sandboxUrl,
		productionUrl: productionUrl,
		httpClient:    httpClient,
	}
}

func (c *WalletClient) baseUrl(sandbox bool) string {
	if sandbox {
		return c.sandboxUrl
	}
	return c.productionUrl
}

type walletPayBody struct {
	Amount      int    `json:"amount"`
	Currency    string `json:"currency"`
	OrderId     string `json:"orderId"`
	ProductName string `json:"productName"`
	OneTimeKey  string `json:"oneTimeKey"`
}

type walletRefundBody struct {
	RefundAmount int `json:"refundAmount"`
}

// Pay submits a one-time-key payment for the minted order id.
// The response is returned verbatim; the caller interprets ReturnCode.
func (c *WalletClient) Pay(ctx context.Context, credentials *entity.WalletCredentials, orderId string, amount int, oneTimeKey string, sandbox bool) (*entity.ProviderResponse, error) {
	body := walletPayBody{
		Amount:      amount,
		Currency:    "TWD",
		OrderId:     orderId,
		ProductName: orderId,
		OneTimeKey:  oneTimeKey,
	}
	payUrl := c.baseUrl(sandbox) + "/oneTimeKeys/pay"
	return c.send(ctx, http.MethodPost, payUrl, credentials, &body)
}

// Inquire queries the current status of a previously submitted order.
// Read-only; behaves identically whether called by a user or as the
// orchestrator's timeout fallback.
func (c *WalletClient) Inquire(ctx context.Context, credentials *entity.WalletCredentials, orderId string, sandbox bool) (*entity.ProviderResponse, error) {
	inquireUrl := c.baseUrl(sandbox) + "?orderId=" + url.QueryEscape(orderId)
	return c.send(ctx, http.MethodGet, inquireUrl, credentials, nil)
}

// Refund requests a refund against the provider transaction id of the
// original payment.
func (c *WalletClient) Refund(ctx context.Context, credentials *entity.WalletCredentials, transactionId string, amount int, sandbox bool) (*entity.ProviderResponse, error) {
	refundUrl := c.baseUrl(sandbox) + "/" + url.PathEscape(transactionId) + "/refund"
	return c.send(ctx, http.MethodPost, refundUrl, credentials, &walletRefundBody{RefundAmount: amount})
}

func (c *WalletClient) send(ctx context.Context, method, requestUrl string, credentials *entity.WalletCredentials, body any) (*entity.ProviderResponse, error) {
	var reader io.Reader
	if body != nil {
		requestData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode wallet request: %w", err)
		}
		reader = bytes.NewBuffer(requestData)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestUrl, reader)
	if err != nil {
		return nil, fmt.Errorf("create wallet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("X-LINE-ChannelId", credentials.ChannelId)
	req.Header.Set("X-LINE-ChannelSecret", credentials.ChannelSecret)

	response, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("wallet request: %w", err)
	}
	defer func(b io.ReadCloser) {
		_ = b.Close()
	}(response.Body)

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read wallet response: %w", err)
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, &RejectedError{StatusCode: response.StatusCode, Body: string(responseBody)}
	}

	var reply entity.ProviderResponse
	if err = json.Unmarshal(responseBody, &reply); err != nil {
		return nil, &MalformedError{Raw: string(responseBody)}
	}
	reply.Raw = responseBody
	return &reply, nil
}
