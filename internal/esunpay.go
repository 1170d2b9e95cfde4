package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gitee.com/golang-module/dongle"

	"vendpay/entity"
)

// tradeTimeout is the provider-side timeout carried inside the trade payload.
const tradeTimeout = 20

// GatewayClient talks to the hash-signed trade gateway. Each request carries
// an authentication digest over the canonicalized payload; the envelope is
// JSON-encoded and percent-encoded again before transport as a single form
// field, matching the provider's published contract.
type GatewayClient struct {
	requestUrl string
	tradeType  string
	action     string
	httpClient *http.Client
}

func NewGatewayClient(requestUrl, tradeType, action string, httpClient *http.Client) *GatewayClient {
	return &GatewayClient{
		requestUrl: requestUrl,
		tradeType:  tradeType,
		action:     action,
		httpClient: httpClient,
	}
}

// Pay submits a scan-code trade for the minted order id. A timeout is
// terminal for this provider: there is no status-inquiry fallback.
func (c *GatewayClient) Pay(ctx context.Context, credentials *entity.GatewayCredentials, orderId, buyerId string, amount int, now time.Time) (*entity.ProviderResponse, error) {
	trade := entity.TradeData{
		StoreID:          credentials.StoreId,
		TermID:           credentials.TermId,
		Timeout:          tradeTimeout,
		BuyerID:          buyerId,
		OrderNo:          orderId,
		OrderCurrency:    "TWD",
		OrderAmount:      amount,
		OrderDT:          now.Format("20060102150405"),
		OrderTitle:       orderId,
		BuyerPaymentType: 1,
	}

	encoded, err := encodeTradeData(&trade)
	if err != nil {
		return nil, err
	}
	envelope := entity.TradeEnvelope{
		Type:      c.tradeType,
		Action:    c.action,
		TradeData: encoded,
		Hash:      signTrade(c.tradeType, c.action, encoded, credentials.HashKey),
	}
	envelopeJson, err := json.Marshal(&envelope)
	if err != nil {
		return nil, fmt.Errorf("encode trade envelope: %w", err)
	}
	form := url.Values{}
	form.Set("tradeData", string(envelopeJson))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestUrl, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create trade request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("trade request: %w", err)
	}
	defer func(b io.ReadCloser) {
		_ = b.Close()
	}(response.Body)

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read trade response: %w", err)
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, &RejectedError{StatusCode: response.StatusCode, Body: string(body)}
	}

	return decodeTradeResponse(body)
}

// encodeTradeData canonicalizes the payload as compact JSON and
// percent-encodes it. This is the exact form the digest is computed over.
func encodeTradeData(data *entity.TradeData) (string, error) {
	compact, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode trade data: %w", err)
	}
	return url.QueryEscape(string(compact)), nil
}

// signTrade computes the gateway authentication digest: the uppercase
// hexadecimal SHA-256 of the type/action prefix, the percent-encoded payload
// and the signing key, concatenated in that order. Pure function; the
// provider recomputes the same digest to authenticate the request.
func signTrade(tradeType, action, encodedData, hashKey string) string {
	digest := dongle.Encrypt.FromString(tradeType + action + encodedData + hashKey).BySha256().ToHexString()
	return strings.ToUpper(digest)
}

type gatewayReply struct {
	ReturnCode    string `json:"ReturnCode"`
	ReturnMessage string `json:"ReturnMessage"`
	TradeData     string `json:"TradeData"`
}

// decodeTradeResponse peels at most two layers of percent-encoded JSON:
// the body itself, and the nested TradeData field. Anything that does not
// yield structured data within two layers is malformed.
func decodeTradeResponse(body []byte) (*entity.ProviderResponse, error) {
	var reply gatewayReply
	text := string(body)
	if err := json.Unmarshal(body, &reply); err != nil {
		unescaped, uerr := url.QueryUnescape(text)
		if uerr != nil {
			return nil, &MalformedError{Raw: string(body)}
		}
		text = unescaped
		if err = json.Unmarshal([]byte(text), &reply); err != nil {
			return nil, &MalformedError{Raw: string(body)}
		}
	}

	raw := json.RawMessage(text)
	if reply.TradeData != "" {
		inner := reply.TradeData
		if !json.Valid([]byte(inner)) {
			unescaped, err := url.QueryUnescape(inner)
			if err != nil || !json.Valid([]byte(unescaped)) {
				return nil, &MalformedError{Raw: reply.TradeData}
			}
			inner = unescaped
		}
		raw = json.RawMessage(inner)
	}

	return &entity.ProviderResponse{
		ReturnCode:    reply.ReturnCode,
		ReturnMessage: reply.ReturnMessage,
		Raw:           raw,
	}, nil
}
