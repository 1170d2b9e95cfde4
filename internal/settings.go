package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vendpay/entity"
)

// SettingsClient resolves machine ids to payment credentials through the
// machine-setting service. Credentials are fetched fresh for every run and
// never cached.
type SettingsClient struct {
	requestUrl string
	httpClient *http.Client
}

func NewSettingsClient(requestUrl string, httpClient *http.Client) *SettingsClient {
	return &SettingsClient{
		requestUrl: requestUrl,
		httpClient: httpClient,
	}
}

type settingRequest struct {
	Key     string `json:"key"`
	Machine string `json:"machine"`
	Time    string `json:"time"`
}

// ResolveWallet returns the machine's wallet channel credentials.
// Fails with ErrSettingsUnavailable on transport faults and with
// ErrCredentialsMissing when the response lacks the required fields.
func (c *SettingsClient) ResolveWallet(ctx context.Context, key, machine string) (*entity.WalletCredentials, error) {
	item, err := c.fetch(ctx, key, machine)
	if err != nil {
		return nil, err
	}
	if item.LineChannelId == "" || item.LineChannelSecret == "" {
		return nil, fmt.Errorf("%w: wallet channel for machine %s", ErrCredentialsMissing, machine)
	}
	return &entity.WalletCredentials{
		ChannelId:     item.LineChannelId,
		ChannelSecret: item.LineChannelSecret,
	}, nil
}

// ResolveGateway returns the machine's trade-gateway terminal credentials.
func (c *SettingsClient) ResolveGateway(ctx context.Context, key, machine string) (*entity.GatewayCredentials, error) {
	item, err := c.fetch(ctx, key, machine)
	if err != nil {
		return nil, err
	}
	if item.StoreId == "" || item.TermId == "" || item.HashKey == "" {
		return nil, fmt.Errorf("%w: gateway terminal for machine %s", ErrCredentialsMissing, machine)
	}
	return &entity.GatewayCredentials{
		StoreId: item.StoreId,
		TermId:  item.TermId,
		HashKey: item.HashKey,
	}, nil
}

func (c *SettingsClient) fetch(ctx context.Context, key, machine string) (*entity.SettingItem, error) {
	payload := settingRequest{
		Key:     key,
		Machine: machine,
		Time:    time.Now().Format("2006-01-02 15:04:05"),
	}
	requestData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode setting request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestUrl, bytes.NewBuffer(requestData))
	if err != nil {
		return nil, fmt.Errorf("create setting request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSettingsUnavailable, err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(response.Body)

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: status %d", ErrSettingsUnavailable, response.StatusCode)
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrSettingsUnavailable, err)
	}

	var setting entity.MachineSetting
	if err = json.Unmarshal(body, &setting); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrCredentialsMissing, err)
	}
	if len(setting.Data) == 0 {
		return nil, fmt.Errorf("%w: empty setting data for machine %s", ErrCredentialsMissing, machine)
	}
	return &setting.Data[0], nil
}
