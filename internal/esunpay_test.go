package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendpay/entity"
)

func TestSignTrade(t *testing.T) {
	// golden value: SHA256("01TRADEabckey"), uppercase hex
	digest := signTrade("01", "TRADE", "abc", "key")
	assert.Equal(t, "A4AA39884FFC3852D02630A942AC154AE70CC4197A7FDB2F6BF8D50F795F5DFD", digest)
	// deterministic
	assert.Equal(t, digest, signTrade("01", "TRADE", "abc", "key"))
}

func TestSignTradeCanonicalPayload(t *testing.T) {
	trade := entity.TradeData{
		StoreID:          "ES001",
		TermID:           "T0001",
		Timeout:          20,
		BuyerID:          "123456789012345678",
		OrderNo:          "20250102030405M0000001",
		OrderCurrency:    "TWD",
		OrderAmount:      100,
		OrderDT:          "20250102030405",
		OrderTitle:       "20250102030405M0000001",
		BuyerPaymentType: 1,
	}

	encoded, err := encodeTradeData(&trade)
	require.NoError(t, err)
	assert.Equal(t,
		"%7B%22StoreID%22%3A%22ES001%22%2C%22TermID%22%3A%22T0001%22%2C%22Timeout%22%3A20%2C%22BuyerID%22%3A%22123456789012345678%22%2C%22OrderNo%22%3A%2220250102030405M0000001%22%2C%22OrderCurrency%22%3A%22TWD%22%2C%22OrderAmount%22%3A100%2C%22OrderDT%22%3A%2220250102030405%22%2C%22OrderTitle%22%3A%2220250102030405M0000001%22%2C%22BuyerPaymentType%22%3A1%7D",
		encoded)

	digest := signTrade("01", "TRADE", encoded, "testkey123")
	assert.Equal(t, "DA41AF82ED0B75EF76412D833114AD1A8E851F3C872F642E5FE88E321C9C43B2", digest)
}

func TestDecodeTradeResponsePlain(t *testing.T) {
	response, err := decodeTradeResponse([]byte(`{"ReturnCode":"0000","ReturnMessage":"OK"}`))
	require.NoError(t, err)
	assert.Equal(t, "0000", response.ReturnCode)
	assert.Equal(t, "OK", response.ReturnMessage)
}

func TestDecodeTradeResponseEncoded(t *testing.T) {
	body := url.QueryEscape(`{"ReturnCode":"0000","ReturnMessage":"OK"}`)
	response, err := decodeTradeResponse([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "0000", response.ReturnCode)
}

func TestDecodeTradeResponseNestedTradeData(t *testing.T) {
	inner := url.QueryEscape(`{"ApproveCode":"123456"}`)
	body, err := json.Marshal(map[string]string{
		"ReturnCode":    "0000",
		"ReturnMessage": "OK",
		"TradeData":     inner,
	})
	require.NoError(t, err)

	response, err := decodeTradeResponse(body)
	require.NoError(t, err)
	assert.Equal(t, "0000", response.ReturnCode)
	assert.JSONEq(t, `{"ApproveCode":"123456"}`, string(response.Raw))
}

func TestDecodeTradeResponseMalformed(t *testing.T) {
	_, err := decodeTradeResponse([]byte("not structured data"))
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "not structured data", malformed.Raw)
}

func TestGatewayPay(t *testing.T) {
	credentials := &entity.GatewayCredentials{StoreId: "ES001", TermId: "T0001", HashKey: "testkey123"}

	var received entity.TradeEnvelope
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("tradeData")), &received))
		w.Write([]byte(`{"ReturnCode":"0000","ReturnMessage":"OK"}`))
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, "01", "TRADE", newHTTPClient(time.Second))
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	response, err := client.Pay(context.Background(), credentials, "20250102030405M0000001", "123456789012345678", 100, now)
	require.NoError(t, err)
	assert.Equal(t, "0000", response.ReturnCode)

	// the envelope digest must be reproducible from its own trade data
	assert.Equal(t, "01", received.Type)
	assert.Equal(t, "TRADE", received.Action)
	assert.Equal(t, signTrade("01", "TRADE", received.TradeData, "testkey123"), received.Hash)

	decoded, err := url.QueryUnescape(received.TradeData)
	require.NoError(t, err)
	var trade entity.TradeData
	require.NoError(t, json.Unmarshal([]byte(decoded), &trade))
	assert.Equal(t, "ES001", trade.StoreID)
	assert.Equal(t, "20250102030405M0000001", trade.OrderNo)
	assert.Equal(t, 100, trade.OrderAmount)
	assert.Equal(t, 1, trade.BuyerPaymentType)
}

func TestGatewayPayTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, "01", "TRADE", newHTTPClient(100*time.Millisecond))
	_, err := client.Pay(context.Background(), &entity.GatewayCredentials{StoreId: "s", TermId: "t", HashKey: "k"}, "order", "buyer", 1, time.Now())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestGatewayPayRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad trade", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, "01", "TRADE", newHTTPClient(time.Second))
	_, err := client.Pay(context.Background(), &entity.GatewayCredentials{StoreId: "s", TermId: "t", HashKey: "k"}, "order", "buyer", 1, time.Now())
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusBadRequest, rejected.StatusCode)
}
