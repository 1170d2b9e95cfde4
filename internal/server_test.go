package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendpay/config"
	"vendpay/entity"
)

// fakePayments returns canned results and records the last request seen.
type fakePayments struct {
	lastWallet  *entity.PaymentRequest
	lastGateway *entity.PaymentRequest
	lastRefund  *entity.RefundRequest
	result      *entity.PaymentResult
}

func (f *fakePayments) PayWallet(_ context.Context, request *entity.PaymentRequest) (*entity.PaymentResult, error) {
	f.lastWallet = request
	return f.result, nil
}

func (f *fakePayments) PayGateway(_ context.Context, request *entity.PaymentRequest) (*entity.PaymentResult, error) {
	f.lastGateway = request
	return f.result, nil
}

func (f *fakePayments) Inquire(context.Context, string, string, string, bool) (*entity.PaymentResult, error) {
	return f.result, nil
}

func (f *fakePayments) Refund(_ context.Context, request *entity.RefundRequest) (*entity.PaymentResult, error) {
	f.lastRefund = request
	return f.result, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakePayments) {
	t.Helper()
	conf := &config.Config{}
	server := NewServer(conf)
	server.SetLogger(NewLogger("server", false, nil))

	payments := &fakePayments{result: &entity.PaymentResult{Status: entity.StatusSuccess, Code: "0000"}}
	server.SetPaymentsService(payments)

	store, err := NewFileLogStore(t.TempDir())
	require.NoError(t, err)
	server.SetLogStore(store)

	router := httprouter.New()
	server.Register(router)
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, payments
}

func TestServerPayWallet(t *testing.T) {
	ts, payments := newTestServer(t)

	body := `{"key":"api-key","machine":"M0000001","barcode":"123456789012345678","amount":100,"payway":"01","test":1}`
	response, err := http.Post(ts.URL+walletPay, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)

	var result entity.PaymentResult
	require.NoError(t, json.NewDecoder(response.Body).Decode(&result))
	assert.Equal(t, entity.StatusSuccess, result.Status)

	require.NotNil(t, payments.lastWallet)
	assert.Equal(t, "M0000001", payments.lastWallet.Machine)
	assert.True(t, payments.lastWallet.Sandbox())
}

func TestServerPayWalletBadBody(t *testing.T) {
	ts, _ := newTestServer(t)

	response, err := http.Post(ts.URL+walletPay, "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestServerPayGateway(t *testing.T) {
	ts, payments := newTestServer(t)

	body := `{"key":"api-key","machine":"M0000001","barcode":"123456789012345678","amount":100}`
	response, err := http.Post(ts.URL+gatewayPay, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)
	require.NotNil(t, payments.lastGateway)
	assert.Equal(t, 100, payments.lastGateway.Amount)
}

func TestServerInquireMissingParams(t *testing.T) {
	ts, _ := newTestServer(t)

	response, err := http.Get(ts.URL + walletInquire + "?channel_id=c")
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestServerInquire(t *testing.T) {
	ts, _ := newTestServer(t)

	response, err := http.Get(ts.URL + walletInquire + "?channel_id=c&channel_secret=s&order_id=o&test=1")
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)
}

func TestServerRefund(t *testing.T) {
	ts, payments := newTestServer(t)

	body := `{"key":"api-key","machine":"M0000001","transactionId":"1234567890","refundAmount":100,"test":1}`
	response, err := http.Post(ts.URL+walletRefund, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)
	require.NotNil(t, payments.lastRefund)
	assert.Equal(t, "1234567890", payments.lastRefund.TransactionId)
}

func TestServerRefundEmptyTransactionId(t *testing.T) {
	ts, _ := newTestServer(t)

	body := `{"key":"api-key","machine":"M0000001","refundAmount":100}`
	response, err := http.Post(ts.URL+walletRefund, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestServerLogUploadAndDownload(t *testing.T) {
	ts, _ := newTestServer(t)

	response, err := http.Post(ts.URL+"/api/logs/M0000001", "text/plain", bytes.NewBufferString("device log line"))
	require.NoError(t, err)
	defer response.Body.Close()
	require.Equal(t, http.StatusOK, response.StatusCode)

	var upload struct {
		Status   string `json:"status"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&upload))
	assert.Equal(t, entity.StatusSuccess, upload.Status)
	require.NotEmpty(t, upload.Filename)

	download, err := http.Get(ts.URL + "/api/logs/M0000001/" + upload.Filename)
	require.NoError(t, err)
	defer download.Body.Close()
	assert.Equal(t, http.StatusOK, download.StatusCode)
}

func TestServerLogDownloadMissing(t *testing.T) {
	ts, _ := newTestServer(t)

	response, err := http.Get(ts.URL + "/api/logs/M0000001/20200101.txt")
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestServerMetrics(t *testing.T) {
	ts, _ := newTestServer(t)

	response, err := http.Get(ts.URL + metricsPath)
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)
}
