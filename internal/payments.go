package internal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vendpay/config"
	"vendpay/entity"
	"vendpay/services"
)

// walletBarcodeLength is the one-time-key length required by the wallet
// provider. Checked before any network call.
const walletBarcodeLength = 18

// persistTimeout bounds the ledger write so a storage outage never blocks
// the caller after the payment outcome is already decided.
const persistTimeout = 10 * time.Second

// Payments orchestrates payment runs: resolve credentials, mint the order id,
// submit to the provider, classify the outcome and append a ledger record.
// Runs are independent; no state is shared between concurrent requests.
type Payments struct {
	conf     *config.Config
	database services.Database
	logger   services.LogHandler
	settings *SettingsClient
	wallet   *WalletClient
	gateway  *GatewayClient
}

// NewPayments creates the payment service. All outbound clients share one
// pooled HTTP client bounded by the configured request timeout.
func NewPayments(conf *config.Config) *Payments {
	httpClient := newHTTPClient(conf.RequestTimeout)
	return &Payments{
		conf:     conf,
		settings: NewSettingsClient(conf.Settings.RequestUrl, httpClient),
		wallet:   NewWalletClient(conf.Wallet.SandboxUrl, conf.Wallet.ProductionUrl, httpClient),
		gateway:  NewGatewayClient(conf.Gateway.RequestUrl, conf.Gateway.TradeType, conf.Gateway.Action, httpClient),
	}
}

func (p *Payments) SetDatabase(database services.Database) {
	p.database = database
}

func (p *Payments) SetLogger(logger services.LogHandler) {
	p.logger = logger
	if p.conf.DisablePayment {
		p.logger.Warn("service disabled")
	} else {
		p.logger.Info("service enabled")
	}
}

// PayWallet runs a one-time-key payment. Barcode validation fails fast with
// no network call and no ledger write; every other path ends in exactly one
// ledger record.
func (p *Payments) PayWallet(ctx context.Context, request *entity.PaymentRequest) (*entity.PaymentResult, error) {
	if len(request.Barcode) != walletBarcodeLength {
		return &entity.PaymentResult{Status: entity.StatusBarcode}, nil
	}
	p.logger.Info(fmt.Sprintf("wallet payment: machine %s, amount %d, key %s", request.Machine, request.Amount, secret(request.Key)))

	// Once submission starts the run must reach classify/persist even if the
	// caller goes away.
	runCtx := context.WithoutCancel(ctx)

	if p.conf.DisablePayment {
		result := &entity.PaymentResult{Status: entity.StatusSuccess, Code: entity.CodeSuccess, Message: "payment disabled"}
		p.persist(runCtx, request, "", result)
		return result, nil
	}

	credentials, err := p.settings.ResolveWallet(runCtx, request.Key, request.Machine)
	if err != nil {
		p.logger.Error(fmt.Sprintf("resolve wallet credentials for machine %s", request.Machine), err)
		result := &entity.PaymentResult{Status: entity.StatusError, Code: entity.CodeNoChannel, Message: "payment channel unavailable"}
		p.persist(runCtx, request, "", result)
		countOutcome("wallet", result.Status)
		return result, nil
	}

	orderId := MintOrderId(request.PayWay, request.Machine, time.Now())
	result := p.submitWallet(runCtx, credentials, request, orderId)
	p.persist(runCtx, request, orderId, result)
	countOutcome("wallet", result.Status)
	return result, nil
}

// submitWallet submits the payment and, on timeout, falls back to a status
// inquiry with the same credentials and order id. A second timeout is
// terminal and reported with the transport sentinel code.
func (p *Payments) submitWallet(ctx context.Context, credentials *entity.WalletCredentials, request *entity.PaymentRequest, orderId string) *entity.PaymentResult {
	response, err := p.wallet.Pay(ctx, credentials, orderId, request.Amount, request.Barcode, request.Sandbox())
	if err == nil {
		return resultFromWallet(response)
	}
	if errors.Is(err, ErrTimeout) {
		p.logger.Warn(fmt.Sprintf("payment timed out, inquiring order %s", orderId))
		inquiry, inquiryErr := p.wallet.Inquire(ctx, credentials, orderId, request.Sandbox())
		if inquiryErr != nil {
			p.logger.Error(fmt.Sprintf("inquiry for order %s", orderId), inquiryErr)
			return &entity.PaymentResult{Status: entity.StatusTimeout, Code: entity.CodeTransport, Message: "payment request timed out"}
		}
		return resultFromWallet(inquiry)
	}
	return p.resultFromFailure(err)
}

// PayGateway runs a scan-code trade through the signed gateway. A timeout
// here is terminal: the gateway has no inquiry fallback.
func (p *Payments) PayGateway(ctx context.Context, request *entity.PaymentRequest) (*entity.PaymentResult, error) {
	p.logger.Info(fmt.Sprintf("gateway payment: machine %s, amount %d, key %s", request.Machine, request.Amount, secret(request.Key)))

	runCtx := context.WithoutCancel(ctx)

	if p.conf.DisablePayment {
		result := &entity.PaymentResult{Status: entity.StatusSuccess, Code: entity.CodeSuccess, Message: "payment disabled"}
		p.persist(runCtx, request, "", result)
		return result, nil
	}

	credentials, err := p.settings.ResolveGateway(runCtx, request.Key, request.Machine)
	if err != nil {
		p.logger.Error(fmt.Sprintf("resolve gateway credentials for machine %s", request.Machine), err)
		result := &entity.PaymentResult{Status: entity.StatusError, Code: entity.CodeNoChannel, Message: "payment channel unavailable"}
		p.persist(runCtx, request, "", result)
		countOutcome("gateway", result.Status)
		return result, nil
	}

	now := time.Now()
	orderId := MintOrderId(request.PayWay, request.Machine, now)

	var result *entity.PaymentResult
	response, err := p.gateway.Pay(runCtx, credentials, orderId, request.Barcode, request.Amount, now)
	switch {
	case err == nil:
		// HTTP 2xx with a well-formed payload is success for this provider.
		result = &entity.PaymentResult{
			Status:  entity.StatusSuccess,
			Code:    response.ReturnCode,
			Message: response.ReturnMessage,
			Data:    response.Raw,
		}
	case errors.Is(err, ErrTimeout):
		result = &entity.PaymentResult{Status: entity.StatusTimeout, Code: entity.CodeTransport, Message: "payment request timed out"}
	default:
		result = p.resultFromFailure(err)
	}

	p.persist(runCtx, request, orderId, result)
	countOutcome("gateway", result.Status)
	return result, nil
}

// Inquire queries the wallet provider for the status of an order.
// Read-only; identical to the orchestrator's fallback path, with no ledger
// write.
func (p *Payments) Inquire(ctx context.Context, channelId, channelSecret, orderId string, sandbox bool) (*entity.PaymentResult, error) {
	credentials := &entity.WalletCredentials{ChannelId: channelId, ChannelSecret: channelSecret}
	response, err := p.wallet.Inquire(ctx, credentials, orderId, sandbox)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return &entity.PaymentResult{Status: entity.StatusTimeout, Code: entity.CodeTransport, Message: "inquiry timed out"}, nil
		}
		return p.resultFromFailure(err), nil
	}
	return resultFromWallet(response), nil
}

// Refund re-resolves the machine's credentials and requests a refund keyed
// by the original provider transaction id. The provider's not-found code is
// a distinct classification: it usually means an environment mismatch.
func (p *Payments) Refund(ctx context.Context, request *entity.RefundRequest) (*entity.PaymentResult, error) {
	p.logger.Info(fmt.Sprintf("refund: machine %s, transaction %s, amount %d", request.Machine, request.TransactionId, request.RefundAmount))

	credentials, err := p.settings.ResolveWallet(ctx, request.Key, request.Machine)
	if err != nil {
		p.logger.Error(fmt.Sprintf("resolve wallet credentials for machine %s", request.Machine), err)
		return &entity.PaymentResult{Status: entity.StatusError, Code: entity.CodeNoChannel, Message: "payment channel unavailable"}, nil
	}

	response, err := p.wallet.Refund(ctx, credentials, request.TransactionId, request.RefundAmount, request.Sandbox())
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return &entity.PaymentResult{Status: entity.StatusTimeout, Code: entity.CodeTransport, Message: "refund request timed out"}, nil
		}
		return p.resultFromFailure(err), nil
	}

	switch response.ReturnCode {
	case entity.CodeSuccess:
		return &entity.PaymentResult{Status: entity.StatusSuccess, Code: response.ReturnCode, Message: response.ReturnMessage, Data: response.Raw}, nil
	case entity.CodeNotFound:
		return &entity.PaymentResult{Status: entity.StatusNotFound, Code: response.ReturnCode, Message: response.ReturnMessage}, nil
	default:
		return &entity.PaymentResult{Status: entity.StatusFailed, Code: response.ReturnCode, Message: response.ReturnMessage}, nil
	}
}

// resultFromWallet classifies a decoded wallet reply: "0000" is the only
// success code, anything else is a failure with the provider's code and
// message attached verbatim.
func resultFromWallet(response *entity.ProviderResponse) *entity.PaymentResult {
	status := entity.StatusFailed
	if response.ReturnCode == entity.CodeSuccess {
		status = entity.StatusSuccess
	}
	return &entity.PaymentResult{
		Status:  status,
		Code:    response.ReturnCode,
		Message: response.ReturnMessage,
		Data:    response.Raw,
	}
}

func (p *Payments) resultFromFailure(err error) *entity.PaymentResult {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return &entity.PaymentResult{Status: entity.StatusFailed, Code: strconv.Itoa(rejected.StatusCode), Message: rejected.Body}
	}
	var malformed *MalformedError
	if errors.As(err, &malformed) {
		return &entity.PaymentResult{Status: entity.StatusError, Code: entity.CodeTransport, Message: fmt.Sprintf("malformed provider response: %s", malformed.Raw)}
	}
	p.logger.Error("provider request", err)
	return &entity.PaymentResult{Status: entity.StatusError, Code: entity.CodeTransport, Message: "payment request failed"}
}

// persist appends the run's terminal outcome to the ledger. A storage
// failure is reported as a warning on the result; it never overturns the
// decided payment outcome.
func (p *Payments) persist(ctx context.Context, request *entity.PaymentRequest, orderId string, result *entity.PaymentResult) {
	if p.database == nil {
		return
	}
	record := &entity.TransactionRecord{
		OrderId:       orderId,
		Machine:       request.Machine,
		Barcode:       request.Barcode,
		Amount:        request.Amount,
		PayWay:        request.PayWay,
		Status:        result.Status,
		ReturnCode:    result.Code,
		ReturnMessage: result.Message,
		TimeCreated:   time.Now(),
	}
	dbCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	if err := p.database.SaveTransaction(dbCtx, record); err != nil {
		p.logger.Error(fmt.Sprintf("save transaction record for order %s", orderId), err)
		result.Warning = "transaction record not saved"
	}
}

func secret(some string) string {
	if len(some) > 5 {
		return fmt.Sprintf("%s***", some[0:5])
	}
	if some == "" {
		return "?"
	}
	return "***"
}
