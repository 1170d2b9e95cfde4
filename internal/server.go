package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vendpay/config"
	"vendpay/entity"
	"vendpay/services"
)

const (
	walletPay     = "/api/linepay/pay"
	walletInquire = "/api/linepay/inquire"
	walletRefund  = "/api/linepay/refund"
	gatewayPay    = "/api/esunpay/pay"
	logUpload     = "/api/logs/:machine_id"
	logDownload   = "/api/logs/:machine_id/:filename"
	metricsPath   = "/metrics"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	payments   services.Payments
	logStore   services.LogStore
	logger     services.LogHandler
}

func NewServer(conf *config.Config) *Server {

	server := Server{
		conf: conf,
	}

	// register itself as a router for httpServer handler
	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Handler: router,
	}

	return &server
}

func (s *Server) Register(router *httprouter.Router) {
	router.POST(walletPay, s.payWallet)
	router.GET(walletInquire, s.inquireWallet)
	router.POST(walletRefund, s.refundWallet)
	router.POST(gatewayPay, s.payGateway)
	router.POST(logUpload, s.uploadLog)
	router.GET(logDownload, s.downloadLog)
	router.Handler(http.MethodGet, metricsPath, promhttp.Handler())
}

func (s *Server) SetPaymentsService(payments services.Payments) {
	s.payments = payments
}

func (s *Server) SetLogStore(store services.LogStore) {
	s.logStore = store
}

func (s *Server) SetLogger(logger services.LogHandler) {
	s.logger = logger
}

func (s *Server) Start() error {
	if s.conf == nil {
		return fmt.Errorf("configuration not loaded")
	}

	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	if s.conf.Listen.TLS {
		s.logger.Info(fmt.Sprintf("starting https TLS on %s", serverAddress))
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Info(fmt.Sprintf("starting http on %s", serverAddress))
		err = s.httpServer.Serve(listener)
	}

	return err
}

func (s *Server) payWallet(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)
	countRequest(walletPay)

	var request entity.PaymentRequest
	if !s.decodeBody(w, r, reqID, &request) {
		return
	}

	result, err := s.payments.PayWallet(ctx, &request)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] wallet payment for machine %s", reqID, request.Machine), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.writeResult(w, reqID, result)
}

func (s *Server) payGateway(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)
	countRequest(gatewayPay)

	var request entity.PaymentRequest
	if !s.decodeBody(w, r, reqID, &request) {
		return
	}

	result, err := s.payments.PayGateway(ctx, &request)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] gateway payment for machine %s", reqID, request.Machine), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.writeResult(w, reqID, result)
}

func (s *Server) inquireWallet(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)
	countRequest(walletInquire)

	query := r.URL.Query()
	channelId := query.Get("channel_id")
	channelSecret := query.Get("channel_secret")
	orderId := query.Get("order_id")
	if channelId == "" || channelSecret == "" || orderId == "" {
		s.logger.Warn(fmt.Sprintf("[%s] inquire: missing query parameters", reqID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	sandbox := query.Get("test") == "1"

	result, err := s.payments.Inquire(ctx, channelId, channelSecret, orderId, sandbox)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] inquire order %s", reqID, orderId), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.writeResult(w, reqID, result)
}

func (s *Server) refundWallet(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)
	countRequest(walletRefund)

	var request entity.RefundRequest
	if !s.decodeBody(w, r, reqID, &request) {
		return
	}
	if request.TransactionId == "" {
		s.logger.Warn(fmt.Sprintf("[%s] refund: empty transaction id", reqID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := s.payments.Refund(ctx, &request)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] refund transaction %s", reqID, request.TransactionId), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.writeResult(w, reqID, result)
}

func (s *Server) uploadLog(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)
	countRequest(logUpload)

	machineId := ps.ByName("machine_id")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] upload log: read body", reqID), err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	filename, err := s.logStore.Save(machineId, body)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] upload log for machine %s", reqID, machineId), err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.writeJSON(w, reqID, map[string]string{
		"status":   entity.StatusSuccess,
		"message":  "File uploaded",
		"filename": filename,
	})
}

func (s *Server) downloadLog(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)
	countRequest(logDownload)

	machineId := ps.ByName("machine_id")
	filename := ps.ByName("filename")

	content, err := s.logStore.Read(machineId, filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.logger.Error(fmt.Sprintf("[%s] download log %s for machine %s", reqID, filename, machineId), err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err = w.Write(content); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] write log response", reqID), err)
	}
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, reqID string, target any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] read request body", reqID), err)
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	if err = json.Unmarshal(body, target); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] decode request body", reqID), err)
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	return true
}

// writeResult sends a classified outcome. Business-meaningful failures are
// 200s with a status discriminator, not protocol errors.
func (s *Server) writeResult(w http.ResponseWriter, reqID string, result *entity.PaymentResult) {
	s.writeJSON(w, reqID, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, reqID string, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] encode response", reqID), err)
	}
}
