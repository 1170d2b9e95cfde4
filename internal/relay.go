package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"vendpay/config"
	"vendpay/services"
)

// LogRelay periodically posts each machine's latest log file to the
// device-status endpoint. Disabled when no relay URL is configured.
type LogRelay struct {
	conf       *config.Config
	store      services.LogStore
	logger     services.LogHandler
	httpClient *http.Client
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewLogRelay(conf *config.Config, store services.LogStore) *LogRelay {
	return &LogRelay{
		conf:       conf,
		store:      store,
		httpClient: newHTTPClient(conf.RequestTimeout),
		stop:       make(chan struct{}),
	}
}

func (r *LogRelay) SetLogger(logger services.LogHandler) {
	r.logger = logger
}

// Start launches the relay loop. No-op when the relay URL is empty.
func (r *LogRelay) Start() {
	if r.conf.Logs.RelayUrl == "" {
		r.logger.Info("log relay disabled")
		return
	}
	r.logger.Info(fmt.Sprintf("log relay started, interval %s", r.conf.Logs.RelayInterval))
	go r.run()
}

// Stop terminates the relay loop. Safe to call more than once.
func (r *LogRelay) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
}

func (r *LogRelay) run() {
	ticker := time.NewTicker(r.conf.Logs.RelayInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.relayAll()
		case <-r.stop:
			return
		}
	}
}

func (r *LogRelay) relayAll() {
	machines, err := r.store.Machines()
	if err != nil {
		r.logger.Error("list machines", err)
		return
	}
	for _, machine := range machines {
		filename, content, err := r.store.Latest(machine)
		if err != nil {
			r.logger.Debug(fmt.Sprintf("no log to relay for machine %s", machine))
			continue
		}
		if err = r.post(machine, filename, content); err != nil {
			r.logger.Error(fmt.Sprintf("relay log for machine %s", machine), err)
		}
	}
}

type relayPayload struct {
	Machine  string `json:"machine"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func (r *LogRelay) post(machine, filename string, content []byte) error {
	payload := relayPayload{
		Machine:  machine,
		Filename: filename,
		Content:  string(content),
	}
	requestData, err := json.Marshal(&payload)
	if err != nil {
		return fmt.Errorf("encode relay payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.conf.RequestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.conf.Logs.RelayUrl, bytes.NewBuffer(requestData))
	if err != nil {
		return fmt.Errorf("create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("relay request: %w", err)
	}
	defer func(b io.ReadCloser) {
		_ = b.Close()
	}(response.Body)

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(response.Body)
		return fmt.Errorf("relay rejected: status %d: %s", response.StatusCode, string(body))
	}
	return nil
}
