// Package config provides configuration management for the vendpay service.
// Configuration can be loaded from YAML files and overridden by environment variables.
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the vendpay service.
// Values can be set via YAML configuration file or environment variables.
// Environment variables take precedence over YAML values.
//
// Provider environment (sandbox vs production) is never configured here;
// every inbound request carries its own environment flag.
type Config struct {
	IsDebug        bool  `yaml:"is_debug" env:"DEBUG" env-default:"false"`
	DisablePayment bool  `yaml:"disable_payment" env:"DISABLE_PAYMENT" env-default:"false"`
	LogRecords     int64 `yaml:"log_records" env:"LOG_RECORDS" env-default:"0"`
	Listen         struct {
		Type     string `yaml:"type" env:"LISTEN_TYPE" env-default:"port"`
		BindIP   string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"PORT" env-default:"5100"`
		TLS      bool   `yaml:"tls_enabled" env:"TLS_ENABLED" env-default:"false"`
		CertFile string `yaml:"cert_file" env:"TLS_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"TLS_KEY_FILE" env-default:""`
	} `yaml:"listen"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:""`
	} `yaml:"mongo"`
	Settings struct {
		// Machine-setting service resolving machine ids to payment credentials.
		RequestUrl string `yaml:"request_url" env:"SETTINGS_REQUEST_URL" env-default:"https://unibuy.com.tw/Unibuy/api/app/machine/setting/B014"`
	} `yaml:"settings"`
	Wallet struct {
		SandboxUrl    string `yaml:"sandbox_url" env:"WALLET_SANDBOX_URL" env-default:"https://sandbox-api-pay.line.me/v2/payments"`
		ProductionUrl string `yaml:"production_url" env:"WALLET_PRODUCTION_URL" env-default:"https://api-pay.line.me/v2/payments"`
	} `yaml:"wallet"`
	Gateway struct {
		RequestUrl string `yaml:"request_url" env:"GATEWAY_REQUEST_URL" env-default:"https://mpayment.esuntrade.com/mPay/GatewayV2/API/V2/xTrade.ashx"`
		TradeType  string `yaml:"trade_type" env:"GATEWAY_TRADE_TYPE" env-default:"01"`
		Action     string `yaml:"action" env:"GATEWAY_ACTION" env-default:"TRADE"`
	} `yaml:"gateway"`
	Logs struct {
		Dir           string        `yaml:"dir" env:"LOGS_DIR" env-default:"./logs"`
		RelayUrl      string        `yaml:"relay_url" env:"LOGS_RELAY_URL" env-default:""`
		RelayInterval time.Duration `yaml:"relay_interval" env:"LOGS_RELAY_INTERVAL" env-default:"1h"`
	} `yaml:"logs"`
	// RequestTimeout bounds every outbound provider call.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"20s"`
}

var instance *Config
var once sync.Once

// GetConfig loads configuration from the specified YAML file path.
// Configuration values can be overridden by environment variables.
// This function uses a singleton pattern and only loads the config once.
//
// Environment variables take precedence over YAML values. See Config struct
// for the list of supported environment variables.
//
// Example:
//
//	cfg, err := config.GetConfig("config.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("load config: %w; %s", err, desc)
			instance = nil
		}
	})
	return instance, err
}
