package main

import (
	"context"
	"flag"
	"time"

	"vendpay/config"
	"vendpay/internal"
	"vendpay/services"
)

func main() {

	logger := internal.NewLogger("main", false, nil)

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	logger.Info("using config file: " + *configPath)
	conf, err := config.GetConfig(*configPath)
	if err != nil {
		logger.Error("boot", err)
		return
	}

	var mongo services.Database
	if conf.Mongo.Enabled {
		client, err := internal.NewMongoClient(conf)
		if err != nil {
			logger.Error("mongo client", err)
			return
		}
		mongo = client
		logger.Info("mongo client initialized")
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Close(ctx); err != nil {
				logger.Error("mongo close", err)
			}
		}()
	}

	logStore, err := internal.NewFileLogStore(conf.Logs.Dir)
	if err != nil {
		logger.Error("log store", err)
		return
	}

	relay := internal.NewLogRelay(conf, logStore)
	relay.SetLogger(internal.NewLogger("relay", conf.IsDebug, mongo))
	relay.Start()
	defer relay.Stop()

	payments := internal.NewPayments(conf)
	payments.SetLogger(internal.NewLogger("payments", conf.IsDebug, mongo))
	payments.SetDatabase(mongo)

	server := internal.NewServer(conf)
	server.SetLogger(internal.NewLogger("server", conf.IsDebug, mongo))
	server.SetPaymentsService(payments)
	server.SetLogStore(logStore)

	err = server.Start()
	if err != nil {
		logger.Error("server start", err)
		return
	}

}
