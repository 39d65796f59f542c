package main

import (
	"flag"
	"fmt"
	"net/http"

	"github.com/iwvelando/capital-metrics/internal/logging"
	"github.com/iwvelando/capital-metrics/internal/server"
	"github.com/iwvelando/capital-metrics/pkg/constants"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override (e.g. :8080)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := logging.Initialize(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	listenAddress := conf.Address
	if *address != "" {
		listenAddress = *address
	}

	handler := server.NewHandler(logger, conf.UploadSizeBytes(), version)

	logger.Info("starting appraisal server",
		zap.String("op", "main"),
		zap.String("address", listenAddress),
		zap.String("version", version),
	)

	if err := http.ListenAndServe(listenAddress, handler); err != nil {
		logger.Fatal("server exited",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
