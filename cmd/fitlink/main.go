package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/viper"

	"github.com/fitlink/fitlink-go/core"
	"github.com/fitlink/fitlink-go/logger"
	"github.com/fitlink/fitlink-go/store"
)

func main() {
	configPath := flag.String("c", "", "Path to config file (default searches ./config.yaml, /etc/fitlink/config.yaml, etc.)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := initLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Logger().Info("Shutting down fitlink service")

	basePath := cfg.System.BasePath
	if basePath == "" {
		basePath = "."
	}

	identity := store.NewIdentityStore(basePath)

	history, err := store.OpenHistory(filepath.Join(basePath, "history.db"))
	if err != nil {
		logger.Error("Failed to open history database", "error", err)
		os.Exit(1)
	}
	defer history.Close()
	if err := history.Migrate(); err != nil {
		logger.Error("Failed to migrate history database", "error", err)
		os.Exit(1)
	}

	client, err := core.NewClient(cfg, identity, history, logger.Logger())
	if err != nil {
		logger.Error("Failed to create client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close client", "error", err)
		}
	}()

	// Log connection state transitions for operators.
	states, unsubStates := client.Subscribe(core.EventConnState)
	defer unsubStates()
	go func() {
		for evt := range states {
			logger.Info("Connection state changed", "state", evt.Data)
		}
	}()

	logger.Info("Starting fitlink service")
	client.Connect()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Received signal, shutting down", "signal", sig)
}

// loadConfig loads the YAML config from the given path, or from the default
// search paths when none is given.
func loadConfig(configPath string) (core.Config, error) {
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/fitlink")
	}

	if err := viper.ReadInConfig(); err != nil {
		return core.Config{}, fmt.Errorf("failed to read config: %v", err)
	}

	var cfg core.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return core.Config{}, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	return cfg, nil
}

func initLogger(cfg core.Config) error {
	logCfg := logger.Config{
		Level:   cfg.Logging.Level,
		Outputs: cfg.Logging.Outputs,
	}

	if viper.GetBool("debug") {
		logCfg.Level = "debug"
		logCfg.Outputs = []string{"stdout"}
	}

	return logger.Init(logCfg)
}
