package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mwheeler/sessiondb/internal/command"
	"github.com/mwheeler/sessiondb/internal/logging"
	"github.com/mwheeler/sessiondb/internal/persistence"
	"github.com/mwheeler/sessiondb/internal/server"
	"github.com/mwheeler/sessiondb/internal/store"
)

func main() {
	port := flag.String("port", server.DefaultPort, "Port to listen on")
	settingsFile := flag.String("settings", "", "Settings file to load at startup")
	hashName := flag.String("hash", "crc32", "Bucket hash: crc32, xxhash")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFile := flag.String("log-file", "", "Log to this file with rotation instead of stderr")
	saveOnShutdown := flag.Bool("save-on-shutdown", false, "Write settings back to the settings file on shutdown")
	flag.Parse()

	logger, err := logging.New(*logLevel, *logFile)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logger.Sync()

	var opts []store.HashTableOption
	switch *hashName {
	case "crc32":
	case "xxhash":
		opts = append(opts, store.WithHashFunc(store.XXHash))
	default:
		logger.Fatal("unknown hash", zap.String("hash", *hashName))
	}

	dataStore := store.NewStore(opts...)

	if *settingsFile != "" {
		applied, err := persistence.LoadSettings(*settingsFile, dataStore)
		if err != nil {
			logger.Warn("failed to load settings",
				zap.String("file", *settingsFile),
				zap.Error(err))
		} else {
			logger.Info("settings loaded",
				zap.String("file", *settingsFile),
				zap.Int("pairs", applied),
				zap.Int("keys", dataStore.Len()))
		}
	}

	srv := server.NewServer(logger)
	srv.RegisterCommand("PING", command.PingCommand)
	srv.RegisterCommand("GET", command.GetCommand(dataStore))
	srv.RegisterCommand("SET", command.SetCommand(dataStore))
	srv.RegisterCommand("KEYS", command.KeysCommand(dataStore))
	srv.RegisterCommand("COUNT", command.CountCommand(dataStore))
	srv.RegisterCommand("SAVE", command.SaveCommand(dataStore, *settingsFile))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return srv.Start(*port)
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigChan:
			logger.Info("shutting down", zap.String("signal", sig.String()))
			if *saveOnShutdown && *settingsFile != "" {
				if err := persistence.SaveSettings(*settingsFile, dataStore); err != nil {
					logger.Error("failed to save settings", zap.Error(err))
				}
			}
			return srv.Stop()
		}
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}

	dataStore.Destroy()
}
