package main

import (
	"fmt"

	"github.com/nikbrunner/linkbox/internal/config"
	"github.com/nikbrunner/linkbox/internal/logger"
	"github.com/nikbrunner/linkbox/internal/metadata"
	"github.com/nikbrunner/linkbox/internal/state"
	"github.com/nikbrunner/linkbox/internal/storage"
)

// app holds the dependencies shared by all commands.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	backend storage.Backend
	store   *state.Store
	fetcher metadata.Fetcher
}

// open loads config and wires logger, backend, repository and store.
func (a *app) open(configPath string) error {
	if configPath == "" {
		var err error
		configPath, err = config.DefaultPath()
		if err != nil {
			return fmt.Errorf("config path: %w", err)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.PrettyLog)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	backend, err := storage.Open(cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	repo := storage.NewRepository(backend, log)
	store := state.New(repo, log)
	store.Init()

	a.cfg = cfg
	a.log = log
	a.backend = backend
	a.store = store
	a.fetcher = metadata.NewFetcher(cfg.Metadata, log)

	log.Debug("linkbox ready",
		logger.String("config", configPath),
		logger.String("backend", cfg.Storage.Backend))
	return nil
}

func (a *app) close() {
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.log.Error("failed to close storage", logger.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
