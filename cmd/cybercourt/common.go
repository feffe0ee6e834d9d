package main

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/openveritas/cybercourt/internal/config"
	"github.com/openveritas/cybercourt/internal/courtapi"
	"github.com/openveritas/cybercourt/internal/identity"
	"github.com/openveritas/cybercourt/internal/store"
)

// env bundles everything a command needs: config, the resolved install
// identity, the local database, and the backend client.
type env struct {
	cfg     config.Config
	userID  string
	db      *sql.DB
	store   *store.Store
	backend *courtapi.Client
	close   func()
}

func setupEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Identity resolves before anything that flags or subscribes.
	userID, err := identity.Load(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve install identity: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "cybercourt.db")
	storeDB, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	backend, err := courtapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, nil)
	if err != nil {
		_ = storeDB.Close()
		return nil, err
	}

	return &env{
		cfg:     cfg,
		userID:  userID,
		db:      storeDB,
		store:   store.New(storeDB),
		backend: backend,
		close:   func() { _ = storeDB.Close() },
	}, nil
}
