package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/spendtrack/internal/config"
	"github.com/jask/spendtrack/internal/service"
	"github.com/jask/spendtrack/internal/storage"
	"github.com/jask/spendtrack/internal/store"
	"github.com/jask/spendtrack/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	backend, cleanup, err := openBackend(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer cleanup()

	st, err := store.Open(backend)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	if err := service.SeedDefaults(st); err != nil {
		log.Printf("warn: seed defaults: %v", err)
	}

	transfer := &service.TransferService{Store: st}

	p := tea.NewProgram(tui.New(st, transfer, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func openBackend(cfg config.Config) (storage.Backend, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Backend)) {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		b, err := storage.OpenSQLite(cfg.Storage.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := b.Migrate("internal/storage/migrations"); err != nil {
			_ = b.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return b, func() { _ = b.Close() }, nil
	default:
		b, err := storage.NewFileBackend(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		return b, func() {}, nil
	}
}
