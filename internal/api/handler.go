package api

import (
	"log/slog"

	"github.com/Very1Fake/sdp.wildberries/internal/registry"
	"github.com/Very1Fake/sdp.wildberries/internal/store"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	registry *registry.Registry
	state    *store.State
	version  string
	logger   *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Registry *registry.Registry
	State    *store.State
	Version  string
	Logger   *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		registry: cfg.Registry,
		state:    cfg.State,
		version:  cfg.Version,
		logger:   logger,
	}
}
