// SDP engine — демон автоматизации покупок.
//
// Поднимает HTTP API управления задачами, планировщик партий из
// tasks.yaml и опциональные приёмники событий: зеркало в RabbitMQ
// (MQ_URL) и историю исходов в Postgres (DB_URL).
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/Very1Fake/sdp.wildberries/internal/api"
	"github.com/Very1Fake/sdp.wildberries/internal/domain"
	"github.com/Very1Fake/sdp.wildberries/internal/events"
	"github.com/Very1Fake/sdp.wildberries/internal/history"
	"github.com/Very1Fake/sdp.wildberries/internal/registry"
	"github.com/Very1Fake/sdp.wildberries/internal/scheduler"
	"github.com/Very1Fake/sdp.wildberries/internal/store"
	"github.com/Very1Fake/sdp.wildberries/internal/telemetry"
	"github.com/Very1Fake/sdp.wildberries/internal/transport"
	"github.com/Very1Fake/sdp.wildberries/internal/webhook"
)

// version задаётся через ldflags при сборке.
var version = "dev"

const sinkBuffer = 64

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting sdp-engine", "version", version)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Локальное состояние: аккаунты, прокси, настройки
	dataDir := os.Getenv("SDP_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	st := store.New(dataDir)

	state, err := store.LoadState(st)
	if err != nil {
		logger.Error("failed to load state", "error", err)
		os.Exit(1)
	}

	notifier := webhook.NewNotifier(webhook.Config{
		Footer: "SDP " + version,
	})

	reg := registry.New(registry.Config{
		Notifier: notifier,
		NewClient: func(proxy, session string) (transport.Sender, error) {
			return transport.NewClient(proxy, session)
		},
		Logger: logger,
	})

	group, groupCtx := errgroup.WithContext(ctx)

	// Приёмники событий
	var sinks []chan domain.Event

	if url := os.Getenv("MQ_URL"); url != "" {
		conn, err := events.Dial(url, logger)
		if err != nil {
			logger.Error("failed to connect to broker", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		mirrorCh := make(chan domain.Event, sinkBuffer)
		sinks = append(sinks, mirrorCh)

		mirror := events.NewMirror(conn, logger)
		group.Go(func() error {
			mirror.Run(groupCtx, mirrorCh)
			return nil
		})
		logger.Info("event mirror enabled")
	}

	if os.Getenv("DB_URL") != "" {
		pool, err := history.NewPool(ctx)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		repo := history.NewOutcomeRepo(pool)
		if err := repo.Migrate(ctx); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}

		historyCh := make(chan domain.Event, sinkBuffer)
		sinks = append(sinks, historyCh)

		recorder := history.NewRecorder(repo, reg.Get, logger)
		group.Go(func() error {
			recorder.Run(groupCtx, historyCh)
			return nil
		})
		logger.Info("outcome history enabled")
	}

	// Единый канал реестра разветвляется на все приёмники.
	// Отстающий приёмник теряет события, а не тормозит задачи.
	group.Go(func() error {
		for event := range reg.Events() {
			for _, sink := range sinks {
				select {
				case sink <- event:
				default:
					logger.Debug("event sink overflow", "task_id", event.TaskID)
				}
			}
		}
		return nil
	})

	// Планировщик партий из tasks.yaml
	sched := scheduler.New(scheduler.Config{
		Launcher: func(spec store.BatchSpec) {
			accounts, proxies, settings := state.Snapshot()
			ids := reg.CreateBatch(registry.Batch{
				Card:     domain.ProductCard{Name: fmt.Sprintf("Артикул %d", spec.Product)},
				Variant:  domain.Variant{ID: spec.Product},
				Size:     domain.Size{Name: spec.Size},
				Accounts: accounts,
				Proxies:  proxies,
				Settings: settings,
			})
			logger.Info("batch launched", "product", spec.Product, "tasks", len(ids))
		},
		Logger: logger,
	})

	batches, err := st.LoadBatches()
	if err != nil {
		logger.Error("failed to load batches", "error", err)
		os.Exit(1)
	}
	for _, batch := range batches {
		if err := sched.Add(batch); err != nil {
			logger.Error("failed to schedule batch", "error", err)
			os.Exit(1)
		}
	}
	if sched.Pending() > 0 {
		logger.Info("scheduler enabled", "batches", sched.Pending())
		group.Go(func() error {
			sched.Run(groupCtx)
			return nil
		})
	}

	// HTTP API + метрики
	mux := http.NewServeMux()
	api.NewHandler(api.Config{
		Registry: reg,
		State:    state,
		Version:  version,
		Logger:   logger,
	}).RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	group.Go(func() error {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}

		// Останавливает задачи и закрывает канал событий,
		// после чего завершается разветвитель.
		reg.Stop()
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("engine error", "error", err)
		os.Exit(1)
	}

	if err := state.Save(); err != nil {
		logger.Error("failed to save state", "error", err)
	}

	logger.Info("stopped")
}
