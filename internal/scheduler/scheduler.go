package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Very1Fake/sdp.wildberries/internal/store"
)

// Интервал тиков по умолчанию.
const defaultTickInterval = time.Second

// Launcher запускает одну партию задач. Вызывается из цикла тиков.
type Launcher func(spec store.BatchSpec)

// entry — партия в расписании.
type entry struct {
	spec store.BatchSpec

	// next — ближайший момент запуска (нулевой — запуск на первом тике).
	next time.Time

	// recurring — cron-партия, после запуска перепланируется.
	recurring bool

	// done — разовая партия уже запущена.
	done bool
}

// Scheduler держит расписание партий и запускает созревшие.
type Scheduler struct {
	launcher Launcher
	logger   *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	entries []*entry
}

// Config — конфигурация Scheduler.
type Config struct {
	// Launcher — запуск партии (обязателен).
	Launcher Launcher

	// TickInterval — период проверки расписания (default: 1s).
	TickInterval time.Duration

	// Logger.
	Logger *slog.Logger
}

// New создаёт Scheduler.
func New(cfg Config) *Scheduler {
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = defaultTickInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		launcher: cfg.Launcher,
		logger:   logger,
		interval: interval,
	}
}

// Add ставит партию в расписание.
func (s *Scheduler) Add(spec store.BatchSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	e := &entry{spec: spec}

	switch {
	case spec.Cron != "":
		next, err := nextCron(spec.Cron, time.Now())
		if err != nil {
			return err
		}
		e.next = next
		e.recurring = true

	case spec.StartAt != "":
		start, ok := spec.StartTime()
		if !ok {
			return fmt.Errorf("batch: bad start_at %q", spec.StartAt)
		}
		e.next = start
	}

	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()

	s.logger.Info("batch scheduled",
		"product", spec.Product,
		"start_at", spec.StartAt,
		"cron", spec.Cron,
	)
	return nil
}

// Run ведёт цикл тиков до отмены контекста.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Первый тик сразу: немедленные партии не ждут интервала.
	s.Tick(time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

// Tick запускает все созревшие к моменту now партии и возвращает
// их количество. Ошибка перепланирования cron-партии отключает её.
func (s *Scheduler) Tick(now time.Time) int {
	s.mu.Lock()
	var due []*entry
	for _, e := range s.entries {
		if e.done || e.next.After(now) {
			continue
		}

		due = append(due, e)

		if !e.recurring {
			e.done = true
			continue
		}

		next, err := nextCron(e.spec.Cron, now)
		if err != nil {
			s.logger.Error("reschedule failed, batch disabled",
				"product", e.spec.Product, "error", err)
			e.done = true
			continue
		}
		e.next = next
	}
	s.mu.Unlock()

	for _, e := range due {
		s.logger.Info("batch due", "product", e.spec.Product)
		s.launcher(e.spec)
	}
	return len(due)
}

// Pending возвращает число партий, ожидающих запуска.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.entries {
		if !e.done {
			n++
		}
	}
	return n
}
