package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
)

// Outcome — запись журнала об одном финише задачи.
type Outcome struct {
	ID         int64     `json:"id"`
	TaskID     uint64    `json:"task_id"`
	Account    string    `json:"account"`
	Product    string    `json:"product"`
	Variant    string    `json:"variant"`
	Size       string    `json:"size"`
	State      string    `json:"state"`
	Detail     string    `json:"detail"`
	FinishedAt time.Time `json:"finished_at"`
}

// OutcomeRepo — репозиторий журнала исходов.
type OutcomeRepo struct {
	pool *pgxpool.Pool
}

// NewOutcomeRepo создаёт OutcomeRepo.
func NewOutcomeRepo(pool *pgxpool.Pool) *OutcomeRepo {
	return &OutcomeRepo{pool: pool}
}

// Migrate создаёт таблицу журнала, если её нет.
func (r *OutcomeRepo) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS task_outcomes (
			id          BIGSERIAL PRIMARY KEY,
			task_id     BIGINT NOT NULL,
			account     TEXT NOT NULL,
			product     TEXT NOT NULL,
			variant     TEXT NOT NULL,
			size        TEXT NOT NULL,
			state       TEXT NOT NULL,
			detail      TEXT NOT NULL DEFAULT '',
			finished_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("migrate task_outcomes: %w", err)
	}
	return nil
}

// Record записывает финиш задачи в журнал.
func (r *OutcomeRepo) Record(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO task_outcomes (task_id, account, product, variant, size, state, detail, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Account.Phone,
		task.Card.Name,
		task.Variant.Name,
		task.SizeLabel(),
		string(task.Progress.State),
		task.Progress.Detail,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// List возвращает последние записи журнала, новые сверху.
func (r *OutcomeRepo) List(ctx context.Context, limit int) ([]Outcome, error) {
	query := `
		SELECT id, task_id, account, product, variant, size, state, detail, finished_at
		FROM task_outcomes
		ORDER BY finished_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var o Outcome
		if err := rows.Scan(&o.ID, &o.TaskID, &o.Account, &o.Product, &o.Variant,
			&o.Size, &o.State, &o.Detail, &o.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// Recorder пишет терминальные события из потока Registry в журнал.
//
// Нетерминальные события пропускаются. Чтобы записать полные данные
// задачи, Recorder ходит за снапшотом в Registry по идентификатору.
type Recorder struct {
	repo   *OutcomeRepo
	lookup func(id uint64) (domain.Task, error)
	logger *slog.Logger
}

// NewRecorder создаёт Recorder. lookup — доступ к снапшотам задач.
func NewRecorder(repo *OutcomeRepo, lookup func(id uint64) (domain.Task, error), logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, lookup: lookup, logger: logger}
}

// Run потребляет поток событий до закрытия канала или отмены контекста.
// Ошибки записи логируются и не прерывают поток.
func (r *Recorder) Run(ctx context.Context, events <-chan domain.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if !event.Progress.IsTerminal() {
				continue
			}

			task, err := r.lookup(event.TaskID)
			if err != nil {
				r.logger.Warn("outcome lookup failed", "task_id", event.TaskID, "error", err)
				continue
			}
			task.Progress = event.Progress

			if err := r.repo.Record(ctx, &task); err != nil {
				r.logger.Warn("outcome record failed", "task_id", event.TaskID, "error", err)
			}
		}
	}
}
