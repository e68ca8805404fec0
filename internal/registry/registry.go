package registry

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Very1Fake/sdp.wildberries/internal/assign"
	"github.com/Very1Fake/sdp.wildberries/internal/domain"
	"github.com/Very1Fake/sdp.wildberries/internal/engine"
	"github.com/Very1Fake/sdp.wildberries/internal/telemetry"
	"github.com/Very1Fake/sdp.wildberries/internal/transport"
)

// Размер буфера канала событий по умолчанию.
const defaultEventBuffer = 64

var (
	// ErrNotFound — задачи с таким идентификатором нет.
	ErrNotFound = errors.New("task not found")

	// ErrRunning — операция недопустима для выполняющейся задачи.
	ErrRunning = errors.New("task is still running")

	// ErrTerminal — задача уже финишировала, повтор невозможен.
	ErrTerminal = errors.New("task already finished")
)

// ClientFactory создаёт HTTP-клиент задачи. Клиент принадлежит
// задаче эксклюзивно и не переиспользуется.
type ClientFactory func(proxy, session string) (transport.Sender, error)

// Config — конфигурация Registry.
type Config struct {
	// Notifier — отправка уведомлений об исходах.
	Notifier engine.Notifier

	// NewClient — фабрика клиентов (по умолчанию transport.NewClient).
	NewClient ClientFactory

	// EventBuffer — ёмкость канала событий.
	EventBuffer int

	// Logger.
	Logger *slog.Logger
}

// Batch — партия задач: один товар, по задаче на активный аккаунт.
// Списки аккаунтов и прокси и настройки снимаются на момент создания.
type Batch struct {
	Card     domain.ProductCard
	Variant  domain.Variant
	Size     domain.Size
	Accounts []domain.Account
	Proxies  []domain.Proxy
	Settings domain.Settings
}

// entry — живая задача со своим циклом выполнения.
type entry struct {
	task    *domain.Task
	cancel  context.CancelFunc
	done    chan struct{}
	running bool

	// resume — точка продолжения после ошибки вебхука.
	resume domain.Step
}

// Registry владеет задачами и их горутинами.
//
// Все операции потокобезопасны. События прогресса всех задач
// сливаются в единый канал Events; медленный потребитель не
// блокирует выполнение (события при переполнении отбрасываются).
type Registry struct {
	notifier  engine.Notifier
	newClient ClientFactory
	logger    *slog.Logger

	mu     sync.RWMutex
	tasks  map[uint64]*entry
	nextID uint64
	closed bool

	events chan domain.Event
	wg     sync.WaitGroup
}

// New создаёт Registry.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	newClient := cfg.NewClient
	if newClient == nil {
		newClient = func(proxy, session string) (transport.Sender, error) {
			return transport.NewClient(proxy, session)
		}
	}

	buffer := cfg.EventBuffer
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}

	return &Registry{
		notifier:  cfg.Notifier,
		newClient: newClient,
		logger:    logger,
		tasks:     make(map[uint64]*entry),
		events:    make(chan domain.Event, buffer),
	}
}

// Events — поток событий прогресса всех задач.
func (r *Registry) Events() <-chan domain.Event {
	return r.events
}

// CreateBatch создаёт и запускает задачи партии: по одной на активный
// аккаунт, с прокси согласно режиму из настроек. Возвращает
// идентификаторы созданных задач.
func (r *Registry) CreateBatch(batch Batch) []uint64 {
	assignments := assign.Pair(batch.Accounts, batch.Proxies, batch.Settings.ProxyMode)
	flags := batch.Settings.TaskFlags()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	ids := make([]uint64, 0, len(assignments))
	for _, a := range assignments {
		r.nextID++

		task := &domain.Task{
			ID:        r.nextID,
			Proxy:     a.Proxy,
			Card:      batch.Card,
			Variant:   batch.Variant,
			Size:      batch.Size,
			Account:   a.Account,
			Webhook:   batch.Settings.Webhook,
			Flags:     flags,
			Progress:  domain.NewProgress(domain.ProgressStart),
			CreatedAt: time.Now(),
		}

		e := &entry{task: task}
		r.tasks[task.ID] = e
		r.start(e, nil)

		telemetry.TasksCreated.Inc()
		ids = append(ids, task.ID)
	}

	r.logger.Info("batch created", "tasks", len(ids), "product", batch.Card.Name)
	return ids
}

// start запускает цикл выполнения задачи. Вызывается под r.mu.
func (r *Registry) start(e *entry, resume domain.Step) {
	client, err := r.newClient(e.task.Proxy, e.task.Account.Token)
	if err != nil {
		e.task.Progress = domain.ProgressWith(domain.ProgressError, "Invalid proxy")
		r.logger.Warn("client setup failed", "task_id", e.task.ID, "err", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done
	e.running = true
	e.resume = nil

	runner := engine.NewRunner(engine.Config{
		Task:     e.task,
		Client:   client,
		Retrier:  transport.NewRetrier(),
		Notifier: r.notifier,
		Resume:   resume,
		Emit: func(p domain.Progress) {
			r.publish(e, p)
		},
		Logger: r.logger,
	})

	telemetry.TasksActive.Inc()
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		defer cancel()

		runner.Run(ctx)

		r.mu.Lock()
		e.running = false
		e.resume = runner.Resume()
		r.mu.Unlock()

		telemetry.TasksActive.Dec()
		close(done)
	}()
}

// publish обновляет статус задачи и отдаёт событие потребителям.
func (r *Registry) publish(e *entry, p domain.Progress) {
	r.mu.Lock()
	e.task.Progress = p
	r.mu.Unlock()

	if p.IsTerminal() {
		telemetry.TasksFinished.WithLabelValues(string(p.State)).Inc()
	}

	select {
	case r.events <- domain.Event{TaskID: e.task.ID, Progress: p}:
	default:
		r.logger.Debug("event dropped, consumer too slow", "task_id", e.task.ID)
	}
}

// List возвращает снапшоты всех задач, упорядоченные по идентификатору.
func (r *Registry) List() []domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]domain.Task, 0, len(r.tasks))
	for _, e := range r.tasks {
		list = append(list, *e.task)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Get возвращает снапшот задачи.
func (r *Registry) Get(id uint64) (domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	return *e.task, nil
}

// Retry перезапускает задачу после восстановимой ошибки.
//
// Обычно задача сбрасывается в начало. Исключение: после ошибки
// доставки уведомления повторяется только завершающий шаг, заказ
// заново не отправляется. Терминальные задачи повторить нельзя.
func (r *Registry) Retry(id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tasks[id]
	if !ok {
		return ErrNotFound
	}
	if e.running {
		return ErrRunning
	}
	if e.task.Progress.IsTerminal() {
		return ErrTerminal
	}

	resume := e.resume
	if resume != nil {
		e.task.Progress = domain.NewProgress(domain.ProgressCompleting)
	} else {
		e.task.Progress = domain.NewProgress(domain.ProgressStart)
	}

	r.logger.Info("task retried", "task_id", id, "resumed", resume != nil)
	r.start(e, resume)
	return nil
}

// Delete останавливает и удаляет задачу. Выполняющаяся задача
// отменяется; вызов возвращается после остановки её горутины.
func (r *Registry) Delete(id uint64) error {
	r.mu.Lock()
	e, ok := r.tasks[id]
	if !ok {
		r.mu.Unlock()
		return ErrNotFound
	}

	delete(r.tasks, id)
	running := e.running
	r.mu.Unlock()

	if running {
		e.cancel()
		<-e.done
	}

	r.logger.Info("task deleted", "task_id", id)
	return nil
}

// Stop отменяет все задачи, дожидается их горутин и закрывает
// канал событий. Registry после Stop не переиспользуется.
func (r *Registry) Stop() {
	r.mu.Lock()
	r.closed = true
	for _, e := range r.tasks {
		if e.running {
			e.cancel()
		}
	}
	r.mu.Unlock()

	r.wg.Wait()
	close(r.events)

	r.logger.Info("registry stopped")
}
