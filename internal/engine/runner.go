package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
	"github.com/Very1Fake/sdp.wildberries/internal/telemetry"
	"github.com/Very1Fake/sdp.wildberries/internal/transport"
)

// Адреса внутреннего API сайта.
const (
	siteBase = "https://www.wildberries.ru"

	urlPersonalData  = siteBase + "/lk/personalcabinet/data"
	urlUserLocation  = siteBase + "/geo/getuserlocationinfo"
	urlBasketData    = siteBase + "/lk/basket/data"
	urlBasketDelete  = siteBase + "/lk/basket/spa/delete"
	urlAddToBasket   = siteBase + "/product/addtobasket"
	urlSubmitOrder   = siteBase + "/lk/basket/spa/submitorder"
	urlPaymentFail   = siteBase + "/lk/payment/fail"
	urlOrderConfirm  = siteBase + "/lk/order/confirmed/data"
	urlOrderList     = siteBase + "/lk/myorders/delivery/data"
	refererCabinet   = siteBase + "/lk"
	refererLogin     = siteBase + "/login?returnUrl=https://wildberries.ru/"
	refererBasket    = siteBase + "/lk/basket"
	paymentFailMark  = "payment/fail"
	bankConfirmStart = "https://beta.paywb.com"
)

// Параметры мониторинга заказа после успешной оплаты.
const (
	monitorInterval = 5 * time.Second
	monitorAttempts = 12
)

// Notifier — исходящие уведомления. Реализуется webhook.Notifier.
type Notifier interface {
	SendOutcome(ctx context.Context, task *domain.Task, outcome domain.Outcome, content string, cart domain.Basket, startedAt time.Time) error
	SendOrderDetected(ctx context.Context, task *domain.Task, orderID string, startedAt time.Time) error
}

// Config — конфигурация Runner.
type Config struct {
	// Task — снапшот входных данных задачи.
	Task *domain.Task

	// Client — HTTP-клиент задачи (эксклюзивное владение).
	Client transport.Sender

	// Retrier — политика повторов при банах.
	Retrier transport.Retrier

	// Notifier — отправка уведомлений об исходе.
	Notifier Notifier

	// Resume — шаг, с которого продолжить (nil — с начала).
	// Используется при Retry после ошибки доставки уведомления:
	// повторяется только End, заказ заново не отправляется.
	Resume domain.Step

	// Emit — приёмник событий прогресса.
	Emit func(domain.Progress)

	// Logger.
	Logger *slog.Logger
}

// Runner — цикл выполнения одной задачи. Все обмены строго
// последовательны: следующий под-шаг зависит от предыдущего ответа.
type Runner struct {
	task     *domain.Task
	client   transport.Sender
	retrier  transport.Retrier
	notifier Notifier
	emit     func(domain.Progress)
	logger   *slog.Logger

	step      domain.Step
	substep   int
	startedAt time.Time
	stopped   bool

	// size — разрешённый размер товара. Партии из tasks.yaml задают
	// размер именем, ID уточняется на проверке наличия.
	size domain.Size

	// resume — точка продолжения для Retry (StepEnd после
	// ошибки вебхука, иначе nil).
	resume domain.Step
}

// NewRunner создаёт Runner.
func NewRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var step domain.Step = domain.StepStart{}
	if cfg.Resume != nil {
		step = cfg.Resume
	}

	emit := cfg.Emit
	if emit == nil {
		emit = func(domain.Progress) {}
	}

	return &Runner{
		task:      cfg.Task,
		client:    cfg.Client,
		retrier:   cfg.Retrier,
		notifier:  cfg.Notifier,
		emit:      emit,
		logger:    telemetry.WithTaskID(logger, cfg.Task.ID),
		step:      step,
		startedAt: time.Now(),
		size:      cfg.Task.Size,
	}
}

// Resume возвращает шаг, с которого задачу можно продолжить после
// восстановимой ошибки. Nil — продолжать с начала (StepStart).
func (r *Runner) Resume() domain.Step {
	return r.resume
}

// Run ведёт задачу до терминального состояния либо восстановимой
// ошибки. Отмена кооперативная: контекст проверяется на границе
// каждой итерации, запрос в полёте не прерывается принудительно.
func (r *Runner) Run(ctx context.Context) {
	for !r.stopped {
		if ctx.Err() != nil {
			r.logger.Debug("task loop cancelled")
			return
		}

		progress := r.iterate(ctx)
		if ctx.Err() != nil {
			return
		}
		r.emit(progress)
	}
}

// iterate выполняет под-шаги до смены шага, ошибки или терминала
// и возвращает новый Progress для публикации.
func (r *Runner) iterate(ctx context.Context) domain.Progress {
	for {
		if ctx.Err() != nil {
			return r.task.Progress
		}

		var act action

		switch step := r.step.(type) {
		case domain.StepStart:
			act = moveTo(domain.StepWarmup{}, "")
		case domain.StepWarmup:
			act = r.warmup(ctx)
		case domain.StepProcess:
			act = r.process(ctx, &step)
			r.step = step // Cart накапливается под-шагами
		case domain.StepEnd:
			act = r.end(ctx, step)
		case domain.StepMonitor:
			act = r.monitor(ctx, step)
		}

		switch act.kind {
		case actContinue:
			r.substep++
		case actJump:
			r.substep = act.jump
		case actMove:
			r.step = act.step
			r.substep = 0
			r.logger.Debug("step transition", "progress", act.step.Progress())
			return domain.ProgressWith(act.step.Progress(), act.note)
		case actError:
			r.stopped = true
			r.logger.Warn("task error", "detail", act.note)
			return domain.ProgressWith(domain.ProgressError, act.note)
		case actComplete:
			r.stopped = true
			r.logger.Info("task complete", "detail", act.note)
			return domain.ProgressWith(domain.ProgressComplete, act.note)
		case actFailed:
			r.stopped = true
			r.logger.Info("task failed", "detail", act.note)
			return domain.ProgressWith(domain.ProgressFailed, act.note)
		}
	}
}

// send выполняет один обмен через политику повторов.
// При сетевой ошибке или неотбитом бане возвращает готовый action.
func (r *Runner) send(ctx context.Context, tier string, req transport.Request) (*transport.Response, action, bool) {
	telemetry.Exchanges.WithLabelValues(string(r.step.Progress())).Inc()

	resp, err := r.retrier.Do(ctx, r.client, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, action{}, false
		}
		return nil, errorAct(transport.TierMessage(err, tier)), false
	}
	return resp, action{}, true
}

// sendParsed — обмен плюс разбор конверта ответа.
func (r *Runner) sendParsed(ctx context.Context, tier string, req transport.Request) (*domain.ResponseResult, action, bool) {
	resp, act, ok := r.send(ctx, tier, req)
	if !ok {
		return nil, act, false
	}

	result, err := domain.ParseResult(resp.Body)
	if err != nil {
		return nil, errorAct(badResponse(tier)), false
	}
	return result, action{}, true
}

// delay возвращает человекоподобную паузу перед запросом.
func (r *Runner) delay(lo, hi int) time.Duration {
	return transport.HumanDelay(r.task.Flags.Humanized, lo, hi)
}
