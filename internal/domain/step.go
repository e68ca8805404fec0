package domain

// Step — грубая позиция задачи в последовательности выполнения.
//
// Закрытая сумма типов: каждый вариант несёт ровно те данные,
// которые нужны последующим под-шагам. Переходы монотонны
// (Start → Warmup → Process → End), кроме явного Retry,
// который сбрасывает задачу в StepStart.
type Step interface {
	isStep()

	// Progress возвращает Progress-состояние, соответствующее шагу.
	Progress() ProgressState
}

// StepStart — начальный шаг. Безусловно переходит в StepWarmup.
type StepStart struct{}

// StepWarmup — проверка сессии, региона и чистоты корзины.
type StepWarmup struct{}

// StepProcess — основная фаза: наличие, корзина, оформление заказа.
// Cart накапливается под-шагом G и используется при отправке заказа.
type StepProcess struct {
	Cart Basket
}

// StepEnd — исход определён, осталось отправить уведомление.
// Content — ссылка на заказ/подтверждение либо описание отказа.
type StepEnd struct {
	Content string
	Cart    Basket
	Outcome Outcome
}

// StepMonitor — расширение после успешной оплаты (флаг Monitor):
// ожидание появления заказа в списке заказов аккаунта.
type StepMonitor struct {
	OrderID string
}

func (StepStart) isStep()   {}
func (StepWarmup) isStep()  {}
func (StepProcess) isStep() {}
func (StepEnd) isStep()     {}
func (StepMonitor) isStep() {}

func (StepStart) Progress() ProgressState   { return ProgressStart }
func (StepWarmup) Progress() ProgressState  { return ProgressWarmingUp }
func (StepProcess) Progress() ProgressState { return ProgressProcessing }
func (StepEnd) Progress() ProgressState     { return ProgressCompleting }
func (StepMonitor) Progress() ProgressState { return ProgressCompleting }

// OutcomeKind — вид исхода покупки.
type OutcomeKind string

const (
	// OutcomeSucceeded — заказ оформлен и оплачен.
	OutcomeSucceeded OutcomeKind = "SUCCEEDED"

	// OutcomeUserAction — требуется ручное подтверждение оплаты (3-D Secure).
	// Задача не считается проваленной.
	OutcomeUserAction OutcomeKind = "USER_ACTION"

	// OutcomeFailed — оплата отклонена.
	OutcomeFailed OutcomeKind = "FAILED"
)

// Outcome — исход покупки с признаком подтверждения оплаты.
// Confirmed имеет смысл только для OutcomeSucceeded: true, если
// контрольный запрос подтвердил успешное списание.
type Outcome struct {
	Kind      OutcomeKind
	Confirmed bool
}
