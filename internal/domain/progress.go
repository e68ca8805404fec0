package domain

// ProgressState — состояние выполнения задачи.
//
// Жизненный цикл:
//
//	START → WARMING_UP → PROCESSING → COMPLETING → COMPLETE
//	                                             ↘ FAILED
//	      (любое нетерминальное) → ERROR → (Retry) → START
type ProgressState string

const (
	// ProgressStart — задача создана, цикл ещё не начал работу.
	ProgressStart ProgressState = "START"

	// ProgressWarmingUp — проверка сессии и подготовка состояния на сайте.
	ProgressWarmingUp ProgressState = "WARMING_UP"

	// ProgressProcessing — основная фаза покупки (корзина, оформление заказа).
	ProgressProcessing ProgressState = "PROCESSING"

	// ProgressCompleting — исход определён, отправляется уведомление.
	ProgressCompleting ProgressState = "COMPLETING"

	// ProgressComplete — задача успешно завершена. Терминальное состояние.
	ProgressComplete ProgressState = "COMPLETE"

	// ProgressFailed — попытка покупки окончательно провалена. Терминальное состояние.
	ProgressFailed ProgressState = "FAILED"

	// ProgressError — восстановимая ошибка. Оператор может нажать Retry.
	ProgressError ProgressState = "ERROR"
)

// Progress — внешне наблюдаемый статус задачи с опциональной деталью.
type Progress struct {
	State  ProgressState `json:"state"`
	Detail string        `json:"detail,omitempty"`
}

// NewProgress создаёт Progress без детали.
func NewProgress(state ProgressState) Progress {
	return Progress{State: state}
}

// ProgressWith создаёт Progress с деталью.
func ProgressWith(state ProgressState, detail string) Progress {
	return Progress{State: state, Detail: detail}
}

// IsTerminal возвращает true, если статус финальный:
// после него цикл задачи не выполняет сетевых обменов.
// ERROR не терминален — задачу можно перезапустить вручную.
func (p Progress) IsTerminal() bool {
	switch p.State {
	case ProgressComplete, ProgressFailed:
		return true
	default:
		return false
	}
}

// String возвращает человекочитаемое представление для UI и логов.
func (p Progress) String() string {
	label := map[ProgressState]string{
		ProgressStart:      "Starting",
		ProgressWarmingUp:  "Warming Up",
		ProgressProcessing: "Processing",
		ProgressCompleting: "Completing",
		ProgressComplete:   "Complete",
		ProgressFailed:     "Failed",
		ProgressError:      "Error",
	}[p.State]

	if label == "" {
		label = string(p.State)
	}
	if p.Detail == "" {
		return label
	}
	return label + ": " + p.Detail
}
