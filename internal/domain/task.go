package domain

import (
	"time"
)

// Flags — поведенческие флаги задачи, скопированные из настроек при создании.
type Flags struct {
	// Humanized — случайные паузы перед запросами, имитирующие человека.
	Humanized bool `json:"humanized"`

	// Force — продолжать при аномалиях состояния корзины
	// (чужие товары вычищаются вместо остановки задачи).
	Force bool `json:"force"`

	// Monitor — после успешной оплаты следить за появлением заказа
	// в списке заказов аккаунта.
	Monitor bool `json:"monitor"`
}

// Task — одна попытка автоматической покупки.
//
// Неизменяемые входные данные задаются при создании и не меняются
// до удаления задачи; Retry не затрагивает их. Изменяемое состояние
// (Progress) обновляется только циклом выполнения через Registry.
type Task struct {
	// ID — уникальный идентификатор, выдаётся Registry, монотонно растёт.
	ID uint64 `json:"id"`

	// Proxy — адрес прокси ("" — без прокси). Копия на момент создания:
	// последующие правки списка прокси не влияют на запущенную задачу.
	Proxy string `json:"proxy,omitempty"`

	// Card, Variant, Size — целевой товар.
	Card    ProductCard `json:"card"`
	Variant Variant     `json:"variant"`
	Size    Size        `json:"size"`

	// Account — учётные данные (телефон + токен сессии), копия.
	Account Account `json:"account"`

	// Webhook — получатель уведомления о финальном исходе.
	Webhook Webhook `json:"webhook"`

	// Flags — поведенческие флаги.
	Flags Flags `json:"flags"`

	// Progress — текущий наблюдаемый статус.
	Progress Progress `json:"progress"`

	// CreatedAt — время создания задачи.
	CreatedAt time.Time `json:"created_at"`
}

// SizeLabel возвращает имя размера для уведомлений и UI.
// У безразмерных товаров (единственный размер) показывается "-".
func (t *Task) SizeLabel() string {
	if len(t.Variant.Sizes) == 1 {
		return "-"
	}
	return t.Size.Name
}

// Event — элемент потока прогресса, потребляемого вызывающей стороной.
type Event struct {
	TaskID   uint64   `json:"task_id"`
	Progress Progress `json:"progress"`
}
