package domain

// Webhook — адресат исходящих уведомлений (Discord-совместимый).
type Webhook struct {
	ID    uint64 `json:"id"`
	Token string `json:"token"`
}

// IsZero возвращает true, если webhook не настроен.
func (w Webhook) IsZero() bool {
	return w.ID == 0 && w.Token == ""
}

// Settings — глобальные настройки приложения.
//
// Запущенные задачи настроек не видят: при создании задачи снимается
// неизменяемый снапшот (ProxyMode уходит в распределение прокси,
// флаги — в Task.Flags), поэтому правки на лету не влияют на уже
// работающие задачи.
type Settings struct {
	Webhook   Webhook   `json:"webhook"`
	ProxyMode ProxyMode `json:"proxy_mode"`

	// Limiter — человекоподобные задержки перед запросами.
	Limiter bool `json:"limiter"`

	// Force — терпимость к аномалиям корзины.
	Force bool `json:"force"`

	// Checker — мониторинг появления заказа после успешной оплаты.
	Checker bool `json:"checker"`
}

// DefaultSettings возвращает настройки по умолчанию.
func DefaultSettings() Settings {
	return Settings{
		ProxyMode: ProxyRepeat,
		Limiter:   true,
		Force:     false,
		Checker:   true,
	}
}

// TaskFlags возвращает снапшот поведенческих флагов для новой задачи.
func (s Settings) TaskFlags() Flags {
	return Flags{
		Humanized: s.Limiter,
		Force:     s.Force,
		Monitor:   s.Checker,
	}
}
