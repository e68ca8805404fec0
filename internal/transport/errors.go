package transport

import (
	"errors"
	"fmt"
)

// Ошибки сетевого уровня.
var (
	// ErrTimeout — дедлайн запроса истёк.
	ErrTimeout = errors.New("request timeout")

	// ErrConnection — сбой соединения (DNS, TLS, обрыв, прокси).
	ErrConnection = errors.New("connection error")
)

// BanKind — вид антибот-защиты, выдавшей челлендж.
type BanKind string

const (
	// BanVariti — защита Variti (префикс в заголовке Server).
	BanVariti BanKind = "Variti"

	// BanDDOSGuard — защита DDOS-Guard (заголовок Server плюс
	// подменённое тело ответа).
	BanDDOSGuard BanKind = "DDOS-Guard"
)

// BanError — обмен завершился челленджем антибот-защиты.
// Тело такого ответа никогда не отдаётся вызывающему коду:
// парсить страницу челленджа как данные нельзя.
type BanError struct {
	Kind BanKind
}

func (e *BanError) Error() string {
	return fmt.Sprintf("protection ban (%s)", e.Kind)
}

// TierMessage возвращает сообщение для оператора с меткой уровня —
// коротким тегом обмена, на котором произошёл сбой ("A", "H/URL", ...).
// Формат совпадает с историческим поведением: таймаут и ошибка
// соединения метку не несут.
func TierMessage(err error, tier string) string {
	var ban *BanError
	switch {
	case errors.Is(err, ErrTimeout):
		return "Timeout"
	case errors.As(err, &ban):
		if tier == "" {
			return "Protection Ban"
		}
		if ban.Kind == BanVariti {
			return fmt.Sprintf("Variti Ban (%s)", tier)
		}
		return fmt.Sprintf("Protection Ban (%s)", tier)
	default:
		return "Connection Error"
	}
}
