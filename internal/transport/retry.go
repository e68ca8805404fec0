package transport

import (
	"context"
	"errors"

	"github.com/Very1Fake/sdp.wildberries/internal/telemetry"
)

// DefaultBanRetries — число дополнительных попыток при бане.
// Детект антибот-защиты вероятностный и часто проходит с немедленного
// повтора, поэтому бан повторяется молча. Таймауты и ошибки соединения
// не повторяются: это проблема окружения, решение за оператором.
const DefaultBanRetries = 3

// Retrier повторяет один и тот же обмен при бане антибот-защиты.
type Retrier struct {
	// Retries — число дополнительных попыток после первой.
	Retries int
}

// NewRetrier создаёт Retrier с границей по умолчанию.
func NewRetrier() Retrier {
	return Retrier{Retries: DefaultBanRetries}
}

// Do выполняет обмен через s, повторяя его при *BanError до границы.
// Любая другая ошибка возвращается сразу. Если бан не прошёл за все
// попытки — возвращается последний *BanError как терминальный.
func (r Retrier) Do(ctx context.Context, s Sender, req Request) (*Response, error) {
	var last error

	for attempt := 0; attempt <= r.Retries; attempt++ {
		resp, err := s.Do(ctx, req)
		if err == nil {
			return resp, nil
		}

		var ban *BanError
		if !errors.As(err, &ban) {
			return nil, err
		}
		telemetry.Bans.WithLabelValues(string(ban.Kind)).Inc()
		last = err
	}

	return nil, last
}
