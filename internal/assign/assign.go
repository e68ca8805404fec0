package assign

import (
	"github.com/Very1Fake/sdp.wildberries/internal/domain"
)

// Assignment — сетевая идентичность одной новой задачи.
type Assignment struct {
	// Account — выбранный активный аккаунт.
	Account domain.Account

	// Proxy — адрес прокси ("" — задача идёт без прокси).
	Proxy string
}

// Pair сопоставляет каждому активному аккаунту ноль-или-один прокси
// согласно режиму.
//
// Аккаунты обходятся в обратном порядке списка. В режиме Strict, когда
// активных прокси меньше, чем аккаунтов, начало обхода пропускается
// (skip = accounts − proxies), чтобы хвосты списков совпали 1:1.
// Ноль активных прокси — все задачи без прокси в любом режиме.
func Pair(accounts []domain.Account, proxies []domain.Proxy, mode domain.ProxyMode) []Assignment {
	active := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Active {
			active = append(active, a)
		}
	}

	pool := make([]string, 0, len(proxies))
	for _, p := range proxies {
		if p.Active {
			pool = append(pool, p.Address)
		}
	}

	skip := 0
	if mode == domain.ProxyStrict && len(pool) > 0 && len(pool) < len(active) {
		skip = len(active) - len(pool)
	}

	result := make([]Assignment, 0, len(active))
	i := 0

	for idx := len(active) - 1; idx >= 0; idx-- {
		if skip > 0 {
			skip--
			continue
		}

		assignment := Assignment{Account: active[idx]}

		if len(pool) > 0 {
			switch mode {
			case domain.ProxyOff:
				// без прокси
			case domain.ProxyRepeat, domain.ProxyStrict:
				assignment.Proxy = pool[i%len(pool)]
			case domain.ProxyModerate:
				// каждый прокси используется один раз на пакет
				if i < len(pool) {
					assignment.Proxy = pool[i]
				}
			}
		}

		result = append(result, assignment)
		i++
	}

	return result
}
