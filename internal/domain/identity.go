package domain

import (
	"encoding/json"
	"fmt"
)

// Account — учётная запись на сайте.
// Движок только читает аккаунты; владеет списком вызывающая сторона.
type Account struct {
	Phone  string `json:"phone"`
	Token  string `json:"token"`
	Active bool   `json:"active"`
}

// Proxy — прокси-эндпоинт.
type Proxy struct {
	Address string `json:"address"`
	Active  bool   `json:"active"`
}

// ProxyMode — политика распределения прокси по создаваемым задачам.
type ProxyMode int

const (
	// ProxyOff — прокси не используются.
	ProxyOff ProxyMode = iota

	// ProxyRepeat — прокси выдаются по кругу без ограничений.
	ProxyRepeat

	// ProxyModerate — каждый прокси используется не более одного раза
	// на пакет; оставшиеся задачи идут без прокси.
	ProxyModerate

	// ProxyStrict — строгое соответствие 1:1; лишние аккаунты пропускаются.
	ProxyStrict
)

// ProxyModes — все режимы в порядке отображения.
var ProxyModes = [4]ProxyMode{ProxyOff, ProxyRepeat, ProxyModerate, ProxyStrict}

func (m ProxyMode) String() string {
	switch m {
	case ProxyOff:
		return "Off"
	case ProxyRepeat:
		return "Repeat"
	case ProxyModerate:
		return "Moderate"
	case ProxyStrict:
		return "Strict"
	default:
		return fmt.Sprintf("ProxyMode(%d)", int(m))
	}
}

// ParseProxyMode парсит строковое представление режима.
func ParseProxyMode(s string) (ProxyMode, error) {
	switch s {
	case "Off":
		return ProxyOff, nil
	case "Repeat":
		return ProxyRepeat, nil
	case "Moderate":
		return ProxyModerate, nil
	case "Strict":
		return ProxyStrict, nil
	default:
		return ProxyOff, fmt.Errorf("unknown proxy mode %q", s)
	}
}

// MarshalJSON сериализует режим строкой (формат settings.json).
func (m ProxyMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON десериализует режим из строки.
func (m *ProxyMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	mode, err := ParseProxyMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
