package api

import (
	"encoding/json"
	"net/http"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
)

// ListAccounts возвращает аккаунты с замаскированными токенами.
func (h *Handler) ListAccounts(w http.ResponseWriter, _ *http.Request) {
	accounts := h.state.Accounts()

	out := make([]AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountDTO{Phone: a.Phone, Active: a.Active})
	}
	List(w, out, len(out))
}

// PutAccounts заменяет список аккаунтов целиком.
func (h *Handler) PutAccounts(w http.ResponseWriter, r *http.Request) {
	var in []AccountDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		BadRequest(w, "invalid json: "+err.Error())
		return
	}

	if phone, ok := validatePhones(in); !ok {
		BadRequest(w, "invalid phone format: "+phone)
		return
	}

	accounts := make([]domain.Account, 0, len(in))
	for _, a := range in {
		accounts = append(accounts, domain.Account{Phone: a.Phone, Token: a.Token, Active: a.Active})
	}

	h.state.SetAccounts(accounts)
	NoContent(w)
}

// ListProxies возвращает список прокси.
func (h *Handler) ListProxies(w http.ResponseWriter, _ *http.Request) {
	proxies := h.state.Proxies()
	List(w, proxies, len(proxies))
}

// PutProxies заменяет список прокси целиком.
func (h *Handler) PutProxies(w http.ResponseWriter, r *http.Request) {
	var proxies []domain.Proxy
	if err := json.NewDecoder(r.Body).Decode(&proxies); err != nil {
		BadRequest(w, "invalid json: "+err.Error())
		return
	}

	for _, p := range proxies {
		if p.Address == "" {
			BadRequest(w, "proxy address is required")
			return
		}
	}

	h.state.SetProxies(proxies)
	NoContent(w)
}

// GetSettings возвращает текущие настройки.
func (h *Handler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	Success(w, h.state.Settings())
}

// PutSettings заменяет настройки. Уже запущенных задач не касается.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	settings := domain.DefaultSettings()
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		BadRequest(w, "invalid json: "+err.Error())
		return
	}

	h.state.SetSettings(settings)
	NoContent(w)
}
