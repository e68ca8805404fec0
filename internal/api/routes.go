package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Tasks
	mux.Handle("GET /api/v1/tasks", chain(http.HandlerFunc(h.ListTasks)))
	mux.Handle("POST /api/v1/tasks", chain(http.HandlerFunc(h.CreateBatch)))
	mux.Handle("GET /api/v1/tasks/{id}", chain(http.HandlerFunc(h.GetTask)))
	mux.Handle("POST /api/v1/tasks/{id}/retry", chain(http.HandlerFunc(h.RetryTask)))
	mux.Handle("DELETE /api/v1/tasks/{id}", chain(http.HandlerFunc(h.DeleteTask)))

	// Accounts / proxies / settings
	mux.Handle("GET /api/v1/accounts", chain(http.HandlerFunc(h.ListAccounts)))
	mux.Handle("PUT /api/v1/accounts", chain(http.HandlerFunc(h.PutAccounts)))
	mux.Handle("GET /api/v1/proxies", chain(http.HandlerFunc(h.ListProxies)))
	mux.Handle("PUT /api/v1/proxies", chain(http.HandlerFunc(h.PutProxies)))
	mux.Handle("GET /api/v1/settings", chain(http.HandlerFunc(h.GetSettings)))
	mux.Handle("PUT /api/v1/settings", chain(http.HandlerFunc(h.PutSettings)))

	// Health
	mux.Handle("GET /api/v1/health", chain(http.HandlerFunc(h.Health)))
}
