package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
	"github.com/Very1Fake/sdp.wildberries/internal/registry"
	"github.com/Very1Fake/sdp.wildberries/internal/validate"
)

// ListTasks возвращает все задачи.
func (h *Handler) ListTasks(w http.ResponseWriter, _ *http.Request) {
	tasks := h.registry.List()

	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskResponse(task))
	}

	List(w, out, len(out))
}

// GetTask возвращает одну задачу.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.registry.Get(id)
	if HandleRegistryError(w, h.logger, err, "task not found") {
		return
	}

	Success(w, toTaskResponse(task))
}

// CreateBatch создаёт партию задач: по задаче на активный аккаунт,
// прокси согласно режиму из текущих настроек.
func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req CreateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid json: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	accounts, proxies, settings := h.state.Snapshot()
	if len(accounts) == 0 {
		InvalidState(w, "no accounts configured")
		return
	}

	sizes := map[string]domain.Size{}
	size := domain.Size{ID: req.SizeID, Name: req.SizeName}
	if req.SizeID != 0 {
		sizes[strconv.FormatUint(req.SizeID, 10)] = size
	}

	ids := h.registry.CreateBatch(registry.Batch{
		Card:     domain.ProductCard{Name: req.ProductName},
		Variant:  domain.Variant{ID: req.VariantID, Name: req.VariantName, Sizes: sizes},
		Size:     size,
		Accounts: accounts,
		Proxies:  proxies,
		Settings: settings,
	})

	Created(w, CreateBatchResponse{TaskIDs: ids})
}

// RetryTask перезапускает задачу после восстановимой ошибки.
func (h *Handler) RetryTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if HandleRegistryError(w, h.logger, h.registry.Retry(id), "task not found") {
		return
	}
	NoContent(w)
}

// DeleteTask останавливает и удаляет задачу.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if HandleRegistryError(w, h.logger, h.registry.Delete(id), "task not found") {
		return
	}
	NoContent(w)
}

// Health — проверка живости.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	Success(w, HealthResponse{
		Status:  "ok",
		Version: h.version,
		Tasks:   len(h.registry.List()),
	})
}

// taskID извлекает идентификатор задачи из пути.
func taskID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		BadRequest(w, "invalid task id")
		return 0, false
	}
	return id, true
}

// validatePhones проверяет формат телефонов списка аккаунтов.
func validatePhones(accounts []AccountDTO) (string, bool) {
	for _, a := range accounts {
		if !validate.Phone(a.Phone) {
			return a.Phone, false
		}
	}
	return "", true
}
