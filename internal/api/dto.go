package api

import (
	"errors"
	"time"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
)

// TaskResponse — задача в ответах API. Токен сессии аккаунта
// наружу не отдаётся.
type TaskResponse struct {
	ID        uint64    `json:"id"`
	Account   string    `json:"account"`
	Proxy     string    `json:"proxy,omitempty"`
	Product   string    `json:"product"`
	Variant   string    `json:"variant"`
	Size      string    `json:"size"`
	State     string    `json:"state"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// toTaskResponse преобразует доменную задачу в DTO.
func toTaskResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Account:   task.Account.Phone,
		Proxy:     task.Proxy,
		Product:   task.Card.Name,
		Variant:   task.Variant.Name,
		Size:      task.SizeLabel(),
		State:     string(task.Progress.State),
		Detail:    task.Progress.Detail,
		CreatedAt: task.CreatedAt,
	}
}

// CreateBatchRequest — запрос на создание партии задач.
// Партия создаётся по задаче на каждый активный аккаунт.
type CreateBatchRequest struct {
	ProductName string `json:"product_name"`
	VariantID   uint64 `json:"variant_id"`
	VariantName string `json:"variant_name"`
	SizeID      uint64 `json:"size_id"`
	SizeName    string `json:"size_name"`
}

// Validate проверяет запрос.
func (r *CreateBatchRequest) Validate() error {
	if r.VariantID == 0 {
		return errors.New("variant_id is required")
	}
	if r.ProductName == "" {
		return errors.New("product_name is required")
	}
	return nil
}

// CreateBatchResponse — ответ на создание партии.
type CreateBatchResponse struct {
	TaskIDs []uint64 `json:"task_ids"`
}

// AccountDTO — аккаунт в API. Токен принимается на запись,
// но в ответах маскируется.
type AccountDTO struct {
	Phone  string `json:"phone"`
	Token  string `json:"token,omitempty"`
	Active bool   `json:"active"`
}

// HealthResponse — ответ health-проверки.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Tasks   int    `json:"tasks"`
}
