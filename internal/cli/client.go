package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// TaskResponse — задача из API.
type TaskResponse struct {
	ID        uint64 `json:"id"`
	Account   string `json:"account"`
	Proxy     string `json:"proxy,omitempty"`
	Product   string `json:"product"`
	Variant   string `json:"variant"`
	Size      string `json:"size"`
	State     string `json:"state"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

// AccountResponse — аккаунт из API (токен замаскирован сервером).
type AccountResponse struct {
	Phone  string `json:"phone"`
	Token  string `json:"token,omitempty"`
	Active bool   `json:"active"`
}

// ProxyResponse — прокси из API.
type ProxyResponse struct {
	Address string `json:"address"`
	Active  bool   `json:"active"`
}

// SettingsResponse — настройки из API.
type SettingsResponse struct {
	Webhook struct {
		ID    uint64 `json:"id"`
		Token string `json:"token"`
	} `json:"webhook"`
	ProxyMode string `json:"proxy_mode"`
	Limiter   bool   `json:"limiter"`
	Force     bool   `json:"force"`
	Checker   bool   `json:"checker"`
}

// HealthResponse — здоровье движка.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Tasks   int    `json:"tasks"`
}

// --- Request types ---

// CreateBatchRequest — создание партии задач.
type CreateBatchRequest struct {
	ProductName string `json:"product_name"`
	VariantID   uint64 `json:"variant_id"`
	VariantName string `json:"variant_name,omitempty"`
	SizeID      uint64 `json:"size_id,omitempty"`
	SizeName    string `json:"size_name,omitempty"`
}

// CreateBatchResponse — идентификаторы созданных задач.
type CreateBatchResponse struct {
	TaskIDs []uint64 `json:"task_ids"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для API движка.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Tasks ---

// ListTasks возвращает все задачи.
func (c *Client) ListTasks() ([]TaskResponse, error) {
	var tasks []TaskResponse
	err := c.list("/api/v1/tasks", &tasks)
	return tasks, err
}

// GetTask возвращает задачу по ID.
func (c *Client) GetTask(id uint64) (*TaskResponse, error) {
	var task TaskResponse
	err := c.get(fmt.Sprintf("/api/v1/tasks/%d", id), &task)
	return &task, err
}

// CreateBatch создаёт партию задач.
func (c *Client) CreateBatch(req CreateBatchRequest) (*CreateBatchResponse, error) {
	var created CreateBatchResponse
	err := c.post("/api/v1/tasks", req, &created)
	return &created, err
}

// RetryTask перезапускает задачу.
func (c *Client) RetryTask(id uint64) error {
	return c.post(fmt.Sprintf("/api/v1/tasks/%d/retry", id), nil, nil)
}

// DeleteTask удаляет задачу.
func (c *Client) DeleteTask(id uint64) error {
	return c.delete(fmt.Sprintf("/api/v1/tasks/%d", id))
}

// --- Accounts / proxies / settings ---

// ListAccounts возвращает аккаунты.
func (c *Client) ListAccounts() ([]AccountResponse, error) {
	var accounts []AccountResponse
	err := c.list("/api/v1/accounts", &accounts)
	return accounts, err
}

// PutAccounts заменяет список аккаунтов.
func (c *Client) PutAccounts(accounts []AccountResponse) error {
	return c.put("/api/v1/accounts", accounts, nil)
}

// ListProxies возвращает прокси.
func (c *Client) ListProxies() ([]ProxyResponse, error) {
	var proxies []ProxyResponse
	err := c.list("/api/v1/proxies", &proxies)
	return proxies, err
}

// PutProxies заменяет список прокси.
func (c *Client) PutProxies(proxies []ProxyResponse) error {
	return c.put("/api/v1/proxies", proxies, nil)
}

// GetSettings возвращает настройки.
func (c *Client) GetSettings() (*SettingsResponse, error) {
	var settings SettingsResponse
	err := c.get("/api/v1/settings", &settings)
	return &settings, err
}

// PutSettings заменяет настройки.
func (c *Client) PutSettings(settings SettingsResponse) error {
	return c.put("/api/v1/settings", settings, nil)
}

// Health возвращает состояние движка.
func (c *Client) Health() (*HealthResponse, error) {
	var health HealthResponse
	err := c.get("/api/v1/health", &health)
	return &health, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, result any) error {
	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
