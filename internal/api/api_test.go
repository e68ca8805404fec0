package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
	"github.com/Very1Fake/sdp.wildberries/internal/registry"
	"github.com/Very1Fake/sdp.wildberries/internal/store"
	"github.com/Very1Fake/sdp.wildberries/internal/transport"
)

// failingSender обрывает каждый обмен ошибкой соединения:
// задачи быстро приходят в восстановимую ошибку.
type failingSender struct{}

func (failingSender) Do(context.Context, transport.Request) (*transport.Response, error) {
	return nil, transport.ErrConnection
}

type nopNotifier struct{}

func (nopNotifier) SendOutcome(context.Context, *domain.Task, domain.Outcome, string, domain.Basket, time.Time) error {
	return nil
}

func (nopNotifier) SendOrderDetected(context.Context, *domain.Task, string, time.Time) error {
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *registry.Registry, *store.State) {
	t.Helper()

	reg := registry.New(registry.Config{
		Notifier: nopNotifier{},
		NewClient: func(string, string) (transport.Sender, error) {
			return failingSender{}, nil
		},
	})
	t.Cleanup(reg.Stop)

	state, err := store.LoadState(store.New(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	state.SetAccounts([]domain.Account{
		{Phone: "+7(900)000-00-01", Token: "t1", Active: true},
	})

	mux := http.NewServeMux()
	NewHandler(Config{Registry: reg, State: state, Version: "test"}).RegisterRoutes(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server, reg, state
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestAPI_Health(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/health", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Data HealthResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Status != "ok" || body.Data.Version != "test" {
		t.Errorf("health = %+v", body.Data)
	}
}

func TestAPI_CreateBatchAndList(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/tasks",
		`{"product_name":"Кроссовки","variant_id":123,"variant_name":"Black","size_id":99,"size_name":"M"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var created struct {
		Data CreateBatchResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if len(created.Data.TaskIDs) != 1 {
		t.Fatalf("task_ids = %v, want one task", created.Data.TaskIDs)
	}

	listResp := doJSON(t, http.MethodGet, server.URL+"/api/v1/tasks", "")
	defer listResp.Body.Close()

	var list struct {
		Data  []TaskResponse `json:"data"`
		Total int            `json:"total"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 1 || list.Data[0].Product != "Кроссовки" {
		t.Errorf("list = %+v", list)
	}
	if list.Data[0].Account != "+7(900)000-00-01" {
		t.Errorf("account = %q", list.Data[0].Account)
	}
}

func TestAPI_CreateBatchValidation(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/tasks", `{"product_name":"X"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAPI_RetryAndDelete(t *testing.T) {
	server, reg, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/tasks",
		`{"product_name":"X","variant_id":1}`)
	resp.Body.Close()

	// Ждём восстановимую ошибку.
	deadline := time.Now().Add(5 * time.Second)
	for {
		task, err := reg.Get(1)
		if err != nil {
			t.Fatal(err)
		}
		if task.Progress.State == domain.ProgressError {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("task stuck in %v", task.Progress.State)
		}
		time.Sleep(5 * time.Millisecond)
	}

	retryResp := doJSON(t, http.MethodPost, server.URL+"/api/v1/tasks/1/retry", "")
	retryResp.Body.Close()
	if retryResp.StatusCode != http.StatusNoContent {
		t.Errorf("retry status = %d, want 204", retryResp.StatusCode)
	}

	delResp := doJSON(t, http.MethodDelete, server.URL+"/api/v1/tasks/1", "")
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", delResp.StatusCode)
	}

	missing := doJSON(t, http.MethodGet, server.URL+"/api/v1/tasks/1", "")
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", missing.StatusCode)
	}
}

func TestAPI_AccountsMaskTokens(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/accounts", "")
	defer resp.Body.Close()

	var list struct {
		Data []AccountDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list.Data) != 1 {
		t.Fatalf("accounts = %+v", list.Data)
	}
	if list.Data[0].Token != "" {
		t.Error("token leaked in accounts listing")
	}
}

func TestAPI_PutAccountsValidatesPhone(t *testing.T) {
	server, _, state := newTestServer(t)

	resp := doJSON(t, http.MethodPut, server.URL+"/api/v1/accounts",
		`[{"phone":"89000000001","token":"t","active":true}]`)
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	ok := doJSON(t, http.MethodPut, server.URL+"/api/v1/accounts",
		`[{"phone":"+7(911)111-11-11","token":"t","active":true}]`)
	ok.Body.Close()

	if ok.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", ok.StatusCode)
	}
	if got := state.Accounts(); len(got) != 1 || got[0].Phone != "+7(911)111-11-11" {
		t.Errorf("accounts = %+v", got)
	}
}

func TestAPI_SettingsRoundTrip(t *testing.T) {
	server, _, state := newTestServer(t)

	resp := doJSON(t, http.MethodPut, server.URL+"/api/v1/settings",
		`{"webhook":{"id":5,"token":"w"},"proxy_mode":"Strict","limiter":false,"force":true,"checker":false}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("put status = %d", resp.StatusCode)
	}

	settings := state.Settings()
	if settings.ProxyMode != domain.ProxyStrict || !settings.Force || settings.Limiter {
		t.Errorf("settings = %+v", settings)
	}

	getResp := doJSON(t, http.MethodGet, server.URL+"/api/v1/settings", "")
	defer getResp.Body.Close()

	var body struct {
		Data domain.Settings `json:"data"`
	}
	if err := json.NewDecoder(getResp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data != settings {
		t.Errorf("round trip: %+v != %+v", body.Data, settings)
	}
}
