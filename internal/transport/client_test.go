package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestClient_BrowserHeaders(t *testing.T) {
	var gotUA, gotReferer, gotRequestedWith string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		gotRequestedWith = r.Header.Get("x-requested-with")
		w.Write([]byte(`{"resultState":0}`))
	}))
	defer server.Close()

	client, err := NewClient("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Do(context.Background(), Request{
		Method:  http.MethodGet,
		URL:     server.URL,
		Referer: "https://www.wildberries.ru/lk",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotUA != headerUserAgent {
		t.Errorf("expected browser user-agent, got %q", gotUA)
	}
	if gotReferer != "https://www.wildberries.ru/lk" {
		t.Errorf("unexpected referer %q", gotReferer)
	}
	if gotRequestedWith != headerRequestedWith {
		t.Errorf("unexpected x-requested-with %q", gotRequestedWith)
	}
}

func TestClient_PostForm(t *testing.T) {
	var gotContentType, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotBody = r.PostForm.Get("quantity")
		w.Write([]byte(`{"resultState":0}`))
	}))
	defer server.Close()

	client, err := NewClient("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	form := url.Values{}
	form.Set("quantity", "1")

	_, err = client.Do(context.Background(), Request{
		Method: http.MethodPost,
		URL:    server.URL,
		Form:   form,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("unexpected content type %q", gotContentType)
	}
	if gotBody != "1" {
		t.Errorf("form not delivered, quantity=%q", gotBody)
	}
}

func TestClient_CookiesPersist(t *testing.T) {
	var gotCookie string
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
		} else {
			if c, err := r.Cookie("session"); err == nil {
				gotCookie = c.Value
			}
		}
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client, err := NewClient("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := client.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL}); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}

	if gotCookie != "abc" {
		t.Errorf("cookie not persisted between requests, got %q", gotCookie)
	}
}

func TestClient_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close() // закрываем сразу — соединение невозможно

	client, err := NewClient("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL})
	if !errors.Is(err, ErrConnection) {
		t.Errorf("expected ErrConnection, got %v", err)
	}
}

func TestBanCheck(t *testing.T) {
	tests := []struct {
		name   string
		method string
		server string
		body   string
		want   BanKind
	}{
		{"variti by server prefix", http.MethodGet, "Variti/1.2", "anything", BanVariti},
		{"ddos-guard challenge page", http.MethodPost, "ddos-guard", "<html><title>DDOS-GUARD</title></html>", BanDDOSGuard},
		{"ddos-guard empty get body", http.MethodGet, "ddos-guard", "", BanDDOSGuard},
		{"clean response", http.MethodGet, "nginx", `{"resultState":0}`, ""},
		{"empty post body is not a ban", http.MethodPost, "ddos-guard", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{
				Method: tt.method,
				Status: http.StatusOK,
				Header: http.Header{"Server": []string{tt.server}},
				Body:   []byte(tt.body),
			}

			ban := resp.BanCheck()
			if tt.want == "" {
				if ban != nil {
					t.Errorf("expected no ban, got %v", ban)
				}
				return
			}
			if ban == nil || ban.Kind != tt.want {
				t.Errorf("expected ban %s, got %v", tt.want, ban)
			}
		})
	}
}

func TestTierMessage(t *testing.T) {
	if got := TierMessage(ErrTimeout, "A"); got != "Timeout" {
		t.Errorf("timeout message: %q", got)
	}
	if got := TierMessage(ErrConnection, "A"); got != "Connection Error" {
		t.Errorf("connection message: %q", got)
	}
	if got := TierMessage(&BanError{Kind: BanVariti}, "A"); got != "Variti Ban (A)" {
		t.Errorf("variti message: %q", got)
	}
	if got := TierMessage(&BanError{Kind: BanDDOSGuard}, "H"); got != "Protection Ban (H)" {
		t.Errorf("ddos-guard message: %q", got)
	}
	if got := TierMessage(&BanError{Kind: BanDDOSGuard}, ""); got != "Protection Ban" {
		t.Errorf("untagged ban message: %q", got)
	}
}

func TestHumanDelay(t *testing.T) {
	if d := HumanDelay(false, 5, 10); d != 0 {
		t.Errorf("disabled delay should be zero, got %v", d)
	}

	for i := 0; i < 50; i++ {
		d := HumanDelay(true, 5, 10)
		if d < 50*time.Millisecond || d > 100*time.Millisecond {
			t.Fatalf("delay out of range: %v", d)
		}
	}
}
