package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
)

func testTask() *domain.Task {
	return &domain.Task{
		ID:      7,
		Card:    domain.ProductCard{Name: "Кроссовки"},
		Variant: domain.Variant{ID: 123, Name: "Black", Sizes: map[string]domain.Size{"99": {}, "100": {}}},
		Size:    domain.Size{ID: 99, Name: "M"},
		Account: domain.Account{Phone: "+7(900)000-00-01", Token: "t"},
		Webhook: domain.Webhook{ID: 42, Token: "secret"},
	}
}

// capture принимает один запрос и сохраняет его путь и тело.
func capture(t *testing.T, status int) (*httptest.Server, *string, *string) {
	t.Helper()

	var path, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		path = r.URL.Path
		body = string(data)
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	return server, &path, &body
}

func TestSendOutcome_Succeeded(t *testing.T) {
	server, path, body := capture(t, http.StatusNoContent)

	n := NewNotifier(Config{BaseURL: server.URL, Footer: "SDP test"})
	cart := domain.Basket{TotalPrice: 4999, DeliveryIntervalText: "завтра"}

	err := n.SendOutcome(context.Background(), testTask(),
		domain.Outcome{Kind: domain.OutcomeSucceeded, Confirmed: true},
		"/lk/order/confirmed?orderId=555", cart, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	if *path != "/42/secret" {
		t.Errorf("path = %q", *path)
	}

	var msg struct {
		Username string `json:"username"`
		Embeds   []struct {
			Title  string `json:"title"`
			Fields []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"fields"`
			Footer *struct {
				Text string `json:"text"`
			} `json:"footer"`
		} `json:"embeds"`
	}
	if err := json.Unmarshal([]byte(*body), &msg); err != nil {
		t.Fatal(err)
	}
	if len(msg.Embeds) != 1 {
		t.Fatalf("embeds = %d", len(msg.Embeds))
	}

	e := msg.Embeds[0]
	if e.Title != "Successful Payment" {
		t.Errorf("title = %q", e.Title)
	}
	if e.Footer == nil || e.Footer.Text != "SDP test" {
		t.Errorf("footer = %+v", e.Footer)
	}

	fields := map[string]string{}
	for _, f := range e.Fields {
		fields[f.Name] = f.Value
	}
	if fields["Total"] != "4999 RUB" {
		t.Errorf("total = %q", fields["Total"])
	}
	if fields["Account"] != "||+7(900)000-00-01||" {
		t.Errorf("account not hidden: %q", fields["Account"])
	}
	if !strings.Contains(fields["Order details"], "orderId=555") {
		t.Errorf("order link = %q", fields["Order details"])
	}
}

func TestSendOutcome_UnconfirmedTitle(t *testing.T) {
	server, _, body := capture(t, http.StatusNoContent)

	n := NewNotifier(Config{BaseURL: server.URL})
	err := n.SendOutcome(context.Background(), testTask(),
		domain.Outcome{Kind: domain.OutcomeSucceeded, Confirmed: false},
		"/lk/order/confirmed?orderId=1", domain.Basket{}, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(*body, "Successful Payment (Unconfirmed)") {
		t.Error("unconfirmed outcome should be marked in the title")
	}
}

func TestSendOutcome_RejectsNon204(t *testing.T) {
	server, _, _ := capture(t, http.StatusOK)

	n := NewNotifier(Config{BaseURL: server.URL})
	err := n.SendOutcome(context.Background(), testTask(),
		domain.Outcome{Kind: domain.OutcomeFailed},
		"Bank error", domain.Basket{}, time.Now())

	if !errors.Is(err, ErrDelivery) {
		t.Errorf("err = %v, want ErrDelivery", err)
	}
}

func TestSendOrderDetected(t *testing.T) {
	server, _, body := capture(t, http.StatusNoContent)

	n := NewNotifier(Config{BaseURL: server.URL})
	if err := n.SendOrderDetected(context.Background(), testTask(), "555", time.Now()); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(*body, "Order Processed") || !strings.Contains(*body, "555") {
		t.Errorf("body = %s", *body)
	}
}
