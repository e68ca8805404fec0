package assign

import (
	"testing"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
)

func accounts(n int) []domain.Account {
	result := make([]domain.Account, n)
	for i := range result {
		result[i] = domain.Account{Phone: phone(i), Token: "t", Active: true}
	}
	return result
}

func phone(i int) string {
	return string(rune('A' + i))
}

func proxies(addrs ...string) []domain.Proxy {
	result := make([]domain.Proxy, len(addrs))
	for i, a := range addrs {
		result[i] = domain.Proxy{Address: a, Active: true}
	}
	return result
}

func TestPair_NoProxies(t *testing.T) {
	for _, mode := range domain.ProxyModes {
		got := Pair(accounts(4), nil, mode)
		if len(got) != 4 {
			t.Fatalf("mode %s: expected 4 assignments, got %d", mode, len(got))
		}
		for _, a := range got {
			if a.Proxy != "" {
				t.Errorf("mode %s: expected no proxy, got %q", mode, a.Proxy)
			}
		}
	}
}

func TestPair_Off(t *testing.T) {
	got := Pair(accounts(3), proxies("P0", "P1"), domain.ProxyOff)
	for _, a := range got {
		if a.Proxy != "" {
			t.Errorf("off mode must not assign proxies, got %q", a.Proxy)
		}
	}
}

func TestPair_RepeatCycles(t *testing.T) {
	got := Pair(accounts(5), proxies("P0", "P1"), domain.ProxyRepeat)

	want := []string{"P0", "P1", "P0", "P1", "P0"}
	if len(got) != len(want) {
		t.Fatalf("expected %d assignments, got %d", len(want), len(got))
	}
	for i, a := range got {
		if a.Proxy != want[i] {
			t.Errorf("assignment %d: expected %s, got %q", i, want[i], a.Proxy)
		}
	}
}

func TestPair_ReverseOrder(t *testing.T) {
	got := Pair(accounts(3), nil, domain.ProxyOff)

	// Обход аккаунтов — с конца списка
	want := []string{phone(2), phone(1), phone(0)}
	for i, a := range got {
		if a.Account.Phone != want[i] {
			t.Errorf("assignment %d: expected account %s, got %s", i, want[i], a.Account.Phone)
		}
	}
}

func TestPair_ModerateSinglePass(t *testing.T) {
	got := Pair(accounts(5), proxies("P0", "P1"), domain.ProxyModerate)

	want := []string{"P0", "P1", "", "", ""}
	for i, a := range got {
		if a.Proxy != want[i] {
			t.Errorf("assignment %d: expected %q, got %q", i, want[i], a.Proxy)
		}
	}
}

func TestPair_StrictBalanced(t *testing.T) {
	got := Pair(accounts(3), proxies("P0", "P1", "P2"), domain.ProxyStrict)

	if len(got) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, a := range got {
		if a.Proxy == "" {
			t.Errorf("strict 1:1 must assign every proxy, account %s got none", a.Account.Phone)
		}
		if seen[a.Proxy] {
			t.Errorf("proxy %s assigned twice", a.Proxy)
		}
		seen[a.Proxy] = true
	}
}

func TestPair_StrictSkipsAccounts(t *testing.T) {
	got := Pair(accounts(5), proxies("P0", "P1", "P2"), domain.ProxyStrict)

	if len(got) != 3 {
		t.Fatalf("expected 2 accounts skipped, got %d assignments", len(got))
	}
	// Пропущены первые два в порядке обхода (хвост исходного списка)
	want := []string{phone(2), phone(1), phone(0)}
	for i, a := range got {
		if a.Account.Phone != want[i] {
			t.Errorf("assignment %d: expected account %s, got %s", i, want[i], a.Account.Phone)
		}
	}
}

func TestPair_InactiveFiltered(t *testing.T) {
	accs := accounts(3)
	accs[1].Active = false
	prx := proxies("P0", "P1")
	prx[0].Active = false

	got := Pair(accs, prx, domain.ProxyRepeat)

	if len(got) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(got))
	}
	for _, a := range got {
		if a.Account.Phone == phone(1) {
			t.Errorf("inactive account must be skipped")
		}
		if a.Proxy != "P1" {
			t.Errorf("inactive proxy must be skipped, got %q", a.Proxy)
		}
	}
}
