package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
)

func TestStore_MissingFilesAreEmpty(t *testing.T) {
	s := New(t.TempDir())

	accounts, err := s.LoadAccounts()
	if err != nil || len(accounts) != 0 {
		t.Errorf("LoadAccounts = %v, %v; want empty", accounts, err)
	}

	proxies, err := s.LoadProxies()
	if err != nil || len(proxies) != 0 {
		t.Errorf("LoadProxies = %v, %v; want empty", proxies, err)
	}

	settings, err := s.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if settings != domain.DefaultSettings() {
		t.Errorf("LoadSettings = %+v, want defaults", settings)
	}

	batches, err := s.LoadBatches()
	if err != nil || len(batches) != 0 {
		t.Errorf("LoadBatches = %v, %v; want empty", batches, err)
	}
}

func TestStore_AccountsRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	want := []domain.Account{
		{Phone: "+7(900)000-00-01", Token: "t1", Active: true},
		{Phone: "+7(900)000-00-02", Token: "t2", Active: false},
	}
	if err := s.SaveAccounts(want); err != nil {
		t.Fatalf("SaveAccounts: %v", err)
	}

	got, err := s.LoadAccounts()
	if err != nil {
		t.Fatalf("LoadAccounts: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d accounts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("account %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStore_SettingsProxyModeAsString(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	settings := domain.DefaultSettings()
	settings.ProxyMode = domain.ProxyStrict
	settings.Webhook = domain.Webhook{ID: 42, Token: "hook"}

	if err := s.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		t.Fatalf("read settings.json: %v", err)
	}
	if !strings.Contains(string(raw), `"proxy_mode": "Strict"`) {
		t.Errorf("settings.json lacks string proxy mode:\n%s", raw)
	}

	got, err := s.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if got != settings {
		t.Errorf("settings = %+v, want %+v", got, settings)
	}
}

func TestStore_LoadBatches(t *testing.T) {
	dir := t.TempDir()
	yaml := `batches:
  - product: 12345678
    size: M
    start_at: 2026-09-03T10:00:00+03:00
  - product: 87654321
    cron: "0 10 * * 1"
  - product: 11111111
`
	if err := os.WriteFile(filepath.Join(dir, "tasks.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	batches, err := New(dir).LoadBatches()
	if err != nil {
		t.Fatalf("LoadBatches: %v", err)
	}
	if len(batches) != 3 {
		t.Fatalf("loaded %d batches, want 3", len(batches))
	}

	if batches[0].Product != 12345678 || batches[0].Size != "M" {
		t.Errorf("batch 0 = %+v", batches[0])
	}
	if _, ok := batches[0].StartTime(); !ok {
		t.Error("batch 0 has no start time")
	}
	if batches[1].Cron != "0 10 * * 1" {
		t.Errorf("batch 1 cron = %q", batches[1].Cron)
	}
	if _, ok := batches[2].StartTime(); ok {
		t.Error("batch 2 unexpectedly has start time")
	}
}

func TestStore_BatchValidation(t *testing.T) {
	dir := t.TempDir()
	yaml := `batches:
  - product: 123
    start_at: 2026-09-03T10:00:00+03:00
    cron: "0 10 * * 1"
`
	if err := os.WriteFile(filepath.Join(dir, "tasks.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(dir).LoadBatches(); err == nil {
		t.Error("conflicting start_at and cron accepted")
	}
}
