package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
)

// Имена файлов в рабочей директории.
const (
	accountsFile = "accounts.json"
	proxyFile    = "proxy.json"
	settingsFile = "settings.json"
	batchesFile  = "tasks.yaml"
)

// Store читает и пишет файлы конфигурации в одной директории.
type Store struct {
	dir string
}

// New создаёт Store поверх директории dir ("" — текущая).
func New(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// LoadAccounts загружает список аккаунтов.
// Отсутствующий файл — пустой список, не ошибка.
func (s *Store) LoadAccounts() ([]domain.Account, error) {
	var accounts []domain.Account
	if err := s.readJSON(accountsFile, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SaveAccounts сохраняет список аккаунтов.
func (s *Store) SaveAccounts(accounts []domain.Account) error {
	return s.writeJSON(accountsFile, accounts)
}

// LoadProxies загружает список прокси.
func (s *Store) LoadProxies() ([]domain.Proxy, error) {
	var proxies []domain.Proxy
	if err := s.readJSON(proxyFile, &proxies); err != nil {
		return nil, err
	}
	return proxies, nil
}

// SaveProxies сохраняет список прокси.
func (s *Store) SaveProxies(proxies []domain.Proxy) error {
	return s.writeJSON(proxyFile, proxies)
}

// LoadSettings загружает настройки.
// Отсутствующий файл — настройки по умолчанию.
func (s *Store) LoadSettings() (domain.Settings, error) {
	settings := domain.DefaultSettings()
	if err := s.readJSON(settingsFile, &settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// SaveSettings сохраняет настройки.
func (s *Store) SaveSettings(settings domain.Settings) error {
	return s.writeJSON(settingsFile, settings)
}

// readJSON читает файл в v. Отсутствующий файл оставляет v как есть.
func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// writeJSON атомарно записывает v в файл (через временный файл).
func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
