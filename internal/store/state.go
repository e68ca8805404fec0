package store

import (
	"sync"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
)

// State — разделяемое рабочее состояние движка: аккаунты, прокси и
// настройки. Загружается на старте, правится через API на лету,
// сохраняется на выходе. Задачам State не виден: при создании партии
// снимается снапшот.
type State struct {
	store *Store

	mu       sync.RWMutex
	accounts []domain.Account
	proxies  []domain.Proxy
	settings domain.Settings
}

// LoadState загружает состояние из файлов Store.
func LoadState(s *Store) (*State, error) {
	accounts, err := s.LoadAccounts()
	if err != nil {
		return nil, err
	}

	proxies, err := s.LoadProxies()
	if err != nil {
		return nil, err
	}

	settings, err := s.LoadSettings()
	if err != nil {
		return nil, err
	}

	return &State{
		store:    s,
		accounts: accounts,
		proxies:  proxies,
		settings: settings,
	}, nil
}

// Accounts возвращает копию списка аккаунтов.
func (st *State) Accounts() []domain.Account {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]domain.Account, len(st.accounts))
	copy(out, st.accounts)
	return out
}

// SetAccounts заменяет список аккаунтов.
func (st *State) SetAccounts(accounts []domain.Account) {
	st.mu.Lock()
	st.accounts = accounts
	st.mu.Unlock()
}

// Proxies возвращает копию списка прокси.
func (st *State) Proxies() []domain.Proxy {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]domain.Proxy, len(st.proxies))
	copy(out, st.proxies)
	return out
}

// SetProxies заменяет список прокси.
func (st *State) SetProxies(proxies []domain.Proxy) {
	st.mu.Lock()
	st.proxies = proxies
	st.mu.Unlock()
}

// Settings возвращает текущие настройки.
func (st *State) Settings() domain.Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings
}

// SetSettings заменяет настройки.
func (st *State) SetSettings(settings domain.Settings) {
	st.mu.Lock()
	st.settings = settings
	st.mu.Unlock()
}

// Snapshot возвращает согласованный срез состояния для создания партии.
func (st *State) Snapshot() ([]domain.Account, []domain.Proxy, domain.Settings) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	accounts := make([]domain.Account, len(st.accounts))
	copy(accounts, st.accounts)
	proxies := make([]domain.Proxy, len(st.proxies))
	copy(proxies, st.proxies)

	return accounts, proxies, st.settings
}

// Save сохраняет состояние обратно в файлы Store.
func (st *State) Save() error {
	st.mu.RLock()
	defer st.mu.RUnlock()

	if err := st.store.SaveAccounts(st.accounts); err != nil {
		return err
	}
	if err := st.store.SaveProxies(st.proxies); err != nil {
		return err
	}
	return st.store.SaveSettings(st.settings)
}
