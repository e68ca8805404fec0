// Package activation — лицензирование через внешний сервис активаций.
//
// Ключ проверяется на формат локально, затем обменивается на
// активационный токен (RS256 JWT), подписанный сервисом. Машина
// идентифицируется хостнеймом и отпечатком железа.
package activation

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/blake2b"
)

const (
	defaultBaseURL = "https://api.cryptlex.com/v3"
	productID      = "29c8e4a3-a2a6-411c-a4da-61b440be3f82"

	requestTimeout = 8 * time.Second
	leeway         = 60 * time.Second

	keyLength = 41
)

var (
	// ErrInvalidKey — ключ не существует или отозван форматно.
	ErrInvalidKey = errors.New("invalid license key")

	// ErrRevoked — лицензия отозвана.
	ErrRevoked = errors.New("license revoked")

	// ErrActivationLimit — исчерпан лимит активаций ключа.
	ErrActivationLimit = errors.New("activation limit reached")

	// ErrExpired — срок действия лицензии истёк.
	ErrExpired = errors.New("license expired")

	// ErrBadToken — активационный токен не прошёл проверку подписи.
	ErrBadToken = errors.New("invalid activation token")

	// ErrService — сервис активаций ответил неожиданным образом.
	ErrService = errors.New("activation service error")
)

// ValidateKey проверяет формат лицензионного ключа:
// 41 символ, каждый седьмой — дефис, остальные — латиница и цифры.
func ValidateKey(key string) bool {
	if len(key) != keyLength {
		return false
	}

	for i, c := range key {
		if (i+1)%7 == 0 {
			if c != '-' {
				return false
			}
			continue
		}
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

// Identity — идентичность машины для привязки активации.
type Identity struct {
	Hostname    string
	Fingerprint string
	OS          string
}

// MachineIdentity собирает идентичность текущей машины.
// Отпечаток — blake2b от стабильных характеристик железа и ОС.
func MachineIdentity() Identity {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "%d", runtime.NumCPU())
	h.Write([]byte(runtime.GOOS))
	h.Write([]byte(hostname))

	return Identity{
		Hostname:    hostname,
		Fingerprint: fmt.Sprintf("%x", h.Sum(nil)),
		OS:          runtime.GOOS,
	}
}

// Claims — полезная нагрузка активационного токена.
type Claims struct {
	Fingerprint  string `json:"fp"`
	Key          string `json:"key"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Company      string `json:"company"`
	Suspended    bool   `json:"suspended"`
	ActivationID string `json:"aid"`

	jwt.RegisteredClaims
}

// Service — клиент сервиса активаций.
type Service struct {
	http      *http.Client
	baseURL   string
	publicKey *rsa.PublicKey
	version   string
}

// Config — конфигурация Service.
type Config struct {
	// BaseURL сервиса активаций (по умолчанию продакшн).
	BaseURL string

	// PublicKeyPEM — публичный RSA-ключ для проверки токенов.
	PublicKeyPEM []byte

	// Version — версия приложения для User-Agent и payload.
	Version string
}

// NewService создаёт клиента сервиса активаций.
func NewService(cfg Config) (*Service, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(cfg.PublicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Service{
		http:      &http.Client{Timeout: requestTimeout},
		baseURL:   baseURL,
		publicKey: key,
		version:   cfg.Version,
	}, nil
}

// ParseToken проверяет подпись активационного токена и возвращает
// его полезную нагрузку. Истечение срока проверяется отдельно.
func (s *Service) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.publicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithLeeway(leeway),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadToken, err)
	}
	return claims, nil
}

// Expired возвращает true, если срок лицензии вышел (с учётом leeway).
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.After(now.Add(leeway))
}

// activationPayload — тело запроса активации.
type activationPayload struct {
	OS          string `json:"os"`
	OSVersion   string `json:"osVersion"`
	Fingerprint string `json:"fingerprint"`
	Hostname    string `json:"hostname"`
	AppVersion  string `json:"appVersion"`
	UserHash    string `json:"userHash"`
	ProductID   string `json:"productId"`
	Key         string `json:"key"`
}

// serviceResponse — ответ сервиса активаций.
type serviceResponse struct {
	Token string `json:"activationToken"`
	Code  string `json:"code"`
}

// Activate обменивает ключ на активационный токен и возвращает
// проверенную полезную нагрузку вместе с самим токеном.
func (s *Service) Activate(ctx context.Context, key string) (*Claims, string, error) {
	identity := MachineIdentity()

	payload, err := json.Marshal(activationPayload{
		OS:          identity.OS,
		OSVersion:   runtime.GOOS,
		Fingerprint: identity.Fingerprint,
		Hostname:    identity.Hostname,
		AppVersion:  s.version,
		UserHash:    identity.Fingerprint,
		ProductID:   productID,
		Key:         key,
	})
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/activations", bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "text/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "SDP/"+s.version)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var body serviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && resp.StatusCode == http.StatusOK {
		return nil, "", fmt.Errorf("%w: %v", ErrService, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		switch body.Code {
		case "REVOKED_LICENSE":
			return nil, "", ErrRevoked
		case "INVALID_LICENSE_KEY":
			return nil, "", ErrInvalidKey
		case "ACTIVATION_LIMIT_REACHED":
			return nil, "", ErrActivationLimit
		default:
			return nil, "", fmt.Errorf("%w: code %q", ErrService, body.Code)
		}
	default:
		return nil, "", fmt.Errorf("%w: status %d", ErrService, resp.StatusCode)
	}

	claims, err := s.ParseToken(body.Token)
	if err != nil {
		return nil, "", err
	}
	if claims.Expired(time.Now()) {
		return nil, "", ErrExpired
	}

	return claims, body.Token, nil
}

// Deactivate освобождает активацию на сервисе.
func (s *Service) Deactivate(ctx context.Context, activationID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.baseURL+"/activations/"+activationID, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "SDP/"+s.version)

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: status %d", ErrService, resp.StatusCode)
	}
	return nil
}

// LoadToken читает сохранённый активационный токен.
// Отсутствующий файл — пустой токен, не ошибка.
func LoadToken(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(bytes.TrimSpace(data))
}

// SaveToken сохраняет активационный токен.
func SaveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}
