package activation

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestValidateKey(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"AAAAAA-BBBBBB-CCCCCC-DDDDDD-EEEEEE-FFFFF", true},
		{"123456-abcdef-ABCDEF-000000-zzzzzz-99999", true},
		{"AAAAAA-BBBBBB-CCCCCC-DDDDDD-EEEEEE-FFFF", false},  // 40 символов
		{"AAAAAA-BBBBBB-CCCCCC-DDDDDD-EEEEEE-FFFFFF", false}, // 42 символа
		{"AAAAAAABBBBBB-CCCCCC-DDDDDD-EEEEEE-FFFFF", false},  // нет дефиса
		{"AAAAA!-BBBBBB-CCCCCC-DDDDDD-EEEEEE-FFFFF", false},  // спецсимвол
		{"", false},
	}

	for _, c := range cases {
		if got := ValidateKey(c.key); got != c.want {
			t.Errorf("ValidateKey(%q) = %v, want %v", c.key, got, c.want)
		}
	}
}

func TestMachineIdentity_Stable(t *testing.T) {
	first := MachineIdentity()
	second := MachineIdentity()

	if first.Fingerprint == "" || first.Hostname == "" {
		t.Fatalf("incomplete identity: %+v", first)
	}
	if first != second {
		t.Errorf("identity not stable: %+v vs %+v", first, second)
	}
}

// testKeys генерирует ключевую пару и PEM публичного ключа.
func testKeys(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()

	private, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	der, err := x509.MarshalPKIXPublicKey(&private.PublicKey)
	if err != nil {
		t.Fatal(err)
	}

	return private, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func signToken(t *testing.T, private *rsa.PrivateKey, claims Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(private)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestService_ActivateSuccess(t *testing.T) {
	private, publicPEM := testKeys(t)

	claims := Claims{
		Fingerprint:  "fp",
		Key:          "k",
		Name:         "Tester",
		ActivationID: "act-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := signToken(t, private, claims)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/activations" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		if payload["productId"] == "" || payload["fingerprint"] == "" {
			t.Errorf("incomplete payload: %v", payload)
		}

		json.NewEncoder(w).Encode(map[string]string{"activationToken": token})
	}))
	defer server.Close()

	service, err := NewService(Config{BaseURL: server.URL, PublicKeyPEM: publicPEM, Version: "1.0.0"})
	if err != nil {
		t.Fatal(err)
	}

	got, gotToken, err := service.Activate(context.Background(), "AAAAAA-BBBBBB-CCCCCC-DDDDDD-EEEEEE-FFFFF")
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if gotToken != token {
		t.Error("returned token differs from issued one")
	}
	if got.ActivationID != "act-1" || got.Name != "Tester" {
		t.Errorf("claims = %+v", got)
	}
}

func TestService_ActivateErrorCodes(t *testing.T) {
	_, publicPEM := testKeys(t)

	cases := []struct {
		code string
		want error
	}{
		{"REVOKED_LICENSE", ErrRevoked},
		{"INVALID_LICENSE_KEY", ErrInvalidKey},
		{"ACTIVATION_LIMIT_REACHED", ErrActivationLimit},
		{"SOMETHING_ELSE", ErrService},
	}

	for _, c := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"code": c.code})
		}))

		service, err := NewService(Config{BaseURL: server.URL, PublicKeyPEM: publicPEM})
		if err != nil {
			t.Fatal(err)
		}

		_, _, err = service.Activate(context.Background(), "key")
		if !errors.Is(err, c.want) {
			t.Errorf("code %s: error = %v, want %v", c.code, err, c.want)
		}
		server.Close()
	}
}

func TestService_ActivateExpiredLicense(t *testing.T) {
	private, publicPEM := testKeys(t)

	token := signToken(t, private, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"activationToken": token})
	}))
	defer server.Close()

	service, err := NewService(Config{BaseURL: server.URL, PublicKeyPEM: publicPEM})
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := service.Activate(context.Background(), "key"); !errors.Is(err, ErrExpired) {
		t.Errorf("error = %v, want ErrExpired", err)
	}
}

func TestService_ParseTokenRejectsForgedSignature(t *testing.T) {
	_, publicPEM := testKeys(t)
	other, _ := testKeys(t)

	forged := signToken(t, other, Claims{ActivationID: "act-1"})

	service, err := NewService(Config{PublicKeyPEM: publicPEM})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := service.ParseToken(forged); !errors.Is(err, ErrBadToken) {
		t.Errorf("error = %v, want ErrBadToken", err)
	}
}

func TestService_Deactivate(t *testing.T) {
	_, publicPEM := testKeys(t)

	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	service, err := NewService(Config{BaseURL: server.URL, PublicKeyPEM: publicPEM})
	if err != nil {
		t.Fatal(err)
	}

	if err := service.Deactivate(context.Background(), "act-9"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if path != "/activations/act-9" {
		t.Errorf("path = %q", path)
	}
}
