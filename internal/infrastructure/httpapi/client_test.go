package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bestpractice/identity-system/internal/core/domain"
	"github.com/bestpractice/identity-system/internal/infrastructure/store/memory"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *memory.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := memory.New()
	client := NewClient(Options{BaseURL: srv.URL}, creds, zerolog.Nop())
	return client, creds
}

func TestClient_AttachesBearerWhenStored(t *testing.T) {
	var gotAuth, gotType string
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	})

	creds.Save(context.Background(), "tok-1", nil)

	if err := client.Get(context.Background(), "/auth/me", nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotType != "application/json" {
		t.Fatalf("expected json content type, got %q", gotType)
	}
}

func TestClient_UnauthenticatedWhenStoreEmpty(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})

	if err := client.Get(context.Background(), "/health", nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}
}

func TestClient_DecodesSuccessBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "1", "name": "alice"})
	})

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := client.Get(context.Background(), "/auth/me", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.ID != "1" || out.Name != "alice" {
		t.Fatalf("unexpected decode: %+v", out)
	}
}

func TestClient_PostSendsJSONBody(t *testing.T) {
	var got map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{}`))
	})

	body := map[string]string{"email": "a@b.com", "password": "pw"}
	if err := client.Post(context.Background(), "/auth/login", body, nil); err != nil {
		t.Fatalf("post: %v", err)
	}
	if got["email"] != "a@b.com" || got["password"] != "pw" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestClient_ServiceMessageWins(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "email is taken",
		})
	})

	err := client.Post(context.Background(), "/auth/register", nil, nil)
	ae := domain.AsAPIError(err)
	if ae == nil {
		t.Fatalf("expected APIError, got %v", err)
	}
	if ae.Message != "email is taken" {
		t.Fatalf("service message must win, got %q", ae.Message)
	}
	if ae.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", ae.StatusCode)
	}
	if ae.Success {
		t.Fatalf("normalized errors are never successful")
	}
}

func TestClient_FallsBackToStatusMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.Get(context.Background(), "/auth/me", nil)
	ae := domain.AsAPIError(err)
	if ae == nil {
		t.Fatalf("expected APIError, got %v", err)
	}
	if ae.Message == "" {
		t.Fatalf("message must never be empty")
	}
	if ae.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", ae.StatusCode)
	}
}

func TestClient_FieldErrorsPassThrough(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "validation failed",
			"errors": map[string][]string{
				"email":    {"email must be a valid email"},
				"password": {"password must be at least 8 characters"},
			},
		})
	})

	err := client.Post(context.Background(), "/auth/register", nil, nil)
	ae := domain.AsAPIError(err)
	if ae == nil {
		t.Fatalf("expected APIError, got %v", err)
	}
	if len(ae.Errors["email"]) != 1 || len(ae.Errors["password"]) != 1 {
		t.Fatalf("field errors not passed through: %+v", ae.Errors)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	creds := memory.New()
	// Port 1 is never listening.
	client := NewClient(Options{BaseURL: "http://127.0.0.1:1"}, creds, zerolog.Nop())

	err := client.Get(context.Background(), "/auth/me", nil)
	ae := domain.AsAPIError(err)
	if ae == nil {
		t.Fatalf("expected APIError, got %v", err)
	}
	if ae.StatusCode != 0 {
		t.Fatalf("transport failures carry no status, got %d", ae.StatusCode)
	}
	if ae.Message == "" {
		t.Fatalf("transport failure must carry the transport error text")
	}
}

func TestClient_401ClearsCredentialStore(t *testing.T) {
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"message": "invalid token"})
	})

	creds.Save(context.Background(), "stale-token", nil)

	err := client.Get(context.Background(), "/auth/me", nil)
	if !domain.IsAuthFailure(err) {
		t.Fatalf("expected auth failure, got %v", err)
	}

	cred, lerr := creds.Load(context.Background())
	if lerr != nil {
		t.Fatalf("load: %v", lerr)
	}
	if cred != nil {
		t.Fatalf("store must be empty immediately after a 401, got %+v", cred)
	}
}

func TestClient_Non401FailureKeepsCredential(t *testing.T) {
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	creds.Save(context.Background(), "tok-1", nil)

	if err := client.Get(context.Background(), "/auth/users", nil); err == nil {
		t.Fatalf("expected error")
	}
	cred, _ := creds.Load(context.Background())
	if cred == nil || cred.Token != "tok-1" {
		t.Fatalf("non-401 failures must not clear the store")
	}
}
