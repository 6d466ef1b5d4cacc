package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/arklim/selfstudy-web/internal/core/port"
	"github.com/arklim/selfstudy-web/internal/infra/logger"
	"github.com/arklim/selfstudy-web/internal/repository/memory"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *memory.SessionStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := memory.NewSessionStore()
	return NewClient(server.URL, time.Second, store, zaptest.NewLogger(t)), store
}

func TestClientAttachesBearerCredential(t *testing.T) {
	var gotAuth string
	client, store := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	if err := store.Set("token-a", "token-r"); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	if _, err := client.List(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "Bearer token-a" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestClientOmitsBearerWhenAnonymous(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	if _, err := client.List(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}
}

func TestClientForwardsRequestID(t *testing.T) {
	var gotID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		gotID = req.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`[]`))
	})

	ctx := context.WithValue(context.Background(), logger.RequestIDKey{}, "req-123")
	if _, err := client.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotID != "req-123" {
		t.Fatalf("expected request id to propagate, got %q", gotID)
	}
}

func TestClientClassifiesStatusCodes(t *testing.T) {
	cases := []struct {
		status   int
		sentinel error
	}{
		{status: http.StatusUnauthorized, sentinel: ErrUnauthorized},
		{status: http.StatusForbidden, sentinel: ErrForbidden},
		{status: http.StatusNotFound, sentinel: ErrNotFound},
	}

	for _, tc := range cases {
		client, _ := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(tc.status)
		})

		_, err := client.Get(context.Background(), 1)
		if !errors.Is(err, tc.sentinel) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.sentinel, err)
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != tc.status {
			t.Fatalf("status %d: expected APIError carrying the status, got %v", tc.status, err)
		}
	}
}

func TestClientParsesFieldErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"email":["already registered"],"password":["too short","too common"]}`))
	})

	err := client.Signup(context.Background(), port.SignupInput{Email: "a@b.c", Password: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}

	detail := apiErr.Detail()
	if detail != "email: already registered; password: too short; too common" {
		t.Fatalf("unexpected detail %q", detail)
	}
}

func TestClientParsesDetailMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
	})

	_, err := client.ObtainToken(context.Background(), "a@b.c", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "No active account found with the given credentials" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestClientMultipartUploads(t *testing.T) {
	var (
		gotContentType string
		gotTitle       string
		gotFile        string
	)
	client, store := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		gotContentType = req.Header.Get("Content-Type")
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotTitle = req.FormValue("title")
		if _, header, err := req.FormFile("illustration"); err == nil {
			gotFile = header.Filename
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1,"title":"Intro"}`))
	})

	if err := store.Set("token-a", "token-r"); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	material, err := client.AddMaterial(context.Background(), 7, port.MaterialInput{
		Title:        "Intro",
		Content:      "hello",
		Illustration: &port.Upload{FileName: "pic.png", Content: []byte{1, 2, 3}},
	})
	if err != nil {
		t.Fatalf("add material: %v", err)
	}

	if !strings.HasPrefix(gotContentType, "multipart/form-data; boundary=") {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if gotTitle != "Intro" {
		t.Fatalf("expected title field, got %q", gotTitle)
	}
	if gotFile != "pic.png" {
		t.Fatalf("expected uploaded file name, got %q", gotFile)
	}
	if material.Title != "Intro" {
		t.Fatalf("unexpected material %+v", material)
	}
}

func TestClientObtainToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/token/" {
			t.Errorf("unexpected path %s", req.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access":"a1","refresh":"r1"}`))
	})

	pair, err := client.ObtainToken(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("obtain: %v", err)
	}
	if pair.Access != "a1" || pair.Refresh != "r1" {
		t.Fatalf("unexpected pair %+v", pair)
	}
}
