package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newPiAPIStub(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/me" {
			http.NotFound(w, r)
			return
		}
		calls.Add(1)
		switch r.Header.Get("Authorization") {
		case "Bearer good-token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"uid":"pi-uid-1","username":"pioneer"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
}

func TestVerifyAccessToken(t *testing.T) {
	var calls atomic.Int64
	srv := newPiAPIStub(t, &calls)
	defer srv.Close()

	s := NewPiAuthService(srv.URL)
	defer s.Stop()

	identity, err := s.VerifyAccessToken(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if identity.UID != "pi-uid-1" || identity.Username != "pioneer" {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestVerifyAccessTokenRejected(t *testing.T) {
	var calls atomic.Int64
	srv := newPiAPIStub(t, &calls)
	defer srv.Close()

	s := NewPiAuthService(srv.URL)
	defer s.Stop()

	if _, err := s.VerifyAccessToken(context.Background(), "bad-token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := s.VerifyAccessToken(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("empty token: expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyAccessTokenCached(t *testing.T) {
	var calls atomic.Int64
	srv := newPiAPIStub(t, &calls)
	defer srv.Close()

	s := NewPiAuthService(srv.URL)
	defer s.Stop()

	for i := 0; i < 5; i++ {
		if _, err := s.VerifyAccessToken(context.Background(), "good-token"); err != nil {
			t.Fatalf("verify %d failed: %v", i, err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("platform hit %d times; want 1 (cached)", got)
	}
}
