package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clanops/muster/pkg/muster"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{Enabled: true, BaseURL: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestCreateInvite(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/admin/invites" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req InviteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Role != "Viewer" {
			t.Errorf("expected default Viewer role, got %q", req.Role)
		}

		json.NewEncoder(w).Encode(Invite{ID: 1, Email: req.Email, URL: "https://dash/invite/1"})
	})

	invite, err := c.CreateInvite(context.Background(), InviteRequest{Name: "Alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}
	if invite.Email != "alice@example.com" || invite.URL == "" {
		t.Errorf("unexpected invite %+v", invite)
	}
}

func TestCreateInvite_ErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, muster.ErrNotFound},
		{http.StatusUnauthorized, muster.ErrPermission},
		{http.StatusForbidden, muster.ErrPermission},
		{http.StatusInternalServerError, muster.ErrUpstream},
	}

	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		})
		_, err := c.CreateInvite(context.Background(), InviteRequest{Email: "x@example.com"})
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestCreateInvite_MissingEmail(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {})
	_, err := c.CreateInvite(context.Background(), InviteRequest{Name: "Alice"})
	if !errors.Is(err, muster.ErrFormat) {
		t.Errorf("expected format error, got %v", err)
	}
}

func TestCreateInvite_Disabled(t *testing.T) {
	c, err := NewClient(Config{Enabled: false})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.CreateInvite(context.Background(), InviteRequest{Email: "x@example.com"}); !errors.Is(err, muster.ErrUpstream) {
		t.Errorf("expected upstream error, got %v", err)
	}
}
