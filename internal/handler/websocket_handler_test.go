package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/voxpense/voxpense-backend/internal/websocket"
)

// mockJWTValidator is a test double for JWT validation
type mockJWTValidator struct {
	workspaceID int32
	err         error
}

func (m *mockJWTValidator) ValidateToken(token string) (int32, error) {
	return m.workspaceID, m.err
}

var testAllowedOrigins = []string{"http://localhost:3000", "https://voxpense.app"}

func TestHandleWS_MissingToken(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	h := NewWebSocketHandler(hub, &mockJWTValidator{workspaceID: 1}, testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.HandleWS(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
	if hub.ClientCount(1) != 0 {
		t.Errorf("Expected no registered clients, got %d", hub.ClientCount(1))
	}
}

func TestHandleWS_InvalidToken(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	h := NewWebSocketHandler(hub, &mockJWTValidator{err: errors.New("bad signature")}, testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws?token=invalid-jwt", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.HandleWS(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestCheckOrigin(t *testing.T) {
	hub := websocket.NewHub()
	h := NewWebSocketHandler(hub, &mockJWTValidator{workspaceID: 1}, testAllowedOrigins)

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"allowed origin", "http://localhost:3000", true},
		{"second allowed origin", "https://voxpense.app", true},
		{"no origin header", "", true},
		{"disallowed origin", "https://evil.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := h.checkOrigin(req); got != tt.allowed {
				t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.allowed)
			}
		})
	}
}
