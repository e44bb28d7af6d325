package wire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fixedSessions struct {
	session *entity.Session
}

func (s fixedSessions) Create(context.Context, *entity.Session) error { return nil }
func (s fixedSessions) Revoke(context.Context, string) error { return nil }
func (s fixedSessions) RevokeAllUserSessions(context.Context, uuid.UUID) error { return nil }
func (s fixedSessions) CleanExpiredSessions(context.Context) (int64, error) { return 0, nil }

func (s fixedSessions) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	if s.session == nil || s.session.Token.String() != token {
		return nil, nil
	}
	return s.session, nil
}

func newTestApp(session *entity.Session) *App {
	repo := &repository.Repository{Session: fixedSessions{session: session}}
	config := &utils.Config{App: utils.AppConfig{Name: "bus-ticketing"}}
	return Wiring(repo, config, zap.NewNop())
}

func TestRouter(t *testing.T) {
	token := uuid.New()
	counter := &entity.Session{UserID: uuid.New(), Token: token, CounterCode: "CTR-01", Role: entity.RoleCounter}
	app := newTestApp(counter)

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		body     string
		wantCode int
	}{
		{"health is public", http.MethodGet, "/health", "", "", http.StatusOK},
		{"bus list needs a session", http.MethodGet, "/api/bus", "", "", http.StatusUnauthorized},
		{"unknown token", http.MethodGet, "/api/bus", uuid.NewString(), "", http.StatusUnauthorized},
		{"bookings need a session", http.MethodGet, "/api/bookings/bus/x?date=2030-01-15", "", "", http.StatusUnauthorized},
		{"admin bus create forbidden for counter", http.MethodPost, "/api/admin/bus", token.String(), `{}`, http.StatusForbidden},
		{"cancel forbidden for counter", http.MethodDelete, "/api/bookings/" + uuid.NewString(), token.String(), "", http.StatusForbidden},
		{"seat map without date", http.MethodGet, "/api/bookings/bus/x/seatmap", token.String(), "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			app.Router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	repo := &repository.Repository{Session: fixedSessions{}}
	config := &utils.Config{App: utils.AppConfig{Name: "bus-ticketing", CORSOrigins: []string{"https://counter.example"}}}
	app := Wiring(repo, config, zap.NewNop())

	req := httptest.NewRequest(http.MethodOptions, "/api/bus", nil)
	req.Header.Set("Origin", "https://counter.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	assert.Equal(t, "https://counter.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
