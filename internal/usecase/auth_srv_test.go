package usecase

import (
	"context"
	"testing"
	"time"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/internal/dto/request"
	"bus-ticketing/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedCounter(t *testing.T, store *memStore, code string, active bool) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	u := &entity.User{Base: entity.NewBase(fixedNow), CounterCode: code, Name: "Desk " + code, PasswordHash: hash, Role: entity.RoleCounter, IsActive: active}
	require.NoError(t, store.users.Create(context.Background(), u))
	return u
}

func TestLogin(t *testing.T) {
	store := newMemStore()
	seedCounter(t, store, "CTR-01", true)
	seedCounter(t, store, "CTR-02", false)

	svc := NewAuthService(store.repo, testConfig(), zap.NewNop()).(*authService)
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	resp, err := svc.Login(ctx, &request.LoginRequest{CounterCode: "CTR-01", Password: "secret1"}, ClientInfo{UserAgent: "counter/1.0", IPAddress: "10.0.0.5"})
	require.NoError(t, err)
	assert.Equal(t, "CTR-01", resp.CounterCode)
	assert.Equal(t, entity.RoleCounter, resp.Role)
	assert.Equal(t, fixedNow.Add(12*time.Hour), resp.ExpiresAt)

	session, _ := store.sessions.FindValidSession(ctx, resp.Token)
	require.NotNil(t, session)
	assert.Equal(t, "10.0.0.5", *session.IPAddress)

	_, err = svc.Login(ctx, &request.LoginRequest{CounterCode: "CTR-01", Password: "wrong-pass"}, ClientInfo{})
	assert.EqualError(t, err, "invalid credentials")

	_, err = svc.Login(ctx, &request.LoginRequest{CounterCode: "CTR-99", Password: "secret1"}, ClientInfo{})
	assert.EqualError(t, err, "invalid credentials")

	_, err = svc.Login(ctx, &request.LoginRequest{CounterCode: "CTR-02", Password: "secret1"}, ClientInfo{})
	assert.ErrorContains(t, err, "deactivated")

	_, err = svc.Login(ctx, &request.LoginRequest{CounterCode: "CTR-01", Password: "123"}, ClientInfo{})
	assert.ErrorContains(t, err, "validation failed")

	require.NoError(t, svc.Logout(ctx, resp.Token))
	session, _ = store.sessions.FindValidSession(ctx, resp.Token)
	assert.Nil(t, session)
	assert.Error(t, svc.Logout(ctx, "not-a-token"))
}
