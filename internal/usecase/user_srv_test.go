package usecase

import (
	"context"
	"testing"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckCounter(t *testing.T) {
	store := newMemStore()
	seedCounter(t, store, "CTR-01", true)
	svc := NewUserService(store.users, store.sessions, zap.NewNop())
	ctx := context.Background()

	counter, err := svc.CheckCounter(ctx, "  CTR-01 ")
	require.NoError(t, err)
	assert.Equal(t, "CTR-01", counter.CounterCode)
	assert.Equal(t, entity.RoleCounter, counter.Role)
	assert.True(t, counter.IsActive)

	_, err = svc.CheckCounter(ctx, "CTR-99")
	assert.EqualError(t, err, "counter not found")

	_, err = svc.CheckCounter(ctx, " ")
	assert.ErrorContains(t, err, "validation failed")
}

func TestCreateAndDeleteCounter(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(store.users, store.sessions, zap.NewNop())
	ctx := context.Background()

	admin, err := svc.CreateCounter(ctx, &request.CounterRequest{CounterCode: "ADM-1", Name: "Head office", Password: "secret1", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)

	counter, err := svc.CreateCounter(ctx, &request.CounterRequest{CounterCode: " CTR-05 ", Name: "Gabtoli", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "CTR-05", counter.CounterCode)
	assert.Equal(t, entity.RoleCounter, counter.Role)

	_, err = svc.CreateCounter(ctx, &request.CounterRequest{CounterCode: "CTR-05", Name: "Again", Password: "secret1"})
	assert.ErrorContains(t, err, "already exists")

	_, err = svc.CreateCounter(ctx, &request.CounterRequest{CounterCode: "CTR-06", Name: "Short", Password: "123"})
	assert.ErrorContains(t, err, "validation failed")

	require.NoError(t, svc.DeleteCounter(ctx, counter.ID))
	assert.Contains(t, store.sessions.revoked, uuid.MustParse(counter.ID))

	_, err = svc.CheckCounter(ctx, "CTR-05")
	assert.EqualError(t, err, "counter not found")

	assert.EqualError(t, svc.DeleteCounter(ctx, counter.ID), "counter not found")
	assert.EqualError(t, svc.DeleteCounter(ctx, "nope"), "invalid user ID")
}
