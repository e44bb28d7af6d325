package usecase

import (
	"context"
	"testing"

	"bus-ticketing/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateRoute_CleansInput(t *testing.T) {
	store := newMemStore()
	svc := NewRouteService(store.routes, zap.NewNop())

	route, err := svc.CreateRoute(context.Background(), &request.RouteRequest{
		RouteName:      "  Dhaka - Sylhet ",
		RouteCode:      "dhk-syl",
		BoardingPoints: []string{" Gabtoli", "", "Sayedabad", "Gabtoli"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dhaka - Sylhet", route.RouteName)
	assert.Equal(t, "DHK-SYL", route.RouteCode)
	assert.Equal(t, []string{"Gabtoli", "Sayedabad"}, route.BoardingPoints)
}

func TestCreateBus(t *testing.T) {
	store := newMemStore()
	svc := NewBusService(store.repo, zap.NewNop())
	ctx := context.Background()

	bus, err := svc.CreateBus(ctx, &request.BusRequest{Name: "Night Coach", BusNumber: "DHK-11", Fare: 500, DepartureTime: "22:30"})
	require.NoError(t, err)
	assert.Equal(t, "standard", bus.CoachLayout)
	assert.Equal(t, 46, bus.SeatCount)
	assert.True(t, bus.IsActive)

	_, err = svc.CreateBus(ctx, &request.BusRequest{Name: "X", BusNumber: "X-1", CoachLayout: "sleeper", DepartureTime: "10:00"})
	assert.ErrorContains(t, err, "validation failed")

	_, err = svc.CreateBus(ctx, &request.BusRequest{Name: "X", BusNumber: "X-1", DepartureTime: "25:99"})
	assert.ErrorContains(t, err, "departureTime")

	missing := "6f1c2b8e-8a57-4c7e-9a57-0d0c4c1f3b11"
	_, err = svc.CreateBus(ctx, &request.BusRequest{Name: "X", BusNumber: "X-1", DepartureTime: "10:00", RouteID: &missing})
	assert.ErrorContains(t, err, "not found")
}

func TestGetBuses_ActiveOnly(t *testing.T) {
	store := newMemStore()
	svc := NewBusService(store.repo, zap.NewNop())
	ctx := context.Background()

	inactive := false
	_, err := svc.CreateBus(ctx, &request.BusRequest{Name: "A", BusNumber: "A-1", DepartureTime: "08:00", CoachLayout: "compact"})
	require.NoError(t, err)
	_, err = svc.CreateBus(ctx, &request.BusRequest{Name: "B", BusNumber: "B-1", DepartureTime: "09:00", IsActive: &inactive})
	require.NoError(t, err)

	page, err := svc.GetBuses(ctx, &request.PaginatedRequest{Page: 1, PerPage: 10}, nil, true)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, 44, page.Data[0].SeatCount)
	assert.Equal(t, int64(1), page.Pagination.Total)

	bad := "nope"
	_, err = svc.GetBuses(ctx, &request.PaginatedRequest{Page: 1, PerPage: 10}, &bad, false)
	assert.EqualError(t, err, "invalid route ID")
}
