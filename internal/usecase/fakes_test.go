package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/pkg/utils"

	"github.com/google/uuid"
)

// In-memory repositories for service tests.

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.CounterCode == u.CounterCode {
			return fmt.Errorf("counter code %s already exists", u.CounterCode)
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *memUsers) FindByCounterCode(_ context.Context, code string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.CounterCode == code {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindAll(context.Context, int, int) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) CountAll(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memUsers) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
	revoked  []uuid.UUID
}

func (m *memSessions) Create(_ context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token.String()] = s
	return nil
}

func (m *memSessions) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sessions[token]
	if s == nil || s.RevokedAt != nil {
		return nil, nil
	}
	return s, nil
}

func (m *memSessions) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.sessions[token]; s != nil {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

func (m *memSessions) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked = append(m.revoked, userID)
	return nil
}

func (m *memSessions) CleanExpiredSessions(context.Context) (int64, error) {
	return 0, nil
}

type memBuses struct {
	mu    sync.Mutex
	buses map[uuid.UUID]*entity.Bus
}

func (m *memBuses) Create(_ context.Context, b *entity.Bus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buses[b.ID] = b
	return nil
}

func (m *memBuses) FindByID(_ context.Context, id uuid.UUID) (*entity.Bus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buses[id], nil
}

func (m *memBuses) FindAll(_ context.Context, _, _ int, filter repository.BusFilter) ([]*entity.Bus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Bus
	for _, b := range m.buses {
		if filter.ActiveOnly && !b.IsActive {
			continue
		}
		if filter.RouteID != nil && (b.RouteID == nil || *b.RouteID != *filter.RouteID) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *memBuses) CountAll(ctx context.Context, filter repository.BusFilter) (int64, error) {
	all, _ := m.FindAll(ctx, 0, 0, filter)
	return int64(len(all)), nil
}

func (m *memBuses) Update(_ context.Context, b *entity.Bus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buses[b.ID] = b
	return nil
}

func (m *memBuses) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buses, id)
	return nil
}

type memRoutes struct {
	mu     sync.Mutex
	routes map[uuid.UUID]*entity.Route
}

func (m *memRoutes) Create(_ context.Context, r *entity.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[r.ID] = r
	return nil
}

func (m *memRoutes) FindByID(_ context.Context, id uuid.UUID) (*entity.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.routes[id], nil
}

func (m *memRoutes) FindAll(context.Context, int, int, *string) ([]*entity.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Route
	for _, r := range m.routes {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRoutes) CountAll(context.Context, *string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.routes)), nil
}

func (m *memRoutes) Update(_ context.Context, r *entity.Route) error {
	return m.Create(context.Background(), r)
}

func (m *memRoutes) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.routes, id)
	return nil
}

// memBookings enforces one confirmed booking per bus, date and seat, and
// writes a batch all or nothing.
type memBookings struct {
	mu       sync.Mutex
	bookings []*entity.Booking
	batches  int
}

func (m *memBookings) CreateBatch(_ context.Context, batch []*entity.Booking) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++

	var taken []string
	for _, nb := range batch {
		for _, b := range m.bookings {
			if b.Status == entity.BookingStatusConfirmed && b.BusID == nb.BusID &&
				b.TravelDate.Equal(nb.TravelDate) && b.SeatNumber == nb.SeatNumber {
				taken = append(taken, nb.SeatNumber)
			}
		}
	}
	if len(taken) > 0 {
		return taken, nil
	}
	m.bookings = append(m.bookings, batch...)
	return nil, nil
}

func (m *memBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (m *memBookings) FindByOrderID(_ context.Context, orderID string) ([]*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Booking
	for _, b := range m.bookings {
		if b.OrderID == orderID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) FindConfirmedByBusAndDate(_ context.Context, busID uuid.UUID, date time.Time) ([]*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Booking
	for _, b := range m.bookings {
		if b.Status == entity.BookingStatusConfirmed && b.BusID == busID && b.TravelDate.Equal(date) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) Cancel(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id && b.Status == entity.BookingStatusConfirmed {
			b.Status = entity.BookingStatusCancelled
			return nil
		}
	}
	return fmt.Errorf("booking not found")
}

type memStore struct {
	repo     *repository.Repository
	users    *memUsers
	sessions *memSessions
	buses    *memBuses
	routes   *memRoutes
	bookings *memBookings
}

func newMemStore() *memStore {
	s := &memStore{
		users:    &memUsers{users: map[uuid.UUID]*entity.User{}},
		sessions: &memSessions{sessions: map[string]*entity.Session{}},
		buses:    &memBuses{buses: map[uuid.UUID]*entity.Bus{}},
		routes:   &memRoutes{routes: map[uuid.UUID]*entity.Route{}},
		bookings: &memBookings{},
	}
	s.repo = &repository.Repository{
		User:    s.users,
		Session: s.sessions,
		Bus:     s.buses,
		Route:   s.routes,
		Booking: s.bookings,
	}
	return s
}

func testConfig() *utils.Config {
	return &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 12},
		Booking: utils.BookingConfig{MaxSeats: 4, TicketCompany: "Green Line"},
	}
}
