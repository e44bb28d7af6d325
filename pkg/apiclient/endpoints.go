package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/dto/response"
)

// ==================== AUTH ====================

// Login authenticates a counter and switches the client to the new session.
func (c *Client) Login(ctx context.Context, counterCode, password string) (*Credentials, error) {
	req := request.LoginRequest{CounterCode: counterCode, Password: password}

	var resp response.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", nil, req, &resp, false); err != nil {
		return nil, err
	}

	c.creds = &Credentials{
		Token:       resp.Token,
		CounterCode: resp.CounterCode,
		Role:        string(resp.Role),
		ExpiresAt:   resp.ExpiresAt,
	}
	return c.creds, nil
}

// Logout revokes the session on the server and forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil, nil, true); err != nil {
		return err
	}
	c.creds = nil
	return nil
}

func (c *Client) Profile(ctx context.Context) (*response.CounterResponse, error) {
	var resp response.CounterResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/profile", nil, nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckCounter returns the account behind a counter code, including its role.
func (c *Client) CheckCounter(ctx context.Context, counterCode string) (*response.CounterResponse, error) {
	var resp response.CounterResponse
	path := "/api/user/check/" + url.PathEscape(counterCode)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ==================== FLEET ====================

func (c *Client) ListBuses(ctx context.Context, page, perPage int, activeOnly bool) (*response.PaginatedResponse[response.BusResponse], error) {
	q := pageQuery(page, perPage)
	if activeOnly {
		q.Set("active", "true")
	}

	var resp response.PaginatedResponse[response.BusResponse]
	if err := c.do(ctx, http.MethodGet, "/api/bus", q, nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetBus(ctx context.Context, busID string) (*response.BusDetailResponse, error) {
	var resp response.BusDetailResponse
	if err := c.do(ctx, http.MethodGet, "/api/bus/"+url.PathEscape(busID), nil, nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListRoutes(ctx context.Context, page, perPage int, search string) (*response.PaginatedResponse[response.RouteResponse], error) {
	q := pageQuery(page, perPage)
	if search != "" {
		q.Set("search", search)
	}

	var resp response.PaginatedResponse[response.RouteResponse]
	if err := c.do(ctx, http.MethodGet, "/api/routes", q, nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ==================== BOOKINGS ====================

// ListBookings returns the confirmed bookings of a bus on a travel date.
func (c *Client) ListBookings(ctx context.Context, busID, date string) ([]response.BookingResponse, error) {
	q := url.Values{"date": {date}}

	var resp []response.BookingResponse
	if err := c.do(ctx, http.MethodGet, "/api/bookings/bus/"+url.PathEscape(busID), q, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) SeatMap(ctx context.Context, busID, date string) (*response.SeatMapResponse, error) {
	q := url.Values{"date": {date}}

	var resp response.SeatMapResponse
	path := "/api/bookings/bus/" + url.PathEscape(busID) + "/seatmap"
	if err := c.do(ctx, http.MethodGet, path, q, nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateBooking books the requested seats. A *APIError with IsConflict
// reports seats taken by someone else; nothing was booked in that case.
func (c *Client) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.OrderResponse, error) {
	var resp response.OrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/bookings", nil, req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	var resp response.BookingResponse
	if err := c.do(ctx, http.MethodGet, "/api/bookings/"+url.PathEscape(bookingID), nil, nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelBooking frees one booked seat. Admin only.
func (c *Client) CancelBooking(ctx context.Context, bookingID string) error {
	return c.do(ctx, http.MethodDelete, "/api/bookings/"+url.PathEscape(bookingID), nil, nil, nil, true)
}

// DownloadTicket returns the PDF e-ticket of the booking's order.
func (c *Client) DownloadTicket(ctx context.Context, bookingID string) ([]byte, string, error) {
	return c.download(ctx, "/api/bookings/"+url.PathEscape(bookingID)+"/ticket")
}
