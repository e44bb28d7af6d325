package response

import (
	"time"

	"bus-ticketing/internal/data/entity"
)

type AuthResponse struct {
	UserID      string          `json:"userId"`
	Token       string          `json:"token"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	CounterCode string          `json:"counterCode"`
	Name        string          `json:"name"`
	Role        entity.UserRole `json:"role"`
}

// CounterResponse describes a counter account; also the body of the role check.
type CounterResponse struct {
	ID          string          `json:"id"`
	CounterCode string          `json:"counterCode"`
	Name        string          `json:"name"`
	Role        entity.UserRole `json:"role"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func CounterToResponse(user *entity.User) CounterResponse {
	return CounterResponse{
		ID:          user.ID.String(),
		CounterCode: user.CounterCode,
		Name:        user.Name,
		Role:        user.Role,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
	}
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		UserID:      user.ID.String(),
		CounterCode: user.CounterCode,
		Name:        user.Name,
		Role:        user.Role,
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}
