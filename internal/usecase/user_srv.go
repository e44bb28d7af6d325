package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/dto/response"
	"bus-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages counter accounts.
type UserService interface {
	CheckCounter(ctx context.Context, counterCode string) (*response.CounterResponse, error)
	GetProfile(ctx context.Context, userID string) (*response.CounterResponse, error)
	GetCounters(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CounterResponse], error)
	CreateCounter(ctx context.Context, req *request.CounterRequest) (*response.CounterResponse, error)
	DeleteCounter(ctx context.Context, userID string) error
}

type userService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	log         *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		log:         log.With(zap.String("service", "user")),
	}
}

// CheckCounter resolves the role of a counter code
func (us *userService) CheckCounter(ctx context.Context, counterCode string) (*response.CounterResponse, error) {
	counterCode = strings.TrimSpace(counterCode)
	if counterCode == "" {
		return nil, fmt.Errorf("validation failed: counterCode: This field is required")
	}

	user, err := us.userRepo.FindByCounterCode(ctx, counterCode)
	if err != nil {
		us.log.Error("Failed to find counter", zap.Error(err), zap.String("counter_code", counterCode))
		return nil, fmt.Errorf("failed to check counter")
	}
	if user == nil {
		return nil, fmt.Errorf("counter not found")
	}

	resp := response.CounterToResponse(user)
	return &resp, nil
}

func (us *userService) GetProfile(ctx context.Context, userID string) (*response.CounterResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		us.log.Warn("Invalid user ID", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("invalid user ID")
	}

	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get profile")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	resp := response.CounterToResponse(user)
	return &resp, nil
}

func (us *userService) GetCounters(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CounterResponse], error) {
	limit, offset := req.Limit(), req.Offset()

	users, err := us.userRepo.FindAll(ctx, limit, offset)
	if err != nil {
		us.log.Error("Failed to list counters", zap.Error(err))
		return nil, fmt.Errorf("failed to get counters")
	}

	total, err := us.userRepo.CountAll(ctx)
	if err != nil {
		us.log.Error("Failed to count counters", zap.Error(err))
		return nil, fmt.Errorf("failed to get counters")
	}

	data := make([]response.CounterResponse, 0, len(users))
	for _, u := range users {
		data = append(data, response.CounterToResponse(u))
	}

	return response.NewPaginatedResponse(data, req.Page, limit, total), nil
}

func (us *userService) CreateCounter(ctx context.Context, req *request.CounterRequest) (*response.CounterResponse, error) {
	req.CounterCode = strings.TrimSpace(req.CounterCode)
	req.Name = strings.TrimSpace(req.Name)

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	existing, err := us.userRepo.FindByCounterCode(ctx, req.CounterCode)
	if err != nil {
		us.log.Error("Failed to check counter code", zap.Error(err))
		return nil, fmt.Errorf("failed to create counter")
	}
	if existing != nil {
		return nil, fmt.Errorf("counter code %s already exists", req.CounterCode)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		us.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	role := entity.RoleCounter
	if req.Role == string(entity.RoleAdmin) {
		role = entity.RoleAdmin
	}

	user := &entity.User{
		Base:         entity.NewBase(time.Now()),
		CounterCode:  req.CounterCode,
		Name:         req.Name,
		PasswordHash: hashed,
		Role:         role,
		IsActive:     true,
	}

	if err := us.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	us.log.Info("Counter created",
		zap.String("user_id", user.ID.String()),
		zap.String("counter_code", user.CounterCode),
		zap.String("role", string(role)))

	resp := response.CounterToResponse(user)
	return &resp, nil
}

// DeleteCounter soft-deletes the account and revokes its sessions
func (us *userService) DeleteCounter(ctx context.Context, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID")
	}

	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to delete counter")
	}
	if user == nil {
		return fmt.Errorf("counter not found")
	}

	if err := us.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete counter: %w", err)
	}

	if err := us.sessionRepo.RevokeAllUserSessions(ctx, id); err != nil {
		us.log.Warn("Failed to revoke sessions of deleted counter", zap.Error(err), zap.String("user_id", userID))
	}

	us.log.Info("Counter deleted", zap.String("user_id", userID))
	return nil
}
