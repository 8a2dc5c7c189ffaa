package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"rental-backend/internal/apperr"
	"rental-backend/internal/auth"
	"rental-backend/internal/billing"
	"rental-backend/internal/models"
	"rental-backend/internal/store"
)

type UserService struct {
	Store      store.Store
	JWTManager *auth.JWTManager
}

func NewUserService(st store.Store, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Store:      st,
		JWTManager: jwtManager,
	}
}

// Login checks credentials and returns the user with a signed session token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	user, err := s.Store.Users().GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", apperr.Unauthorized("Invalid email or password")
		}
		return nil, "", err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, "", apperr.Unauthorized("Invalid email or password")
	}
	if !user.IsActive {
		return nil, "", apperr.Forbidden("Account suspended. Please contact administrator.")
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	log.Printf("[Auth] %s logged in as %s", user.Email, user.Role)
	return user, token, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	u, err := s.Store.Users().Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

// CreateUser hashes the password and stores the user. Room assignment is tenants only.
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if req.RoomID != nil && req.Role != models.RoleTenant {
		return nil, apperr.Validation("only tenants can be assigned a room")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         req.Role,
		RoomID:       req.RoomID,
	}

	if u.RoomID != nil {
		if _, err := s.Store.Rooms().Get(ctx, *u.RoomID); err != nil {
			return nil, notFound(err, "room", *u.RoomID)
		}
	}
	if err := s.Store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperr.Conflict("user with this email already exists")
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Store.Users().List(ctx)
}

func (s *UserService) CreateRoom(ctx context.Context, req *models.CreateRoomRequest) (*models.Room, error) {
	room := &models.Room{
		RoomNumber:  strings.TrimSpace(req.RoomNumber),
		Floor:       req.Floor,
		MonthlyRent: billing.Money(req.MonthlyRent),
		Status:      models.RoomStatusVacant,
	}
	if room.RoomNumber == "" {
		return nil, apperr.Validation("room number is required")
	}
	if err := s.Store.Rooms().Create(ctx, room); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperr.Conflict("room %s already exists", room.RoomNumber)
		}
		return nil, err
	}
	return room, nil
}

func (s *UserService) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return s.Store.Rooms().List(ctx)
}
