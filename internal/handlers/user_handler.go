package handlers

import (
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

// UserHandler serves the admin user and room screens
type UserHandler struct {
	Service *services.UserService
}

func NewUserHandler(s *services.UserService) *UserHandler {
	return &UserHandler{Service: s}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	user, err := h.Service.CreateUser(r.Context(), &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusCreated, "User created", user)
}

// ListUsers returns all users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	utils.Success(w, http.StatusOK, users)
}

func (h *UserHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	room, err := h.Service.CreateRoom(r.Context(), &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusCreated, "Room created", room)
}

func (h *UserHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Service.ListRooms(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if rooms == nil {
		rooms = []*models.Room{}
	}
	utils.Success(w, http.StatusOK, rooms)
}
