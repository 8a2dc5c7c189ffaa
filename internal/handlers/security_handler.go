package handlers

import (
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

// SecurityHandler serves the security guard's dashboard
type SecurityHandler struct {
	Service *services.WaterTankerService
}

func NewSecurityHandler(s *services.WaterTankerService) *SecurityHandler {
	return &SecurityHandler{Service: s}
}

func (h *SecurityHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	dash, err := h.Service.Dashboard(r.Context(), c.ID)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, dash)
}

// LogWaterTanker records a tanker delivery made during the guard's shift
func (h *SecurityHandler) LogWaterTanker(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	var req models.CreateWaterTankerRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	entry, err := h.Service.LogWaterTanker(r.Context(), &req, c.ID)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusCreated, "Water tanker logged", entry)
}
