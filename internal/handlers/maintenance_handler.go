package handlers

import (
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type MaintenanceHandler struct {
	Service *services.MaintenanceService
}

func NewMaintenanceHandler(s *services.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{Service: s}
}

// List returns all requests for admins and a tenant's own otherwise
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	tenantID := c.ID
	if c.isAdmin() {
		tenantID = 0
	}

	list, err := h.Service.List(r.Context(), tenantID)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if list == nil {
		list = []*models.MaintenanceRequest{}
	}
	utils.Success(w, http.StatusOK, list)
}

func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	var req models.CreateMaintenanceRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	m, err := h.Service.CreateRequest(r.Context(), c.ID, &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusCreated, "Maintenance request submitted", m)
}

func (h *MaintenanceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	var req models.UpdateMaintenanceStatusRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	m, err := h.Service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusOK, "Status updated", m)
}
