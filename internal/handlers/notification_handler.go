package handlers

import (
	"net/http"

	"rental-backend/internal/notify"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type NotificationHandler struct {
	Service *services.NotificationService
	Hub     *notify.Hub
}

func NewNotificationHandler(s *services.NotificationService, hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{Service: s, Hub: hub}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	list, err := h.Service.ListMine(r.Context(), c.ID)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, list)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	if err := h.Service.MarkRead(r.Context(), id, c.ID); err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusOK, "Notification marked as read", nil)
}

// Stream upgrades to a websocket carrying the caller's notifications as JSON frames
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	h.Hub.ServeWS(w, r, c.ID)
}
