package handlers

import (
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type BillHandler struct {
	Service *services.BillService
}

func NewBillHandler(s *services.BillService) *BillHandler {
	return &BillHandler{Service: s}
}

// ListRentBills returns every bill for admins and only the caller's own for tenants
func (h *BillHandler) ListRentBills(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	f, err := billFilter(r, c)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	bills, err := h.Service.ListRentBills(r.Context(), f)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if bills == nil {
		bills = []*models.RentBillView{}
	}
	utils.Success(w, http.StatusOK, bills)
}

func (h *BillHandler) CreateRentBill(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	var req models.CreateRentBillRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	bill, err := h.Service.CreateRentBill(r.Context(), &req, c.ID)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusCreated, "Rent bill created", bill)
}

func (h *BillHandler) MarkRentBillPaid(w http.ResponseWriter, r *http.Request) {
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

	bill, err := h.Service.MarkRentBillPaid(r.Context(), id, c.ID)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusOK, "Rent bill marked as paid", bill)
}

func (h *BillHandler) DeleteRentBill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if err := h.Service.DeleteRentBill(r.Context(), id); err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusOK, "Rent bill deleted", nil)
}

// MarkOverdue runs the overdue sweep on demand
func (h *BillHandler) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	bills, err := h.Service.MarkOverdueRentBills(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if bills == nil {
		bills = []*models.RentBill{}
	}
	utils.Success(w, http.StatusOK, map[string]any{
		"marked": len(bills),
		"bills":  bills,
	})
}

func (h *BillHandler) ListUtilityBills(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	f, err := billFilter(r, c)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	bills, err := h.Service.ListUtilityBills(r.Context(), f)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if bills == nil {
		bills = []*models.UtilityBillView{}
	}
	utils.Success(w, http.StatusOK, bills)
}

func (h *BillHandler) CreateUtilityBill(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	var req models.CreateUtilityBillRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	bill, err := h.Service.CreateUtilityBill(r.Context(), &req, c.ID)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusCreated, "Utility bill created", bill)
}

func (h *BillHandler) MarkUtilityBillPaid(w http.ResponseWriter, r *http.Request) {
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

	bill, err := h.Service.MarkUtilityBillPaid(r.Context(), id, c.ID)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusOK, "Utility bill marked as paid", bill)
}

func (h *BillHandler) DeleteUtilityBill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if err := h.Service.DeleteUtilityBill(r.Context(), id); err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusOK, "Utility bill deleted", nil)
}
