package handlers

import (
	"context"
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

// PayrollHandler serves the admin payroll and expense screens
type PayrollHandler struct {
	Service *services.PayrollService
}

func NewPayrollHandler(s *services.PayrollService) *PayrollHandler {
	return &PayrollHandler{Service: s}
}

func (h *PayrollHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.PayrollSummary(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, summary)
}

func (h *PayrollHandler) PayStaff(w http.ResponseWriter, r *http.Request) {
	h.pay(w, r, h.Service.RecordStaffPayment)
}

// PaySecurity also mirrors the payment into the expense ledger
func (h *PayrollHandler) PaySecurity(w http.ResponseWriter, r *http.Request) {
	h.pay(w, r, h.Service.RecordSecurityPayment)
}

type recordFunc func(ctx context.Context, req *models.CreateStaffPaymentRequest, actorID int) (*models.StaffPayment, error)

func (h *PayrollHandler) pay(w http.ResponseWriter, r *http.Request, record recordFunc) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	var req models.CreateStaffPaymentRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	payment, err := record(r.Context(), &req, c.ID)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusCreated, "Payment recorded", payment)
}

func (h *PayrollHandler) Expenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.ListExpenses(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	utils.Success(w, http.StatusOK, expenses)
}
