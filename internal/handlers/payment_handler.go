package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func NewPaymentHandler(s *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: s}
}

// ListPending returns payments awaiting admin verification
func (h *PaymentHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Service.ListPendingPayments(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if payments == nil {
		payments = []*models.PaymentView{}
	}
	utils.Success(w, http.StatusOK, payments)
}

// Verify settles all of the tenant's outstanding bills against the payment
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.Service.VerifyPayment(r.Context(), id, c.ID)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusOK, "Payment verified and all dues cleared", result)
}

// Confirm records the tenant's claim to have paid everything they owe
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	payment, err := h.Service.RequestPaymentVerification(r.Context(), c.ID)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusCreated, "Payment submitted for verification", payment)
}

func (h *PaymentHandler) Dues(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	dues, err := h.Service.GetDues(r.Context(), c.ID)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, dues)
}

// Receipt streams the PDF receipt of a verified payment
func (h *PaymentHandler) Receipt(w http.ResponseWriter, r *http.Request) {
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

	filename, pdf, err := h.Service.Receipt(r.Context(), id, c.ID, c.Role)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
