package handlers

import (
	"net/http"
	"strconv"

	"rental-backend/internal/apperr"
	"rental-backend/internal/middleware"
	"rental-backend/internal/models"

	"github.com/gorilla/mux"
)

// pathID reads the {id} route variable
func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid id")
	}
	return id, nil
}

// caller is the authenticated identity placed on the context by AuthMiddleware
type caller struct {
	ID   int
	Role string
}

func (c caller) isAdmin() bool { return c.Role == models.RoleAdmin }

func callerFrom(r *http.Request) (caller, error) {
	id, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return caller{}, apperr.Unauthorized("Authentication required")
	}
	role, _ := middleware.GetRoleFromContext(r.Context())
	return caller{ID: id, Role: role}, nil
}

// billFilter builds a listing filter. Tenants are pinned to their own bills;
// admins may narrow with ?tenant_id= and ?status=.
func billFilter(r *http.Request, c caller) (models.BillFilter, error) {
	var f models.BillFilter
	q := r.URL.Query()

	if status := q.Get("status"); status != "" {
		switch models.BillStatus(status) {
		case models.BillStatusDue, models.BillStatusPaid, models.BillStatusOverdue:
			f.Status = models.BillStatus(status)
		default:
			return f, apperr.Validation("status must be one of DUE, PAID, OVERDUE")
		}
	}

	if !c.isAdmin() {
		f.TenantID = c.ID
		return f, nil
	}
	if raw := q.Get("tenant_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return f, apperr.Validation("Invalid tenant_id")
		}
		f.TenantID = id
	}
	return f, nil
}
