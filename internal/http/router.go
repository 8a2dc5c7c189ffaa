package http

import (
	"net/http"

	"rental-backend/internal/handlers"
	"rental-backend/internal/middleware"
	"rental-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	billHandler *handlers.BillHandler,
	paymentHandler *handlers.PaymentHandler,
	maintenanceHandler *handlers.MaintenanceHandler,
	payrollHandler *handlers.PayrollHandler,
	securityHandler *handlers.SecurityHandler,
	notificationHandler *handlers.NotificationHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Public routes
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Everything below requires a valid session
	api := r.NewRoute().Subrouter()
	api.Use(authMiddleware.Authenticate)

	admin := only(authMiddleware, models.RoleAdmin)
	tenant := only(authMiddleware, models.RoleTenant)
	adminOrTenant := only(authMiddleware, models.RoleAdmin, models.RoleTenant)
	security := only(authMiddleware, models.RoleSecurity)

	// Session
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	// Rent bills
	api.Handle("/rent-bills/overdue", admin(billHandler.MarkOverdue)).Methods("POST")
	api.Handle("/rent-bills", adminOrTenant(billHandler.ListRentBills)).Methods("GET")
	api.Handle("/rent-bills", admin(billHandler.CreateRentBill)).Methods("POST")
	api.Handle("/rent-bills/{id:[0-9]+}", admin(billHandler.MarkRentBillPaid)).Methods("PATCH")
	api.Handle("/rent-bills/{id:[0-9]+}", admin(billHandler.DeleteRentBill)).Methods("DELETE")

	// Utility bills
	api.Handle("/utility-bills", adminOrTenant(billHandler.ListUtilityBills)).Methods("GET")
	api.Handle("/utility-bills", admin(billHandler.CreateUtilityBill)).Methods("POST")
	api.Handle("/utility-bills/{id:[0-9]+}", admin(billHandler.MarkUtilityBillPaid)).Methods("PATCH")
	api.Handle("/utility-bills/{id:[0-9]+}", admin(billHandler.DeleteUtilityBill)).Methods("DELETE")

	// Payments and reconciliation
	api.Handle("/payments", admin(paymentHandler.ListPending)).Methods("GET")
	api.Handle("/payments/dues", tenant(paymentHandler.Dues)).Methods("GET")
	api.Handle("/payments/confirm", tenant(paymentHandler.Confirm)).Methods("POST")
	api.Handle("/payments/{id:[0-9]+}/verify", admin(paymentHandler.Verify)).Methods("PATCH")
	api.Handle("/payments/{id:[0-9]+}/receipt", adminOrTenant(paymentHandler.Receipt)).Methods("GET")

	// Maintenance
	api.Handle("/maintenance", adminOrTenant(maintenanceHandler.List)).Methods("GET")
	api.Handle("/maintenance", tenant(maintenanceHandler.Create)).Methods("POST")
	api.Handle("/maintenance/{id:[0-9]+}", admin(maintenanceHandler.UpdateStatus)).Methods("PATCH")

	// Payroll and expenses
	api.Handle("/admin/security/pay", admin(payrollHandler.Summary)).Methods("GET")
	api.Handle("/admin/security/pay", admin(payrollHandler.PaySecurity)).Methods("POST")
	api.Handle("/admin/staff/pay", admin(payrollHandler.Summary)).Methods("GET")
	api.Handle("/admin/staff/pay", admin(payrollHandler.PayStaff)).Methods("POST")
	api.Handle("/admin/expenses", admin(payrollHandler.Expenses)).Methods("GET")

	// Users and rooms
	api.Handle("/admin/users", admin(userHandler.ListUsers)).Methods("GET")
	api.Handle("/admin/users", admin(userHandler.CreateUser)).Methods("POST")
	api.Handle("/admin/rooms", admin(userHandler.ListRooms)).Methods("GET")
	api.Handle("/admin/rooms", admin(userHandler.CreateRoom)).Methods("POST")

	// Security guard
	api.Handle("/security/dashboard", security(securityHandler.Dashboard)).Methods("GET")
	api.Handle("/security/dashboard", security(securityHandler.LogWaterTanker)).Methods("POST")

	// Notifications (any role)
	api.HandleFunc("/notifications", notificationHandler.List).Methods("GET")
	api.HandleFunc("/notifications/{id:[0-9]+}/read", notificationHandler.MarkRead).Methods("PATCH")
	api.HandleFunc("/ws/notifications", notificationHandler.Stream).Methods("GET")

	return r
}

// only wraps a handler so it runs for the listed roles alone
func only(m *middleware.AuthMiddleware, roles ...string) func(http.HandlerFunc) http.Handler {
	guard := m.RequireRole(roles...)
	return func(h http.HandlerFunc) http.Handler {
		return guard(h)
	}
}
