package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mounikab/rental-server/internal/models"
	"github.com/mounikab/rental-server/internal/service"
)

const dateLayout = "2006-01-02"

// Handler holds the service and exposes the HTTP endpoints
type Handler struct {
	svc service.Service
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.POST("/auth/admin/login", h.AdminLogin)
	api.POST("/auth/tenant/login", h.TenantLogin)

	admin := api.Group("", AuthMiddleware(), RequireRole(service.RoleAdmin))
	admin.GET("/apartments", h.ListApartments)
	admin.GET("/tenants", h.ListTenants)
	admin.POST("/tenants", h.AddTenant)
	admin.PUT("/tenants/:houseNo", h.UpdateTenant)
	admin.DELETE("/tenants/:houseNo", h.DeleteTenant)
	admin.POST("/maintenance/service", h.CompleteMaintenanceService)
	admin.GET("/complaints", h.ListComplaints)
	admin.GET("/audit/latest", h.ListLatestAuditEntries)

	tenant := api.Group("/me", AuthMiddleware(), RequireRole(service.RoleTenant))
	tenant.GET("/due", h.GetDueAmount)
	tenant.GET("/payments", h.GetPaymentHistory)
	tenant.POST("/payments", h.MakePayment)
	tenant.POST("/maintenance", h.FileMaintenanceRequest)
}

// Authentication handlers
func (h *Handler) AdminLogin(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.svc.AdminLogin(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) TenantLogin(c *gin.Context) {
	var req models.TenantLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.svc.TenantLogin(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Admin handlers
func (h *Handler) ListApartments(c *gin.Context) {
	apartments, err := h.svc.ListApartments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ApartmentsResponse{
		Status:     "success",
		Apartments: apartments,
	})
}

func (h *Handler) ListTenants(c *gin.Context) {
	tenants, err := h.svc.ListTenants(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TenantsResponse{
		Status:  "success",
		Tenants: tenants,
	})
}

func (h *Handler) AddTenant(c *gin.Context) {
	var req models.TenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	moveInDate, err := time.Parse(dateLayout, req.MoveInDate)
	if err != nil {
		respondBadRequest(c, "Move-in date must be in the format YYYY-MM-DD")
		return
	}

	resp, err := h.svc.AddTenant(c.Request.Context(), models.Tenant{
		HouseNo:     req.HouseNo,
		TenantName:  req.TenantName,
		PhoneNumber: req.PhoneNumber,
		ApartmentID: req.ApartmentID,
		MoveInDate:  moveInDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) UpdateTenant(c *gin.Context) {
	var req models.TenantUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	moveInDate, err := time.Parse(dateLayout, req.MoveInDate)
	if err != nil {
		respondBadRequest(c, "Move-in date must be in the format YYYY-MM-DD")
		return
	}

	resp, err := h.svc.UpdateTenant(c.Request.Context(), models.Tenant{
		HouseNo:     c.Param("houseNo"),
		TenantName:  req.TenantName,
		PhoneNumber: req.PhoneNumber,
		ApartmentID: req.ApartmentID,
		MoveInDate:  moveInDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) DeleteTenant(c *gin.Context) {
	resp, err := h.svc.DeleteTenant(c.Request.Context(), c.Param("houseNo"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) CompleteMaintenanceService(c *gin.Context) {
	var req models.CompleteMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.svc.CompleteMaintenanceService(c.Request.Context(), req.ApartmentID, req.HouseNo)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListComplaints(c *gin.Context) {
	complaints, err := h.svc.ListComplaints(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ComplaintsResponse{
		Status:     "success",
		Complaints: complaints,
	})
}

func (h *Handler) ListLatestAuditEntries(c *gin.Context) {
	entries, err := h.svc.ListLatestAuditEntries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AuditEntriesResponse{
		Status:  "success",
		Entries: entries,
	})
}

// Tenant handlers. The house number always comes from the token subject, so
// a tenant can only act on their own record.
func (h *Handler) GetDueAmount(c *gin.Context) {
	resp, err := h.svc.GetDueAmount(c.Request.Context(), c.GetString("subject"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetPaymentHistory(c *gin.Context) {
	houseNo := c.GetString("subject")
	payments, err := h.svc.GetPaymentHistory(c.Request.Context(), houseNo)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PaymentsResponse{
		Status:   "success",
		HouseNo:  houseNo,
		Payments: payments,
	})
}

func (h *Handler) MakePayment(c *gin.Context) {
	var req models.MakePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	paymentDate, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		respondBadRequest(c, "Payment date must be in the format YYYY-MM-DD")
		return
	}

	resp, err := h.svc.MakePayment(c.Request.Context(), c.GetString("subject"), paymentDate, req.Amount, req.Method)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) FileMaintenanceRequest(c *gin.Context) {
	var req models.MaintenanceRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.svc.FileMaintenanceRequest(c.Request.Context(), req.ApartmentID, c.GetString("subject"), req.IssueDescription)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// respondError maps service errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTenantNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrHouseNoTaken):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status:  "error",
			Code:    "CONFLICT",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Status:  "error",
			Code:    "INVALID_CREDENTIALS",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrInvalidPaymentMethod):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "INVALID_PAYMENT_METHOD",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    "INTERNAL_ERROR",
			Message: err.Error(),
		})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "BAD_REQUEST",
		Message: message,
	})
}
