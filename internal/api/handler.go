package api

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/bizdesk/backend/internal/analytics"
	"github.com/bizdesk/backend/internal/collection"
	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/service"
)

// @title BizDesk API
// @version 1.0
// @description Backend API for the BizDesk small-business workspace
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-Api-Key

const maxUploadBytes = 32 << 20

type Service interface {
	Collections() *collection.Set
	Dashboard(ctx context.Context) (analytics.Summary, error)
	CashFlow(ctx context.Context, months int) ([]analytics.MonthFlow, error)
	LowStock(ctx context.Context) ([]entity.InventoryItem, error)
	DriveAuthURL(ctx context.Context) (string, error)
	HandleDriveCallback(ctx context.Context, code, state string) error
	DriveStatus(ctx context.Context) (service.DriveStatus, error)
	UploadDocument(ctx context.Context, name, category, mimeType string, data []byte) (entity.Document, error)
	LowStockAlertJob(ctx context.Context) error
}

type Handler struct {
	s Service
}

func NewHandler(s Service) *Handler {
	return &Handler{s: s}
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce text/plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, err := w.Write([]byte("OK\n"))
	if err != nil {
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Service unavailable")
		return
	}
}

// Dashboard returns the headline metrics for the authenticated user.
// @Summary Dashboard summary
// @Tags dashboard
// @Produce json
// @Success 200 {object} analytics.Summary
// @Failure 401 {object} ErrorResponse "Authentication required"
// @Failure 502 {object} ErrorResponse "Upstream store unavailable"
// @Router /dashboard [get]
// @Security BearerAuth
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.s.Dashboard(ctx)
	if err != nil {
		sendMappedErr(ctx, w, err, "Failed to build dashboard")
		return
	}

	SendJSON(ctx, w, http.StatusOK, summary)
}

type CashFlowResponse struct {
	Months []analytics.MonthFlow `json:"months"`
}

// CashFlow returns monthly income and expense buckets.
// @Summary Monthly cash flow
// @Tags dashboard
// @Produce json
// @Param months query int false "Trailing window in months (default 6, max 36)"
// @Success 200 {object} CashFlowResponse
// @Failure 422 {object} ErrorResponse "months out of range"
// @Router /dashboard/cashflow [get]
// @Security BearerAuth
func (h *Handler) CashFlow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	months := 0

	if q := r.URL.Query().Get("months"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			SendJSONErr(ctx, w, http.StatusBadRequest, err, "'months' must be an integer")
			return
		}

		months = n
	}

	flow, err := h.s.CashFlow(ctx, months)
	if err != nil {
		sendMappedErr(ctx, w, err, "Failed to build cash flow")
		return
	}

	SendJSON(ctx, w, http.StatusOK, CashFlowResponse{Months: flow})
}

// LowStock lists inventory items at or below their reorder level.
// @Summary Low stock items
// @Tags inventory
// @Produce json
// @Success 200 {array} entity.InventoryItem
// @Router /inventory/low-stock [get]
// @Security BearerAuth
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.s.LowStock(ctx)
	if err != nil {
		sendMappedErr(ctx, w, err, "Failed to load low stock items")
		return
	}

	SendJSON(ctx, w, http.StatusOK, items)
}

type DriveAuthURLResponse struct {
	URL string `json:"url"`
}

// DriveAuthURL returns the Google consent URL for the authenticated user.
// @Summary Start Drive linking
// @Tags drive
// @Produce json
// @Success 200 {object} DriveAuthURLResponse
// @Failure 401 {object} ErrorResponse "Authentication required"
// @Router /drive/auth-url [get]
// @Security BearerAuth
func (h *Handler) DriveAuthURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	url, err := h.s.DriveAuthURL(ctx)
	if err != nil {
		sendMappedErr(ctx, w, err, "Failed to build consent URL")
		return
	}

	SendJSON(ctx, w, http.StatusOK, DriveAuthURLResponse{URL: url})
}

type DriveCallbackResponse struct {
	Connected bool `json:"connected"`
}

// DriveCallback finishes the OAuth dance. It arrives unauthenticated from
// Google; the signed state identifies the user.
// @Summary Drive OAuth callback
// @Tags drive
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "Signed state"
// @Success 200 {object} DriveCallbackResponse
// @Failure 422 {object} ErrorResponse "Invalid state"
// @Router /drive/callback [get]
func (h *Handler) DriveCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	if code == "" || state == "" {
		SendJSONErr(ctx, w, http.StatusBadRequest, nil, "'code' and 'state' are required")
		return
	}

	err := h.s.HandleDriveCallback(ctx, code, state)
	if err != nil {
		sendMappedErr(ctx, w, err, "Failed to complete Drive linking")
		return
	}

	SendJSON(ctx, w, http.StatusOK, DriveCallbackResponse{Connected: true})
}

// DriveStatus reports whether the user has a linked Drive account.
// @Summary Drive link status
// @Tags drive
// @Produce json
// @Success 200 {object} service.DriveStatus
// @Router /drive/status [get]
// @Security BearerAuth
func (h *Handler) DriveStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := h.s.DriveStatus(ctx)
	if err != nil {
		sendMappedErr(ctx, w, err, "Failed to load Drive status")
		return
	}

	SendJSON(ctx, w, http.StatusOK, status)
}

type TriggerJobResponse struct {
	Started bool `json:"started"`
}

// TriggerLowStockScan runs the low-stock scan on demand, for operators.
// @Summary Trigger low stock scan
// @Tags internal
// @Produce json
// @Success 200 {object} TriggerJobResponse
// @Failure 401 {object} ErrorResponse "Invalid API key"
// @Router /private/jobs/low-stock [post]
// @Security ApiKeyAuth
func (h *Handler) TriggerLowStockScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.s.LowStockAlertJob(ctx); err != nil {
		sendMappedErr(ctx, w, err, "Failed to run low stock scan")
		return
	}

	SendJSON(ctx, w, http.StatusOK, TriggerJobResponse{Started: true})
}

// UploadDocument relays a multipart file to Drive and records the document.
// @Summary Upload document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File content"
// @Param category formData string false "Document category"
// @Success 201 {object} entity.Document
// @Failure 409 {object} ErrorResponse "Google Drive is not connected"
// @Failure 422 {object} ErrorResponse "Invalid input"
// @Router /documents/upload [post]
// @Security BearerAuth
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := r.ParseMultipartForm(maxUploadBytes)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "'file' is required")
		return
	}

	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Failed to read file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	doc, err := h.s.UploadDocument(ctx, header.Filename, r.FormValue("category"), mimeType, data)
	if err != nil {
		sendMappedErr(ctx, w, err, "Failed to upload document")
		return
	}

	SendJSON(ctx, w, http.StatusCreated, doc)
}
