package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"expense-report-service/internal/application/port"
	"expense-report-service/internal/application/service"
	"expense-report-service/internal/domain/entity"
	"expense-report-service/internal/domain/review"
	"expense-report-service/internal/export"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	reportService   service.ReportService
	reviewService   service.ReviewService
	dispatchService service.DispatchService
	settingsService service.SettingsService
	refData         port.ReferenceDataProvider
	logger          Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	reportService service.ReportService,
	reviewService service.ReviewService,
	dispatchService service.DispatchService,
	settingsService service.SettingsService,
	refData port.ReferenceDataProvider,
	logger Logger,
) *Handlers {
	return &Handlers{
		reportService:   reportService,
		reviewService:   reviewService,
		dispatchService: dispatchService,
		settingsService: settingsService,
		refData:         refData,
		logger:          logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ReviewRequest is the decision batch posted by a supervisor.
type ReviewRequest struct {
	Decisions []ReviewDecisionRequest `json:"decisions"`
}

// ReviewDecisionRequest is one per-line verdict in a review batch.
type ReviewDecisionRequest struct {
	LineID  int64  `json:"line_id"`
	Action  string `json:"action"`
	Comment string `json:"comment"`
}

// ReviewResponse carries the batch outcome back to the reviewer UI.
type ReviewResponse struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// UpdateSettingRequest sets one configuration override.
type UpdateSettingRequest struct {
	Key      string `json:"key" binding:"required"`
	Value    string `json:"value"`
	IsSecret bool   `json:"is_secret"`
}

// actingUserID reads the authenticated user id forwarded by the auth
// layer. Returns false when the header is absent or malformed.
func actingUserID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader("X-User-ID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// respondError maps application errors to HTTP status codes. Validation
// problems carry their user-facing message; infrastructure failures get a
// generic operator message so internals never leak to clients.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var inputErr *service.InputError
	var reviewErr *review.ValidationError
	var domainErr *entity.DomainError
	var configErr *port.ConfigurationError
	var dispatchErr *port.DispatchError
	var refErr *port.ReferenceDataError

	switch {
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: inputErr.Msg})
	case errors.As(err, &reviewErr):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: reviewErr.Msg})
	case errors.As(err, &domainErr):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrReportNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "report not found"})
	case errors.Is(err, service.ErrNotAssigned):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: "not authorized for this report"})
	case errors.As(err, &configErr):
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: configErr.Msg})
	case errors.As(err, &dispatchErr):
		c.JSON(http.StatusBadGateway, Response{Success: false, Error: "dispatch to the accounting endpoint failed"})
	case errors.As(err, &refErr):
		c.JSON(http.StatusServiceUnavailable, Response{Success: false, Error: refErr.Msg})
	default:
		h.logger.Error("Unhandled request error", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal server error"})
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// ListGLAccounts handles GET /api/reference/gl-accounts
func (h *Handlers) ListGLAccounts(c *gin.Context) {
	accounts, err := h.refData.GLAccounts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load GL accounts", "error", err)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: accounts})
}

// ListExpenseTypes handles GET /api/reference/expense-types
func (h *Handlers) ListExpenseTypes(c *gin.Context) {
	types, err := h.refData.ExpenseTypes(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load expense types", "error", err)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: types})
}

// ReloadReferenceData handles POST /api/reference/reload
func (h *Handlers) ReloadReferenceData(c *gin.Context) {
	h.refData.Invalidate()
	h.logger.Info("Reference data cache invalidated")

	c.JSON(http.StatusOK, Response{Success: true})
}

// SubmitReport handles POST /api/reports. The body is either a JSON
// submission or a multipart form carrying the same JSON under "payload"
// plus per-line receipt files named "receipt_<index>".
func (h *Handlers) SubmitReport(c *gin.Context) {
	employeeID, ok := actingUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "missing or invalid X-User-ID header"})
		return
	}

	input, err := h.bindSubmission(c)
	if err != nil {
		h.logger.Error("Invalid report submission", "error", err, "employee_id", employeeID)
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	input.EmployeeID = employeeID

	report, err := h.reportService.Submit(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: report})
}

// bindSubmission decodes either submission body shape.
func (h *Handlers) bindSubmission(c *gin.Context) (service.SubmitReportInput, error) {
	var input service.SubmitReportInput

	contentType := c.ContentType()
	if contentType != "multipart/form-data" {
		if err := c.ShouldBindJSON(&input); err != nil {
			return input, err
		}
		return input, nil
	}

	payload := c.PostForm("payload")
	if err := json.Unmarshal([]byte(payload), &input); err != nil {
		return input, err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return input, err
	}

	for i := range input.Lines {
		files, ok := form.File["receipt_"+strconv.Itoa(i)]
		if !ok || len(files) == 0 {
			continue
		}
		file, err := files[0].Open()
		if err != nil {
			return input, err
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return input, err
		}
		input.Lines[i].Receipt = &service.ReceiptUpload{
			Filename: files[0].Filename,
			Content:  content,
		}
	}
	return input, nil
}

// ListReports handles GET /api/reports
func (h *Handlers) ListReports(c *gin.Context) {
	employeeID, ok := actingUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "missing or invalid X-User-ID header"})
		return
	}

	reports, err := h.reportService.ListByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: reports})
}

// GetReport handles GET /api/reports/:id. Only the owning employee and
// the assigned supervisor may read a report.
func (h *Handlers) GetReport(c *gin.Context) {
	actorID, ok := actingUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "missing or invalid X-User-ID header"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid report ID"})
		return
	}

	report, err := h.reportService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if report.EmployeeID != actorID && report.SupervisorID != actorID {
		h.respondError(c, service.ErrNotAssigned)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: report})
}

// ReviewQueue handles GET /api/reports/supervisor/:id
func (h *Handlers) ReviewQueue(c *gin.Context) {
	supervisorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid supervisor ID"})
		return
	}

	reports, err := h.reviewService.Queue(c.Request.Context(), supervisorID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: reports})
}

// ReviewReport handles POST /api/reports/:id/review
func (h *Handlers) ReviewReport(c *gin.Context) {
	supervisorID, ok := actingUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "missing or invalid X-User-ID header"})
		return
	}

	reportID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid report ID"})
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	decisions := make([]review.Decision, 0, len(req.Decisions))
	for _, d := range req.Decisions {
		decision, err := review.NewDecision(d.LineID, d.Action, d.Comment)
		if err != nil {
			h.respondError(c, err)
			return
		}
		decisions = append(decisions, decision)
	}

	set, err := review.NewDecisionSet(decisions)
	if err != nil {
		h.respondError(c, err)
		return
	}

	outcome, err := h.reviewService.Review(c.Request.Context(), reportID, supervisorID, set)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: ReviewResponse{
			Message:  outcome.Message,
			Severity: outcome.Severity,
		},
	})
}

// ListSupervisors handles GET /api/supervisors
func (h *Handlers) ListSupervisors(c *gin.Context) {
	supervisors, err := h.reportService.Supervisors(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: supervisors})
}

// DownloadPendingExport handles GET /api/exports/pending.csv. It returns
// the formatted batch without transmitting or mutating anything.
func (h *Handlers) DownloadPendingExport(c *gin.Context) {
	payload, err := h.dispatchService.ExportPending(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := export.BatchFilename(time.Now().UTC())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", []byte(payload))
}

// Dispatch handles POST /api/dispatch
func (h *Handlers) Dispatch(c *gin.Context) {
	result, err := h.dispatchService.DispatchPending(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// ListSettings handles GET /api/admin/settings
func (h *Handlers) ListSettings(c *gin.Context) {
	settings, err := h.settingsService.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: settings})
}

// UpdateSetting handles PUT /api/admin/settings
func (h *Handlers) UpdateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	if err := h.settingsService.Set(c.Request.Context(), req.Key, req.Value, req.IsSecret); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}
