package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/presupuestalo/budget-pdf-service/internal/auth"
	"github.com/presupuestalo/budget-pdf-service/internal/db"
	"github.com/presupuestalo/budget-pdf-service/internal/models"
	"github.com/presupuestalo/budget-pdf-service/internal/renderer"
	"github.com/presupuestalo/budget-pdf-service/internal/services"
	"github.com/presupuestalo/budget-pdf-service/internal/storage"
)

const Version = "1.2.0"

// Handler handles HTTP requests for budget documents
type Handler struct {
	config    *models.Config
	builder   *services.PayloadBuilder
	validator *services.BudgetValidator
	renderer  *renderer.Client
}

// NewHandler creates a new API handler
func NewHandler(config *models.Config) *Handler {
	var trace services.TraceSink
	if config.Trace.Enabled {
		trace = services.NewDirTraceSink(config.Trace.Dir)
	}

	return &Handler{
		config:    config,
		builder:   services.NewPayloadBuilder(config.Assets.BaseURL, trace),
		validator: services.NewBudgetValidator(),
		renderer:  renderer.NewClient(config.Renderer.BaseURL, config.Renderer.TimeoutSeconds),
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Budget listing and lookup
	router.HandleFunc("/api/presupuestos", h.GetBudgets).Methods("GET")
	router.HandleFunc("/api/presupuestos/{id}", h.GetBudget).Methods("GET")

	// Document generation
	router.HandleFunc("/api/presupuestos/{id}/validar", h.ValidateBudget).Methods("GET")
	router.HandleFunc("/api/presupuestos/{id}/payload", h.GetBudgetPayload).Methods("GET")
	router.HandleFunc("/api/presupuestos/{id}/pdf", h.GenerateBudgetPDF).Methods("POST")

	// Health check
	router.HandleFunc("/health", h.Health).Methods("GET")

	return router
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	Timestamp string        `json:"timestamp"`
	Uptime    string        `json:"uptime"`
	Memory    MemoryStats   `json:"memory"`
	Database  ServiceStatus `json:"database"`
	Storage   ServiceStatus `json:"storage"`
	Renderer  string        `json:"renderer"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated string `json:"allocated"`
	Total     string `json:"total"`
	System    string `json:"system"`
}

// ServiceStatus represents the status of a service dependency
type ServiceStatus struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

var startTime = time.Now()

// Health endpoint - enhanced for monitoring
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			Allocated: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			Total:     fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/1024/1024),
			System:    fmt.Sprintf("%.2f MB", float64(m.Sys)/1024/1024),
		},
		Database: h.checkDatabase(),
		Storage:  h.checkStorage(),
		Renderer: h.config.Renderer.BaseURL,
	}

	// The service is useless without its database
	if !response.Database.Available {
		response.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

// checkDatabase verifies PostgreSQL connection
func (h *Handler) checkDatabase() ServiceStatus {
	if db.Pool == nil {
		return ServiceStatus{
			Available: false,
			Error:     "database pool not initialized",
		}
	}

	return ServiceStatus{
		Available: true,
		Version:   "PostgreSQL via PgBouncer",
	}
}

// checkStorage verifies MinIO connection
func (h *Handler) checkStorage() ServiceStatus {
	if storage.Client == nil {
		return ServiceStatus{
			Available: false,
			Error:     "storage client not initialized",
		}
	}

	return ServiceStatus{
		Available: true,
		Version:   "MinIO S3",
	}
}

// GetBudgets returns budgets for the authenticated user's empresa
func (h *Handler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	budgets, err := db.GetBudgets(ctx, claims.EmpresaAlias, 100)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get budgets: %v", err))
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":       true,
		"budgets":       budgets,
		"count":         len(budgets),
		"empresa_alias": claims.EmpresaAlias,
	})
}

// GetBudget returns a single budget
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	vars := mux.Vars(r)
	budgetID := vars["id"]

	budget, err := db.GetBudgetByID(ctx, claims.EmpresaAlias, budgetID)
	if err != nil {
		h.sendError(w, http.StatusNotFound, fmt.Sprintf("budget not found: %v", err))
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":       true,
		"budget":        budget,
		"empresa_alias": claims.EmpresaAlias,
	})
}

// ValidateBudget runs the pre-generation checks without generating anything
func (h *Handler) ValidateBudget(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	budget, err := db.GetBudgetByID(ctx, claims.EmpresaAlias, mux.Vars(r)["id"])
	if err != nil {
		h.sendError(w, http.StatusNotFound, fmt.Sprintf("budget not found: %v", err))
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    true,
		"validation": h.validator.Validate(budget),
	})
}

// GetBudgetPayload builds and returns the document payload without calling
// the renderer. The frontend uses this for print preview.
func (h *Handler) GetBudgetPayload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	payload, _, err := h.buildPayload(r, claims.EmpresaAlias)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"payload": payload,
	})
}

// GenerateBudgetPDF builds the payload, renders it through the external
// service, archives the result and streams it back
func (h *Handler) GenerateBudgetPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	payload, budget, err := h.buildPayload(r, claims.EmpresaAlias)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	pdf, err := h.renderer.Render(ctx, payload)
	if err != nil {
		h.sendError(w, http.StatusBadGateway, fmt.Sprintf("render failed: %v", err))
		return
	}

	// Archive to MinIO (if configured)
	if storage.Client != nil {
		filename := fmt.Sprintf("%s_%s_%s.pdf",
			time.Now().Format("20060102_150405"),
			uuid.New().String()[:8],
			budget.BudgetNumber,
		)
		if _, err := storage.UploadBudgetPDF(ctx, claims.EmpresaAlias, filename, bytes.NewReader(pdf), int64(len(pdf))); err != nil {
			// Log but don't fail - archiving is best-effort
			fmt.Printf("Warning: failed to archive PDF to MinIO: %v\n", err)
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="presupuesto_%s.pdf"`, budget.BudgetNumber))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// buildPayload fetches the budget and tariff and runs the pipeline
func (h *Handler) buildPayload(r *http.Request, empresaAlias string) (*models.PDFPayload, *models.Budget, error) {
	if db.Pool == nil {
		return nil, nil, fmt.Errorf("database not available")
	}

	ctx := r.Context()
	budgetID := mux.Vars(r)["id"]

	budget, err := db.GetBudgetByID(ctx, empresaAlias, budgetID)
	if err != nil {
		return nil, nil, fmt.Errorf("budget not found: %w", err)
	}

	tariff, err := db.GetTariff(ctx, empresaAlias)
	if err != nil {
		return nil, nil, fmt.Errorf("tariff not found: %w", err)
	}

	payload, err := h.builder.Build(budget, tariff)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build payload: %w", err)
	}
	return payload, budget, nil
}

// sendError sends an error response
func (h *Handler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
