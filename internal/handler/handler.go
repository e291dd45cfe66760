// Package handler exposes the HTTP and websocket API.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/mendbayar/taskdesk/docs" // Import generated docs
	"github.com/mendbayar/taskdesk/internal/access"
	"github.com/mendbayar/taskdesk/internal/cache"
	"github.com/mendbayar/taskdesk/internal/database"
	"github.com/mendbayar/taskdesk/internal/handler/dto"
	"github.com/mendbayar/taskdesk/internal/middleware"
	"github.com/mendbayar/taskdesk/internal/realtime"
	"github.com/mendbayar/taskdesk/internal/repository"
	"github.com/mendbayar/taskdesk/internal/service"
	"github.com/mendbayar/taskdesk/pkg/auth"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool        *pgxpool.Pool
	rdb         *redis.Client
	validate    *validator.Validate
	authService *service.AuthService
	taskService *service.TaskService
	notifier    *service.Notifier
	dashboard   *service.Dashboard
	branchRepo  *repository.BranchRepository
	hub         *realtime.Hub
	auth        *middleware.Auth
	upgrader    websocket.Upgrader
}

// New creates a Handler with the full service graph wired up.
func New(db *database.DB, rdb *redis.Client, tokens *auth.TokenManager, loc *time.Location) *Handler {
	pool := db.Pool()

	taskRepo := repository.NewTaskRepository(pool)
	formRepo := repository.NewTaskFormRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	noteRepo := repository.NewNoteRepository(pool)
	fileRepo := repository.NewFileRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	branchRepo := repository.NewBranchRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	presence := cache.NewPresence(rdb)
	stats := cache.NewStats(rdb, loc)
	hub := realtime.NewHub(presence)

	notifier := service.NewNotifier(notificationRepo, hub)
	activity := service.NewActivityRecorder(activityRepo)
	dashboard := service.NewDashboard(stats, taskRepo, presence, hub)

	taskService := service.NewTaskService(service.TaskServiceDeps{
		DB:        db,
		Tasks:     taskRepo,
		Forms:     formRepo,
		Audits:    auditRepo,
		Notes:     noteRepo,
		Files:     fileRepo,
		Users:     userRepo,
		Scopes:    access.NewEvaluator(branchRepo),
		Stats:     stats,
		Notifier:  notifier,
		Activity:  activity,
		Dashboard: dashboard,
	})

	return &Handler{
		pool:        pool,
		rdb:         rdb,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		authService: service.NewAuthService(userRepo, tokens),
		taskService: taskService,
		notifier:    notifier,
		dashboard:   dashboard,
		branchRepo:  branchRepo,
		hub:         hub,
		auth:        middleware.NewAuth(tokens, userRepo),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// Authentication
	mux.HandleFunc("POST /api/v1/auth/login", h.handleLogin)
	mux.Handle("POST /api/v1/auth/register", h.protected(h.handleRegister))
	mux.Handle("GET /api/v1/auth/me", h.protected(h.handleMe))

	// Tasks
	mux.Handle("GET /api/v1/tasks", h.protected(h.handleListTasks))
	mux.Handle("POST /api/v1/tasks", h.protected(h.handleCreateTask))
	mux.Handle("POST /api/v1/tasks/form", h.protected(h.handleCreateTaskWithForm))
	mux.Handle("GET /api/v1/tasks/{id}", h.protected(h.handleGetTask))
	mux.Handle("PATCH /api/v1/tasks/{id}", h.protected(h.handleUpdateTask))
	mux.Handle("POST /api/v1/tasks/{id}/start", h.protected(h.handleStartTask))
	mux.Handle("POST /api/v1/tasks/{id}/complete", h.protected(h.handleCompleteTask))
	mux.Handle("POST /api/v1/tasks/{id}/audit", h.protected(h.handleAuditTask))
	mux.Handle("POST /api/v1/tasks/{id}/evaluate", h.protected(h.handleEvaluateTask))
	mux.Handle("POST /api/v1/tasks/{id}/assign", h.protected(h.handleAssignTask))
	mux.Handle("POST /api/v1/tasks/{id}/notes", h.protected(h.handleAddNote))
	mux.Handle("DELETE /api/v1/notes/{id}", h.protected(h.handleRemoveNote))
	mux.Handle("POST /api/v1/tasks/{id}/files", h.protected(h.handleAttachFile))
	mux.Handle("DELETE /api/v1/files/{id}", h.protected(h.handleRemoveFile))

	// Notifications
	mux.Handle("GET /api/v1/notifications", h.protected(h.handleListNotifications))
	mux.Handle("POST /api/v1/notifications/{id}/read", h.protected(h.handleMarkNotificationRead))
	mux.Handle("POST /api/v1/notifications/seen", h.protected(h.handleMarkAllSeen))
	mux.Handle("GET /api/v1/notifications/unseen-count", h.protected(h.handleUnseenCount))

	// Dashboard
	mux.Handle("GET /api/v1/stats", h.protected(h.handleGetStats))

	// Branches
	mux.Handle("GET /api/v1/branches", h.protected(h.handleListBranches))
	mux.Handle("POST /api/v1/branches", h.protected(h.handleCreateBranch))

	// Realtime
	mux.Handle("GET /api/v1/ws", h.protected(h.handleWebsocket))
}

func (h *Handler) protected(fn http.HandlerFunc) http.Handler {
	return h.auth.Require(fn)
}

// handleHealthz returns 200 OK if the database and Redis are reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		slog.Error("redis health check failed", "error", err)
		http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondDomainError maps a domain error to its HTTP shape and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	dto.WriteDomainError(w, err)
}

// decodeAndValidate parses the JSON body into req and runs struct
// validation. Returns false if an error response was already written.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Code: "INVALID_JSON"})
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error(), Code: "VALIDATION_FAILED"})
		return false
	}
	return true
}

// extractID extracts and validates a UUID path parameter.
// Returns ("", false) if invalid (error already sent to client).
func extractID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "id is required", Code: "INVALID_REQUEST"})
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "id must be a valid UUID", Code: "INVALID_REQUEST"})
		return "", false
	}
	return id, true
}
