package http

import (
	"log/slog"
	"net/http"

	apperrors "github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/errors"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/httputil"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/middleware"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/search"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/service"
)

// DashboardHandler handles HTTP requests for dashboard endpoints.
type DashboardHandler struct {
	service *service.DashboardService
	logger  *slog.Logger
}

// NewDashboardHandler creates a new dashboard HTTP handler.
func NewDashboardHandler(svc *service.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{service: svc, logger: logger}
}

// GetSummary handles GET /api/v1/dashboard
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	user := domain.User{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
	summary, err := h.service.Summary(r.Context(), user)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// Search handles GET /api/v1/dashboard/search
func (h *DashboardHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := search.ParseQuery(r.URL.Query())

	result, err := h.service.Search(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
