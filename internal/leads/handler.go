package leads

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leadgen-backend/internal/providers"
	"leadgen-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/providers/runs/:id/leads", h.listForRun)
}

func (h *Handler) listForRun(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respond.Error(c, http.StatusBadRequest, "bad_request", "run id must be a positive integer", nil)
		return
	}

	presence, ok := providers.NormalizePresenceFilter(c.Query("socialPresence"))
	if !ok {
		respond.Error(c, http.StatusBadRequest, "bad_request", "socialPresence must be one of any, low, medium, high", nil)
		return
	}
	if presence == providers.PresenceFilterAny {
		presence = ""
	}

	c.Set("runId", id)

	items, err := h.Svc.ListForRun(c.Request.Context(), id, presence)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "run not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list leads", nil)
		return
	}
	if items == nil {
		items = []Lead{}
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"runId": id,
		"count": len(items),
		"leads": items,
	})
}
