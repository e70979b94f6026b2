package ingest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadgen-backend/internal/companies"
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
	rg.POST("/providers/search", h.search)
	rg.GET("/providers/runs", h.listRuns)
	rg.GET("/providers/runs/:id", h.getRun)
	rg.POST("/classify", h.classify)
}

func (h *Handler) search(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}

	var intent providers.SearchIntent
	if err := c.ShouldBindJSON(&intent); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}
	if intent.RequestID == "" {
		intent.RequestID = uuid.NewString()
	}

	c.Set("provider", intent.Provider)

	summary, err := h.Svc.Search(c.Request.Context(), intent, c.ClientIP())
	if err != nil {
		h.searchError(c, err)
		return
	}

	c.Set("runId", summary.RunID)
	c.Set("cached", summary.Cached)

	respond.JSON(c, http.StatusOK, summary)
}

func (h *Handler) searchError(c *gin.Context, err error) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		respond.Error(c, http.StatusBadRequest, "bad_request", reqErr.Error(), gin.H{
			"field": reqErr.Field,
		})
		return
	}

	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		c.Header("Retry-After", strconv.Itoa(rlErr.RetryAfterSeconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", rlErr.Error(), gin.H{
			"scope":             rlErr.Scope,
			"retryAfterSeconds": rlErr.RetryAfterSeconds,
		})
		return
	}

	respond.Error(c, http.StatusInternalServerError, "internal_error", "search failed", nil)
}

type classifyRequest struct {
	RawID int64 `json:"rawId"`
}

func (h *Handler) classify(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}

	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}
	if req.RawID < 1 {
		respond.Error(c, http.StatusBadRequest, "bad_request", "rawId must be a positive integer", nil)
		return
	}

	result, err := h.Svc.Reclassify(c.Request.Context(), req.RawID)
	if err != nil {
		if errors.Is(err, companies.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "company not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "classification failed", nil)
		return
	}
	respond.JSON(c, http.StatusOK, result)
}

func (h *Handler) listRuns(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			respond.Error(c, http.StatusBadRequest, "bad_request", "limit must be an integer between 1 and 100", nil)
			return
		}
		limit = n
	}

	runs, err := h.Svc.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list runs", nil)
		return
	}
	if runs == nil {
		runs = []Run{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"runs": runs})
}

func (h *Handler) getRun(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respond.Error(c, http.StatusBadRequest, "bad_request", "run id must be a positive integer", nil)
		return
	}

	run, err := h.Svc.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "run not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load run", nil)
		return
	}
	respond.JSON(c, http.StatusOK, run)
}
