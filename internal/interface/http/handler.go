package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arizet/hashtagd/internal/domain/hashtag"
	apperrors "github.com/arizet/hashtagd/pkg/errors"
)

// Handler wires the HTTP transport to the hashtag domain service.
type Handler struct {
	svc    hashtag.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc hashtag.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

// Generate handles the hashtag generation endpoint.
func (h *Handler) Generate(c *gin.Context) {
	var req hashtag.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, mapDomainError(err, "generate_failed"))
		return
	}

	c.JSON(http.StatusOK, result)
}

// History returns recently served results, newest first.
func (h *Handler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}

	results, err := h.svc.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, mapDomainError(err, "history_failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// Models lists the models installed on the inference engine.
func (h *Handler) Models(c *gin.Context) {
	models, err := h.svc.Models(c.Request.Context())
	if err != nil {
		abortWithError(c, mapDomainError(err, "models_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": models})
}

// Health reports liveness and whether the engine is currently reachable.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"engine": h.svc.EngineHealthy(c.Request.Context()),
	})
}

func mapDomainError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch {
	case apperrors.IsCode(err, hashtag.CodeInvalidInput):
		status = http.StatusBadRequest
		code = hashtag.CodeInvalidInput
	case apperrors.IsCode(err, hashtag.CodeNoHashtags):
		status = http.StatusUnprocessableEntity
		code = hashtag.CodeNoHashtags
	case apperrors.IsCode(err, hashtag.CodeUnparseablePayload):
		status = http.StatusBadGateway
		code = hashtag.CodeUnparseablePayload
	case apperrors.IsCode(err, hashtag.CodeEngineError):
		status = http.StatusBadGateway
		code = hashtag.CodeEngineError
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
