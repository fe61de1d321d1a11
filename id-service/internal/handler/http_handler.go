package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/prefixid/id-service/internal/domain"
	"github.com/weiawesome/prefixid/id-service/internal/service"
	"github.com/weiawesome/prefixid/pkg/log"
	"github.com/weiawesome/prefixid/pkg/middleware"
	"github.com/weiawesome/prefixid/pkg/payload"
	"github.com/weiawesome/prefixid/pkg/response"
)

// Handler handles HTTP requests for id service.
type Handler struct {
	idService      service.IDService
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler. A nil authMiddleware leaves
// generation open to every caller.
func NewHandler(idService service.IDService, authMiddleware *middleware.AuthMiddleware) *Handler {
	return &Handler{
		idService:      idService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		kinds := api.Group("/kinds")
		{
			kinds.GET("", h.ListKinds)

			// Protected when auth is configured
			generate := []gin.HandlerFunc{h.GenerateIDs}
			if h.authMiddleware != nil {
				generate = append([]gin.HandlerFunc{
					h.authMiddleware.RequireAuth(),
					h.authMiddleware.RequireKind("prefix"),
				}, generate...)
			}
			kinds.POST("/:prefix/ids", generate...)
		}

		api.GET("/ids/:id", h.InspectID)
		api.POST("/ids/validate", h.ValidateID)
	}
}

// ListKinds lists the served kinds.
func (h *Handler) ListKinds(c *gin.Context) {
	response.Success(c, h.idService.ListKinds(c.Request.Context()))
}

// GenerateIDs issues a batch of identifiers of one kind.
func (h *Handler) GenerateIDs(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	prefix := c.Param("prefix")

	var req domain.GenerateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, ok := c.GetQuery("count"); !ok {
		req.Count = 1
	}

	resp, err := h.idService.Generate(ctx, middleware.GetSubject(c), prefix, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCount):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrUnknownKind):
			response.Error(c, http.StatusNotFound, domain.CodeUnknownPrefix, err.Error())
		case errors.Is(err, payload.ErrSourceUnavailable), errors.Is(err, payload.ErrClockMovedBackwards),
			errors.Is(err, payload.ErrClockSkew):
			l.Error().Err(err).Str(log.FieldPrefix, prefix).Msg("payload source failed")
			response.ServiceUnavailable(c, "SOURCE_UNAVAILABLE", "payload source unavailable, retry later")
		default:
			l.Error().Err(err).Str(log.FieldPrefix, prefix).Msg("failed to generate ids")
			response.InternalError(c, "failed to generate ids")
		}
		return
	}

	response.Created(c, resp)
}

// InspectID parses an identifier and reports what it carries.
func (h *Handler) InspectID(c *gin.Context) {
	id := c.Param("id")
	ctx := log.WithStr(c.Request.Context(), log.FieldID, id)
	l := log.Ctx(ctx)

	resp, err := h.idService.Inspect(ctx, id)
	if err != nil {
		if code := service.Code(err); code != "" {
			status := http.StatusBadRequest
			if code == domain.CodeUnknownPrefix {
				status = http.StatusNotFound
			}
			response.Error(c, status, code, service.Reason(err))
			return
		}
		l.Error().Err(err).Msg("failed to inspect id")
		response.InternalError(c, "failed to inspect id")
		return
	}

	response.Success(c, resp)
}

// ValidateID reports whether an identifier is well formed. Rejections are
// part of a successful response.
func (h *Handler) ValidateID(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind validate request")
		response.BadRequest(c, err.Error())
		return
	}

	resp := h.idService.Validate(ctx, &req)
	if !resp.Valid {
		c.Set(log.FieldErrorCode, resp.Code)
	}
	response.Success(c, resp)
}
