package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mati-gonz/control-obras-dasco-api/internal/dto"
	"github.com/mati-gonz/control-obras-dasco-api/internal/middleware"
	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
	"github.com/mati-gonz/control-obras-dasco-api/internal/services"
	"github.com/mati-gonz/control-obras-dasco-api/pkg/apperrors"
)

type PartHandler struct {
	parts services.PartService
	auth  gin.HandlerFunc
}

func NewPartHandler(parts services.PartService, authMW gin.HandlerFunc) *PartHandler {
	return &PartHandler{parts: parts, auth: authMW}
}

func (h *PartHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/works/:work_id/parts", h.auth, h.Create)
	api.GET("/works/:work_id/parts", h.auth, h.ListByWork)
	api.GET("/subgroups/:id/parts", h.auth, h.ListBySubgroup)

	parts := api.Group("/parts", h.auth)
	{
		parts.GET("/:part_id", h.Get)
		parts.PUT("/:part_id", middleware.RequireRoles(models.UserRoleAdmin), h.Update)
		parts.DELETE("/:part_id", middleware.RequireRoles(models.UserRoleAdmin), h.Delete)
	}
}

func (h *PartHandler) Create(c *gin.Context) {
	workID, ok := uintParam(c, "work_id")
	if !ok {
		return
	}

	var req dto.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	part, err := h.parts.Create(c.Request.Context(), workID, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, part)
}

func (h *PartHandler) ListByWork(c *gin.Context) {
	workID, ok := uintParam(c, "work_id")
	if !ok {
		return
	}

	parts, err := h.parts.ListByWork(c.Request.Context(), workID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": parts})
}

func (h *PartHandler) ListBySubgroup(c *gin.Context) {
	subgroupID, ok := idParam(c)
	if !ok {
		return
	}

	parts, err := h.parts.ListBySubgroup(c.Request.Context(), subgroupID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": parts})
}

func (h *PartHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "part_id")
	if !ok {
		return
	}

	part, err := h.parts.Get(c.Request.Context(), id)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, part)
}

func (h *PartHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "part_id")
	if !ok {
		return
	}

	var req dto.UpdatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	part, err := h.parts.Update(c.Request.Context(), id, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, part)
}

func (h *PartHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "part_id")
	if !ok {
		return
	}

	if err := h.parts.Delete(c.Request.Context(), id); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Part deleted successfully"})
}
