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

type SubgroupHandler struct {
	subgroups services.SubgroupService
	auth      gin.HandlerFunc
}

func NewSubgroupHandler(subgroups services.SubgroupService, authMW gin.HandlerFunc) *SubgroupHandler {
	return &SubgroupHandler{subgroups: subgroups, auth: authMW}
}

func (h *SubgroupHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/works/:work_id/subgroups", h.auth, h.Create)
	api.GET("/works/:work_id/subgroups", h.auth, h.ListByWork)

	subgroups := api.Group("/subgroups", h.auth)
	{
		subgroups.GET("/:id", h.Get)
		subgroups.PUT("/:id", h.Update)
		subgroups.DELETE("/:id", middleware.RequireRoles(models.UserRoleAdmin), h.Delete)
	}
}

func (h *SubgroupHandler) Create(c *gin.Context) {
	workID, ok := uintParam(c, "work_id")
	if !ok {
		return
	}

	var req dto.CreateSubgroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	subgroup, err := h.subgroups.Create(c.Request.Context(), callerFrom(c), workID, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subgroup)
}

func (h *SubgroupHandler) ListByWork(c *gin.Context) {
	workID, ok := uintParam(c, "work_id")
	if !ok {
		return
	}

	subgroups, err := h.subgroups.ListByWork(c.Request.Context(), workID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": subgroups})
}

func (h *SubgroupHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	subgroup, err := h.subgroups.Get(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, subgroup)
}

func (h *SubgroupHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.UpdateSubgroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	subgroup, err := h.subgroups.Update(c.Request.Context(), callerFrom(c), id, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, subgroup)
}

func (h *SubgroupHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.subgroups.Delete(c.Request.Context(), id); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subgroup deleted successfully"})
}
