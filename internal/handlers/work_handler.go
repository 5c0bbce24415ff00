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

type WorkHandler struct {
	works services.WorkService
	auth  gin.HandlerFunc
}

func NewWorkHandler(works services.WorkService, authMW gin.HandlerFunc) *WorkHandler {
	return &WorkHandler{works: works, auth: authMW}
}

func (h *WorkHandler) RegisterRoutes(api *gin.RouterGroup) {
	works := api.Group("/works", h.auth)
	{
		works.POST("", middleware.RequireRoles(models.UserRoleAdmin), h.Create)
		works.GET("", h.List)
		works.GET("/:work_id", h.Get)
		works.PUT("/:work_id", middleware.RequireRoles(models.UserRoleAdmin), h.Update)
		works.DELETE("/:work_id", middleware.RequireRoles(models.UserRoleAdmin), h.Delete)
	}
}

func (h *WorkHandler) Create(c *gin.Context) {
	var req dto.CreateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	work, err := h.works.Create(c.Request.Context(), &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, work)
}

func (h *WorkHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	result, err := h.works.List(c.Request.Context(), callerFrom(c), page, limit)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *WorkHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "work_id")
	if !ok {
		return
	}

	work, err := h.works.Get(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, work)
}

func (h *WorkHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "work_id")
	if !ok {
		return
	}

	var req dto.UpdateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	work, err := h.works.Update(c.Request.Context(), id, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, work)
}

func (h *WorkHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "work_id")
	if !ok {
		return
	}

	if err := h.works.Delete(c.Request.Context(), id); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Work deleted successfully"})
}
