package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mati-gonz/control-obras-dasco-api/internal/dto"
	"github.com/mati-gonz/control-obras-dasco-api/internal/middleware"
	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
	"github.com/mati-gonz/control-obras-dasco-api/internal/services"
	"github.com/mati-gonz/control-obras-dasco-api/pkg/apperrors"
)

type UserHandler struct {
	users  services.UserService
	tokens *middlewareDeps
}

// middlewareDeps carries the auth middleware factory handlers need when
// registering their own routes.
type middlewareDeps struct {
	Auth gin.HandlerFunc
}

func NewUserHandler(users services.UserService, authMW gin.HandlerFunc) *UserHandler {
	return &UserHandler{users: users, tokens: &middlewareDeps{Auth: authMW}}
}

func (h *UserHandler) RegisterRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		users.POST("/login", h.Login)
		users.POST("/refresh-token", h.Refresh)

		authed := users.Group("", h.tokens.Auth)
		{
			authed.POST("/register", middleware.RequireRoles(models.UserRoleAdmin), h.Register)
			authed.GET("/me", h.Me)
			authed.GET("", middleware.RequireRoles(models.UserRoleAdmin), h.List)
			authed.GET("/:id", h.Get)
			authed.PUT("/:id", h.Update)
			authed.DELETE("/:id", middleware.RequireRoles(models.UserRoleAdmin), h.Delete)
		}
	}
}

// Register creates a new user. Admin only.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	user, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

// Login exchanges credentials for an access/refresh token pair.
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	tokens, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Refresh mints a new access token from a valid refresh token.
func (h *UserHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Refresh token is required"))
		return
	}

	tokens, err := h.users.Refresh(req.RefreshToken)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	result, err := h.users.List(c.Request.Context(), page, limit)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	caller := callerFrom(c)
	user, err := h.users.GetWithWorks(c.Request.Context(), caller, id)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	user, err := h.users.Update(c.Request.Context(), callerFrom(c), id, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// --- shared helpers ---

func callerFrom(c *gin.Context) services.Caller {
	return services.Caller{ID: middleware.GetUserID(c), Role: middleware.GetRole(c)}
}

func idParam(c *gin.Context) (uint, bool) {
	return uintParam(c, "id")
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
