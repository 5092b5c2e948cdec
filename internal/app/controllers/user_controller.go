package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/akarpov/docflow/internal/app/models/dto"
	"github.com/akarpov/docflow/internal/app/services"
	"github.com/akarpov/docflow/internal/middleware"
)

// UserController handles user administration operations. All of its
// routes are restricted to curators.
type UserController struct {
	userService services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// SetRole assigns a new role to the user with the given email. The
// change takes effect on the user's next login; tokens already issued
// keep their embedded role until they expire.
func (c *UserController) SetRole(ctx *gin.Context) {
	var req dto.SetRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid set role request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	user, err := c.userService.SetRole(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Role assignment failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("email", req.Email).Str("role", user.RoleType).Msg("Role assigned")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

// ListUsers returns all registered users
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.userService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(users))
}
