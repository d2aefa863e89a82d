package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sgea/academic-events/internal/core/ports"
)

type AuthHandler struct {
	users ports.UserService
}

func NewAuthHandler(users ports.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register creates an inactive account and mails a confirmation link.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), ports.RegisterUserInput{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Institution:     req.Institution,
		Role:            req.Role,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	}, c.RealIP())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Message: "check your e-mail to confirm the account; the link expires in 24 hours",
		User:    user,
	})
}

// Confirm activates the account behind a confirmation link.
//
// @Summary      Confirm e-mail address
// @Tags         auth
// @Produce      json
// @Param        token  path      string  true  "Confirmation token"
// @Success      200    {object}  authResponse
// @Failure      400    {object}  errorResponse
// @Failure      410    {object}  errorResponse
// @Router       /auth/confirm/{token} [get]
func (h *AuthHandler) Confirm(c echo.Context) error {
	user, err := h.users.Confirm(c.Request().Context(), c.Param("token"), c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Message: "account confirmed", User: user})
}

// Login authenticates a user by username or e-mail and returns a JWT.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.users.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}
