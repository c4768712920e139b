package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/geotrail/location-log/internal/api/metrics"
	"github.com/geotrail/location-log/internal/core/domain"
	"github.com/geotrail/location-log/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"     validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toAuthResponse(res *ports.AuthResult) authResponse {
	return authResponse{
		Token: res.Token,
		User:  userResponse{ID: res.User.ID, Email: res.User.Email, Name: res.User.Name},
	}
}

// Register creates a new user account and signs the caller in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}

	metrics.UsersRegisteredTotal.Inc()
	return c.JSON(http.StatusCreated, toAuthResponse(res))
}

// Login exchanges email and password for a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrValidation) {
			result = metrics.ResultFailure
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusOK, toAuthResponse(res))
}
