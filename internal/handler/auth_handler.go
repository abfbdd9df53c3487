package handler

import (
	"github.com/mcunha12/medstudent/internal/dto"
	"github.com/mcunha12/medstudent/internal/logger"
	"github.com/mcunha12/medstudent/internal/middleware"
	"github.com/mcunha12/medstudent/internal/service"
	"github.com/mcunha12/medstudent/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles account registration and login.
type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validation.NewValidator(),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := h.validator.ValidateCredentials(req.Email, req.Password); len(errs) > 0 {
		return errs
	}

	user, err := h.authService.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.issueToken(c, fiber.StatusCreated, user.ID, user.Email, func() (string, error) {
		return h.authService.CreateJWT(c.UserContext(), user)
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := h.validator.ValidateCredentials(req.Email, req.Password); len(errs) > 0 {
		return errs
	}

	token, user, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.issueToken(c, fiber.StatusOK, user.ID, user.Email, func() (string, error) { return token, nil })
}

func (h *AuthHandler) issueToken(c *fiber.Ctx, status int, userID, email string, sign func() (string, error)) error {
	token, err := sign()
	if err != nil {
		logger.Get().Error("Failed to sign access token", zap.String("userID", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(middleware.ErrorResponse{
			Code:    "TOKEN_GENERATION_FAILED",
			Message: "Failed to create access token",
			Status:  fiber.StatusInternalServerError,
		})
	}
	return c.Status(status).JSON(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.authService.AccessTokenTTL().Seconds()),
		User:        dto.UserResponse{ID: userID, Email: email},
	})
}
