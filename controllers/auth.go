package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/7499karthik/suvidhaa/metrics"
	"github.com/7499karthik/suvidhaa/models"
	"github.com/7499karthik/suvidhaa/token"
	"github.com/7499karthik/suvidhaa/utils"
)

// TokenRevoker invalidates a token ID until its expiry. Nil disables logout
// revocation and logout becomes purely client-side.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

type AuthController struct {
	DB       *gorm.DB
	Tokens   *token.Service
	Denylist TokenRevoker
	Log      *zap.Logger
}

func NewAuthController(db *gorm.DB, tokens *token.Service, denylist TokenRevoker, log *zap.Logger) *AuthController {
	return &AuthController{DB: db, Tokens: tokens, Denylist: denylist, Log: log}
}

type SignupRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Gender   string `json:"gender" validate:"required,oneof=male female other"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=customer provider"`
}

// Signup registers a new account and hands back a signed token.
func (a *AuthController) Signup(c *fiber.Ctx) error {
	req := new(SignupRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   err.Error(),
		})
	}

	if fieldErrors := utils.ValidateStruct(req); fieldErrors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ValidationErrorResponse{
			Message: "Validation failed",
			Errors:  fieldErrors,
		})
	}

	// Check if user already exists; emails are compared case-insensitively.
	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existingUser models.User
	if a.DB.Where("email = ?", email).First(&existingUser).RowsAffected > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "User already exists with this email",
			Error:   "duplicate email",
		})
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to hash password",
			Error:   err.Error(),
		})
	}

	user := models.User{
		FullName: req.FullName,
		Email:    email,
		Phone:    req.Phone,
		Gender:   models.Gender(req.Gender),
		Password: string(hashedPassword),
		Role:     models.Role(req.Role),
	}

	if err := a.DB.Create(&user).Error; err != nil {
		a.Log.Error("failed to create user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create user",
			Error:   err.Error(),
		})
	}

	tokenString, err := a.Tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate token",
			Error:   err.Error(),
		})
	}

	metrics.IncSignup()
	a.Log.Info("user registered", zap.Uint("userID", user.ID), zap.String("role", string(user.Role)))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   tokenString,
		"user":    user,
	})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials. Unknown emails and wrong passwords produce the
// same response so the two cases cannot be told apart.
func (a *AuthController) Login(c *fiber.Ctx) error {
	req := new(LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   err.Error(),
		})
	}

	if fieldErrors := utils.ValidateStruct(req); fieldErrors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ValidationErrorResponse{
			Message: "Validation failed",
			Errors:  fieldErrors,
		})
	}

	var user models.User
	if a.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).RowsAffected == 0 {
		return invalidCredentials(c)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return invalidCredentials(c)
	}

	tokenString, err := a.Tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate token",
			Error:   err.Error(),
		})
	}

	metrics.IncLogin()

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   tokenString,
		"user":    user,
	})
}

func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
		Message: "Invalid email or password",
		Error:   "invalid credentials",
	})
}

// Me returns the authenticated user's profile.
func (a *AuthController) Me(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	if err := a.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "User not found",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "User fetched successfully",
		"user":    user,
	})
}

// Logout revokes the presented token until its natural expiry. The response
// is the same whether or not a denylist is configured, so logout is always
// safe to call.
func (a *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	raw := strings.TrimPrefix(authHeader, "Bearer ")
	if raw != authHeader && raw != "" && a.Denylist != nil {
		if claims, err := a.Tokens.Verify(raw); err == nil {
			if err := a.Denylist.Revoke(c.Context(), claims.JTI, claims.ExpiresAt); err != nil {
				a.Log.Warn("failed to revoke token", zap.Error(err))
			}
		}
	}

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}
