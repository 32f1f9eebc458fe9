package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/7499karthik/suvidhaa/models"
	"github.com/7499karthik/suvidhaa/utils"
)

// AvatarUploader stores an avatar file and returns its public URL. Nil
// disables avatar uploads.
type AvatarUploader interface {
	Upload(ctx context.Context, file interface{}, publicID, folder string) (string, error)
}

type ProviderController struct {
	DB       *gorm.DB
	Uploader AvatarUploader
	Log      *zap.Logger
}

func NewProviderController(db *gorm.DB, uploader AvatarUploader, log *zap.Logger) *ProviderController {
	return &ProviderController{DB: db, Uploader: uploader, Log: log}
}

type RegisterProviderRequest struct {
	Services     []string `json:"services" validate:"required,min=1,dive,required"`
	Experience   uint     `json:"experience" validate:"required"`
	Location     string   `json:"location" validate:"required"`
	Availability string   `json:"availability" validate:"required"`
}

// Register turns the authenticated user into a provider. Creating the
// provider profile and flipping the user's role happen in one transaction.
func (p *ProviderController) Register(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	req := new(RegisterProviderRequest)
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

	var existing models.Provider
	if p.DB.Where("user_id = ?", userID).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "You are already registered as a provider",
			Error:   "duplicate provider registration",
		})
	}

	var user models.User
	if err := p.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "User not found",
			Error:   err.Error(),
		})
	}

	provider := models.Provider{
		UserID:       userID,
		Services:     req.Services,
		Experience:   req.Experience,
		Location:     req.Location,
		Availability: req.Availability,
	}

	err := p.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&provider).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("role", models.RoleProvider).Error
	})
	if err != nil {
		p.Log.Error("failed to register provider", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to register provider",
			Error:   err.Error(),
		})
	}

	user.Role = models.RoleProvider
	provider.User = user
	p.Log.Info("provider registered", zap.Uint("userID", userID), zap.Uint("providerID", provider.ID))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Provider registered successfully",
		"provider": provider,
	})
}

// List returns verified providers, optionally narrowed by service and
// location. The location filter is a case-insensitive substring match; the
// service filter wants an exact (case-insensitive) entry in the provider's
// service list, so it is applied after loading.
func (p *ProviderController) List(c *fiber.Ctx) error {
	service := c.Query("service")
	location := c.Query("location")

	query := p.DB.Preload("User").Where("verified = ?", true)
	if location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}

	var providers []models.Provider
	if err := query.Order("created_at desc").Find(&providers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch providers",
			Error:   err.Error(),
		})
	}

	if service != "" {
		filtered := make([]models.Provider, 0, len(providers))
		for _, prov := range providers {
			if prov.Services.Contains(service) {
				filtered = append(filtered, prov)
			}
		}
		providers = filtered
	}

	return c.JSON(fiber.Map{
		"message":   "Providers fetched successfully",
		"providers": providers,
	})
}

// Get returns a single provider with its user profile.
func (p *ProviderController) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Provider not found",
			Error:   "invalid provider ID",
		})
	}

	var provider models.Provider
	if err := p.DB.Preload("User").First(&provider, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Provider not found",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Provider fetched successfully",
		"provider": provider,
	})
}

// UploadAvatar stores a new avatar for the caller's provider profile.
func (p *ProviderController) UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var provider models.Provider
	if err := p.DB.Where("user_id = ?", userID).First(&provider).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Provider profile not found",
			Error:   err.Error(),
		})
	}

	if p.Uploader == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Avatar uploads are not configured",
			Error:   "cloudinary credentials missing",
		})
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Avatar file is required",
			Error:   err.Error(),
		})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to read avatar file",
			Error:   err.Error(),
		})
	}
	defer f.Close()

	publicID := fmt.Sprintf("provider_%d_%d", provider.ID, time.Now().Unix())
	url, err := p.Uploader.Upload(c.Context(), f, publicID, "provider_avatars")
	if err != nil {
		p.Log.Error("avatar upload failed", zap.Uint("providerID", provider.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload avatar",
			Error:   err.Error(),
		})
	}

	if err := p.DB.Model(&provider).Update("avatar_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save avatar",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Avatar uploaded successfully",
		"avatarUrl": url,
	})
}

type CreateReviewRequest struct {
	Rating  float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string  `json:"comment"`
}

// CreateReview adds a review for a provider and refreshes the provider's
// rating aggregates in the same transaction. One review per customer per
// provider.
func (p *ProviderController) CreateReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Provider not found",
			Error:   "invalid provider ID",
		})
	}

	req := new(CreateReviewRequest)
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

	var provider models.Provider
	if err := p.DB.First(&provider, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Provider not found",
			Error:   err.Error(),
		})
	}

	review := models.Review{
		ProviderID: provider.ID,
		CustomerID: userID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	hasExisting, err := review.HasExistingReview(p.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to check existing reviews",
			Error:   err.Error(),
		})
	}
	if hasExisting {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "You have already reviewed this provider",
			Error:   "duplicate review",
		})
	}

	err = p.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return tx.Model(&models.Provider{}).Where("id = ?", provider.ID).
			Updates(map[string]interface{}{
				"rating": tx.Model(&models.Review{}).
					Select("COALESCE(AVG(rating), 0)").
					Where("provider_id = ?", provider.ID),
				"total_reviews": tx.Model(&models.Review{}).
					Select("COUNT(*)").
					Where("provider_id = ?", provider.ID),
			}).Error
	})
	if err != nil {
		p.Log.Error("failed to create review", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create review",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review submitted successfully",
		"review":  review,
	})
}

// ListReviews returns a provider's reviews, newest first.
func (p *ProviderController) ListReviews(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Provider not found",
			Error:   "invalid provider ID",
		})
	}

	var reviews []models.Review
	if err := p.DB.Preload("Customer", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, full_name, created_at")
	}).
		Where("provider_id = ?", id).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch reviews",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Reviews fetched successfully",
		"reviews": reviews,
	})
}
