package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/7499karthik/suvidhaa/metrics"
	"github.com/7499karthik/suvidhaa/models"
	"github.com/7499karthik/suvidhaa/policy"
	"github.com/7499karthik/suvidhaa/utils"
)

type ContactController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewContactController(db *gorm.DB, log *zap.Logger) *ContactController {
	return &ContactController{DB: db, Log: log}
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Submit records a message from the public contact form.
func (cc *ContactController) Submit(c *fiber.Ctx) error {
	req := new(ContactRequest)
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

	contact := models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.ContactNew,
	}

	if err := cc.DB.Create(&contact).Error; err != nil {
		cc.Log.Error("failed to save contact message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to submit message",
			Error:   err.Error(),
		})
	}

	metrics.IncContactMessage()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Message sent successfully",
		"contact": contact,
	})
}

// ListAll returns every contact message, newest first. Visibility is decided
// by the policy package.
func (cc *ContactController) ListAll(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if !policy.CanListContacts(models.Role(role)) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "You are not allowed to view contact messages",
			Error:   "forbidden",
		})
	}

	var contacts []models.Contact
	if err := cc.DB.Order("created_at desc").Find(&contacts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch contact messages",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Contact messages fetched successfully",
		"contacts": contacts,
	})
}
