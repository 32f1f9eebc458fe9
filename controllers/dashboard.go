package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/7499karthik/suvidhaa/models"
	"github.com/7499karthik/suvidhaa/utils"
)

type DashboardController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewDashboardController(db *gorm.DB, log *zap.Logger) *DashboardController {
	return &DashboardController{DB: db, Log: log}
}

// Stats aggregates booking figures for the caller. Providers get their full
// business view including revenue from completed bookings; everyone else
// gets their own booking counts as a customer.
func (d *DashboardController) Stats(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)

	if models.Role(role) == models.RoleProvider {
		return d.providerStats(c, userID)
	}
	return d.customerStats(c, userID)
}

func (d *DashboardController) providerStats(c *fiber.Ctx, userID uint) error {
	var provider models.Provider
	if err := d.DB.Where("user_id = ?", userID).First(&provider).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Provider profile not found",
			Error:   err.Error(),
		})
	}

	var stats struct {
		TotalBookings     int64   `json:"totalBookings"`
		PendingBookings   int64   `json:"pendingBookings"`
		CompletedBookings int64   `json:"completedBookings"`
		TotalRevenue      float64 `json:"totalRevenue"`
		AverageRating     float64 `json:"averageRating"`
	}

	d.DB.Model(&models.Booking{}).
		Where("provider_id = ?", provider.ID).
		Count(&stats.TotalBookings)
	d.DB.Model(&models.Booking{}).
		Where("provider_id = ? AND status = ?", provider.ID, models.StatusPending).
		Count(&stats.PendingBookings)
	d.DB.Model(&models.Booking{}).
		Where("provider_id = ? AND status = ?", provider.ID, models.StatusCompleted).
		Count(&stats.CompletedBookings)

	// Revenue counts completed bookings only.
	var revenue struct {
		Total float64
	}
	if err := d.DB.Model(&models.Booking{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("provider_id = ? AND status = ?", provider.ID, models.StatusCompleted).
		Scan(&revenue).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to compute revenue",
			Error:   err.Error(),
		})
	}
	stats.TotalRevenue = revenue.Total
	stats.AverageRating = provider.Rating

	return c.JSON(fiber.Map{
		"message": "Dashboard stats fetched successfully",
		"stats":   stats,
	})
}

func (d *DashboardController) customerStats(c *fiber.Ctx, userID uint) error {
	var stats struct {
		TotalBookings   int64 `json:"totalBookings"`
		PendingBookings int64 `json:"pendingBookings"`
	}

	d.DB.Model(&models.Booking{}).
		Where("customer_id = ?", userID).
		Count(&stats.TotalBookings)
	d.DB.Model(&models.Booking{}).
		Where("customer_id = ? AND status = ?", userID, models.StatusPending).
		Count(&stats.PendingBookings)

	return c.JSON(fiber.Map{
		"message": "Dashboard stats fetched successfully",
		"stats":   stats,
	})
}
