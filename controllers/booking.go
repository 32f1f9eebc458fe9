package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/7499karthik/suvidhaa/metrics"
	"github.com/7499karthik/suvidhaa/models"
	"github.com/7499karthik/suvidhaa/policy"
	"github.com/7499karthik/suvidhaa/utils"
)

// Mailer sends transactional mail. Implementations may silently drop
// messages when SMTP is not configured.
type Mailer interface {
	Send(to, subject, body string) error
}

type BookingController struct {
	DB     *gorm.DB
	Mailer Mailer
	Log    *zap.Logger
}

func NewBookingController(db *gorm.DB, m Mailer, log *zap.Logger) *BookingController {
	return &BookingController{DB: db, Mailer: m, Log: log}
}

type CreateBookingRequest struct {
	ProviderID uint    `json:"providerId" validate:"required"`
	Service    string  `json:"service" validate:"required"`
	Date       string  `json:"date" validate:"required"`
	Time       string  `json:"time" validate:"required"`
	Location   string  `json:"location" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
}

// Create places a new booking against a provider. The booking starts out
// pending and both parties get a notification mail.
func (bc *BookingController) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	req := new(CreateBookingRequest)
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
	if err := bc.DB.Preload("User").First(&provider, req.ProviderID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Provider not found",
			Error:   err.Error(),
		})
	}

	booking := models.Booking{
		BookingID:  utils.GenerateBookingRef(),
		CustomerID: userID,
		ProviderID: provider.ID,
		Service:    req.Service,
		Date:       req.Date,
		Time:       req.Time,
		Location:   req.Location,
		Amount:     req.Amount,
		Status:     models.StatusPending,
	}

	if err := bc.DB.Create(&booking).Error; err != nil {
		bc.Log.Error("failed to create booking", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create booking",
			Error:   err.Error(),
		})
	}

	metrics.IncBookingCreated()
	bc.Log.Info("booking created",
		zap.String("bookingId", booking.BookingID),
		zap.Uint("customerId", userID),
		zap.Uint("providerId", provider.ID))

	var customer models.User
	if err := bc.DB.First(&customer, userID).Error; err == nil {
		booking.Customer = customer
		bc.sendAsync(customer.Email,
			fmt.Sprintf("Booking Received - %s", booking.BookingID),
			bookingMailBody(customer.FullName, &booking,
				"We have received your booking. The provider will confirm it shortly."))
	}
	booking.Provider = provider
	bc.sendAsync(provider.User.Email,
		fmt.Sprintf("New Booking - %s", booking.BookingID),
		bookingMailBody(provider.User.FullName, &booking,
			"You have received a new booking request."))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Booking created successfully",
		"booking": booking,
	})
}

// ListMine returns the caller's bookings as a customer, newest first.
func (bc *BookingController) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var bookings []models.Booking
	if err := bc.DB.
		Preload("Provider").
		Preload("Provider.User").
		Where("customer_id = ?", userID).
		Order("created_at desc").
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bookings",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Bookings fetched successfully",
		"bookings": bookings,
	})
}

// ListAll returns the booking ledger. Providers only see bookings addressed
// to them; the scope rule lives in the policy package.
func (bc *BookingController) ListAll(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)

	query := bc.DB.
		Preload("Customer").
		Preload("Provider").
		Preload("Provider.User")

	if policy.BookingListScope(models.Role(role)) == policy.ScopeProviderOnly {
		var provider models.Provider
		if err := bc.DB.Where("user_id = ?", userID).First(&provider).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Provider profile not found",
				Error:   err.Error(),
			})
		}
		query = query.Where("provider_id = ?", provider.ID)
	}

	var bookings []models.Booking
	if err := query.Order("created_at desc").Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bookings",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Bookings fetched successfully",
		"bookings": bookings,
	})
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus moves a booking through its lifecycle. Who may apply which
// transition is decided by the policy package.
func (bc *BookingController) UpdateStatus(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	req := new(UpdateStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   err.Error(),
		})
	}

	next := models.BookingStatus(req.Status)
	if !models.ValidBookingStatus(next) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid status value",
			Error:   fmt.Sprintf("unknown status %q", req.Status),
		})
	}

	booking, err := bc.findBooking(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Booking not found",
				Error:   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch booking",
			Error:   err.Error(),
		})
	}

	// The caller's provider record, if any, decides their side of the
	// ownership check.
	var callerProviderID uint
	var callerProvider models.Provider
	if err := bc.DB.Where("user_id = ?", userID).First(&callerProvider).Error; err == nil {
		callerProviderID = callerProvider.ID
	}

	if err := policy.CanChangeBookingStatus(userID, callerProviderID, booking, next); err != nil {
		if errors.Is(err, policy.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "You are not allowed to update this booking",
				Error:   err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid status transition",
			Error:   err.Error(),
		})
	}

	booking.Status = next
	if err := bc.DB.Save(booking).Error; err != nil {
		bc.Log.Error("failed to update booking status", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update booking",
			Error:   err.Error(),
		})
	}

	metrics.IncBookingStatusChange(string(next))
	bc.Log.Info("booking status updated",
		zap.String("bookingId", booking.BookingID),
		zap.String("status", string(next)))

	var customer models.User
	if err := bc.DB.First(&customer, booking.CustomerID).Error; err == nil {
		bc.sendAsync(customer.Email,
			fmt.Sprintf("Booking %s - %s", next, booking.BookingID),
			bookingMailBody(customer.FullName, booking,
				fmt.Sprintf("Your booking is now %s.", next)))
	}

	return c.JSON(fiber.Map{
		"message": "Booking status updated successfully",
		"booking": booking,
	})
}

// findBooking resolves a path parameter that may be either the public
// booking reference or the numeric row ID.
func (bc *BookingController) findBooking(idParam string) (*models.Booking, error) {
	var booking models.Booking
	err := bc.DB.Where("booking_id = ?", idParam).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if numericID, convErr := strconv.ParseUint(idParam, 10, 64); convErr == nil {
			err = bc.DB.First(&booking, uint(numericID)).Error
		}
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (bc *BookingController) sendAsync(to, subject, body string) {
	if bc.Mailer == nil || to == "" {
		return
	}
	go func() {
		if err := bc.Mailer.Send(to, subject, body); err != nil {
			bc.Log.Warn("booking email failed", zap.String("to", to), zap.Error(err))
		}
	}()
}

func bookingMailBody(name string, b *models.Booking, note string) string {
	return fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>%s</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Reference:</strong> %s</li>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
			<li><strong>Location:</strong> %s</li>
			<li><strong>Amount:</strong> %.2f</li>
			<li><strong>Status:</strong> %s</li>
		</ul>
		<p>Best regards,</p>
		<p>The Suvidhaa Team</p>
	`, name, note, b.BookingID, b.Service, b.Date, b.Time, b.Location, b.Amount, b.Status)
}
