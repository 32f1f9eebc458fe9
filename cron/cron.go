package cron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/7499karthik/suvidhaa/models"
)

// Mailer matches the controllers' mail dependency so the scheduler can share
// the same instance.
type Mailer interface {
	Send(to, subject, body string) error
}

// Scheduler mails customers a reminder the day before their confirmed
// bookings.
type Scheduler struct {
	db     *gorm.DB
	mailer Mailer
	log    *zap.Logger
	runner *cron.Cron
}

func NewScheduler(db *gorm.DB, mailer Mailer, log *zap.Logger) *Scheduler {
	return &Scheduler{
		db:     db,
		mailer: mailer,
		log:    log,
		runner: cron.New(),
	}
}

// Start registers the reminder sweep on the given cron spec and launches the
// scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.runner.AddFunc(spec, s.sendBookingReminders); err != nil {
		return err
	}
	s.runner.Start()
	s.log.Info("reminder scheduler started", zap.String("spec", spec))
	return nil
}

func (s *Scheduler) Stop() {
	s.runner.Stop()
}

// sendBookingReminders finds confirmed bookings dated tomorrow and mails
// each customer. Booking dates are stored as YYYY-MM-DD strings, so the
// match is a plain equality.
func (s *Scheduler) sendBookingReminders() {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var bookings []models.Booking
	err := s.db.
		Preload("Customer").
		Preload("Provider.User").
		Where("status = ? AND date = ?", models.StatusConfirmed, tomorrow).
		Find(&bookings).Error
	if err != nil {
		s.log.Error("failed to fetch bookings for reminders", zap.Error(err))
		return
	}

	for _, booking := range bookings {
		if booking.Customer.Email == "" {
			continue
		}
		subject := fmt.Sprintf("Reminder: Upcoming Booking - %s", booking.BookingID)
		if err := s.mailer.Send(booking.Customer.Email, subject, reminderBody(&booking)); err != nil {
			s.log.Warn("failed to send reminder",
				zap.String("bookingId", booking.BookingID),
				zap.Error(err))
			continue
		}
		s.log.Info("sent booking reminder",
			zap.String("bookingId", booking.BookingID),
			zap.String("to", booking.Customer.Email))
	}
}

func reminderBody(b *models.Booking) string {
	return fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your booking scheduled tomorrow.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Reference:</strong> %s</li>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Provider:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
			<li><strong>Location:</strong> %s</li>
		</ul>
		<p>If you need to reschedule or cancel, please do so as soon as possible.</p>
		<p>Best regards,</p>
		<p>The Suvidhaa Team</p>
	`, b.Customer.FullName, b.BookingID, b.Service, b.Provider.User.FullName,
		b.Date, b.Time, b.Location)
}
