package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ValidBookingStatus reports whether s is one of the four known states.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	BookingID  string        `json:"bookingId" gorm:"uniqueIndex"`
	CustomerID uint          `json:"customerId"`
	Customer   User          `json:"customer" gorm:"foreignKey:CustomerID"`
	ProviderID uint          `json:"providerId"`
	Provider   Provider      `json:"provider" gorm:"foreignKey:ProviderID"`
	Service    string        `json:"service"`
	Date       string        `json:"date"`
	Time       string        `json:"time"`
	Location   string        `json:"location"`
	Amount     float64       `json:"amount"`
	Status     BookingStatus `json:"status" gorm:"default:pending"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusPending
	}
	return nil
}

// CanTransition validates a status change against the booking lifecycle:
// pending may become confirmed or cancelled, confirmed may become completed
// or cancelled, and completed/cancelled are terminal.
func (b *Booking) CanTransition(next BookingStatus) error {
	switch b.Status {
	case StatusPending:
		if next != StatusConfirmed && next != StatusCancelled {
			return fmt.Errorf("invalid transition from pending to %s", next)
		}
	case StatusConfirmed:
		if next != StatusCompleted && next != StatusCancelled {
			return fmt.Errorf("invalid transition from confirmed to %s", next)
		}
	case StatusCompleted, StatusCancelled:
		return fmt.Errorf("no transitions allowed from %s", b.Status)
	}
	return nil
}
