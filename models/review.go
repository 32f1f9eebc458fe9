package models

import (
	"time"

	"gorm.io/gorm"
)

type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProviderID uint      `json:"providerId" gorm:"index:idx_reviews_provider_customer,unique"`
	Provider   Provider  `json:"-" gorm:"foreignKey:ProviderID"`
	CustomerID uint      `json:"customerId" gorm:"index:idx_reviews_provider_customer,unique"`
	Customer   User      `json:"customer" gorm:"foreignKey:CustomerID"`
	Rating     float64   `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BeforeCreate clamps the rating into the 1..5 range.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.Rating < 1.0 {
		r.Rating = 1.0
	} else if r.Rating > 5.0 {
		r.Rating = 5.0
	}
	return nil
}

// HasExistingReview reports whether the customer already reviewed the provider.
func (r *Review) HasExistingReview(tx *gorm.DB) (bool, error) {
	var count int64
	err := tx.Model(&Review{}).
		Where("customer_id = ? AND provider_id = ?", r.CustomerID, r.ProviderID).
		Count(&count).Error
	return count > 0, err
}
