package models

import "time"

type ContactStatus string

const (
	ContactNew     ContactStatus = "new"
	ContactReplied ContactStatus = "replied"
	ContactClosed  ContactStatus = "closed"
)

type Contact struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status" gorm:"default:new"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
