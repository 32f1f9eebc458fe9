package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ServiceList is stored as a JSON array so the same column works on
// postgres and sqlite.
type ServiceList []string

func (s ServiceList) Value() (driver.Value, error) {
	if s == nil {
		s = ServiceList{}
	}
	return json.Marshal(s)
}

func (s *ServiceList) Scan(value interface{}) error {
	if value == nil {
		*s = ServiceList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type for ServiceList: %T", value)
	}
}

// Contains reports whether the list carries the given service name,
// compared case-insensitively.
func (s ServiceList) Contains(name string) bool {
	for _, svc := range s {
		if strings.EqualFold(svc, name) {
			return true
		}
	}
	return false
}

type Provider struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	UserID       uint        `json:"userId" gorm:"uniqueIndex"`
	User         User        `json:"user" gorm:"foreignKey:UserID"`
	Services     ServiceList `json:"services" gorm:"type:text"`
	Experience   uint        `json:"experience"`
	Location     string      `json:"location"`
	Availability string      `json:"availability"`
	Rating       float64     `json:"rating" gorm:"default:0"`
	TotalReviews uint        `json:"totalReviews" gorm:"default:0"`
	Verified     bool        `json:"verified" gorm:"default:false"`
	AvatarURL    string      `json:"avatarUrl"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
