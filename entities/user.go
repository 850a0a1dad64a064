package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Phone string    `gorm:"uniqueIndex;size:20" json:"phone"`
	Name  string    `json:"name"`

	Timestamp
}
