package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserFeedback is append-only. ItemID is a weak reference: feedback survives
// deletion of the audited item.
type UserFeedback struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	ItemID      string    `gorm:"index" json:"item_id"`
	Type        string    `json:"type"`
	Comment     string    `gorm:"type:text" json:"comment"`
	SubmittedAt time.Time `json:"submitted_at"`

	Timestamp
}
