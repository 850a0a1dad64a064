package entities

import (
	"Compliance-Shield/domain"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type InventoryItem struct {
	ID                      uuid.UUID                                      `gorm:"type:uuid;primary_key" json:"id"`
	UserID                  uuid.UUID                                      `gorm:"type:uuid;index" json:"user_id"`
	ProductName             string                                         `json:"product_name"`
	Brand                   string                                         `json:"brand"`
	ExpiryDate              string                                         `json:"expiry_date"`
	IsExpired               bool                                           `json:"is_expired"`
	Ingredients             datatypes.JSONSlice[string]                    `json:"ingredients"`
	RiskyIngredients        datatypes.JSONSlice[domain.IngredientAnalysis] `json:"risky_ingredients"`
	HealthSensitivity       datatypes.JSONType[domain.HealthSensitivity]   `json:"health_sensitivity"`
	SafetyScore             float64                                        `json:"safety_score"`
	Recommendation          string                                         `gorm:"type:text" json:"recommendation"`
	TargetAudience          string                                         `json:"target_audience"`
	DetectedRegion          string                                         `json:"detected_region"`
	RegulatoryMarkers       datatypes.JSONSlice[string]                    `json:"regulatory_markers"`
	ComplianceViolations    datatypes.JSONSlice[string]                    `json:"compliance_violations"`
	IsRegulatorilyCompliant bool                                           `json:"is_regulatorily_compliant"`
	DetailedChecklist       datatypes.JSONSlice[domain.RegulatoryCheck]    `json:"detailed_checklist"`
	ImageURL                string                                         `json:"image_url,omitempty"`
	FeedbackSubmitted       bool                                           `json:"feedback_submitted"`
	AddedAt                 time.Time                                      `gorm:"index" json:"added_at"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
