package domain

import (
	"time"
)

type (
	RiskLevel      string
	CheckStatus    string
	TargetAudience string
	FeedbackType   string
)

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"

	CheckPassed  CheckStatus = "Passed"
	CheckFailed  CheckStatus = "Failed"
	CheckMissing CheckStatus = "Missing"

	AudienceBaby    TargetAudience = "BABY"
	AudienceElder   TargetAudience = "ELDER"
	AudienceGeneral TargetAudience = "GENERAL"

	FeedbackIncorrectExpiry FeedbackType = "Incorrect Expiry"
	FeedbackMissedAllergen  FeedbackType = "Missed Allergen"
	FeedbackWrongRegulation FeedbackType = "Wrong Regulation"
	FeedbackOther           FeedbackType = "Other"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

func (s CheckStatus) Valid() bool {
	switch s {
	case CheckPassed, CheckFailed, CheckMissing:
		return true
	}
	return false
}

func (a TargetAudience) Valid() bool {
	switch a {
	case AudienceBaby, AudienceElder, AudienceGeneral:
		return true
	}
	return false
}

func (f FeedbackType) Valid() bool {
	switch f {
	case FeedbackIncorrectExpiry, FeedbackMissedAllergen, FeedbackWrongRegulation, FeedbackOther:
		return true
	}
	return false
}

type (
	IngredientAnalysis struct {
		Name      string    `json:"name"`
		RiskLevel RiskLevel `json:"riskLevel"`
		Reason    string    `json:"reason"`
	}

	HealthRisk struct {
		Risk   RiskLevel `json:"risk"`
		Reason string    `json:"reason"`
	}

	// HealthSensitivity is closed: exactly these three conditions are assessed.
	HealthSensitivity struct {
		Diabetes HealthRisk `json:"diabetes"`
		BP       HealthRisk `json:"bp"`
		Heart    HealthRisk `json:"heart"`
	}

	RegulatoryCheck struct {
		Requirement  string      `json:"requirement"`
		Status       CheckStatus `json:"status"`
		RegulationID string      `json:"regulationId"`
		Details      string      `json:"details"`
	}

	// ComplianceResult is the audit produced by the label classifier.
	ComplianceResult struct {
		ProductName             string               `json:"productName"`
		Brand                   string               `json:"brand"`
		ExpiryDate              string               `json:"expiryDate"`
		IsExpired               bool                 `json:"isExpired"`
		Ingredients             []string             `json:"ingredients"`
		RiskyIngredients        []IngredientAnalysis `json:"riskyIngredients"`
		HealthSensitivity       HealthSensitivity    `json:"healthSensitivity"`
		SafetyScore             float64              `json:"safetyScore"`
		Recommendation          string               `json:"recommendation"`
		TargetAudience          TargetAudience       `json:"targetAudience"`
		DetectedRegion          string               `json:"detectedRegion"`
		RegulatoryMarkers       []string             `json:"regulatoryMarkers"`
		ComplianceViolations    []string             `json:"complianceViolations"`
		IsRegulatorilyCompliant bool                 `json:"isRegulatorilyCompliant"`
		DetailedChecklist       []RegulatoryCheck    `json:"detailedChecklist"`
	}

	InventoryItem struct {
		ComplianceResult
		ID                string    `json:"id"`
		AddedAt           time.Time `json:"addedAt"`
		ImageURL          string    `json:"imageUrl,omitempty"`
		FeedbackSubmitted bool      `json:"feedbackSubmitted"`
	}

	UserFeedback struct {
		ID          string       `json:"id"`
		ItemID      string       `json:"itemId"`
		Type        FeedbackType `json:"type"`
		Comment     string       `json:"comment"`
		SubmittedAt time.Time    `json:"submittedAt"`
	}

	// DashboardStats is derived from a user's inventory on every read and never stored.
	DashboardStats struct {
		TotalItems            int     `json:"totalItems"`
		ExpiredCount          int     `json:"expiredCount"`
		RiskyCount            int     `json:"riskyCount"`
		RegulatoryIssuesCount int     `json:"regulatoryIssuesCount"`
		AverageSafetyScore    float64 `json:"averageSafetyScore"`
	}
)
