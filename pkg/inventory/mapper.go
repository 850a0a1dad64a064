package inventory

import (
	"Compliance-Shield/domain"
	"Compliance-Shield/entities"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func toEntity(userID uuid.UUID, id uuid.UUID, item domain.InventoryItem) *entities.InventoryItem {
	return &entities.InventoryItem{
		ID:                      id,
		UserID:                  userID,
		ProductName:             item.ProductName,
		Brand:                   item.Brand,
		ExpiryDate:              item.ExpiryDate,
		IsExpired:               item.IsExpired,
		Ingredients:             datatypes.NewJSONSlice(item.Ingredients),
		RiskyIngredients:        datatypes.NewJSONSlice(item.RiskyIngredients),
		HealthSensitivity:       datatypes.NewJSONType(item.HealthSensitivity),
		SafetyScore:             item.SafetyScore,
		Recommendation:          item.Recommendation,
		TargetAudience:          string(item.TargetAudience),
		DetectedRegion:          item.DetectedRegion,
		RegulatoryMarkers:       datatypes.NewJSONSlice(item.RegulatoryMarkers),
		ComplianceViolations:    datatypes.NewJSONSlice(item.ComplianceViolations),
		IsRegulatorilyCompliant: item.IsRegulatorilyCompliant,
		DetailedChecklist:       datatypes.NewJSONSlice(item.DetailedChecklist),
		ImageURL:                item.ImageURL,
		FeedbackSubmitted:       item.FeedbackSubmitted,
		AddedAt:                 item.AddedAt,
	}
}

func toDomain(e entities.InventoryItem) domain.InventoryItem {
	return domain.InventoryItem{
		ComplianceResult: domain.ComplianceResult{
			ProductName:             e.ProductName,
			Brand:                   e.Brand,
			ExpiryDate:              e.ExpiryDate,
			IsExpired:               e.IsExpired,
			Ingredients:             nonNil([]string(e.Ingredients)),
			RiskyIngredients:        nonNil([]domain.IngredientAnalysis(e.RiskyIngredients)),
			HealthSensitivity:       e.HealthSensitivity.Data(),
			SafetyScore:             e.SafetyScore,
			Recommendation:          e.Recommendation,
			TargetAudience:          domain.TargetAudience(e.TargetAudience),
			DetectedRegion:          e.DetectedRegion,
			RegulatoryMarkers:       nonNil([]string(e.RegulatoryMarkers)),
			ComplianceViolations:    nonNil([]string(e.ComplianceViolations)),
			IsRegulatorilyCompliant: e.IsRegulatorilyCompliant,
			DetailedChecklist:       nonNil([]domain.RegulatoryCheck(e.DetailedChecklist)),
		},
		ID:                e.ID.String(),
		AddedAt:           e.AddedAt,
		ImageURL:          e.ImageURL,
		FeedbackSubmitted: e.FeedbackSubmitted,
	}
}

func toDomainList(items []entities.InventoryItem) []domain.InventoryItem {
	out := make([]domain.InventoryItem, 0, len(items))
	for _, e := range items {
		out = append(out, toDomain(e))
	}
	return out
}

func feedbackToDomain(f entities.UserFeedback) domain.UserFeedback {
	return domain.UserFeedback{
		ID:          f.ID.String(),
		ItemID:      f.ItemID,
		Type:        domain.FeedbackType(f.Type),
		Comment:     f.Comment,
		SubmittedAt: f.SubmittedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
