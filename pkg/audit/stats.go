package audit

import (
	"Compliance-Shield/domain"
	"fmt"
)

// ComputeDashboardStats rolls a user's inventory up into fleet-level counts.
// Entries are never deduplicated; identity is the item id alone.
func ComputeDashboardStats(items []domain.InventoryItem) domain.DashboardStats {
	stats := domain.DashboardStats{TotalItems: len(items)}
	if len(items) == 0 {
		return stats
	}

	var scoreSum float64
	for _, item := range items {
		if item.IsExpired {
			stats.ExpiredCount++
		}
		if len(item.RiskyIngredients) > 0 {
			stats.RiskyCount++
		}
		if !item.IsRegulatorilyCompliant {
			stats.RegulatoryIssuesCount++
		}
		scoreSum += item.SafetyScore
	}
	stats.AverageSafetyScore = scoreSum / float64(len(items))

	return stats
}

// HealthRiskCode abbreviates the diabetes/bp/heart risks as "H/L/M".
func HealthRiskCode(h domain.HealthSensitivity) string {
	return fmt.Sprintf("%s/%s/%s", initial(h.Diabetes.Risk), initial(h.BP.Risk), initial(h.Heart.Risk))
}

func initial(r domain.RiskLevel) string {
	if r == "" {
		return "?"
	}
	return string(r[0])
}
