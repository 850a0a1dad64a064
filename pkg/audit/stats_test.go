package audit

import (
	"Compliance-Shield/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func item(id string, score float64, expired, compliant bool, risky ...string) domain.InventoryItem {
	it := domain.InventoryItem{ID: id}
	it.SafetyScore = score
	it.IsExpired = expired
	it.IsRegulatorilyCompliant = compliant
	for _, r := range risky {
		it.RiskyIngredients = append(it.RiskyIngredients, domain.IngredientAnalysis{Name: r, RiskLevel: domain.RiskHigh})
	}
	return it
}

func TestComputeDashboardStats_Scenario(t *testing.T) {
	items := []domain.InventoryItem{
		item("a", 90, true, true),
		item("b", 70, false, true, "Palm Oil"),
		item("c", 50, false, false),
	}

	stats := ComputeDashboardStats(items)

	assert.Equal(t, domain.DashboardStats{
		TotalItems:            3,
		ExpiredCount:          1,
		RiskyCount:            1,
		RegulatoryIssuesCount: 1,
		AverageSafetyScore:    70,
	}, stats)
}

func TestComputeDashboardStats_Empty(t *testing.T) {
	assert.Equal(t, domain.DashboardStats{}, ComputeDashboardStats(nil))
	assert.Equal(t, domain.DashboardStats{}, ComputeDashboardStats([]domain.InventoryItem{}))
}

func TestComputeDashboardStats_RiskyCount(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.InventoryItem
		want  int
	}{
		{
			name:  "none risky",
			items: []domain.InventoryItem{item("a", 10, false, true), item("b", 20, false, true)},
			want:  0,
		},
		{
			name:  "all risky",
			items: []domain.InventoryItem{item("a", 10, false, true, "Salt"), item("b", 20, false, true, "Sugar", "MSG")},
			want:  2,
		},
		{
			name: "empty but non-nil list is not risky",
			items: []domain.InventoryItem{
				func() domain.InventoryItem {
					it := item("a", 10, false, true)
					it.RiskyIngredients = []domain.IngredientAnalysis{}
					return it
				}(),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDashboardStats(tt.items).RiskyCount)
		})
	}
}

func TestComputeDashboardStats_Mean(t *testing.T) {
	items := []domain.InventoryItem{item("a", 33, false, true), item("b", 34, false, true), item("c", 35.5, false, true)}
	assert.InDelta(t, 34.1666, ComputeDashboardStats(items).AverageSafetyScore, 0.001)
}

func TestComputeDashboardStats_KeepsDuplicates(t *testing.T) {
	a := item("a", 80, true, false, "Salt")
	a.ProductName = "Same Bar"
	b := item("b", 60, true, false, "Salt")
	b.ProductName = "Same Bar"

	stats := ComputeDashboardStats([]domain.InventoryItem{a, b})

	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 2, stats.ExpiredCount)
	assert.Equal(t, 2, stats.RegulatoryIssuesCount)
	assert.Equal(t, float64(70), stats.AverageSafetyScore)
}

func TestComputeDashboardStats_DoesNotMutateInput(t *testing.T) {
	items := []domain.InventoryItem{item("a", 90, true, true, "Salt")}
	before := items[0]

	ComputeDashboardStats(items)

	assert.Equal(t, before, items[0])
}

func TestHealthRiskCode(t *testing.T) {
	h := domain.HealthSensitivity{
		Diabetes: domain.HealthRisk{Risk: domain.RiskHigh},
		BP:       domain.HealthRisk{Risk: domain.RiskLow},
		Heart:    domain.HealthRisk{Risk: domain.RiskMedium},
	}
	assert.Equal(t, "H/L/M", HealthRiskCode(h))
	assert.Equal(t, "?/?/?", HealthRiskCode(domain.HealthSensitivity{}))
}
