package report

import (
	"Compliance-Shield/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []domain.InventoryItem {
	a := domain.InventoryItem{ID: "a"}
	a.ProductName = "Choco Crunch"
	a.Brand = "Sunrise Foods"
	a.DetectedRegion = "India (FSSAI)"
	a.ExpiryDate = "2025-03-01"
	a.SafetyScore = 42.5
	a.HealthSensitivity = domain.HealthSensitivity{
		Diabetes: domain.HealthRisk{Risk: domain.RiskHigh},
		BP:       domain.HealthRisk{Risk: domain.RiskLow},
		Heart:    domain.HealthRisk{Risk: domain.RiskMedium},
	}

	b := domain.InventoryItem{ID: "b"}
	b.ProductName = "Baby Oats With An Unreasonably Long Product Name For The Column"
	b.Brand = "Acme"
	b.DetectedRegion = "USA (FDA)"
	b.SafetyScore = 90
	b.IsRegulatorilyCompliant = true
	b.HealthSensitivity = domain.HealthSensitivity{
		Diabetes: domain.HealthRisk{Risk: domain.RiskLow},
		BP:       domain.HealthRisk{Risk: domain.RiskLow},
		Heart:    domain.HealthRisk{Risk: domain.RiskLow},
	}
	return []domain.InventoryItem{a, b}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleItems())
	require.Len(t, rows, 2)

	assert.Equal(t, Row{
		Product:    "Choco Crunch",
		Brand:      "Sunrise Foods",
		Region:     "India (FSSAI)",
		Expiry:     "2025-03-01",
		HealthRisk: "H/L/M",
		Score:      "42.5%",
		Compliance: "NON-COMPLIANT",
	}, rows[0])

	assert.Equal(t, "N/A", rows[1].Expiry)
	assert.Equal(t, "L/L/L", rows[1].HealthRisk)
	assert.Equal(t, "90%", rows[1].Score)
	assert.Equal(t, "COMPLIANT", rows[1].Compliance)
}

func TestBuildAuditReport(t *testing.T) {
	out, err := BuildAuditReport("9876543210", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), sampleItems())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF-"))
	assert.Greater(t, len(out), 500)
}

func TestBuildAuditReport_EmptyInventory(t *testing.T) {
	out, err := BuildAuditReport("9876543210", time.Now(), nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF-"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Compliance_Report_1700000000123.pdf", FileName(time.UnixMilli(1700000000123)))
}
