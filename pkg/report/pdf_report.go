// Package report renders a user's audited inventory as a PDF table.
package report

import (
	"Compliance-Shield/domain"
	"Compliance-Shield/pkg/audit"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const Title = "ComplianceShield Audit Report"

var (
	header = []string{"Product", "Brand", "Region", "Expiry", "Health Risk (D/B/H)", "Score", "Compliance"}
	widths = []float64{40, 26, 26, 20, 28, 16, 26}
)

// Row is one printed line of the report.
type Row struct {
	Product    string
	Brand      string
	Region     string
	Expiry     string
	HealthRisk string
	Score      string
	Compliance string
}

func (r Row) cells() []string {
	return []string{r.Product, r.Brand, r.Region, r.Expiry, r.HealthRisk, r.Score, r.Compliance}
}

func Rows(items []domain.InventoryItem) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		expiry := item.ExpiryDate
		if strings.TrimSpace(expiry) == "" {
			expiry = "N/A"
		}
		verdict := "NON-COMPLIANT"
		if item.IsRegulatorilyCompliant {
			verdict = "COMPLIANT"
		}
		rows = append(rows, Row{
			Product:    item.ProductName,
			Brand:      item.Brand,
			Region:     item.DetectedRegion,
			Expiry:     expiry,
			HealthRisk: audit.HealthRiskCode(item.HealthSensitivity),
			Score:      strconv.FormatFloat(item.SafetyScore, 'f', -1, 64) + "%",
			Compliance: verdict,
		})
	}
	return rows
}

// FileName is the download name for a report generated at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("Compliance_Report_%d.pdf", t.UnixMilli())
}

func BuildAuditReport(auditor string, generatedAt time.Time, items []domain.InventoryItem) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, true)
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.Text(14, 22, Title)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(14, 30, tr("Auditor: "+auditor))
	pdf.Text(14, 36, "Date: "+generatedAt.Format("2006-01-02"))

	pdf.SetY(50)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(79, 70, 229)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range header {
		pdf.CellFormat(widths[i], 8, h, "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(40, 40, 40)
	for n, row := range Rows(items) {
		fill := n%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for i, cell := range row.cells() {
			pdf.CellFormat(widths[i], 7, fit(pdf, tr(cell), widths[i]-2), "", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit trims s with an ellipsis until it is at most width mm wide.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
