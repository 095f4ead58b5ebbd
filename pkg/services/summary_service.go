package services

import (
	"fmt"
	"sort"
	"strings"

	"tambak-dashboard-api/pkg/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SummaryService computes the per-farm profit summary and the deterministic
// narration derived from it.
type SummaryService struct {
	printer *message.Printer
}

// NewSummaryService creates a new SummaryService.
func NewSummaryService() *SummaryService {
	return &SummaryService{
		printer: message.NewPrinter(language.Indonesian),
	}
}

// Aggregate groups the records by farm, sums production, cost and revenue,
// derives net profit and orders the result by net profit descending. The
// sort is stable so equal profits keep first-appearance order. Pure; an
// empty input yields an empty summary.
func (s *SummaryService) Aggregate(records []models.FarmRecord) []models.FarmSummary {
	totals := make(map[string]*models.FarmSummary)
	order := make([]string, 0)

	for _, r := range records {
		sum, ok := totals[r.FarmID]
		if !ok {
			sum = &models.FarmSummary{FarmID: r.FarmID}
			totals[r.FarmID] = sum
			order = append(order, r.FarmID)
		}
		sum.TotalProduction += r.ProductionKg
		sum.TotalCost += r.Cost
		sum.TotalRevenue += r.Revenue
	}

	summary := make([]models.FarmSummary, 0, len(order))
	for _, farmID := range order {
		sum := totals[farmID]
		sum.NetProfit = sum.TotalRevenue - sum.TotalCost
		summary = append(summary, *sum)
	}

	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].NetProfit > summary[j].NetProfit
	})
	return summary
}

// ChartData maps the summary to the bar-chart payload: one entry per farm,
// net profit as the bar value, in summary order.
func (s *SummaryService) ChartData(summary []models.FarmSummary) []models.ChartEntry {
	chart := make([]models.ChartEntry, 0, len(summary))
	for _, row := range summary {
		chart = append(chart, models.ChartEntry{Label: row.FarmID, Value: row.NetProfit})
	}
	return chart
}

// Insight builds the rule-based commentary: best farm, worst farm and the
// profit gap between them. With a single farm both lines name the same farm
// and the gap is zero. An empty summary yields an empty string.
func (s *SummaryService) Insight(summary []models.FarmSummary) string {
	if len(summary) == 0 {
		return ""
	}

	top := summary[0]
	bottom := summary[len(summary)-1]

	var b strings.Builder
	b.WriteString("🔍 **Insights:**\n")
	b.WriteString(fmt.Sprintf("- Tambak paling menguntungkan: **%s** dengan laba **%s**.\n",
		top.FarmID, s.FormatRupiah(top.NetProfit)))
	b.WriteString(fmt.Sprintf("- Tambak dengan laba terendah: **%s** dengan laba **%s**.\n",
		bottom.FarmID, s.FormatRupiah(bottom.NetProfit)))
	b.WriteString(fmt.Sprintf("- Selisih laba antara keduanya: **%s**.\n",
		s.FormatRupiah(top.NetProfit-bottom.NetProfit)))
	return b.String()
}

// FormatRupiah renders a monetary value with the Indonesian thousands
// separators, zero decimal places and the currency marker.
func (s *SummaryService) FormatRupiah(value float64) string {
	return s.printer.Sprintf("Rp %.0f", value)
}

// FormatTable serializes the summary as an aligned plain-text table, the
// representation interpolated into the AI prompt.
func (s *SummaryService) FormatTable(summary []models.FarmSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %15s %15s %17s %13s\n",
		"Tambak", "Total_Produksi", "Total_Biaya", "Total_Pendapatan", "Laba_Bersih")
	for _, row := range summary {
		fmt.Fprintf(&b, "%-12s %15.0f %15.0f %17.0f %13.0f\n",
			row.FarmID, row.TotalProduction, row.TotalCost, row.TotalRevenue, row.NetProfit)
	}
	return b.String()
}
