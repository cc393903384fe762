package view

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/de-tools/bill-atlas/pkg/models/domain"
	"github.com/de-tools/bill-atlas/pkg/services/report"
)

func sampleSummary() *domain.InvoiceSummary {
	return &domain.InvoiceSummary{
		Account:       "0001",
		Invoice:       "INV-1",
		BillingPeriod: "Jan 2025",
		TotalCharges:  "$100.00",
		Payments: domain.Hierarchy{
			Title: "Payments Summary",
			Nodes: []domain.ChargeNode{{UKey: "previous_balance", Sentence: "Previous Balance", Amount: "$80.00"}},
		},
		Charges: domain.Hierarchy{
			Title: "All Charges Summary",
			Nodes: []domain.ChargeNode{
				{UKey: "balance_forward", Sentence: "Balance Forward", Amount: "$0.00"},
				{
					UKey: "surcharges_credits", Sentence: "Surcharges", Amount: "$3.00",
					LateFees: &domain.LateFeeAnnotation{HasLateFees: true, TotalLateFees: decimal.NewFromInt(10), LateFeeCount: 1},
				},
			},
			HasGrandTotal:     true,
			GrandTotalDisplay: "$100.00",
		},
		Distribution: []domain.DistributionSlice{
			{Label: "Ann", Phone: "555-0100", Amount: decimal.NewFromInt(90), Percentage: "90.0", Color: "#0088FE"},
			{Label: "Late Fees & Account Charges", Phone: "Account Level", Amount: decimal.NewFromInt(10), Percentage: "10.0", Color: "#FF0033", AccountLevel: true},
		},
		Lines: []domain.LineDetail{{
			DisplayName: "Ann",
			Phone:       "555-0100",
			SectionID:   "line-detail-card-0",
			Items: []domain.LineItem{{
				UKey: "monthly", Label: "Monthly Charges", Amount: "$90.00",
				Groups: []domain.SubKeyGroup{{Category: "Plans", Items: []domain.SubKey{{Name: "Unlimited", Amount: "$90.00"}}}},
			}},
		}},
		AccountLevelCharges: []domain.LateFee{{Sentence: "Late Fee", Amount: "$10.00"}},
	}
}

func TestReportView_Page(t *testing.T) {
	v, err := NewReportView("/api/v1/invoices/INV-1/exports")
	require.NoError(t, err)

	page, err := v.Page(sampleSummary())
	require.NoError(t, err)

	for _, id := range []string{
		AccountInformationID, PaymentsSummaryID, ChargesSummaryID,
		DistributionID, "line-detail-card-0", AccountLevelID,
	} {
		assert.NotNil(t, report.FindByID(page, id), id)
	}

	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, page))
	out := buf.String()
	assert.Contains(t, out, "Charges Grand Total")
	assert.Contains(t, out, "$100.00")
	assert.Contains(t, out, "Includes 1 late fee(s)")
	assert.Contains(t, out, "$10.00")
	assert.Contains(t, out, "90.0%")
	assert.Contains(t, out, "#FF0033")
	assert.Contains(t, out, `action="/api/v1/invoices/INV-1/exports/charges-summary"`)
	assert.Contains(t, out, "Unlimited")
}

func TestReportView_WithoutExportButtons(t *testing.T) {
	v, err := NewReportView("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf, sampleSummary()))
	assert.NotContains(t, buf.String(), "export-button")
}

func TestReportView_Empty(t *testing.T) {
	v, err := NewReportView("")
	require.NoError(t, err)

	for name, summary := range map[string]*domain.InvoiceSummary{
		"nil":   nil,
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			page, err := v.Page(summary)
			require.NoError(t, err)
			assert.Nil(t, report.FindByID(page, AccountInformationID))
		})
	}
}

func TestSections(t *testing.T) {
	assert.Equal(t, []string{
		AccountInformationID, PaymentsSummaryID, ChargesSummaryID,
		DistributionID, "line-detail-card-0", AccountLevelID,
	}, Sections(sampleSummary()))
	assert.Empty(t, Sections(nil))
}

func TestSnapshotOfRenderedSection(t *testing.T) {
	v, err := NewReportView("/exports")
	require.NoError(t, err)
	page, err := v.Page(sampleSummary())
	require.NoError(t, err)

	snap, err := report.NewSnapshot(page, DistributionID, report.DefaultLetterhead())
	require.NoError(t, err)
	defer snap.Release()

	markup, err := snap.HTML()
	require.NoError(t, err)
	assert.NotContains(t, markup, "<svg")
	assert.NotContains(t, markup, "Export PDF")
	assert.Contains(t, markup, "Late Fees &amp; Account Charges")
}

func TestReportView_InvoicePlaceholder(t *testing.T) {
	v, err := NewReportView("/api/v1/invoices/" + InvoicePlaceholder + "/exports")
	require.NoError(t, err)

	summary := sampleSummary()
	summary.Invoice = "INV 7"
	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf, summary))
	assert.Contains(t, buf.String(), `action="/api/v1/invoices/INV%207/exports/charges-summary"`)
}
