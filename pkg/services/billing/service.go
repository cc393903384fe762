package billing

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/de-tools/bill-atlas/pkg/models/domain"
	"github.com/de-tools/bill-atlas/pkg/services/billing/charges"
	"github.com/de-tools/bill-atlas/pkg/services/billing/distribution"
	"github.com/de-tools/bill-atlas/pkg/services/billing/lines"
	"github.com/de-tools/bill-atlas/pkg/services/billing/period"
	"github.com/de-tools/bill-atlas/pkg/services/billing/series"
)

type Service interface {
	Summarize(ctx context.Context, doc *domain.BillingDocument) *domain.InvoiceSummary
	History(ctx context.Context, docs []*domain.BillingDocument) *domain.History
}

type service struct{}

func NewService() Service {
	return &service{}
}

func (s *service) Summarize(ctx context.Context, doc *domain.BillingDocument) *domain.InvoiceSummary {
	logger := zerolog.Ctx(ctx)
	if doc == nil {
		logger.Debug().Msg("no billing document loaded")
		return &domain.InvoiceSummary{}
	}

	sum := doc.Summary
	out := &domain.InvoiceSummary{
		Account:       sum.Account,
		Invoice:       sum.Invoice,
		BillingPeriod: sum.BillingPeriod,
		DueDate:       sum.DueDate,
		TotalCharges:  sum.TotalCharges,
		FileName:      doc.FileName,
		TotalPages:    doc.TotalPages,
		Text:          doc.Text,
	}

	out.Payments = charges.Classify(sum.PreviousBalance, sum.LateFees, charges.PaymentsTaxonomy)
	out.Charges = charges.Classify(sum.MoneyAmounts, sum.LateFees, charges.ChargesTaxonomy)
	logger.Debug().
		Int("payment_nodes", len(out.Payments.Nodes)).
		Int("charge_nodes", len(out.Charges.Nodes)).
		Str("grand_total", out.Charges.GrandTotalDisplay).
		Msg("classified summary tables")

	out.Distribution = distribution.Calculate(doc.Entries, sum.LateFees)
	logger.Debug().Int("slices", len(out.Distribution)).Msg("calculated charge distribution")

	out.Lines = lines.Breakdown(doc)
	if len(sum.LateFees) > 0 {
		out.AccountLevelCharges = append([]domain.LateFee(nil), sum.LateFees...)
	}
	logger.Debug().
		Str("invoice", sum.Invoice).
		Int("lines", len(out.Lines)).
		Msg("summarized billing document")
	return out
}

func (s *service) History(ctx context.Context, docs []*domain.BillingDocument) *domain.History {
	logger := zerolog.Ctx(ctx)

	out := &domain.History{Overall: series.Overall(docs)}
	if len(out.Overall) == 0 {
		logger.Debug().Msg("no billing history")
		return out
	}

	set := series.PerEntity(docs)
	out.Periods = set.Periods
	out.Entities = set.Series
	out.Points = set.Points()

	for _, p := range out.Overall {
		if p.Account != "" {
			out.Account = p.Account
			break
		}
	}
	for _, doc := range sortedByPeriod(docs) {
		out.Bills = append(out.Bills, domain.BillRow{
			Invoice:       doc.Summary.Invoice,
			BillingPeriod: doc.Summary.BillingPeriod,
			TotalCharges:  doc.Summary.TotalCharges,
		})
	}

	logger.Debug().
		Str("account", out.Account).
		Int("documents", len(out.Overall)).
		Int("entities", len(out.Entities)).
		Int("months", len(out.Periods)).
		Msg("built billing history")
	return out
}

// sortedByPeriod orders the non nil documents the same way as the overall series.
func sortedByPeriod(docs []*domain.BillingDocument) []*domain.BillingDocument {
	out := make([]*domain.BillingDocument, 0, len(docs))
	for _, d := range docs {
		if d != nil {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return period.Normalize(out[i].Summary.BillingPeriod).TimestampMs <
			period.Normalize(out[j].Summary.BillingPeriod).TimestampMs
	})
	return out
}
