package adapters

import (
	"github.com/de-tools/bill-atlas/pkg/models/api"
	"github.com/de-tools/bill-atlas/pkg/models/domain"
	"github.com/de-tools/bill-atlas/pkg/services/billing/amount"
)

func MapSummaryDomainToAPI(s *domain.InvoiceSummary) api.InvoiceSummary {
	if s == nil {
		return api.InvoiceSummary{}
	}
	out := api.InvoiceSummary{
		Account:       s.Account,
		Invoice:       s.Invoice,
		BillingPeriod: s.BillingPeriod,
		DueDate:       s.DueDate,
		TotalCharges:  s.TotalCharges,
		Payments:      mapHierarchy(s.Payments),
		Charges:       mapHierarchy(s.Charges),
		Distribution:  make([]api.DistributionSlice, 0, len(s.Distribution)),
		Lines:         make([]api.LineDetail, 0, len(s.Lines)),
		FileName:      s.FileName,
	}
	for _, slice := range s.Distribution {
		out.Distribution = append(out.Distribution, api.DistributionSlice{
			Label:      slice.Label,
			Phone:      slice.Phone,
			Amount:     amount.Format(slice.Amount),
			Percentage: slice.Percentage,
			Color:      slice.Color,
		})
	}
	for _, line := range s.Lines {
		out.Lines = append(out.Lines, mapLineDetail(line))
	}
	for _, fee := range s.AccountLevelCharges {
		out.AccountLevelCharges = append(out.AccountLevelCharges, api.LateFee{
			UKey:     fee.UKey,
			Sentence: fee.Sentence,
			Name:     fee.Name,
			Amount:   api.FlexString(fee.Amount),
		})
	}
	return out
}

func mapHierarchy(h domain.Hierarchy) api.Hierarchy {
	out := api.Hierarchy{
		Title: h.Title,
		Nodes: make([]api.ChargeNode, 0, len(h.Nodes)),
	}
	if h.HasGrandTotal {
		out.GrandTotal = h.GrandTotalDisplay
	}
	for _, n := range h.Nodes {
		out.Nodes = append(out.Nodes, mapChargeNode(n))
	}
	return out
}

func mapChargeNode(n domain.ChargeNode) api.ChargeNode {
	out := api.ChargeNode{
		UKey:     n.UKey,
		Sentence: n.Sentence,
		Amount:   n.Amount,
		Value:    n.Value.StringFixed(2),
		Date:     n.Date,
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, mapChargeNode(c))
	}
	if n.LateFees != nil {
		out.LateFees = &api.LateFeeAnnotation{
			HasLateFees:   n.LateFees.HasLateFees,
			TotalLateFees: amount.Format(n.LateFees.TotalLateFees),
			LateFeeCount:  n.LateFees.LateFeeCount,
		}
	}
	return out
}

func mapLineDetail(l domain.LineDetail) api.LineDetail {
	out := api.LineDetail{
		DisplayName:    l.DisplayName,
		Phone:          l.Phone,
		Total:          amount.Format(l.Total),
		SectionID:      l.SectionID,
		ExportFileName: l.ExportFileName,
		Items:          make([]api.LineItem, 0, len(l.Items)),
	}
	for _, item := range l.Items {
		li := api.LineItem{
			UKey:    item.UKey,
			Label:   item.Label,
			Amount:  item.Amount,
			IsTotal: item.IsTotal,
		}
		for _, g := range item.Groups {
			group := api.SubKeyGroup{Category: g.Category}
			for _, sk := range g.Items {
				group.Items = append(group.Items, api.SubKeyLine{
					Label:      sk.Label(),
					Amount:     sk.Amount,
					Expiration: sk.Expiration,
					DateRange:  sk.DateRange,
				})
			}
			li.Groups = append(li.Groups, group)
		}
		out.Items = append(out.Items, li)
	}
	return out
}

func MapHistoryDomainToAPI(h *domain.History) api.History {
	if h.Empty() {
		return api.History{Success: false}
	}
	out := api.History{
		Success: true,
		Account: h.Account,
	}
	for _, p := range h.Overall {
		out.Overall = append(out.Overall, api.OverallPoint{
			Period:      p.Period.Label,
			TimestampMs: p.Period.TimestampMs,
			Total:       p.Total.StringFixed(2),
			Invoice:     p.Invoice,
		})
	}
	for _, p := range h.Points {
		out.Lines = append(out.Lines, api.ChartPoint{
			Period: p.Period,
			Value:  p.Value,
			Entity: p.Entity,
		})
	}
	for _, b := range h.Bills {
		out.Bills = append(out.Bills, api.BillRow{
			Invoice:       b.Invoice,
			BillingPeriod: b.BillingPeriod,
			TotalCharges:  b.TotalCharges,
		})
	}
	return out
}
