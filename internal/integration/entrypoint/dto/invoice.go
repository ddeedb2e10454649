package dto

import (
	invoiceuc "github.com/finance-tracker/card-invoices/internal/application/usecase/invoice"
	"github.com/finance-tracker/card-invoices/internal/domain/invoice"
)

// CycleSummaryResponse represents one invoice cycle in API responses.
type CycleSummaryResponse struct {
	CycleID          string                `json:"cycle_id"`
	Label            string                `json:"label"`
	ReferenceDate    string                `json:"reference_date"`
	TotalAmount      string                `json:"total_amount"`
	TransactionCount int                   `json:"transaction_count"`
	IsPaid           bool                  `json:"is_paid"`
	IsOverdue        bool                  `json:"is_overdue"`
	Transactions     []TransactionResponse `json:"transactions"`
}

// InvoiceTotalsResponse represents aggregated totals.
type InvoiceTotalsResponse struct {
	Outstanding  string `json:"outstanding"`
	Paid         string `json:"paid"`
	OverdueCount int    `json:"overdue_count"`
	CycleCount   int    `json:"cycle_count"`
}

// CardInvoicesResponse represents all cycles of one card.
type CardInvoicesResponse struct {
	Card     CardResponse           `json:"card"`
	Invoices []CycleSummaryResponse `json:"invoices"`
	Totals   InvoiceTotalsResponse  `json:"totals"`
}

// TogglePaidResponse represents the refreshed state after a paid toggle.
type TogglePaidResponse struct {
	CycleID string `json:"cycle_id"`
	IsPaid  bool   `json:"is_paid"`
	CardInvoicesResponse
}

// ResolveCycleResponse represents a cycle preview.
type ResolveCycleResponse struct {
	CycleID       string `json:"cycle_id"`
	Label         string `json:"label"`
	ReferenceDate string `json:"reference_date"`
	IsPaid        bool   `json:"is_paid"`
}

// InvoiceOverviewResponse represents the invoices of every card in scope.
type InvoiceOverviewResponse struct {
	Cards  []CardInvoicesResponse `json:"cards"`
	Totals InvoiceTotalsResponse  `json:"totals"`
}

// ToCycleSummaryResponse converts a cycle summary to its DTO.
func ToCycleSummaryResponse(s *invoice.CycleSummary) CycleSummaryResponse {
	txns := make([]TransactionResponse, len(s.Transactions))
	for i, txn := range s.Transactions {
		txns[i] = ToTransactionResponse(txn)
		txns[i].CycleID = s.CycleID.String()
	}

	return CycleSummaryResponse{
		CycleID:          s.CycleID.String(),
		Label:            s.Label,
		ReferenceDate:    FormatDate(s.ReferenceDate),
		TotalAmount:      FormatAmount(s.TotalAmount),
		TransactionCount: s.TransactionCount,
		IsPaid:           s.IsPaid,
		IsOverdue:        s.IsOverdue,
		Transactions:     txns,
	}
}

// ToInvoiceTotalsResponse converts totals to their DTO.
func ToInvoiceTotalsResponse(t invoice.Totals) InvoiceTotalsResponse {
	return InvoiceTotalsResponse{
		Outstanding:  FormatAmount(t.Outstanding),
		Paid:         FormatAmount(t.Paid),
		OverdueCount: t.OverdueCount,
		CycleCount:   t.CycleCount,
	}
}

// ToCardInvoicesResponse converts one card's invoices to their DTO.
func ToCardInvoicesResponse(ci *invoiceuc.CardInvoices) CardInvoicesResponse {
	summaries := make([]CycleSummaryResponse, len(ci.Summaries))
	for i, s := range ci.Summaries {
		summaries[i] = ToCycleSummaryResponse(s)
	}

	return CardInvoicesResponse{
		Card:     ToCardResponse(ci.Card),
		Invoices: summaries,
		Totals:   ToInvoiceTotalsResponse(ci.Totals),
	}
}

// ToTogglePaidResponse converts the toggle output to its DTO.
func ToTogglePaidResponse(out *invoiceuc.TogglePaidCycleOutput) TogglePaidResponse {
	return TogglePaidResponse{
		CycleID:              out.CycleID.String(),
		IsPaid:               out.IsPaid,
		CardInvoicesResponse: ToCardInvoicesResponse(&out.CardInvoices),
	}
}

// ToResolveCycleResponse converts a cycle preview to its DTO.
func ToResolveCycleResponse(out *invoiceuc.ResolveCycleOutput) ResolveCycleResponse {
	return ResolveCycleResponse{
		CycleID:       out.Cycle.ID.String(),
		Label:         out.Label,
		ReferenceDate: FormatDate(out.Cycle.ReferenceDate),
		IsPaid:        out.IsPaid,
	}
}

// ToInvoiceOverviewResponse converts the overview to its DTO.
func ToInvoiceOverviewResponse(out *invoiceuc.ListAllInvoicesOutput) InvoiceOverviewResponse {
	cards := make([]CardInvoicesResponse, len(out.Cards))
	for i, ci := range out.Cards {
		cards[i] = ToCardInvoicesResponse(ci)
	}
	return InvoiceOverviewResponse{
		Cards:  cards,
		Totals: ToInvoiceTotalsResponse(out.Totals),
	}
}
