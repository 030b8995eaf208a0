package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

type ledgerLoadedMsg struct {
	report *client.LedgerReport
	err    error
}

type ledgerDetailModel struct {
	report  *client.LedgerReport
	loading bool
	err     error
	width   int
}

func (m *ledgerDetailModel) init(c *client.Client, partyID string) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		report, err := c.PartyLedger(context.Background(), partyID)
		return ledgerLoadedMsg{report: report, err: err}
	}
}

func (m ledgerDetailModel) update(msg tea.Msg) (ledgerDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ledgerLoadedMsg:
		m.loading = false
		m.report = msg.report
		m.err = msg.err
	}
	return m, nil
}

func (m *ledgerDetailModel) view() string {
	if m.loading {
		return "Loading ledger..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.report == nil {
		return ""
	}

	l := m.report.Ledger
	out := m.report.Outstanding

	var b strings.Builder

	b.WriteString(titleStyle.Render("Ledger: " + l.PartyName))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Opening:"), ledger.FormatSigned(l.OpeningBalance)))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-12s %-10s %-10s %12s %12s %14s", "DATE", "REF", "KIND", "DEBIT", "CREDIT", "BALANCE")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, row := range l.Rows {
		debit, credit := "", ""
		if row.Debit != 0 {
			debit = ledger.FormatRupees(row.Debit)
		}
		if row.Credit != 0 {
			credit = ledger.FormatRupees(row.Credit)
		}
		line := fmt.Sprintf("  %-12s %-10s %-10s %12s %12s %14s",
			row.Date.Format("2006-01-02"), row.Ref, row.Kind,
			debit, credit, ledger.FormatSigned(row.Balance))
		switch {
		case row.Debit != 0:
			b.WriteString(debitStyle.Render(line))
		case row.Credit != 0:
			b.WriteString(creditStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Final balance:"), ledger.FormatSigned(l.FinalBalance)))
	b.WriteString(fmt.Sprintf("%s %s  (dues %s, unallocated %s)\n",
		labelStyle.Render("Outstanding:"),
		ledger.FormatSigned(out.CurrentBalance),
		ledger.FormatRupees(out.InvoiceDues),
		ledger.FormatRupees(out.Unallocated)))

	for _, w := range l.Warnings {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  ! [%s] %s", w.Code, w.Msg)))
		b.WriteString("\n")
	}

	b.WriteString("\n" + dimStyle.Render("  Press ESC to go back"))
	return b.String()
}
