package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

type pnlLoadedMsg struct {
	pnl *ledger.ProfitLoss
	err error
}

type pnlModel struct {
	pnl     *ledger.ProfitLoss
	loading bool
	err     error
	width   int
	height  int
}

func (m *pnlModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		pnl, err := c.ProfitAndLoss(context.Background())
		return pnlLoadedMsg{pnl: pnl, err: err}
	}
}

func (m pnlModel) update(msg tea.Msg) (pnlModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pnlLoadedMsg:
		m.loading = false
		m.pnl = msg.pnl
		m.err = msg.err
	}
	return m, nil
}

func (m *pnlModel) view() string {
	if m.loading {
		return "Loading P&L..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.pnl == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Profit & Loss"))
	b.WriteString("\n")

	row := func(label string, v int64) {
		b.WriteString(fmt.Sprintf("%s %16s\n", labelStyle.Render(label), ledger.FormatSigned(v)))
	}

	row("Opening balance:", m.pnl.OpeningBalance)
	row("Sales:", m.pnl.Sales)
	row("Purchase:", m.pnl.Purchase)
	b.WriteString(strings.Repeat("-", 34) + "\n")
	row("Gross profit:", m.pnl.GrossProfit)
	row("Other income:", m.pnl.OtherIncome)
	row("Other expense:", m.pnl.OtherExpense)
	b.WriteString(strings.Repeat("-", 34) + "\n")

	net := fmt.Sprintf("%s %16s", labelStyle.Render("Net profit:"), ledger.FormatSigned(m.pnl.NetProfit))
	if m.pnl.NetProfit >= 0 {
		b.WriteString(successStyle.Render(net))
	} else {
		b.WriteString(errorStyle.Render(net))
	}
	b.WriteString("\n")

	return b.String()
}
