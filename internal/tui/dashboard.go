package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

var metricCycle = []string{"sales", "purchase", "profit", "receivable", "payable"}

type dashboardLoadedMsg struct {
	resp *client.DashboardResponse
	err  error
}

// dashboardModel drills years -> months -> transactions. Enter descends
// into the selected bucket, esc climbs back out; every level is fetched
// fresh so the drill always reflects current documents.
type dashboardModel struct {
	resp        *client.DashboardResponse
	metricIdx   int
	year, month int
	cursor      int
	loading     bool
	err         error
	width       int
	height      int
}

func (m *dashboardModel) metric() string {
	return metricCycle[m.metricIdx]
}

func (m *dashboardModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	metric, year, month := m.metric(), m.year, m.month
	return func() tea.Msg {
		resp, err := c.Dashboard(context.Background(), metric, year, month)
		return dashboardLoadedMsg{resp: resp, err: err}
	}
}

func (m dashboardModel) update(msg tea.Msg, c *client.Client) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.resp = msg.resp
		m.err = msg.err
		m.cursor = 0

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < m.rowCount()-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Metric):
			m.metricIdx = (m.metricIdx + 1) % len(metricCycle)
			m.year, m.month = 0, 0
			return m, m.init(c)
		case key.Matches(msg, keys.Enter):
			if m.resp == nil {
				return m, nil
			}
			switch m.resp.Level {
			case "years":
				if m.cursor < len(m.resp.YearRows) {
					m.year = m.resp.YearRows[m.cursor].Year
					return m, m.init(c)
				}
			case "months":
				if m.cursor < len(m.resp.MonthRows) {
					m.month = m.resp.MonthRows[m.cursor].Month
					return m, m.init(c)
				}
			}
		case key.Matches(msg, keys.Escape):
			switch {
			case m.month != 0:
				m.month = 0
				return m, m.init(c)
			case m.year != 0:
				m.year = 0
				return m, m.init(c)
			}
		case key.Matches(msg, keys.Refresh):
			return m, m.init(c)
		}
	}
	return m, nil
}

func (m *dashboardModel) rowCount() int {
	if m.resp == nil {
		return 0
	}
	switch m.resp.Level {
	case "years":
		return len(m.resp.YearRows)
	case "months":
		return len(m.resp.MonthRows)
	default:
		return len(m.resp.TxnRows)
	}
}

func (m *dashboardModel) view() string {
	if m.loading {
		return "Loading dashboard..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.resp == nil {
		return ""
	}

	var b strings.Builder

	crumb := "Dashboard / " + m.metric()
	if m.year != 0 {
		crumb += fmt.Sprintf(" / %d", m.year)
	}
	if m.month != 0 {
		crumb += " / " + time.Month(m.month).String()
	}
	b.WriteString(titleStyle.Render(crumb))
	b.WriteString("\n")

	switch m.resp.Level {
	case "years":
		b.WriteString(headerStyle.Render(fmt.Sprintf("  %-6s %16s %16s %16s %7s", "YEAR", "TOTAL", "DUE", "PAID", "COUNT")))
		b.WriteString("\n")
		for i, r := range m.resp.YearRows {
			line := fmt.Sprintf("  %-6d %16s %16s %16s %7d",
				r.Year, ledger.FormatSigned(r.Total), ledger.FormatSigned(r.Due),
				ledger.FormatSigned(r.Paid), r.Count)
			b.WriteString(m.renderRow(line, i))
		}
	case "months":
		b.WriteString(headerStyle.Render(fmt.Sprintf("  %-10s %16s %16s %16s %7s", "MONTH", "TOTAL", "DUE", "PAID", "COUNT")))
		b.WriteString("\n")
		for i, r := range m.resp.MonthRows {
			line := fmt.Sprintf("  %-10s %16s %16s %16s %7d",
				time.Month(r.Month).String()[:3], ledger.FormatSigned(r.Total),
				ledger.FormatSigned(r.Due), ledger.FormatSigned(r.Paid), r.Count)
			b.WriteString(m.renderRow(line, i))
		}
	case "transactions":
		b.WriteString(headerStyle.Render(fmt.Sprintf("  %-12s %-8s %-9s %-20s %14s %14s", "DATE", "REF", "TYPE", "PARTY", "AMOUNT", "DUE")))
		b.WriteString("\n")
		for i, r := range m.resp.TxnRows {
			name := r.PartyName
			if name == "" {
				name = r.PartyID
			}
			if len(name) > 18 {
				name = name[:18] + ".."
			}
			line := fmt.Sprintf("  %-12s %-8s %-9s %-20s %14s %14s",
				r.Date.Format("2006-01-02"), r.Ref, r.Type, name,
				ledger.FormatSigned(r.Amount), ledger.FormatSigned(r.Due))
			b.WriteString(m.renderRow(line, i))
		}
		b.WriteString(fmt.Sprintf("\n  %d transactions, total %s, due %s\n",
			m.resp.Summary.TotalTransactions,
			ledger.FormatSigned(m.resp.Summary.TotalAmount),
			ledger.FormatSigned(m.resp.Summary.TotalDue)))

		if len(m.resp.Breakdown) > 0 {
			b.WriteString("\n")
			b.WriteString(headerStyle.Render("  Party breakdown"))
			b.WriteString("\n")
			for _, pt := range m.resp.Breakdown {
				name := pt.Name
				if name == "" {
					name = pt.PartyID
				}
				b.WriteString(fmt.Sprintf("  %-30s %16s %5d\n", name, ledger.FormatSigned(pt.Total), pt.Count))
			}
		}
	}

	if m.rowCount() == 0 {
		b.WriteString(dimStyle.Render("  No data at this level."))
		b.WriteString("\n")
	}

	b.WriteString("\n" + dimStyle.Render("  m:metric  enter:drill  esc:up"))
	return b.String()
}

func (m *dashboardModel) renderRow(line string, i int) string {
	if i == m.cursor {
		return selectedStyle.Render("> "+line[2:]) + "\n"
	}
	return line + "\n"
}
