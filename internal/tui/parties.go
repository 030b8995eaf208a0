package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

type partiesLoadedMsg struct {
	parties []ledger.Party
	err     error
}

type partyListModel struct {
	parties []ledger.Party
	cursor  int
	loading bool
	err     error
	width   int
	height  int
}

func (m *partyListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		parties, err := c.ListParties(context.Background(), "")
		return partiesLoadedMsg{parties: parties, err: err}
	}
}

func (m partyListModel) update(msg tea.Msg) (partyListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case partiesLoadedMsg:
		m.loading = false
		m.parties = msg.parties
		m.err = msg.err

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.parties)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *partyListModel) selectedID() string {
	if m.cursor >= 0 && m.cursor < len(m.parties) {
		return m.parties[m.cursor].ID
	}
	return ""
}

func rolesLabel(roles []ledger.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func (m *partyListModel) view() string {
	if m.loading {
		return "Loading parties..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.parties) == 0 {
		return dimStyle.Render("No parties yet. Use `gurukrupa party add` to create one.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Parties"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-30s %-24s %12s %3s", "NAME", "ROLES", "OPENING", "")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 4
	if maxRows < 1 {
		maxRows = 10
	}

	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.parties) && i < start+maxRows; i++ {
		p := m.parties[i]
		name := p.Name
		if len(name) > 28 {
			name = name[:28] + ".."
		}
		line := fmt.Sprintf("  %-30s %-24s %12s %3s",
			name, rolesLabel(p.Roles),
			ledger.FormatRupees(p.OpeningBalance), string(p.OpeningBalanceType))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d parties", len(m.parties)))
	return b.String()
}
