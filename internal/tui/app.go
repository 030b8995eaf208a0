package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
)

type mode int

const (
	modePartyList mode = iota
	modeLedgerDetail
	modeDashboard
	modePnl
)

var tabModes = []mode{modePartyList, modeDashboard, modePnl}

func tabLabel(m mode) string {
	switch m {
	case modePartyList:
		return "Parties"
	case modeDashboard:
		return "Dashboard"
	case modePnl:
		return "P&L"
	default:
		return ""
	}
}

type App struct {
	client        *client.Client
	mode          mode
	tabIndex      int
	width, height int
	statusMsg     string

	partyList    partyListModel
	ledgerDetail ledgerDetailModel
	dashboard    dashboardModel
	pnl          pnlModel
}

func NewApp(c *client.Client) *App {
	return &App{
		client:   c,
		mode:     modePartyList,
		tabIndex: 0,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.partyList.init(a.client),
		a.dashboard.init(a.client),
		a.pnl.init(a.client),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.partyList.width = msg.Width
		a.partyList.height = msg.Height - 6
		a.ledgerDetail.width = msg.Width
		a.dashboard.width = msg.Width
		a.dashboard.height = msg.Height - 6
		a.pnl.width = msg.Width
		a.pnl.height = msg.Height - 6
		return a, nil
	}

	// Route data-loaded messages regardless of active mode; Init fires
	// the loads concurrently but the bottom delegation only reaches the
	// active model.
	switch msg.(type) {
	case partiesLoadedMsg:
		var cmd tea.Cmd
		a.partyList, cmd = a.partyList.update(msg)
		return a, cmd
	case ledgerLoadedMsg:
		var cmd tea.Cmd
		a.ledgerDetail, cmd = a.ledgerDetail.update(msg)
		return a, cmd
	case dashboardLoadedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg, a.client)
		return a, cmd
	case pnlLoadedMsg:
		var cmd tea.Cmd
		a.pnl, cmd = a.pnl.update(msg)
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, keys.Tab):
			a.tabIndex = (a.tabIndex + 1) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.ShiftTab):
			a.tabIndex = (a.tabIndex - 1 + len(tabModes)) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.Escape):
			if a.mode == modeLedgerDetail {
				a.mode = modePartyList
				return a, nil
			}
			// dashboard owns esc while drilled in

		case key.Matches(msg, keys.Enter):
			if a.mode == modePartyList {
				if partyID := a.partyList.selectedID(); partyID != "" {
					a.mode = modeLedgerDetail
					return a, a.ledgerDetail.init(a.client, partyID)
				}
				return a, nil
			}
		}
	}

	var cmd tea.Cmd
	switch a.mode {
	case modePartyList:
		a.partyList, cmd = a.partyList.update(msg)
	case modeLedgerDetail:
		a.ledgerDetail, cmd = a.ledgerDetail.update(msg)
	case modeDashboard:
		a.dashboard, cmd = a.dashboard.update(msg, a.client)
	case modePnl:
		a.pnl, cmd = a.pnl.update(msg)
	}
	return a, cmd
}

func (a *App) refreshTab() tea.Cmd {
	switch a.mode {
	case modePartyList:
		return a.partyList.init(a.client)
	case modeDashboard:
		return a.dashboard.init(a.client)
	case modePnl:
		return a.pnl.init(a.client)
	}
	return nil
}

func (a *App) View() string {
	tabs := ""
	for i, m := range tabModes {
		label := tabLabel(m)
		if i == a.tabIndex {
			tabs += activeTabStyle.Render(label)
		} else {
			tabs += inactiveTabStyle.Render(label)
		}
		if i < len(tabModes)-1 {
			tabs += " "
		}
	}

	var content string
	switch a.mode {
	case modePartyList:
		content = a.partyList.view()
	case modeLedgerDetail:
		content = a.ledgerDetail.view()
	case modeDashboard:
		content = a.dashboard.view()
	case modePnl:
		content = a.pnl.view()
	}

	status := ""
	if a.statusMsg != "" {
		status = successStyle.Render(a.statusMsg)
	}

	helpText := dimStyle.Render("tab:switch  enter:select/drill  esc:back  m:metric  r:refresh  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		tabs,
		"",
		content,
		"",
		status,
		helpText,
	)
}
