package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// CommonModel is embedded by all views. UserID scopes every ledger call to
// the account that signed in at startup.
type CommonModel struct {
	UserID int64
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
