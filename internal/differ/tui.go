// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when the picker has no terminal to run on.
var ErrNotInteractive = errors.New("stack picker requires a terminal")

// SelectStacks lets the user pick two of ids. A nil result means the picker
// was aborted.
func SelectStacks(ids []string) ([]string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNotInteractive
	}
	final, err := tea.NewProgram(model{items: ids}, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return nil, fmt.Errorf("stack picker failed: %w", err)
	}
	return final.(model).selected, nil
}

type model struct {
	items    []string
	cursor   int
	selected []string
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.selected = nil
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ", "space":
		if len(m.items) == 0 {
			break
		}
		current := m.items[m.cursor]
		if i := slices.Index(m.selected, current); i >= 0 {
			m.selected = slices.Delete(slices.Clone(m.selected), i, i+1)
		} else if len(m.selected) < 2 {
			m.selected = append(slices.Clone(m.selected), current)
		}
	case "enter":
		if len(m.selected) == 2 {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString("Select two stacks:\n\n")
	for i, id := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if slices.Contains(m.selected, id) {
			mark = "x"
		}
		fmt.Fprintf(&b, "%s [%s] %s\n", cursor, mark, id)
	}
	b.WriteString("\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n")
	return b.String()
}
