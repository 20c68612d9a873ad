package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// statusRow is one line of a doctor report.
type statusRow struct {
	name   string
	state  string
	detail string
}

func (r statusRow) ok() bool { return r.state == stateOK }

const (
	stateOK       = "OK"
	stateMissing  = "MISSING"
	stateOptional = "optional"
	stateWarn     = "WARN"
)

// renderStatusTable draws rows under title with a footer counting the rows
// in the OK state. State cells are colored when color is set.
func renderStatusTable(title, subject string, rows []statusRow, color bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(title)
	tw.AppendHeader(table.Row{subject, "Status", "Detail"})

	passed := 0
	for _, row := range rows {
		if row.ok() {
			passed++
		}
		tw.AppendRow(table.Row{row.name, stateCell(row.state, color), row.detail})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d/%d", passed, len(rows)), ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignCenter, AlignFooter: text.AlignCenter},
		{Number: 3, WidthMax: 60},
	})
	return tw.Render()
}

func stateCell(state string, color bool) string {
	if !color {
		return state
	}
	switch state {
	case stateOK:
		return text.Colors{text.FgGreen}.Sprint(state)
	case stateMissing:
		return text.Colors{text.FgRed, text.Bold}.Sprint(state)
	case stateWarn:
		return text.Colors{text.FgYellow}.Sprint(state)
	default:
		return text.Colors{text.Faint}.Sprint(state)
	}
}
