package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"audioctl/internal/audio"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printValue writes v as JSON when --json is set, text otherwise.
func (a *app) printValue(v any, text string) error {
	if a.jsonOutput {
		return a.printJSON(v)
	}
	_, err := fmt.Fprintln(a.out, text)
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func formatVolume(v *float32) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *v*100)
}

func formatMuted(m *bool) string {
	if m == nil {
		return "-"
	}
	return strconv.FormatBool(*m)
}

func (a *app) printDevices(infos []audio.DeviceInfo) error {
	if a.jsonOutput {
		return a.printJSON(infos)
	}
	if len(infos) == 0 {
		_, err := fmt.Fprintln(a.out, "no devices")
		return err
	}
	t := newTable("ID", "Name", "Flow", "State", "Volume", "Muted", "Sessions")
	for _, d := range infos {
		t.Row(d.ID, d.Name, d.Flow, d.State, formatVolume(d.Volume), formatMuted(d.Muted),
			strconv.Itoa(len(d.Sessions)))
	}
	_, err := fmt.Fprintln(a.out, t.Render())
	return err
}

func (a *app) printSessions(infos []audio.SessionInfo) error {
	if a.jsonOutput {
		return a.printJSON(infos)
	}
	if len(infos) == 0 {
		_, err := fmt.Fprintln(a.out, "no sessions")
		return err
	}
	t := newTable("PID", "Session", "Process", "State", "Volume", "Muted")
	for _, s := range infos {
		t.Row(strconv.FormatUint(uint64(s.ProcessID), 10), s.Label(), s.ProcessName, s.State,
			formatVolume(s.Volume), formatMuted(s.Muted))
	}
	_, err := fmt.Fprintln(a.out, t.Render())
	return err
}
