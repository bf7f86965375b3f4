package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"audioctl/internal/audio"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))
)

// ScreenType defines which screen is currently active
type ScreenType int

const (
	DeviceScreen ScreenType = iota
	SessionScreen
)

type keyMap struct {
	Up, Down, Enter, Back, Mute, Refresh, Quit key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Enter:   key.NewBinding(key.WithKeys("enter")),
	Back:    key.NewBinding(key.WithKeys("esc")),
	Mute:    key.NewBinding(key.WithKeys("m")),
	Refresh: key.NewBinding(key.WithKeys("r")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

// Backend supplies the browser with data and applies its actions.
type Backend interface {
	Snapshot() (*audio.Snapshot, error)
	ToggleMute(deviceID string) error
}

type snapshotMsg struct {
	snap *audio.Snapshot
}

type errMsg struct {
	err error
}

// BrowserModel is the Bubble Tea model listing endpoints and, for the
// selected endpoint, its sessions.
type BrowserModel struct {
	backend       Backend
	devices       []audio.DeviceInfo
	selectedIndex int
	viewport      viewport.Model
	ready         bool
	err           error
	activeScreen  ScreenType
}

// NewBrowserModel creates a browser over backend.
func NewBrowserModel(backend Backend) BrowserModel {
	return BrowserModel{
		backend:      backend,
		activeScreen: DeviceScreen,
	}
}

// Init loads the first snapshot.
func (m BrowserModel) Init() tea.Cmd {
	return m.fetch
}

func (m BrowserModel) fetch() tea.Msg {
	snap, err := m.backend.Snapshot()
	if err != nil {
		return errMsg{err}
	}
	return snapshotMsg{snap}
}

func (m BrowserModel) toggleMute(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.backend.ToggleMute(id); err != nil {
			return errMsg{err}
		}
		return m.fetch()
	}
}

// Update handles input and updates the model
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		m.refreshView()

	case snapshotMsg:
		m.err = nil
		if msg.snap != nil {
			m.devices = msg.snap.Devices
		} else {
			m.devices = nil
		}
		if m.selectedIndex >= len(m.devices) {
			m.selectedIndex = max(len(m.devices)-1, 0)
		}
		if len(m.devices) == 0 {
			m.activeScreen = DeviceScreen
		}
		m.refreshView()

	case errMsg:
		m.err = msg.err

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Refresh):
			return m, m.fetch

		case key.Matches(msg, keys.Mute):
			if dev, ok := m.selected(); ok && dev.Muted != nil {
				return m, m.toggleMute(dev.ID)
			}

		case m.activeScreen == DeviceScreen && key.Matches(msg, keys.Up):
			if m.selectedIndex > 0 {
				m.selectedIndex--
				m.refreshView()
			}

		case m.activeScreen == DeviceScreen && key.Matches(msg, keys.Down):
			if m.selectedIndex < len(m.devices)-1 {
				m.selectedIndex++
				m.refreshView()
			}

		case m.activeScreen == DeviceScreen && key.Matches(msg, keys.Enter):
			if len(m.devices) > 0 {
				m.activeScreen = SessionScreen
				m.refreshView()
			}

		case m.activeScreen == SessionScreen && key.Matches(msg, keys.Back):
			m.activeScreen = DeviceScreen
			m.refreshView()
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m BrowserModel) selected() (audio.DeviceInfo, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.devices) {
		return audio.DeviceInfo{}, false
	}
	return m.devices[m.selectedIndex], true
}

func (m *BrowserModel) refreshView() {
	if !m.ready {
		return
	}
	if m.activeScreen == SessionScreen {
		m.viewport.SetContent(m.renderSessions())
	} else {
		m.viewport.SetContent(m.renderDevices())
	}
}

// View renders the UI
func (m BrowserModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var title, help string
	if m.activeScreen == DeviceScreen {
		title = titleStyle.Render("Audio Endpoints")
		help = infoStyle.Render("↑/↓: Navigate • Enter: Sessions • m: Mute • r: Refresh • q: Quit")
	} else {
		dev, _ := m.selected()
		title = titleStyle.Render("Sessions: " + deviceLabel(dev))
		help = infoStyle.Render("Esc: Back • m: Mute device • r: Refresh • q: Quit")
	}

	body := m.viewport.View()
	if m.err != nil {
		body = fmt.Sprintf("Error: %v\n\n%s", m.err, body)
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func deviceLabel(d audio.DeviceInfo) string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// renderDevices formats the device list
func (m BrowserModel) renderDevices() string {
	if len(m.devices) == 0 {
		return "No audio endpoints found."
	}

	var sb strings.Builder
	for i, device := range m.devices {
		line := fmt.Sprintf("%s (%s, %s)\n", deviceLabel(device), device.Flow, device.State)
		detail := "    " + volumeText(device.Volume, device.Muted) +
			fmt.Sprintf(", %d session(s)\n", len(device.Sessions))

		if i == m.selectedIndex {
			line = highlightStyle.Render(line)
		} else if device.State != audio.StateActive.String() {
			line = dimStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString(detail)
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderSessions formats the sessions of the selected device
func (m BrowserModel) renderSessions() string {
	dev, ok := m.selected()
	if !ok {
		return ""
	}
	if len(dev.Sessions) == 0 {
		return "No sessions on this endpoint."
	}

	var sb strings.Builder
	for _, s := range dev.Sessions {
		sb.WriteString(fmt.Sprintf("%s  [pid %d, %s]\n", s.Label(), s.ProcessID, s.State))
		sb.WriteString("    " + volumeText(s.Volume, s.Muted) + "\n")
	}
	return sb.String()
}

func volumeText(volume *float32, muted *bool) string {
	if volume == nil {
		return "volume n/a"
	}
	text := fmt.Sprintf("volume %3.0f%%", *volume*100)
	if muted != nil && *muted {
		text += " (muted)"
	}
	return text
}

// StartBrowser launches the Bubble Tea TUI over backend.
func StartBrowser(backend Backend) error {
	p := tea.NewProgram(
		NewBrowserModel(backend),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
