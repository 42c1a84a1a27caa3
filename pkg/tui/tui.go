// Package tui provides a terminal user interface for lyrewrite
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/lyrewrite/pkg/config"
	"github.com/james-see/lyrewrite/pkg/converter"
)

// Engraving-inspired color scheme: ink on paper with a red pencil
var (
	inkBlue    = lipgloss.Color("#5FAFFF")
	pencilRed  = lipgloss.Color("#FF5F5F")
	paperWhite = lipgloss.Color("#EEEEEE")
	staffGray  = lipgloss.Color("#303030")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(paperWhite).
			Background(staffGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8A8A8")).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(inkBlue).
			Bold(true).
			PaddingLeft(2)

	descStyle = lipgloss.NewStyle().
			Foreground(paperWhite).
			PaddingLeft(4)

	statusStyle = lipgloss.NewStyle().
			Foreground(inkBlue).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(pencilRed).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(inkBlue).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(inkBlue).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateOptions
	StateFilePicker
	StateConverting
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Pass        string // pass name, "" for the MIDI sketch
	Prompt      string // question asked before picking a file, if any
	Placeholder string
}

const (
	itemSketch = "sketch"
	itemExit   = "exit"
)

var menuItems = []MenuItem{
	{Title: "Relative → Absolute", Description: "Resolve \\relative music to absolute octaves", Pass: converter.PassRelToAbs},
	{Title: "Absolute → Relative", Description: "Wrap absolute music in \\relative", Pass: converter.PassAbsToRel},
	{Title: "Transpose", Description: "Transpose music by an interval", Pass: converter.PassTranspose,
		Prompt: "Transpose from which pitch to which?", Placeholder: "c d"},
	{Title: "Translate", Description: "Write pitch names in another language", Pass: converter.PassTranslate,
		Prompt: "Target pitch language?", Placeholder: "english"},
	{Title: "MIDI sketch", Description: "Render the pitches as a MIDI file", Pass: itemSketch},
	{Title: "Exit", Description: "Exit the application", Pass: itemExit},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	input        textinput.Model
	inputErr     error
	filePicker   filepicker.Model
	spinner      spinner.Model
	item         MenuItem
	pass         converter.Pass
	encoding     converter.Encoding
	addLanguage  bool
	selectedFile string
	outputFile   string
	err          error
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	outputFile string
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New(cfg *config.Config) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".ly", ".ily", ".lyi"}
	fp.CurrentDirectory, _ = os.Getwd()

	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 32

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(inkBlue)

	return Model{
		state:       StateMenu,
		input:       ti,
		filePicker:  fp,
		spinner:     s,
		encoding:    cfg.FileEncoding(),
		addLanguage: cfg.AddLanguage,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle file picker state first - it needs to receive all messages
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateOptions:
			return m.updateOptions(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		m.item = menuItems[m.menuIndex]
		switch m.item.Pass {
		case itemExit:
			return m, tea.Quit
		case itemSketch:
			m.pass = nil
			return m.pickFile()
		}
		if m.item.Prompt != "" {
			m.state = StateOptions
			m.inputErr = nil
			m.input.Reset()
			m.input.Placeholder = m.item.Placeholder
			cmd := m.input.Focus()
			return m, cmd
		}
		pass, err := converter.NewPass(m.item.Pass, converter.Options{})
		if err != nil {
			m.state, m.err = StateResult, err
			return m, nil
		}
		m.pass = pass
		return m.pickFile()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// updateOptions reads the transposition or target language
func (m Model) updateOptions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.state = StateMenu
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		pass, err := m.passFromInput(m.input.Value())
		if err != nil {
			m.inputErr = err
			return m, nil
		}
		m.input.Blur()
		m.pass = pass
		return m.pickFile()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) passFromInput(value string) (converter.Pass, error) {
	opts := converter.Options{AddLanguage: m.addLanguage}
	fields := strings.Fields(value)
	switch m.item.Pass {
	case converter.PassTranspose:
		if len(fields) != 2 {
			return nil, fmt.Errorf("enter two pitches, e.g. %q", m.item.Placeholder)
		}
		opts.From, opts.To = fields[0], fields[1]
	case converter.PassTranslate:
		if len(fields) != 1 {
			return nil, fmt.Errorf("enter one language, e.g. %q", m.item.Placeholder)
		}
		opts.Language = fields[0]
	}
	return converter.NewPass(m.item.Pass, opts)
}

func (m Model) pickFile() (tea.Model, tea.Cmd) {
	m.state = StateFilePicker
	return m, m.filePicker.Init()
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.outputFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// outputPath returns where the result for the selected file is written
func (m Model) outputPath() string {
	if m.pass == nil {
		return strings.TrimSuffix(m.selectedFile, filepath.Ext(m.selectedFile)) + ".mid"
	}
	return converter.OutputPath(m.selectedFile, m.pass.Name())
}

func (m Model) performConversion() tea.Cmd {
	conv := converter.New(m.pass)
	conv.SetEncoding(m.encoding)
	input, output := m.selectedFile, m.outputPath()

	return func() tea.Msg {
		if err := conv.ConvertFile(input, output); err != nil {
			return conversionDoneMsg{err: err}
		}
		return conversionDoneMsg{outputFile: output}
	}
}

func (m Model) passLabel() string {
	if m.pass == nil {
		return "lilypond → midi"
	}
	return m.pass.Description()
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateOptions:
		s.WriteString(m.viewOptions())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT PASS "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(descStyle.Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewOptions() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" %s ", strings.ToUpper(m.item.Title))))
	s.WriteString("\n\n")
	s.WriteString(m.item.Prompt)
	s.WriteString("\n\n")
	s.WriteString(m.input.View())
	if m.inputErr != nil {
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(m.inputErr.Error()))
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: confirm • esc: back to menu"))

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT LILYPOND FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" REWRITING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Processing %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render("  " + m.passLabel()))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Rewrite failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Rewrite complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Output: %s", filepath.Base(m.outputFile)))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
  _                                _ _
 | |_   _ _ __ _____      ___ __ (_) |_ ___
 | | | | | '__/ _ \ \ /\ / / '__|| | __/ _ \
 | | |_| | | |  __/\ V  V /| |   | | ||  __/
 |_|\__, |_|  \___| \_/\_/ |_|   |_|\__\___|
    |___/
`
	return lipgloss.NewStyle().Foreground(inkBlue).Render(logo)
}

// Run starts the TUI application
func Run(cfg *config.Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
