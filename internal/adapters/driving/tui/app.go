// Package tui provides an interactive chat terminal over the pipeline,
// following the Elm architecture used by Bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driving"
)

// Styles for the chat transcript.
var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// answerMsg carries a completed turn back into the update loop.
type answerMsg struct {
	message domain.Message
}

// errMsg carries a failed turn back into the update loop.
type errMsg struct {
	err error
}

// App is the chat TUI. It implements tea.Model.
type App struct {
	chat driving.ChatService
	ctx  context.Context

	input    textinput.Model
	viewport viewport.Model

	transcript []string
	waiting    bool
	lastErr    error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat TUI over the given chat service.
func NewApp(ctx context.Context, chat driving.ChatService) (*App, error) {
	if chat == nil {
		return nil, fmt.Errorf("tui: chat service is required")
	}

	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.Focus()

	return &App{
		chat:  chat,
		ctx:   ctx,
		input: input,
	}, nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		vpHeight := msg.Height - 4
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !a.ready {
			a.viewport = viewport.New(msg.Width, vpHeight)
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = vpHeight
		}
		a.refreshTranscript()
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit

		case tea.KeyCtrlR:
			a.chat.Reset()
			a.transcript = nil
			a.lastErr = nil
			a.refreshTranscript()
			return a, nil

		case tea.KeyEnter:
			if a.waiting {
				return a, nil
			}
			query := strings.TrimSpace(a.input.Value())
			if query == "" {
				return a, nil
			}
			a.input.Reset()
			a.lastErr = nil
			a.waiting = true
			a.appendLine(userStyle.Render("you: ") + query)
			return a, a.submit(query)
		}

	case answerMsg:
		a.waiting = false
		a.appendLine(assistantStyle.Render("assistant: ") + msg.message.Content)
		return a, nil

	case errMsg:
		a.waiting = false
		a.lastErr = msg.err
		return a, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Starting..."
	}

	status := statusStyle.Render("enter: send • ctrl+r: reset • ctrl+c: quit")
	if a.waiting {
		status = statusStyle.Render("thinking...")
	}
	if a.lastErr != nil {
		status = errStyle.Render("error: " + a.lastErr.Error())
	}

	return fmt.Sprintf("%s\n%s\n%s", a.viewport.View(), a.input.View(), status)
}

// submit runs one chat turn off the update loop.
func (a *App) submit(query string) tea.Cmd {
	return func() tea.Msg {
		message, err := a.chat.SubmitQuery(a.ctx, query)
		if err != nil {
			return errMsg{err: err}
		}
		return answerMsg{message: message}
	}
}

func (a *App) appendLine(line string) {
	a.transcript = append(a.transcript, line, "")
	a.refreshTranscript()
}

func (a *App) refreshTranscript() {
	if !a.ready {
		return
	}
	a.viewport.SetContent(strings.Join(a.transcript, "\n"))
	a.viewport.GotoBottom()
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, chat driving.ChatService) error {
	app, err := NewApp(ctx, chat)
	if err != nil {
		return err
	}
	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
