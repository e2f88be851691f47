package selector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type promptKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Cancel key.Binding
}

var promptKeys = promptKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
	Cancel: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc/q", "skip")),
}

var (
	promptTitleStyle    = lipgloss.NewStyle().Bold(true)
	promptCursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	promptSentinelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	promptHelpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type promptModel struct {
	folder     string
	candidates []string
	cursor     int
	chosen     bool
	cancelled  bool
}

func newPromptModel(folder string, candidates []string) promptModel {
	return promptModel{
		folder:     folder,
		candidates: candidates,
		cursor:     len(candidates) - 1,
	}
}

func (m promptModel) Init() tea.Cmd {
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	press, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(press, promptKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(press, promptKeys.Down):
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
		}
	case key.Matches(press, promptKeys.Choose):
		m.chosen = true
		return m, tea.Quit
	case key.Matches(press, promptKeys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	}

	return m, nil
}

func (m promptModel) View() string {
	if m.chosen || m.cancelled {
		return ""
	}

	var s strings.Builder
	s.WriteString(promptTitleStyle.Render(fmt.Sprintf("Where should '%s' go?", m.folder)))
	s.WriteString("\n\n")
	for i, candidate := range m.candidates {
		label := candidate
		if i == len(m.candidates)-1 {
			label = promptSentinelStyle.Render(candidate)
		}
		if i == m.cursor {
			s.WriteString(promptCursorStyle.Render("> ") + label)
		} else {
			s.WriteString("  " + label)
		}
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(promptHelpStyle.Render(strings.Join([]string{
		promptKeys.Up.Help().Key + " " + promptKeys.Up.Help().Desc,
		promptKeys.Down.Help().Key + " " + promptKeys.Down.Help().Desc,
		promptKeys.Choose.Help().Key + " " + promptKeys.Choose.Help().Desc,
		promptKeys.Cancel.Help().Key + " " + promptKeys.Cancel.Help().Desc,
	}, " • ")))
	s.WriteString("\n")
	return s.String()
}

// Prompt asks the operator in the terminal. Nil Input and Output use the
// process's standard streams.
type Prompt struct {
	Input  io.Reader
	Output io.Writer
}

func NewPrompt() *Prompt {
	return &Prompt{
		Input:  nil,
		Output: nil,
	}
}

func (r *Prompt) options(ctx context.Context) []tea.ProgramOption {
	options := []tea.ProgramOption{tea.WithContext(ctx)}
	if r.Input != nil {
		options = append(options, tea.WithInput(r.Input))
	}
	if r.Output != nil {
		options = append(options, tea.WithOutput(r.Output))
	}
	return options
}

func (r *Prompt) Select(ctx context.Context, folder string, candidates []string) (int, error) {
	if len(candidates) == 0 {
		return 0, ErrCancelled
	}

	model, err := tea.NewProgram(newPromptModel(folder, candidates), r.options(ctx)...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
			return 0, errors.Join(ErrCancelled, err)
		}
		return 0, err
	}

	result := model.(promptModel)
	if !result.chosen {
		return 0, ErrCancelled
	}
	return result.cursor, nil
}
