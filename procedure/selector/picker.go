package selector

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var pickerCancel = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "cancel"))

var pickerTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

type pickerModel struct {
	title     string
	picker    filepicker.Model
	selected  string
	cancelled bool
}

func (m pickerModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, pickerCancel) {
		m.cancelled = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.selected = path
		return m, tea.Quit
	}

	return m, cmd
}

func (m pickerModel) View() string {
	if m.selected != "" || m.cancelled {
		return ""
	}
	return pickerTitleStyle.Render(m.title) + "\n" + m.picker.View() + "\n"
}

func (r *Prompt) pick(ctx context.Context, title string, start string, configure func(*filepicker.Model)) (string, error) {
	picker := filepicker.New()
	picker.CurrentDirectory = start
	picker.ShowPermissions = false
	picker.SetHeight(12)
	configure(&picker)

	model, err := tea.NewProgram(pickerModel{title: title, picker: picker}, r.options(ctx)...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
			return "", errors.Join(ErrCancelled, err)
		}
		return "", err
	}

	result := model.(pickerModel)
	if result.selected == "" {
		return "", ErrCancelled
	}
	return filepath.Abs(result.selected)
}

// PickFile asks for a file whose name ends with one of suffixes.
func (r *Prompt) PickFile(ctx context.Context, title string, start string, suffixes ...string) (string, error) {
	return r.pick(ctx, title, start, func(picker *filepicker.Model) {
		picker.FileAllowed = true
		picker.DirAllowed = false
		picker.AllowedTypes = suffixes
	})
}

// PickDirectory asks for a directory.
func (r *Prompt) PickDirectory(ctx context.Context, title string, start string) (string, error) {
	return r.pick(ctx, title, start, func(picker *filepicker.Model) {
		picker.FileAllowed = false
		picker.DirAllowed = true
	})
}
