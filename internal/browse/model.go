// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

// Package browse is a terminal rendition of the function page.
package browse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cdr.dev/slog"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/woozymasta/pgfuncdoc"
)

// Clipboard receives copied text.
type Clipboard interface {
	Copy(text string)
}

// Options configures the terminal browser.
type Options struct {
	Catalog *pgfuncdoc.Catalog
	Content pgfuncdoc.Content
	// CopyResetDelay is how long "Copied!" stays visible; pgfuncdoc.DefaultCopyResetDelay when zero.
	CopyResetDelay time.Duration
	// Clipboard defaults to OSC52 on Output.
	Clipboard Clipboard
	Input     io.Reader
	Output    io.Writer
	// Logger receives example returns fallbacks.
	Logger slog.Logger
}

// copyResetMsg ends one copy confirmation generation.
type copyResetMsg struct {
	seq uint64
}

// Model is the bubbletea model of the browser.
type Model struct {
	functions  []pgfuncdoc.FunctionDoc
	examples   map[string]string
	content    pgfuncdoc.Content
	cursor     int
	code       CodeVisibility
	feedback   CopyFeedback
	resetDelay time.Duration
	clipboard  Clipboard

	viewport viewport.Model
	ready    bool
	styles   styles
}

type styles struct {
	title    lipgloss.Style
	heading  lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	code     lipgloss.Style
	status   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		heading:  lipgloss.NewStyle().Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		code:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		status:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
	}
}

// New creates a browser model. Example returns that are not valid JSON are
// logged once here and shown as raw text.
func New(ctx context.Context, opt Options) Model {
	catalog := opt.Catalog
	if catalog == nil {
		catalog = pgfuncdoc.DefaultCatalog()
	}

	delay := opt.CopyResetDelay
	if delay <= 0 {
		delay = pgfuncdoc.DefaultCopyResetDelay
	}

	clipboard := opt.Clipboard
	if clipboard == nil {
		out := opt.Output
		if out == nil {
			out = io.Discard
		}
		clipboard = termenv.NewOutput(out)
	}

	functions := catalog.Functions()
	examples := make(map[string]string, len(functions))
	for _, fn := range functions {
		if !fn.HasExampleReturns() {
			continue
		}

		formatted, err := pgfuncdoc.FormatExampleReturns(fn.ExampleReturns)
		if err != nil {
			opt.Logger.Warn(ctx, "example returns shown as raw text",
				slog.F("function", fn.Name),
				slog.Error(err),
			)
		}
		examples[fn.Name] = formatted
	}

	return Model{
		functions:  functions,
		examples:   examples,
		content:    opt.Content,
		code:       make(CodeVisibility),
		resetDelay: delay,
		clipboard:  clipboard,
		styles:     defaultStyles(),
	}
}

// Run starts the browser and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opt Options) error {
	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if opt.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opt.Input))
	}
	if opt.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opt.Output))
	}

	_, err := tea.NewProgram(New(ctx, opt), programOpts...).Run()
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}

	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - 2
		if height < 1 {
			height = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}

		m.syncViewport()
		return m, nil

	case copyResetMsg:
		m.feedback.Reset(msg.seq)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			m.syncViewport()
			return m, nil
		case "down", "j":
			if m.cursor < len(m.functions)-1 {
				m.cursor++
			}
			m.syncViewport()
			return m, nil
		case "enter", " ":
			if name, ok := m.Selected(); ok {
				m.code.Toggle(name)
			}
			m.syncViewport()
			return m, nil
		case "c":
			m.clipboard.Copy(m.content.Examples.CopyText())
			seq := m.feedback.Copy()
			return m, tea.Tick(m.resetDelay, func(time.Time) tea.Msg {
				return copyResetMsg{seq: seq}
			})
		}
	}

	if !m.ready {
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.content.FunctionsTitle))
	b.WriteByte('\n')

	if m.ready {
		b.WriteString(m.viewport.View())
	} else {
		body, _ := m.renderBody()
		b.WriteString(body)
	}

	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	return b.String()
}

// Selected returns the function under the cursor.
func (m Model) Selected() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.functions) {
		return "", false
	}

	return m.functions[m.cursor].Name, true
}

// CodeVisible reports whether a section shows its code.
func (m Model) CodeVisible(name string) bool {
	return m.code.Visible(name)
}

// Copied reports whether the copy confirmation is shown.
func (m Model) Copied() bool {
	return m.feedback.Copied
}

func (m Model) statusLine() string {
	help := m.styles.muted.Render("j/k move  enter toggle code  c copy examples  q quit")
	if m.feedback.Copied {
		return m.styles.status.Render("Copied!") + "  " + help
	}

	return help
}

// syncViewport re-renders the body and scrolls the selected section into view.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}

	body, offset := m.renderBody()
	m.viewport.SetContent(body)

	if offset < m.viewport.YOffset || offset >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(offset)
	}
}

// renderBody returns static blocks, all sections and the line where the
// selected section starts.
func (m Model) renderBody() (string, int) {
	var b strings.Builder
	offset := 0

	b.WriteString(m.renderStatic())

	for i, fn := range m.functions {
		if i == m.cursor {
			offset = strings.Count(b.String(), "\n")
		}

		b.WriteString(m.renderSection(fn, i == m.cursor))
		b.WriteByte('\n')
	}

	// Keep the static blocks in view while the first section is selected.
	if m.cursor == 0 {
		offset = 0
	}

	return b.String(), offset
}

// renderStatic renders the rules, connection and example queries blocks.
func (m Model) renderStatic() string {
	var b strings.Builder

	if title := strings.TrimSpace(m.content.Title); title != "" {
		b.WriteString(m.styles.title.Render(title) + "\n\n")
	}

	if text := strings.TrimSpace(m.content.Rules.Text); text != "" {
		b.WriteString(m.styles.heading.Render(m.content.Rules.Title) + "\n")
		writeIndented(&b, text)
		b.WriteByte('\n')
	}

	conn := m.content.Connection
	if strings.TrimSpace(conn.Intro) != "" || len(conn.Fields) > 0 {
		b.WriteString(m.styles.heading.Render(conn.Title) + "\n")
		if intro := strings.TrimSpace(conn.Intro); intro != "" {
			writeIndented(&b, intro)
		}
		for _, field := range conn.Fields {
			fmt.Fprintf(&b, "    %s: %s\n", field.Label, field.Value)
		}
		b.WriteByte('\n')
	}

	if text := m.content.Examples.CopyText(); text != "" {
		b.WriteString(m.styles.heading.Render(m.content.Examples.Title) + "  ")
		b.WriteString(m.styles.muted.Render("[c] Copy") + "\n")
		writeIndented(&b, m.styles.code.Render(text))
		b.WriteByte('\n')
	}

	return b.String()
}

func (m Model) renderSection(fn pgfuncdoc.FunctionDoc, selected bool) string {
	var b strings.Builder

	marker, name := "  ", m.styles.heading.Render(fn.Name)
	if selected {
		marker, name = "> ", m.styles.selected.Render(fn.Name)
	}

	b.WriteString(marker + name + "\n")
	writeIndented(&b, fn.Description)

	b.WriteString(m.styles.heading.Render("  Parameters") + "\n")
	if len(fn.Parameters) == 0 {
		b.WriteString("    No parameters.\n")
	}
	for _, param := range fn.Parameters {
		fmt.Fprintf(&b, "    %s (%s): %s\n", param.Name, param.Type, param.Description)
	}

	b.WriteString(m.styles.heading.Render("  Returns") + "\n")
	writeIndented(&b, fn.Returns)

	if fn.HasUsage() {
		b.WriteString(m.styles.heading.Render("  Example Usage") + "\n")
		writeIndented(&b, m.styles.code.Render(strings.TrimSpace(fn.Usage)))
	}

	if fn.HasExampleReturns() {
		b.WriteString(m.styles.heading.Render("  Example Returns") + "\n")
		writeIndented(&b, m.styles.code.Render(m.examples[fn.Name]))
	}

	if m.code.Visible(fn.Name) {
		b.WriteString(m.styles.muted.Render("  [Hide Code]") + "\n")
		writeIndented(&b, m.styles.code.Render(strings.Trim(fn.Code, "\n")))
	} else {
		b.WriteString(m.styles.muted.Render("  [Show Code]") + "\n")
	}

	return b.String()
}

// writeIndented writes text with every line indented by four spaces.
func writeIndented(b *strings.Builder, text string) {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		b.WriteString("    " + line + "\n")
	}
}
