package components

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pgedit/pgedit/internal/ui/theme"
)

// ApplyStatementsMsg is sent when the user confirms the previewed statements
type ApplyStatementsMsg struct {
	Statements []string
}

// ClosePreviewMsg is sent when the preview should close without applying
type ClosePreviewMsg struct{}

// StatementPreview shows the generated SQL before it is applied. Statements
// are displayed in execution order with syntax highlighting; the user
// confirms or backs out.
type StatementPreview struct {
	Width  int
	Height int
	Theme  theme.Theme

	statements []string
	scrollY    int

	chromaStyle     *chroma.Style
	chromaFormatter chroma.Formatter
}

// NewStatementPreview creates a preview over the statements to apply
func NewStatementPreview(statements []string, th theme.Theme) *StatementPreview {
	sp := &StatementPreview{
		Width:      80,
		Height:     20,
		Theme:      th,
		statements: statements,
	}
	sp.initChroma()
	return sp
}

func (sp *StatementPreview) initChroma() {
	sp.chromaStyle = styles.Get("monokai")
	if sp.chromaStyle == nil {
		sp.chromaStyle = styles.Fallback
	}
	sp.chromaFormatter = formatters.Get("terminal256")
	if sp.chromaFormatter == nil {
		sp.chromaFormatter = formatters.Fallback
	}
}

// Statements returns the previewed statements in execution order
func (sp *StatementPreview) Statements() []string { return sp.statements }

// Update handles keyboard input
func (sp *StatementPreview) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "n":
		return func() tea.Msg { return ClosePreviewMsg{} }
	case "enter", "y":
		stmts := sp.statements
		return func() tea.Msg { return ApplyStatementsMsg{Statements: stmts} }
	case "c":
		_ = clipboard.WriteAll(strings.Join(sp.statements, "\n"))
	case "up", "k":
		if sp.scrollY > 0 {
			sp.scrollY--
		}
	case "down", "j":
		if sp.scrollY < len(sp.statements)-1 {
			sp.scrollY++
		}
	}
	return nil
}

// highlight applies SQL syntax highlighting to one statement
func (sp *StatementPreview) highlight(stmt string) string {
	lexer := lexers.Get("postgresql")
	if lexer == nil {
		lexer = lexers.Get("sql")
	}
	if lexer == nil {
		return stmt
	}

	iterator, err := lexer.Tokenise(nil, stmt)
	if err != nil {
		return stmt
	}
	var b strings.Builder
	if err := sp.chromaFormatter.Format(&b, sp.chromaStyle, iterator); err != nil {
		return stmt
	}
	return strings.TrimRight(b.String(), "\n")
}

// View renders the preview dialog
func (sp *StatementPreview) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(sp.Theme.BorderFocused)
	numStyle := lipgloss.NewStyle().
		Foreground(sp.Theme.GridNull)
	helpStyle := lipgloss.NewStyle().
		Foreground(sp.Theme.GridNull).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Apply %d statement(s)?", len(sp.statements))))
	b.WriteString("\n\n")

	visible := sp.Height - 6
	if visible < 1 {
		visible = 1
	}
	end := sp.scrollY + visible
	if end > len(sp.statements) {
		end = len(sp.statements)
	}
	for i := sp.scrollY; i < end; i++ {
		b.WriteString(numStyle.Render(fmt.Sprintf("%2d. ", i+1)))
		b.WriteString(sp.highlight(sp.statements[i]))
		b.WriteString("\n")
	}
	if end < len(sp.statements) {
		b.WriteString(numStyle.Render(fmt.Sprintf("    … %d more", len(sp.statements)-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter/y apply  •  c copy  •  esc cancel"))

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(sp.Theme.BorderFocused).
		Padding(0, 1).
		Width(sp.Width - 4)
	return border.Render(b.String())
}
