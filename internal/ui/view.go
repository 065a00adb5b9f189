package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/a2ui-term/internal/tree"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	focusIndicator = "▌"
	infoTTL        = 5 * time.Second
)

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text already carries ANSI styling; use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]styledLine, 0, 16)
	if header := m.header(); header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Header})
	}
	lines = append(lines, m.bodyLines()...)
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: m.help.ShortHelpView(m.keys.ShortHelp()), raw: true})
	}
	// Reserve one row for the status line.
	lines = limitHeight(lines, m.height-1, m.width)
	lines = append(lines, m.statusLine())
	lines = applyWidth(lines, m.width)
	return renderLines(lines)
}

func (m *Model) header() string {
	surface := m.store.Surface()
	if surface.SurfaceID == "" {
		return ""
	}
	return sanitize(surface.SurfaceID)
}

func (m *Model) statusLine() styledLine {
	switch {
	case m.dispatcher.Loading():
		return styledLine{text: m.spinner.View() + " Loading…", raw: true}
	case m.errMsg != "":
		return styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	default:
		return styledLine{}
	}
}

func (m *Model) bodyLines() []styledLine {
	surface := m.store.Surface()
	if !m.hasRoot {
		msg := "Waiting for surface…"
		if surface.RootID != "" && errors.Is(m.resolveErr, tree.ErrNotFound) {
			msg = fmt.Sprintf("Waiting for root component %q", surface.RootID)
		}
		return []styledLine{{text: msg, style: styles.Info}}
	}
	rendered := m.renderNode(m.root, m.width)
	if rendered == "" {
		return nil
	}
	parts := strings.Split(rendered, "\n")
	lines := make([]styledLine, len(parts))
	for i, part := range parts {
		lines[i] = styledLine{text: part, raw: true}
	}
	return lines
}

// renderNode draws a resolved node. width is the space available, 0 when
// unconstrained.
func (m *Model) renderNode(node tree.Node, width int) string {
	switch node.Kind {
	case tree.NodeColumn:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderChildren(node.Children, width)...)
	case tree.NodeRow:
		parts := m.renderChildren(node.Children, 0)
		spaced := make([]string, 0, len(parts)*2)
		for i, part := range parts {
			if i > 0 {
				spaced = append(spaced, " ")
			}
			spaced = append(spaced, part)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
	case tree.NodeCard:
		inner := ""
		if len(node.Children) > 0 {
			inner = m.renderNode(node.Children[0], shrink(width, 4))
		}
		return render(styles.Card, inner)
	case tree.NodeText:
		return render(styles.Text, sanitize(node.Text))
	case tree.NodeTextField:
		return m.renderTextField(node, width)
	case tree.NodeButton:
		style := styles.Button
		if node.ID == m.FocusedID() {
			style = styles.ButtonFocused
		}
		return render(style, sanitize(node.Text))
	case tree.NodePlaceholder:
		if !m.verbose {
			return ""
		}
		text := fmt.Sprintf("‹missing %s›", node.ID)
		if len(node.Suggestions) > 0 {
			text += fmt.Sprintf(" did you mean %s?", strings.Join(node.Suggestions, ", "))
		}
		return render(styles.Placeholder, text)
	case tree.NodeError:
		msg := node.ID
		if node.Err != nil {
			msg = node.Err.Error()
		}
		return render(styles.Error, "⚠ "+msg)
	default:
		return ""
	}
}

func (m *Model) renderChildren(children []tree.Node, width int) []string {
	parts := make([]string, 0, len(children))
	for _, child := range children {
		if out := m.renderNode(child, width); out != "" {
			parts = append(parts, out)
		}
	}
	return parts
}

func (m *Model) renderTextField(node tree.Node, width int) string {
	focused := node.ID == m.FocusedID()
	indicator := " "
	if focused {
		indicator = render(styles.InputFocused, focusIndicator)
	}
	rows := []string{}
	if node.Label != "" {
		rows = append(rows, indicator+render(styles.Label, sanitize(node.Label)))
	}
	field := render(styles.Input, sanitize(node.Value))
	if in, ok := m.inputs[node.ID]; ok {
		if width > 0 {
			in.Width = shrink(width, 3)
		}
		field = in.View()
	}
	rows = append(rows, indicator+" "+field)
	return strings.Join(rows, "\n")
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(infoTTL)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func render(style *lipgloss.Style, text string) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}

func shrink(width, by int) int {
	if width <= 0 {
		return 0
	}
	if width-by < 1 {
		return 1
	}
	return width - by
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line.raw || line.style == nil {
			out[i] = line.text
			continue
		}
		out[i] = line.style.Render(line.text)
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
