package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the color scheme of the interactive terminal.
type Styles struct {
	Label   lipgloss.Style // prompt labels
	Index   lipgloss.Style // list indices
	Success lipgloss.Style
	Error   lipgloss.Style
	Key     lipgloss.Style // field keys
	Title   lipgloss.Style // section titles
}

// DefaultStyles is the standard palette: magenta ids and indices,
// green success, red errors, cyan field keys, yellow entity titles.
func DefaultStyles() Styles {
	return Styles{
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		Index:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Terminal is a line-based interactive console. It implements the
// workflow's Console interface.
type Terminal struct {
	in     *bufio.Scanner
	out    io.Writer
	styles Styles
}

// NewTerminal creates a terminal reading prompts from in and writing
// to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:     bufio.NewScanner(in),
		out:    out,
		styles: DefaultStyles(),
	}
}

// WithStyles replaces the color scheme.
func (t *Terminal) WithStyles(s Styles) *Terminal {
	t.styles = s
	return t
}

// Prompt prints the label and reads one line, trimmed.
func (t *Terminal) Prompt(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", t.styles.Label.Render(label))
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(t.in.Text()), nil
}

// PromptInt prompts until the answer parses as an integer.
func (t *Terminal) PromptInt(label string) (int, error) {
	for {
		text, err := t.Prompt(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(text)
		if err == nil {
			return n, nil
		}
		t.Errorf("please enter a number")
	}
}

// Printf writes one plain line.
func (t *Terminal) Printf(format string, args ...any) {
	fmt.Fprintf(t.out, format+"\n", args...)
}

// Successf writes a green outcome line.
func (t *Terminal) Successf(format string, args ...any) {
	fmt.Fprintln(t.out, t.styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Errorf writes a red outcome line.
func (t *Terminal) Errorf(format string, args ...any) {
	fmt.Fprintln(t.out, t.styles.Error.Render(fmt.Sprintf(format, args...)))
}

// Titlef writes a section title.
func (t *Terminal) Titlef(format string, args ...any) {
	fmt.Fprintf(t.out, "%s ---\n", t.styles.Title.Render(fmt.Sprintf(format, args...)))
}

// Item writes one indexed list entry.
func (t *Terminal) Item(index int, text string) {
	fmt.Fprintf(t.out, "%s: %s\n", t.styles.Index.Render(strconv.Itoa(index)), text)
}

// Field writes one key/value line.
func (t *Terminal) Field(key, value string) {
	fmt.Fprintf(t.out, "\t%s: %s\n", t.styles.Key.Render(key), value)
}
