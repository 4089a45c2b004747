// Package cli provides line-oriented input helpers for the interactive
// commands. No rendering beyond plain prompts happens here.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jmacedo/abcstock/internal/service"
)

var _ service.Prompter = (*Prompter)(nil)

// Prompter reads item field values from a reader, one line per field.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewPrompter creates a prompter over the given reader and writer.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// PromptString asks for a single line of text and trims surrounding space.
func (p *Prompter) PromptString(label string) (string, error) {
	if _, err := fmt.Fprintf(p.writer, "%s: ", label); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// PromptInt asks for an integer value.
func (p *Prompter) PromptInt(label string) (int, error) {
	raw, err := p.PromptString(label)
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("expected a whole number, got %q", raw)
	}
	return value, nil
}

// PromptFloat asks for a decimal value.
func (p *Prompter) PromptFloat(label string) (float64, error) {
	raw, err := p.PromptString(label)
	if err != nil {
		return 0, err
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %q", raw)
	}
	return value, nil
}
