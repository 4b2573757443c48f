package prompt

import (
	"bytes"
	"fmt"
	"strings"
)

// CodeBlock is a fenced source listing included in a prompt.
type CodeBlock struct {
	Label    string // section header, e.g. "Original (python)"
	Language string
	Code     string
}

// Spec defines the sections for a structured agent prompt. Persona and Task
// are required; everything else renders only when present.
type Spec struct {
	Persona      string
	Task         string
	Context      []string
	Code         []CodeBlock
	Guidelines   []string
	OutputFormat string
}

// Render assembles the sections into a single prompt string.
func Render(spec Spec) (string, error) {
	if strings.TrimSpace(spec.Persona) == "" {
		return "", fmt.Errorf("prompt: persona is empty")
	}
	if strings.TrimSpace(spec.Task) == "" {
		return "", fmt.Errorf("prompt: task is empty")
	}

	var buf bytes.Buffer
	writeSection(&buf, "PERSONA", spec.Persona)
	writeSection(&buf, "TASK", spec.Task)
	writeSection(&buf, "CONTEXT", formatList(spec.Context))
	writeSection(&buf, "CODE", formatCode(spec.Code))
	writeSection(&buf, "GUIDELINES", formatList(spec.Guidelines))
	writeSection(&buf, "OUTPUT_FORMAT", spec.OutputFormat)

	return strings.TrimSpace(buf.String()) + "\n", nil
}

func writeSection(buf *bytes.Buffer, name, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(buf, "[%s]\n%s\n\n", name, body)
}

func formatList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatCode(blocks []CodeBlock) string {
	if len(blocks) == 0 {
		return ""
	}
	var buf strings.Builder
	for i, b := range blocks {
		if i > 0 {
			buf.WriteString("\n")
		}
		if strings.TrimSpace(b.Label) != "" {
			fmt.Fprintf(&buf, "%s:\n", strings.TrimSpace(b.Label))
		}
		fmt.Fprintf(&buf, "```%s\n%s\n```\n", b.Language, strings.TrimRight(b.Code, "\n"))
	}
	return strings.TrimRight(buf.String(), "\n")
}
