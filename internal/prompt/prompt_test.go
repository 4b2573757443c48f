package prompt

import (
	"strings"
	"testing"
)

func TestRender_AllSectionsInOrder(t *testing.T) {
	spec := Spec{
		Persona: "You are the Python Architect.",
		Task:    "Analyze this code.",
		Context: []string{"Round 2 of 3."},
		Code: []CodeBlock{
			{Label: "Original (python)", Language: "python", Code: "print('hi')"},
		},
		Guidelines:   []string{"Be concise."},
		OutputFormat: "Plain prose.",
	}

	out, err := Render(spec)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	wantOrder := []string{
		"[PERSONA]",
		"[TASK]",
		"[CONTEXT]",
		"[CODE]",
		"[GUIDELINES]",
		"[OUTPUT_FORMAT]",
	}
	last := -1
	for _, sec := range wantOrder {
		idx := strings.Index(out, sec)
		if idx < 0 {
			t.Fatalf("missing section %s in prompt:\n%s", sec, out)
		}
		if idx < last {
			t.Fatalf("section %s out of order", sec)
		}
		last = idx
	}
	if !strings.Contains(out, "```python\nprint('hi')\n```") {
		t.Fatalf("code block not fenced:\n%s", out)
	}
}

func TestRender_EmptySectionsOmitted(t *testing.T) {
	out, err := Render(Spec{Persona: "P.", Task: "T."})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, sec := range []string{"[CONTEXT]", "[CODE]", "[GUIDELINES]", "[OUTPUT_FORMAT]"} {
		if strings.Contains(out, sec) {
			t.Fatalf("unexpected empty section %s", sec)
		}
	}
}

func TestRender_RequiresPersonaAndTask(t *testing.T) {
	if _, err := Render(Spec{Task: "T."}); err == nil {
		t.Fatalf("expected error for missing persona")
	}
	if _, err := Render(Spec{Persona: "P."}); err == nil {
		t.Fatalf("expected error for missing task")
	}
}
