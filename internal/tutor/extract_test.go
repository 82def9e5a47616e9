package tutor

import (
	"testing"

	"logictutor/internal/perception"
)

func TestExtractDiagramRoundTrip(t *testing.T) {
	resp := &perception.LLMToolResponse{
		Text: "Think about the flow:\n```mermaid\ngraph TD; A-->B;\n```\nWhat happens at B?",
	}

	ex := Extract(resp)

	if len(ex.Diagrams) != 1 {
		t.Fatalf("diagrams = %d, want 1", len(ex.Diagrams))
	}
	if ex.Diagrams[0] != "graph TD; A-->B;" {
		t.Fatalf("diagram = %q, want %q", ex.Diagrams[0], "graph TD; A-->B;")
	}
	if ex.DisplayText != resp.Text {
		t.Fatalf("display text altered: %q", ex.DisplayText)
	}
}

func TestExtractMultipleDiagramsInOrder(t *testing.T) {
	resp := &perception.LLMToolResponse{
		Text: "```mermaid\ngraph TD; A-->B;\n```\nmiddle\n```mermaid\nflowchart LR; X-->Y;\n```",
	}

	ex := Extract(resp)

	if len(ex.Diagrams) != 2 {
		t.Fatalf("diagrams = %d, want 2", len(ex.Diagrams))
	}
	if ex.Diagrams[0] != "graph TD; A-->B;" || ex.Diagrams[1] != "flowchart LR; X-->Y;" {
		t.Fatalf("diagram order wrong: %v", ex.Diagrams)
	}
}

func TestExtractIgnoresGenericFences(t *testing.T) {
	resp := &perception.LLMToolResponse{
		Text: "```go\nfunc main() {}\n```\nand\n```\nplain\n```",
	}

	if ex := Extract(resp); len(ex.Diagrams) != 0 {
		t.Fatalf("generic fences extracted as diagrams: %v", ex.Diagrams)
	}
}

func TestExtractAcceptsMarkerlessDiagram(t *testing.T) {
	// Recall over precision: a mermaid-tagged block with no connector or
	// graph keyword is still accepted.
	resp := &perception.LLMToolResponse{
		Text: "```mermaid\njust a note\n```",
	}

	ex := Extract(resp)
	if len(ex.Diagrams) != 1 || ex.Diagrams[0] != "just a note" {
		t.Fatalf("markerless diagram not accepted: %v", ex.Diagrams)
	}
}

func TestExtractEmptyDiagramBlockSkipped(t *testing.T) {
	resp := &perception.LLMToolResponse{
		Text: "```mermaid\n\n```",
	}

	if ex := Extract(resp); len(ex.Diagrams) != 0 {
		t.Fatalf("empty diagram block not skipped: %v", ex.Diagrams)
	}
}

func TestExtractMentorSignal(t *testing.T) {
	tests := []struct {
		name  string
		calls []perception.ToolCall
		want  *MentorStatus
	}{
		{
			name: "satisfied",
			calls: []perception.ToolCall{
				{Name: MentorStatusTool, Input: map[string]interface{}{"status": "satisfied"}},
			},
			want: statusPtr(StatusSatisfied),
		},
		{
			name: "searching",
			calls: []perception.ToolCall{
				{Name: MentorStatusTool, Input: map[string]interface{}{"status": "searching"}},
			},
			want: statusPtr(StatusSearching),
		},
		{
			name: "whitespace and case normalized",
			calls: []perception.ToolCall{
				{Name: MentorStatusTool, Input: map[string]interface{}{"status": " Satisfied "}},
			},
			want: statusPtr(StatusSatisfied),
		},
		{name: "absent", calls: nil, want: nil},
		{
			name: "unknown tool ignored",
			calls: []perception.ToolCall{
				{Name: "other_tool", Input: map[string]interface{}{"status": "satisfied"}},
			},
			want: nil,
		},
		{
			name: "unknown value ignored",
			calls: []perception.ToolCall{
				{Name: MentorStatusTool, Input: map[string]interface{}{"status": "confused"}},
			},
			want: nil,
		},
		{
			name: "non-string payload ignored",
			calls: []perception.ToolCall{
				{Name: MentorStatusTool, Input: map[string]interface{}{"status": 42}},
			},
			want: nil,
		},
		{
			name: "missing field ignored",
			calls: []perception.ToolCall{
				{Name: MentorStatusTool, Input: map[string]interface{}{}},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := Extract(&perception.LLMToolResponse{Text: "hint", ToolCalls: tt.calls})
			if (ex.Signal == nil) != (tt.want == nil) {
				t.Fatalf("signal presence = %v, want %v", ex.Signal != nil, tt.want != nil)
			}
			if ex.Signal != nil && *ex.Signal != *tt.want {
				t.Fatalf("signal = %s, want %s", *ex.Signal, *tt.want)
			}
			// A malformed signal must never disturb text extraction.
			if ex.DisplayText != "hint" {
				t.Fatalf("display text = %q, want %q", ex.DisplayText, "hint")
			}
		})
	}
}

func TestExtractNilResponse(t *testing.T) {
	ex := Extract(nil)
	if ex.DisplayText != "" || len(ex.Diagrams) != 0 || ex.Signal != nil {
		t.Fatalf("nil response extraction not empty: %+v", ex)
	}
}

func TestExtractEmptyTextIsValid(t *testing.T) {
	ex := Extract(&perception.LLMToolResponse{Text: ""})
	if ex.DisplayText != "" {
		t.Fatalf("empty text should stay empty (caller substitutes filler), got %q", ex.DisplayText)
	}
}

func statusPtr(s MentorStatus) *MentorStatus { return &s }
