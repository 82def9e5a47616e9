package tutor

import (
	"regexp"
	"strings"

	"logictutor/internal/logging"
	"logictutor/internal/perception"
)

// MentorStatusTool is the side-channel capability declared on every
// conversation request. The model invokes it to report whether the
// learner has reached understanding.
const MentorStatusTool = "update_learning_status"

// MentorStatusToolDefinition returns the declaration sent to the model.
func MentorStatusToolDefinition() perception.ToolDefinition {
	return perception.ToolDefinition{
		Name:        MentorStatusTool,
		Description: "Report whether the learner has derived the logic on their own. Call with status \"satisfied\" once they explain it back correctly, or \"searching\" to reopen the topic.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"status": map[string]interface{}{
					"type": "string",
					"enum": []string{string(StatusSearching), string(StatusSatisfied)},
				},
			},
			"required": []string{"status"},
		},
	}
}

// Extraction is the structured view of one model response.
type Extraction struct {
	// DisplayText is the free-text content as returned. Empty is valid;
	// the caller substitutes a neutral filler, not an error.
	DisplayText string

	// Diagrams holds the inner content of every mermaid-tagged fenced
	// block, trimmed, in document order.
	Diagrams []string

	// Signal is the mentor status carried by the side channel, or nil
	// when the response carried none (or a malformed one).
	Signal *MentorStatus
}

// Matches fenced blocks explicitly tagged as mermaid. Generic code
// fences are left alone; they are ordinary markdown.
var diagramFence = regexp.MustCompile("(?s)```mermaid[ \t]*\n(.*?)```")

// Connector/graph keywords a structurally sound diagram starts with.
// Used for logging only: a tagged block without them is still accepted,
// trading precision for recall. The worst case is an oddly rendered
// card, never a wrong answer.
var diagramMarkers = regexp.MustCompile(`(?i)\b(graph|flowchart|sequenceDiagram|classDiagram|stateDiagram|erDiagram)\b|-->|---`)

// Extract parses a raw model response into display text, diagram
// sources, and an optional mentor signal. It never fails: a malformed
// side-channel payload is ignored and text extraction proceeds.
func Extract(resp *perception.LLMToolResponse) Extraction {
	if resp == nil {
		return Extraction{}
	}

	ex := Extraction{DisplayText: resp.Text}

	for _, match := range diagramFence.FindAllStringSubmatch(resp.Text, -1) {
		source := strings.TrimSpace(match[1])
		if source == "" {
			continue
		}
		if !diagramMarkers.MatchString(source) {
			logging.ExtractWarn("diagram block without structural markers accepted (len=%d)", len(source))
		}
		ex.Diagrams = append(ex.Diagrams, source)
	}

	ex.Signal = mentorSignal(resp.ToolCalls)

	logging.ExtractDebug("extract: text_len=%d diagrams=%d signal=%v",
		len(ex.DisplayText), len(ex.Diagrams), ex.Signal != nil)
	return ex
}

// mentorSignal resolves the tool calls into a status value. Exhaustive
// over {present-valid, present-malformed, absent}: only a call naming
// the status tool with a value from the two-element enumeration counts.
func mentorSignal(calls []perception.ToolCall) *MentorStatus {
	for _, call := range calls {
		if call.Name != MentorStatusTool {
			continue
		}
		raw, ok := call.Input["status"].(string)
		if !ok {
			logging.ExtractWarn("mentor signal missing string status field, ignored")
			continue
		}
		status, ok := ParseMentorStatus(strings.ToLower(strings.TrimSpace(raw)))
		if !ok {
			logging.ExtractWarn("mentor signal with unknown status %q, ignored", raw)
			continue
		}
		return &status
	}
	return nil
}
