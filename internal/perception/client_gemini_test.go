package perception

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(serverURL string) *GeminiClient {
	return NewGeminiClientWithConfig(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Model:   "gemini-2.0-flash",
		Timeout: 5 * time.Second,
	})
}

func textResponse(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}],"role":"model"},"finishReason":"STOP"}]}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestCompleteConversationRequestShape(t *testing.T) {
	var captured GeminiRequest
	var path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Write([]byte(textResponse("reply")))
	}))
	defer server.Close()

	client := testClient(server.URL)
	turns := []ConversationTurn{
		{Role: "user", Text: "question"},
		{Role: "model", Text: "hint"},
		{Role: "user", Text: "followup"},
	}
	tools := []ToolDefinition{{
		Name:        "update_learning_status",
		Description: "report status",
		InputSchema: map[string]interface{}{"type": "object"},
	}}

	resp, err := client.CompleteConversation(context.Background(), "be brief", turns, tools)
	if err != nil {
		t.Fatalf("CompleteConversation() error: %v", err)
	}
	if resp.Text != "reply" {
		t.Fatalf("text = %q", resp.Text)
	}

	if path != "/models/gemini-2.0-flash:generateContent" {
		t.Fatalf("request path = %q", path)
	}

	if len(captured.Contents) != 3 {
		t.Fatalf("request has %d contents, want 3", len(captured.Contents))
	}
	wantRoles := []string{"user", "model", "user"}
	for i, c := range captured.Contents {
		if c.Role != wantRoles[i] {
			t.Fatalf("content %d role = %q, want %q", i, c.Role, wantRoles[i])
		}
	}
	if captured.Contents[2].Parts[0].Text != "followup" {
		t.Fatalf("trailing content text = %q", captured.Contents[2].Parts[0].Text)
	}

	if captured.SystemInstruction == nil || captured.SystemInstruction.Parts[0].Text != "be brief" {
		t.Fatalf("systemInstruction = %+v", captured.SystemInstruction)
	}

	if len(captured.Tools) != 1 || len(captured.Tools[0].FunctionDeclarations) != 1 {
		t.Fatalf("tools = %+v", captured.Tools)
	}
	if captured.Tools[0].FunctionDeclarations[0].Name != "update_learning_status" {
		t.Fatalf("declared function = %q", captured.Tools[0].FunctionDeclarations[0].Name)
	}
}

func TestCompleteConversationParsesFunctionCall(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[
		{"text":"Well reasoned. "},
		{"functionCall":{"name":"update_learning_status","args":{"status":"satisfied"}}},
		{"text":"Keep going."}
	],"role":"model"},"finishReason":"STOP"}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := testClient(server.URL)
	resp, err := client.CompleteConversation(context.Background(), "", []ConversationTurn{{Role: "user", Text: "hi"}}, nil)
	if err != nil {
		t.Fatalf("CompleteConversation() error: %v", err)
	}

	if resp.Text != "Well reasoned. Keep going." {
		t.Fatalf("text = %q", resp.Text)
	}
	if len(resp.ToolCalls) != 1 {
		t.Fatalf("tool calls = %d, want 1", len(resp.ToolCalls))
	}
	call := resp.ToolCalls[0]
	if call.Name != "update_learning_status" {
		t.Fatalf("tool call name = %q", call.Name)
	}
	if status, _ := call.Input["status"].(string); status != "satisfied" {
		t.Fatalf("tool call status = %v", call.Input["status"])
	}
	if resp.StopReason != "STOP" {
		t.Fatalf("stop reason = %q", resp.StopReason)
	}
}

func TestCompleteConversationExactlyOneNetworkCall(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	start := time.Now()
	_, err := client.CompleteConversation(context.Background(), "", []ConversationTurn{{Role: "user", Text: "hi"}}, nil)
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error = %v, want rate limit mention", err)
	}

	// The call fails as a unit: one request, no retry, no backoff sleep.
	if got := calls.Load(); got != 1 {
		t.Fatalf("network calls = %d, want 1", got)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("call took %v, suggesting a backoff sleep", elapsed)
	}
}

func TestCompleteConversationTransportErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if hj, ok := w.(http.Hijacker); ok {
			conn, _, _ := hj.Hijack()
			conn.Close() // drop mid-exchange
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.CompleteConversation(context.Background(), "", []ConversationTurn{{Role: "user", Text: "hi"}}, nil)
	if err == nil {
		t.Fatal("expected error for dropped connection")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("network calls = %d, want 1", got)
	}
}

func TestCompleteConversationNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"bad request"}}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.CompleteConversation(context.Background(), "", []ConversationTurn{{Role: "user", Text: "hi"}}, nil)
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("error = %v, want status 400 mention", err)
	}
}

func TestCompleteConversationMissingAPIKey(t *testing.T) {
	client := NewGeminiClientWithConfig(GeminiConfig{BaseURL: "http://unused"})
	_, err := client.CompleteConversation(context.Background(), "", []ConversationTurn{{Role: "user", Text: "hi"}}, nil)
	if err == nil || !strings.Contains(err.Error(), "API key") {
		t.Fatalf("error = %v, want API key error", err)
	}
}

func TestCompleteConversationNoTurns(t *testing.T) {
	client := NewGeminiClientWithConfig(GeminiConfig{APIKey: "k", BaseURL: "http://unused"})
	if _, err := client.CompleteConversation(context.Background(), "", nil, nil); err == nil {
		t.Fatal("expected error for empty conversation")
	}
}

func TestCompleteConversationNormalizesUnknownRole(t *testing.T) {
	var captured GeminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(textResponse("ok")))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.CompleteConversation(context.Background(), "", []ConversationTurn{{Role: "assistant", Text: "hi"}}, nil)
	if err != nil {
		t.Fatalf("CompleteConversation() error: %v", err)
	}
	if captured.Contents[0].Role != "user" {
		t.Fatalf("unknown role sent as %q, want user", captured.Contents[0].Role)
	}
}

func TestCompleteWithSystemDelegates(t *testing.T) {
	var captured GeminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(textResponse("a definition")))
	}))
	defer server.Close()

	client := testClient(server.URL)
	got, err := client.CompleteWithSystem(context.Background(), "define terms", "what is a slice")
	if err != nil {
		t.Fatalf("CompleteWithSystem() error: %v", err)
	}
	if got != "a definition" {
		t.Fatalf("text = %q", got)
	}
	if len(captured.Contents) != 1 || captured.Contents[0].Role != "user" {
		t.Fatalf("contents = %+v", captured.Contents)
	}
	if captured.SystemInstruction == nil {
		t.Fatal("systemInstruction missing")
	}
	if len(captured.Tools) != 0 {
		t.Fatalf("single-prompt request declared tools: %+v", captured.Tools)
	}
}
