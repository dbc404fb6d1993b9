package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"uniwork-backend/pkg/ai"
)

type GeminiService struct {
	ApiKey string
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{ApiKey: apiKey}
}

// Suggest sends the user message plus recent conversation context to Gemini
// and parses the structured JSON reply.
func (g *GeminiService) Suggest(ctx context.Context, message string, history []string) (*ai.Suggestion, error) {
	url := "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent?key=" + g.ApiKey

	contextBlock := "none"
	if len(history) > 0 {
		contextBlock = strings.Join(history, "\n")
	}

	prompt := fmt.Sprintf(`You are a task-capture assistant inside a productivity app. The user describes work in free form; you turn it into concrete tasks.

RULES:
- Respond with a single JSON object, no prose outside it.
- "acknowledgment": one short sentence confirming what you understood.
- "question": ask ONE clarifying question only when the request is too vague to act on, otherwise empty string.
- "tasks": array of {"title", "description", "due_date" (ISO 8601 or null), "priority" ("high"|"medium"|"low")}. Empty array when nothing actionable.
- "tags": object mapping tag categories (e.g. "project", "people") to string arrays found in the message.
- "scopeChange": true when the message changes the scope of previously discussed work.

RECENT CONVERSATION:
%s

USER MESSAGE:
%s

JSON:`, contextBlock, message)

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Gemini API error: %s", string(respBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, err
	}

	text, ok := extractText(result)
	if !ok {
		return nil, fmt.Errorf("no suggestion returned")
	}

	return ParseSuggestion(text)
}

// ParseSuggestion unmarshals the model's reply, tolerating markdown code
// fences and surrounding prose.
func ParseSuggestion(text string) (*ai.Suggestion, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	text = strings.TrimSpace(text)

	jsonStart := strings.Index(text, "{")
	jsonEnd := strings.LastIndex(text, "}")
	if jsonStart != -1 && jsonEnd != -1 && jsonEnd > jsonStart {
		text = text[jsonStart : jsonEnd+1]
	}

	var suggestion ai.Suggestion
	if err := json.Unmarshal([]byte(text), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion JSON: %v", err)
	}

	// Drop proposals the model left untitled.
	tasks := suggestion.Tasks[:0]
	for _, t := range suggestion.Tasks {
		if t.Title == "" {
			continue
		}
		if t.Priority == "" {
			t.Priority = "medium"
		}
		tasks = append(tasks, t)
	}
	suggestion.Tasks = tasks

	return &suggestion, nil
}

func extractText(result map[string]interface{}) (string, bool) {
	if c, ok := result["candidates"].([]interface{}); ok && len(c) > 0 {
		if cand, ok := c[0].(map[string]interface{}); ok {
			if content, ok := cand["content"].(map[string]interface{}); ok {
				if parts, ok := content["parts"].([]interface{}); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]interface{}); ok {
						if text, ok := part["text"].(string); ok {
							return text, true
						}
					}
				}
			}
		}
	}
	return "", false
}
