package ai

import "context"

// TaskSuggestion is one actionable task proposed by the assistant.
type TaskSuggestion struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    string  `json:"priority"`
}

// Suggestion is the assistant's structured reply to a chat message.
// Question is set when the assistant needs clarification before it can
// commit to tasks; Tasks may still carry partial proposals alongside it.
type Suggestion struct {
	Acknowledgment string              `json:"acknowledgment"`
	Question       string              `json:"question,omitempty"`
	Tasks          []TaskSuggestion    `json:"tasks"`
	Tags           map[string][]string `json:"tags,omitempty"`
	ScopeChange    bool                `json:"scopeChange"`
}

// Assistant turns free-form chat into task suggestions.
// Implement this interface to add new AI providers.
type Assistant interface {
	Suggest(ctx context.Context, message string, history []string) (*Suggestion, error)
}
