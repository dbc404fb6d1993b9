package usecase

import (
	"context"
	"fmt"

	chatdomain "uniwork-backend/internal/chat/domain"
	"uniwork-backend/internal/chat/repository"
	taskdomain "uniwork-backend/internal/task/domain"
	taskusecase "uniwork-backend/internal/task/usecase"
	"uniwork-backend/pkg/ai"
)

const contextWindow = 10

// ChatReply is what one user turn produces: the assistant's reply and any
// tasks that were captured from it.
type ChatReply struct {
	Message      *chatdomain.ChatMessage `json:"message"`
	Suggestion   *ai.Suggestion          `json:"suggestion"`
	CreatedTasks []*taskdomain.Task      `json:"created_tasks"`
}

// ChatUsecase defines the interface for the task-capture conversation
type ChatUsecase interface {
	// Converse handles one user message end to end: store it, ask the
	// assistant, store the reply, materialize suggested tasks
	Converse(ctx context.Context, userID, message string) (*ChatReply, error)
	// History returns the stored conversation, newest first
	History(userID string, limit, offset int) ([]*chatdomain.ChatMessage, error)
	// Clear wipes the conversation
	Clear(userID string) error
}

type chatUsecase struct {
	chatRepo  repository.ChatRepository
	taskUc    taskusecase.TaskUsecase
	assistant ai.Assistant
}

func NewChatUsecase(chatRepo repository.ChatRepository, taskUc taskusecase.TaskUsecase, assistant ai.Assistant) ChatUsecase {
	return &chatUsecase{
		chatRepo:  chatRepo,
		taskUc:    taskUc,
		assistant: assistant,
	}
}

func (u *chatUsecase) Converse(ctx context.Context, userID, message string) (*ChatReply, error) {
	recent, err := u.chatRepo.Recent(userID, contextWindow)
	if err != nil {
		return nil, err
	}

	var history []string
	for _, m := range recent {
		history = append(history, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}

	userMsg := &chatdomain.ChatMessage{
		UserID:  userID,
		Role:    chatdomain.RoleUser,
		Content: message,
	}
	if err := u.chatRepo.Save(userMsg); err != nil {
		return nil, err
	}

	suggestion, err := u.assistant.Suggest(ctx, message, history)
	if err != nil {
		return nil, fmt.Errorf("assistant failed: %w", err)
	}

	replyText := suggestion.Acknowledgment
	if suggestion.Question != "" {
		replyText = suggestion.Question
	}
	assistantMsg := &chatdomain.ChatMessage{
		UserID:  userID,
		Role:    chatdomain.RoleAssistant,
		Content: replyText,
		Tags:    suggestion.Tags,
	}
	if err := u.chatRepo.Save(assistantMsg); err != nil {
		return nil, err
	}

	var tasks []*taskdomain.Task
	if len(suggestion.Tasks) > 0 {
		tasks, err = u.taskUc.CreateFromSuggestions(userID, userMsg.ID, suggestion.Tasks, flattenTags(suggestion.Tags))
		if err != nil {
			return nil, err
		}
	}

	return &ChatReply{
		Message:      assistantMsg,
		Suggestion:   suggestion,
		CreatedTasks: tasks,
	}, nil
}

func (u *chatUsecase) History(userID string, limit, offset int) ([]*chatdomain.ChatMessage, error) {
	return u.chatRepo.History(userID, limit, offset)
}

func (u *chatUsecase) Clear(userID string) error {
	return u.chatRepo.Clear(userID)
}

// flattenTags turns the assistant's categorized tags into "category:value"
// strings for task rows.
func flattenTags(tags map[string][]string) []string {
	var out []string
	for category, values := range tags {
		for _, v := range values {
			out = append(out, category+":"+v)
		}
	}
	return out
}
