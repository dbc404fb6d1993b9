package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatdomain "uniwork-backend/internal/chat/domain"
	taskdomain "uniwork-backend/internal/task/domain"
	taskusecase "uniwork-backend/internal/task/usecase"
	"uniwork-backend/pkg/ai"
)

type fakeChatRepo struct {
	messages []*chatdomain.ChatMessage
}

func (f *fakeChatRepo) Save(message *chatdomain.ChatMessage) error {
	if message.ID == "" {
		message.ID = "msg-" + message.Role
	}
	message.CreatedAt = time.Now()
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeChatRepo) Recent(userID string, limit int) ([]*chatdomain.ChatMessage, error) {
	return f.messages, nil
}

func (f *fakeChatRepo) History(userID string, limit, offset int) ([]*chatdomain.ChatMessage, error) {
	return f.messages, nil
}

func (f *fakeChatRepo) Clear(userID string) error {
	f.messages = nil
	return nil
}

type fakeAssistant struct {
	suggestion  *ai.Suggestion
	err         error
	lastHistory []string
}

func (f *fakeAssistant) Suggest(ctx context.Context, message string, history []string) (*ai.Suggestion, error) {
	f.lastHistory = history
	return f.suggestion, f.err
}

type fakeTaskUsecase struct {
	taskusecase.TaskUsecase
	createdFrom string
	createdTags []string
}

func (f *fakeTaskUsecase) CreateFromSuggestions(userID, chatMessageID string, suggestions []ai.TaskSuggestion, tags []string) ([]*taskdomain.Task, error) {
	f.createdFrom = chatMessageID
	f.createdTags = tags
	var out []*taskdomain.Task
	for _, s := range suggestions {
		out = append(out, &taskdomain.Task{Title: s.Title, ChatMessageID: chatMessageID})
	}
	return out, nil
}

func TestConverseCreatesTasksAndStoresBothTurns(t *testing.T) {
	repo := &fakeChatRepo{}
	tasks := &fakeTaskUsecase{}
	assistant := &fakeAssistant{suggestion: &ai.Suggestion{
		Acknowledgment: "Noted, two tasks captured.",
		Tasks: []ai.TaskSuggestion{
			{Title: "Draft outline", Priority: "high"},
			{Title: "Email advisor"},
		},
		Tags: map[string][]string{"project": {"thesis"}},
	}}

	reply, err := NewChatUsecase(repo, tasks, assistant).Converse(context.Background(), "u1", "start my thesis")
	require.NoError(t, err)

	require.Len(t, repo.messages, 2)
	assert.Equal(t, chatdomain.RoleUser, repo.messages[0].Role)
	assert.Equal(t, chatdomain.RoleAssistant, repo.messages[1].Role)
	assert.Equal(t, "Noted, two tasks captured.", reply.Message.Content)

	require.Len(t, reply.CreatedTasks, 2)
	assert.Equal(t, repo.messages[0].ID, tasks.createdFrom, "tasks link back to the user message")
	assert.Equal(t, []string{"project:thesis"}, tasks.createdTags)
}

func TestConversePrefersClarifyingQuestion(t *testing.T) {
	repo := &fakeChatRepo{}
	assistant := &fakeAssistant{suggestion: &ai.Suggestion{
		Acknowledgment: "ok",
		Question:       "Which course is this for?",
	}}

	reply, err := NewChatUsecase(repo, &fakeTaskUsecase{}, assistant).Converse(context.Background(), "u1", "add homework")
	require.NoError(t, err)
	assert.Equal(t, "Which course is this for?", reply.Message.Content)
	assert.Empty(t, reply.CreatedTasks)
}

func TestConversePassesHistory(t *testing.T) {
	repo := &fakeChatRepo{}
	require.NoError(t, repo.Save(&chatdomain.ChatMessage{UserID: "u1", Role: chatdomain.RoleUser, Content: "earlier"}))
	assistant := &fakeAssistant{suggestion: &ai.Suggestion{Acknowledgment: "ok"}}

	_, err := NewChatUsecase(repo, &fakeTaskUsecase{}, assistant).Converse(context.Background(), "u1", "next")
	require.NoError(t, err)
	require.Len(t, assistant.lastHistory, 1)
	assert.Equal(t, "user: earlier", assistant.lastHistory[0])
}

func TestConverseAssistantFailure(t *testing.T) {
	repo := &fakeChatRepo{}
	assistant := &fakeAssistant{err: errors.New("model unavailable")}

	_, err := NewChatUsecase(repo, &fakeTaskUsecase{}, assistant).Converse(context.Background(), "u1", "hello")
	assert.Error(t, err)
}
