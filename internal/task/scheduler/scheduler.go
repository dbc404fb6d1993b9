package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	authrepo "uniwork-backend/internal/auth/repository"
	"uniwork-backend/internal/task/repository"
	"uniwork-backend/pkg/fcm"
)

// TaskReminderScheduler sends push reminders for tasks whose reminder time
// has passed.
type TaskReminderScheduler struct {
	taskRepo  repository.TaskRepository
	fcmRepo   authrepo.FCMTokenRepository
	fcmClient *fcm.Client
	interval  time.Duration
	stopChan  chan struct{}
}

// NewTaskReminderScheduler creates a new scheduler
func NewTaskReminderScheduler(
	taskRepo repository.TaskRepository,
	fcmRepo authrepo.FCMTokenRepository,
	fcmClient *fcm.Client,
) *TaskReminderScheduler {
	return &TaskReminderScheduler{
		taskRepo:  taskRepo,
		fcmRepo:   fcmRepo,
		fcmClient: fcmClient,
		interval:  1 * time.Minute,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *TaskReminderScheduler) Start() {
	if s.fcmClient == nil {
		log.Println("[TaskScheduler] FCM client not available, scheduler disabled")
		return
	}

	log.Println("[TaskScheduler] starting task reminder scheduler")

	go func() {
		s.checkAndSendReminders()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.checkAndSendReminders()
			case <-s.stopChan:
				log.Println("[TaskScheduler] scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *TaskReminderScheduler) Stop() {
	close(s.stopChan)
}

func (s *TaskReminderScheduler) checkAndSendReminders() {
	tasks, err := s.taskRepo.FindPendingReminders(time.Now())
	if err != nil {
		log.Printf("[TaskScheduler] error finding pending reminders: %v", err)
		return
	}
	if len(tasks) == 0 {
		return
	}

	for _, task := range tasks {
		tokens, err := s.fcmRepo.GetTokensByUserID(task.UserID)
		if err != nil {
			log.Printf("[TaskScheduler] error getting device tokens for user %s: %v", task.UserID, err)
			continue
		}

		if len(tokens) == 0 {
			// No devices to notify; mark the reminder so it is not re-checked
			// every tick.
			s.taskRepo.MarkReminderSent(task.ID)
			continue
		}

		body := task.Description
		if body == "" {
			body = "You have a task waiting"
		}
		if task.DueDate != nil {
			body = fmt.Sprintf("%s (due %s)", body, task.DueDate.Format("Jan 2, 15:04"))
		}

		var tokenStrings []string
		for _, t := range tokens {
			tokenStrings = append(tokenStrings, t.Token)
		}

		stale, err := s.fcmClient.SendReminder(context.Background(), tokenStrings, fcm.Reminder{
			Title: "Reminder: " + task.Title,
			Body:  body,
			Data: map[string]string{
				"type":     "task_reminder",
				"task_id":  task.ID,
				"priority": string(task.Priority),
			},
		})
		if err != nil {
			log.Printf("[TaskScheduler] error sending reminder for task %s: %v", task.ID, err)
		}

		for _, token := range stale {
			s.fcmRepo.DeleteToken(token)
		}

		// Sent once, successful or not; a reminder never repeats.
		if err := s.taskRepo.MarkReminderSent(task.ID); err != nil {
			log.Printf("[TaskScheduler] error marking reminder sent for task %s: %v", task.ID, err)
		}
	}
}
