package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/artliftbot/core/logger"
	"github.com/m3rciful/artliftbot/core/telegram/format"
	"github.com/m3rciful/artliftbot/internal/domain"
)

// questionPreviewRunes caps the question excerpt in the admin notification.
const questionPreviewRunes = 100

// QuestionStore is the persistence surface used by QuestionService.
type QuestionStore interface {
	Create(ctx context.Context, userID int64, text string) (int64, error)
	Get(ctx context.Context, questionID int64) (domain.PendingQuestion, error)
	Answer(ctx context.Context, questionID, reviewerID int64, answer string) (bool, error)
	ListPending(ctx context.Context, limit, offset int) ([]domain.PendingQuestion, error)
	CountPending(ctx context.Context) (int, error)
}

// QuestionService runs the user-to-admin ticket channel: users file
// questions, admins answer them exactly once.
type QuestionService struct {
	store    QuestionStore
	renderer Renderer
	notifier UserNotifier
}

func NewQuestionService(store QuestionStore, renderer Renderer, notifier UserNotifier) *QuestionService {
	return &QuestionService{store: store, renderer: renderer, notifier: notifier}
}

// Ask files a new question and notifies the admins. Admin notification is
// best effort; the ticket is persisted regardless.
func (s *QuestionService) Ask(ctx context.Context, userID int64, text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, domain.ErrEmptyInput
	}

	id, err := s.store.Create(ctx, userID, text)
	if err != nil {
		return 0, fmt.Errorf("create question: %w", err)
	}

	notified := s.notifier.NotifyAdmins(ctx, s.adminAskText(id, userID, text), nil)
	logger.Info(ctx, "service.questions", "question.asked",
		slog.String("status", "ok"),
		slog.Int64("question_id", id),
		slog.Int64("user_id", userID),
		slog.Int("admins_notified", notified),
	)
	return id, nil
}

// Answer records the reviewer's answer on a pending question and delivers it
// to the asker. A question can be answered once: a second answer fails with
// ErrInvalidState. Delivery failure does not roll the answer back.
func (s *QuestionService) Answer(ctx context.Context, questionID, reviewerID int64, answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return domain.ErrEmptyInput
	}

	question, err := s.store.Get(ctx, questionID)
	if err != nil {
		return err
	}

	answered, err := s.store.Answer(ctx, questionID, reviewerID, answer)
	if err != nil {
		return fmt.Errorf("answer question %d: %w", questionID, err)
	}
	if !answered {
		return fmt.Errorf("%w: question %d is already answered", domain.ErrInvalidState, questionID)
	}

	logger.Info(ctx, "service.questions", "question.answered",
		slog.String("status", "ok"),
		slog.Int64("question_id", questionID),
		slog.Int64("user_id", question.UserID),
		slog.Int64("reviewer_id", reviewerID),
	)

	text := s.answerText(ctx, question.Text, answer)
	if err := s.notifier.NotifyUser(ctx, question.UserID, text, nil); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}
	return nil
}

// Get returns one question with its asker attached.
func (s *QuestionService) Get(ctx context.Context, questionID int64) (domain.PendingQuestion, error) {
	return s.store.Get(ctx, questionID)
}

// ListPending returns unanswered questions, oldest first.
func (s *QuestionService) ListPending(ctx context.Context, limit, offset int) ([]domain.PendingQuestion, error) {
	return s.store.ListPending(ctx, limit, offset)
}

// CountPending returns the number of unanswered questions.
func (s *QuestionService) CountPending(ctx context.Context) (int, error) {
	return s.store.CountPending(ctx)
}

func (s *QuestionService) adminAskText(id, userID int64, text string) string {
	preview := format.EscapeHTML(format.TruncateRunes(text, questionPreviewRunes))
	return fmt.Sprintf("❓ Новый вопрос #%d от пользователя %d:\n\n%s", id, userID, preview)
}

func (s *QuestionService) answerText(ctx context.Context, question, answer string) string {
	question = format.EscapeHTML(question)
	answer = format.EscapeHTML(answer)
	rendered, err := s.renderer.Render(ctx, TplQuestionAnswer, map[string]string{
		"question": question,
		"answer":   answer,
	})
	if err == nil {
		return rendered
	}
	return fmt.Sprintf("💬 Ответ на ваш вопрос:\n\n<i>%s</i>\n\n%s", question, answer)
}
