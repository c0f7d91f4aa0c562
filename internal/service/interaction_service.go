package service

import (
	"context"
	"log/slog"
	"strings"

	"blogapp/internal/middleware"
	"blogapp/internal/models"
	"blogapp/internal/observability"
	"blogapp/internal/repository"
	"blogapp/internal/validation"
)

// NotificationPublisher hands a committed notification to the delivery channel.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, n *models.Notification) error
}

// ToggleInput is the body of the like and bookmark endpoints. UserID defaults
// to the caller.
type ToggleInput struct {
	UserID uint `json:"user_id"`
	PostID uint `json:"post_id" validate:"required"`
}

// CommentInput is the public comment payload.
type CommentInput struct {
	PostID  uint   `json:"post_id" validate:"required"`
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=100"`
	Comment string `json:"comment" validate:"required"`
}

// ReplyInput is the author's reply to a comment.
type ReplyInput struct {
	CommentID uint   `json:"comment_id" validate:"required"`
	Reply     string `json:"reply" validate:"required"`
}

type InteractionService struct {
	interactions  repository.InteractionRepository
	comments      repository.CommentRepository
	notifications repository.NotificationRepository
	publisher     NotificationPublisher
}

func NewInteractionService(
	interactions repository.InteractionRepository,
	comments repository.CommentRepository,
	notifications repository.NotificationRepository,
	publisher NotificationPublisher,
) *InteractionService {
	return &InteractionService{
		interactions:  interactions,
		comments:      comments,
		notifications: notifications,
		publisher:     publisher,
	}
}

// ToggleLike likes the post for the caller or removes an existing like.
// It reports whether the post is liked afterwards.
func (s *InteractionService) ToggleLike(ctx context.Context, callerID uint, in ToggleInput) (bool, error) {
	ctx, span := observability.StartSpan(ctx, "InteractionService", "ToggleLike")
	defer span.End()

	if err := s.checkToggle(callerID, &in); err != nil {
		return false, err
	}
	result, err := s.interactions.ToggleLike(ctx, in.UserID, in.PostID)
	if err != nil {
		span.SetError(err)
		return false, err
	}
	observability.InteractionToggles.WithLabelValues("like", toggleAction(result.Liked)).Inc()
	s.publish(ctx, result.Notification)
	return result.Liked, nil
}

// ToggleBookmark bookmarks the post for the caller or removes the bookmark.
func (s *InteractionService) ToggleBookmark(ctx context.Context, callerID uint, in ToggleInput) (bool, error) {
	ctx, span := observability.StartSpan(ctx, "InteractionService", "ToggleBookmark")
	defer span.End()

	if err := s.checkToggle(callerID, &in); err != nil {
		return false, err
	}
	added, err := s.interactions.ToggleBookmark(ctx, in.UserID, in.PostID)
	if err != nil {
		span.SetError(err)
		return false, err
	}
	observability.InteractionToggles.WithLabelValues("bookmark", toggleAction(added)).Inc()
	return added, nil
}

// Comment stores an anonymous comment and notifies the post's author.
func (s *InteractionService) Comment(ctx context.Context, in CommentInput) (*models.Comment, error) {
	ctx, span := observability.StartSpan(ctx, "InteractionService", "Comment")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:  in.PostID,
		Name:    in.Name,
		Email:   in.Email,
		Comment: in.Comment,
	}
	n, err := s.comments.Create(ctx, comment)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	s.publish(ctx, n)
	return comment, nil
}

// Reply sets the reply on a comment. Only the author of the commented post may reply.
func (s *InteractionService) Reply(ctx context.Context, callerID uint, in ReplyInput) error {
	in.Reply = strings.TrimSpace(in.Reply)
	if err := validation.ValidateStruct(in); err != nil {
		return err
	}

	comment, err := s.comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.Post == nil || comment.Post.UserID != callerID {
		return models.NewForbiddenError("Only the post's author can reply to this comment")
	}
	return s.comments.SetReply(ctx, comment.ID, in.Reply)
}

func (s *InteractionService) ListComments(ctx context.Context, callerID, userID uint) ([]models.Comment, error) {
	if err := requireSelf(callerID, userID); err != nil {
		return nil, err
	}
	return s.comments.ListForAuthor(ctx, userID)
}

func (s *InteractionService) ListNotifications(ctx context.Context, callerID, userID uint) ([]models.Notification, error) {
	if err := requireSelf(callerID, userID); err != nil {
		return nil, err
	}
	return s.notifications.ListUnseen(ctx, userID)
}

// MarkSeen acknowledges a notification addressed to the caller. Repeating it is harmless.
func (s *InteractionService) MarkSeen(ctx context.Context, callerID, notificationID uint) error {
	if notificationID == 0 {
		return models.NewFieldValidationError("Validation failed", map[string][]string{
			"noti_id": {"This field is required."},
		})
	}
	n, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != callerID {
		return models.NewForbiddenError("You can only acknowledge your own notifications")
	}
	return s.notifications.MarkSeen(ctx, n.ID)
}

func (s *InteractionService) checkToggle(callerID uint, in *ToggleInput) error {
	if in.UserID == 0 {
		in.UserID = callerID
	}
	if err := requireSelf(callerID, in.UserID); err != nil {
		return err
	}
	return validation.ValidateStruct(in)
}

// publish is best effort; the notification row is already committed.
func (s *InteractionService) publish(ctx context.Context, n *models.Notification) {
	if n == nil {
		return
	}
	observability.NotificationsCreated.WithLabelValues(n.Type).Inc()
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishNotification(ctx, n); err != nil {
		observability.NotificationPublishFailures.Inc()
		middleware.Logger.WarnContext(ctx, "failed to publish notification",
			slog.Uint64("notification_id", uint64(n.ID)),
			slog.Uint64("user_id", uint64(n.UserID)),
			slog.String("error", err.Error()),
		)
	}
}

func toggleAction(on bool) string {
	if on {
		return "add"
	}
	return "remove"
}
