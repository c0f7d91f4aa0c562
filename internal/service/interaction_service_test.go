package service

import (
	"context"
	"errors"
	"testing"

	"blogapp/internal/models"
	"blogapp/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// interactionRepoStub is a stub for repository.InteractionRepository.
type interactionRepoStub struct {
	toggleLikeFn     func(context.Context, uint, uint) (repository.LikeToggle, error)
	toggleBookmarkFn func(context.Context, uint, uint) (bool, error)
}

func (s *interactionRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (repository.LikeToggle, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}
func (s *interactionRepoStub) ToggleBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	return s.toggleBookmarkFn(ctx, userID, postID)
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) (*models.Notification, error)
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	setReplyFn      func(context.Context, uint, string) error
	listForAuthorFn func(context.Context, uint) ([]models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) (*models.Notification, error) {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) SetReply(ctx context.Context, id uint, reply string) error {
	return s.setReplyFn(ctx, id, reply)
}
func (s *commentRepoStub) ListForAuthor(ctx context.Context, authorID uint) ([]models.Comment, error) {
	return s.listForAuthorFn(ctx, authorID)
}

// notificationRepoStub is a stub for repository.NotificationRepository.
type notificationRepoStub struct {
	listUnseenFn func(context.Context, uint) ([]models.Notification, error)
	getByIDFn    func(context.Context, uint) (*models.Notification, error)
	markSeenFn   func(context.Context, uint) error
}

func (s *notificationRepoStub) ListUnseen(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.listUnseenFn(ctx, userID)
}
func (s *notificationRepoStub) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	return s.getByIDFn(ctx, id)
}
func (s *notificationRepoStub) MarkSeen(ctx context.Context, id uint) error {
	return s.markSeenFn(ctx, id)
}

type publisherStub struct {
	published []*models.Notification
	err       error
}

func (p *publisherStub) PublishNotification(_ context.Context, n *models.Notification) error {
	p.published = append(p.published, n)
	return p.err
}

func TestInteractionService_ToggleLikeDefaultsToCaller(t *testing.T) {
	var gotUser, gotPost uint
	postID := uint(5)
	repo := &interactionRepoStub{toggleLikeFn: func(_ context.Context, userID, pid uint) (repository.LikeToggle, error) {
		gotUser, gotPost = userID, pid
		return repository.LikeToggle{
			Liked:        true,
			Notification: &models.Notification{ID: 1, UserID: 9, PostID: &postID, Type: models.NotificationLike},
		}, nil
	}}
	pub := &publisherStub{}
	svc := NewInteractionService(repo, nil, nil, pub)

	liked, err := svc.ToggleLike(context.Background(), 1, ToggleInput{PostID: postID})
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, uint(1), gotUser)
	assert.Equal(t, postID, gotPost)
	require.Len(t, pub.published, 1)
	assert.Equal(t, uint(9), pub.published[0].UserID)
}

func TestInteractionService_UnlikePublishesNothing(t *testing.T) {
	repo := &interactionRepoStub{toggleLikeFn: func(context.Context, uint, uint) (repository.LikeToggle, error) {
		return repository.LikeToggle{Liked: false}, nil
	}}
	pub := &publisherStub{}
	svc := NewInteractionService(repo, nil, nil, pub)

	liked, err := svc.ToggleLike(context.Background(), 1, ToggleInput{UserID: 1, PostID: 5})
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Empty(t, pub.published)
}

func TestInteractionService_PublishFailureDoesNotFailLike(t *testing.T) {
	repo := &interactionRepoStub{toggleLikeFn: func(context.Context, uint, uint) (repository.LikeToggle, error) {
		return repository.LikeToggle{Liked: true, Notification: &models.Notification{ID: 3, UserID: 2}}, nil
	}}
	svc := NewInteractionService(repo, nil, nil, &publisherStub{err: errors.New("redis down")})

	liked, err := svc.ToggleLike(context.Background(), 1, ToggleInput{PostID: 5})
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestInteractionService_ToggleRejectsOtherUser(t *testing.T) {
	called := false
	repo := &interactionRepoStub{
		toggleLikeFn: func(context.Context, uint, uint) (repository.LikeToggle, error) {
			called = true
			return repository.LikeToggle{}, nil
		},
		toggleBookmarkFn: func(context.Context, uint, uint) (bool, error) {
			called = true
			return false, nil
		},
	}
	svc := NewInteractionService(repo, nil, nil, nil)

	_, err := svc.ToggleLike(context.Background(), 1, ToggleInput{UserID: 2, PostID: 5})
	assert.Equal(t, 403, models.StatusFor(err))
	_, err = svc.ToggleBookmark(context.Background(), 1, ToggleInput{UserID: 2, PostID: 5})
	assert.Equal(t, 403, models.StatusFor(err))
	assert.False(t, called)
}

func TestInteractionService_ToggleRequiresPost(t *testing.T) {
	svc := NewInteractionService(&interactionRepoStub{}, nil, nil, nil)

	_, err := svc.ToggleBookmark(context.Background(), 1, ToggleInput{})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "post_id")
}

func TestInteractionService_CommentValidatesAndPublishes(t *testing.T) {
	var stored *models.Comment
	comments := &commentRepoStub{createFn: func(_ context.Context, c *models.Comment) (*models.Notification, error) {
		stored = c
		return &models.Notification{ID: 4, UserID: 9, Type: models.NotificationComment}, nil
	}}
	pub := &publisherStub{}
	svc := NewInteractionService(nil, comments, nil, pub)

	_, err := svc.Comment(context.Background(), CommentInput{PostID: 1, Name: "Ann", Email: "nope", Comment: "hi"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "email")
	assert.Nil(t, stored)

	c, err := svc.Comment(context.Background(), CommentInput{PostID: 1, Name: " Ann ", Email: "ann@example.com", Comment: "Nice post"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", c.Name)
	require.Len(t, pub.published, 1)
	assert.Equal(t, models.NotificationComment, pub.published[0].Type)
}

func TestInteractionService_Reply(t *testing.T) {
	var replied string
	comments := &commentRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			if id != 7 {
				return nil, models.NewNotFoundError("Comment", id)
			}
			return &models.Comment{ID: 7, PostID: 5, Post: &models.Post{ID: 5, UserID: 1}}, nil
		},
		setReplyFn: func(_ context.Context, _ uint, reply string) error {
			replied = reply
			return nil
		},
	}
	svc := NewInteractionService(nil, comments, nil, nil)
	ctx := context.Background()

	err := svc.Reply(ctx, 2, ReplyInput{CommentID: 7, Reply: "thanks"})
	assert.Equal(t, 403, models.StatusFor(err))
	assert.Empty(t, replied)

	err = svc.Reply(ctx, 1, ReplyInput{CommentID: 8, Reply: "thanks"})
	assert.True(t, models.IsNotFound(err))

	require.NoError(t, svc.Reply(ctx, 1, ReplyInput{CommentID: 7, Reply: " thanks "}))
	assert.Equal(t, "thanks", replied)
}

func TestInteractionService_MarkSeen(t *testing.T) {
	marked := 0
	notifications := &notificationRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Notification, error) {
			if id == 404 {
				return nil, models.NewNotFoundError("Notification", id)
			}
			return &models.Notification{ID: id, UserID: 1}, nil
		},
		markSeenFn: func(context.Context, uint) error {
			marked++
			return nil
		},
	}
	svc := NewInteractionService(nil, nil, notifications, nil)
	ctx := context.Background()

	assert.Equal(t, 403, models.StatusFor(svc.MarkSeen(ctx, 2, 10)))
	assert.Equal(t, 404, models.StatusFor(svc.MarkSeen(ctx, 1, 404)))
	assert.Equal(t, 400, models.StatusFor(svc.MarkSeen(ctx, 1, 0)))
	require.NoError(t, svc.MarkSeen(ctx, 1, 10))
	require.NoError(t, svc.MarkSeen(ctx, 1, 10))
	assert.Equal(t, 2, marked)
}

func TestInteractionService_ListsAreOwnerScoped(t *testing.T) {
	comments := &commentRepoStub{listForAuthorFn: func(context.Context, uint) ([]models.Comment, error) {
		return []models.Comment{{ID: 1}}, nil
	}}
	notifications := &notificationRepoStub{listUnseenFn: func(context.Context, uint) ([]models.Notification, error) {
		return []models.Notification{{ID: 1}}, nil
	}}
	svc := NewInteractionService(nil, comments, notifications, nil)
	ctx := context.Background()

	_, err := svc.ListComments(ctx, 1, 2)
	assert.Equal(t, 403, models.StatusFor(err))
	_, err = svc.ListNotifications(ctx, 1, 2)
	assert.Equal(t, 403, models.StatusFor(err))

	list, err := svc.ListComments(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	noti, err := svc.ListNotifications(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, noti, 1)
}
