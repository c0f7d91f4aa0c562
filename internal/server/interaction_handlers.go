package server

import (
	"blogapp/internal/models"
	"blogapp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// toggleRequest is the body of the like and bookmark endpoints. Ids may be
// numbers or numeric strings.
type toggleRequest struct {
	UserID looseID `json:"user_id"`
	PostID looseID `json:"post_id"`
}

func (r toggleRequest) input() service.ToggleInput {
	return service.ToggleInput{UserID: r.UserID.Value, PostID: r.PostID.Value}
}

type commentRequest struct {
	PostID  looseID `json:"post_id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Comment string  `json:"comment"`
}

type replyRequest struct {
	CommentID looseID `json:"comment_id"`
	Reply     string  `json:"reply"`
}

// LikePost toggles the caller's like on a post
// @Summary Like or unlike a post
// @Tags post
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ToggleInput true "Like payload"
// @Success 201 {object} object{message=string} "Post Liked"
// @Success 200 {object} object{message=string} "Post Disliked"
// @Failure 404 {object} models.ErrorResponse
// @Router /post/like-post/ [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	var req toggleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	liked, err := s.interactionService.ToggleLike(c.UserContext(), callerID(c), req.input())
	if err != nil {
		return models.Respond(c, err)
	}
	if liked {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Post Liked"})
	}
	return c.JSON(fiber.Map{"message": "Post Disliked"})
}

// BookmarkPost toggles the caller's bookmark on a post
// @Summary Bookmark or un-bookmark a post
// @Tags post
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ToggleInput true "Bookmark payload"
// @Success 201 {object} object{message=string} "Bookmark Added"
// @Success 200 {object} object{message=string} "Bookmark Removed"
// @Router /post/bookmark-post/ [post]
func (s *Server) BookmarkPost(c *fiber.Ctx) error {
	var req toggleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	added, err := s.interactionService.ToggleBookmark(c.UserContext(), callerID(c), req.input())
	if err != nil {
		return models.Respond(c, err)
	}
	if added {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Bookmark Added"})
	}
	return c.JSON(fiber.Map{"message": "Bookmark Removed"})
}

// CommentPost adds an anonymous comment to a post
// @Summary Comment on a post
// @Tags post
// @Accept json
// @Produce json
// @Param request body service.CommentInput true "Comment payload"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /post/comment-post/ [post]
func (s *Server) CommentPost(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	in := service.CommentInput{
		PostID:  req.PostID.Value,
		Name:    req.Name,
		Email:   req.Email,
		Comment: req.Comment,
	}
	if _, err := s.interactionService.Comment(c.UserContext(), in); err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Comment Sent"})
}

// ReplyComment lets a post's author answer a comment
// @Summary Reply to a comment
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ReplyInput true "Reply payload"
// @Success 201 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /author/dashboard/reply-comment/ [post]
func (s *Server) ReplyComment(c *fiber.Ctx) error {
	var req replyRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	in := service.ReplyInput{CommentID: req.CommentID.Value, Reply: req.Reply}
	if err := s.interactionService.Reply(c.UserContext(), callerID(c), in); err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Comment response sent"})
}

// DashboardCommentList returns the comments on the author's posts
// @Summary Author comment list
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "Author ID"
// @Success 200 {array} models.Comment
// @Router /author/dashboard/comment-list/{user_id}/ [get]
func (s *Server) DashboardCommentList(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "user_id")
	if err != nil {
		return nil
	}
	comments, err := s.interactionService.ListComments(c.UserContext(), callerID(c), userID)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(comments)
}

// DashboardNotificationList returns the author's unseen notifications
// @Summary Unseen notifications
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "Author ID"
// @Success 200 {array} models.Notification
// @Router /author/dashboard/noti-list/{user_id}/ [get]
func (s *Server) DashboardNotificationList(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "user_id")
	if err != nil {
		return nil
	}
	list, err := s.interactionService.ListNotifications(c.UserContext(), callerID(c), userID)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(list)
}

// MarkNotificationSeen acknowledges one of the caller's notifications
// @Summary Mark notification seen
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{noti_id=int} true "Notification"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /author/dashboard/noti-mark-seen/ [post]
func (s *Server) MarkNotificationSeen(c *fiber.Ctx) error {
	var req struct {
		NotiID looseID `json:"noti_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := s.interactionService.MarkSeen(c.UserContext(), callerID(c), req.NotiID.Value); err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as seen"})
}
