package server

import (
	"blogapp/internal/models"
	"blogapp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postRequest is the JSON body of the post create and update endpoints.
type postRequest struct {
	UserID      looseID `json:"user_id"`
	Title       string  `json:"title"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Tags        string  `json:"tags"`
	Category    looseID `json:"category"`
	PostStatus  string  `json:"post_status"`
}

// ListCategories returns every category with its Active post count
// @Summary List categories
// @Tags post
// @Produce json
// @Success 200 {array} models.Category
// @Router /post/category/list/ [get]
func (s *Server) ListCategories(c *fiber.Ctx) error {
	categories, err := s.postService.ListCategories(c.UserContext())
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(categories)
}

// ListCategoryPosts returns the Active posts of a category
// @Summary List posts in a category
// @Tags post
// @Produce json
// @Param category_slug path string true "Category slug"
// @Success 200 {array} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /post/category/posts/{category_slug}/ [get]
func (s *Server) ListCategoryPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListCategoryPosts(c.UserContext(), c.Params("category_slug"))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(posts)
}

// ListPosts returns Active posts newest first
// @Summary List posts
// @Tags post
// @Produce json
// @Param limit query int false "Page size; omit for all posts"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Post
// @Router /post/list/ [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	page := parsePagination(c)
	posts, err := s.postService.ListPosts(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(posts)
}

// GetPostDetail returns an Active post and counts the view
// @Summary Post detail
// @Tags post
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /post/details/{slug}/ [get]
func (s *Server) GetPostDetail(c *fiber.Ctx) error {
	post, err := s.postService.ViewPost(c.UserContext(), c.Params("slug"))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(post)
}

// DashboardPostList returns all of the author's posts
// @Summary Author post list
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "Author ID"
// @Success 200 {array} models.Post
// @Router /author/dashboard/post-list/{user_id}/ [get]
func (s *Server) DashboardPostList(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "user_id")
	if err != nil {
		return nil
	}
	posts, err := s.postService.ListAuthorPosts(c.UserContext(), callerID(c), userID)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(posts)
}

// CreatePost creates a post from JSON or multipart form data
// @Summary Create post
// @Tags dashboard
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} object{message=string,post=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Router /author/dashboard/post-create/ [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	in, err := bindPostInput(c)
	if err != nil {
		return models.Respond(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), callerID(c), in)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    post,
	})
}

// GetAuthorPost returns one of the author's posts in any status
// @Summary Author post detail
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "Author ID"
// @Param post_id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /author/dashboard/post-detail/{user_id}/{post_id}/ [get]
func (s *Server) GetAuthorPost(c *fiber.Ctx) error {
	userID, postID, ok := s.authorPostParams(c)
	if !ok {
		return nil
	}
	post, err := s.postService.GetAuthorPost(c.UserContext(), callerID(c), userID, postID)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(post)
}

// UpdatePost edits one of the author's posts
// @Summary Update post
// @Tags dashboard
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "Author ID"
// @Param post_id path int true "Post ID"
// @Success 200 {object} object{message=string,post=models.Post}
// @Router /author/dashboard/post-detail/{user_id}/{post_id}/ [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID, postID, ok := s.authorPostParams(c)
	if !ok {
		return nil
	}
	in, err := bindPostInput(c)
	if err != nil {
		return models.Respond(c, err)
	}

	post, err := s.postService.UpdatePost(c.UserContext(), callerID(c), userID, postID, in)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Post updated successfully",
		"post":    post,
	})
}

// DeletePost removes one of the author's posts
// @Summary Delete post
// @Tags dashboard
// @Security BearerAuth
// @Param user_id path int true "Author ID"
// @Param post_id path int true "Post ID"
// @Success 204
// @Router /author/dashboard/post-detail/{user_id}/{post_id}/ [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID, postID, ok := s.authorPostParams(c)
	if !ok {
		return nil
	}
	if err := s.postService.DeletePost(c.UserContext(), callerID(c), userID, postID); err != nil {
		return models.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) authorPostParams(c *fiber.Ctx) (userID, postID uint, ok bool) {
	userID, err := s.parseID(c, "user_id")
	if err != nil {
		return 0, 0, false
	}
	postID, err = s.parseID(c, "post_id")
	if err != nil {
		return 0, 0, false
	}
	return userID, postID, true
}

// bindPostInput reads the post payload from JSON or from multipart form
// fields, where the image may be an uploaded file.
func bindPostInput(c *fiber.Ctx) (service.PostInput, error) {
	if !isMultipart(c) {
		var req postRequest
		if err := c.BodyParser(&req); err != nil {
			return service.PostInput{}, models.NewValidationError("Invalid request body")
		}
		return service.PostInput{
			UserID:      req.UserID.Value,
			Title:       req.Title,
			Image:       req.Image,
			Description: req.Description,
			Tags:        req.Tags,
			CategoryID:  req.Category.Ptr(),
			Status:      req.PostStatus,
		}, nil
	}

	var in service.PostInput
	var userID, category looseID
	for key, dst := range map[string]*looseID{"user_id": &userID, "category": &category} {
		raw, ok := formValue(c, key)
		if !ok || raw == "" {
			continue
		}
		if err := dst.parse(raw); err != nil {
			return in, models.NewFieldValidationError("Validation failed", map[string][]string{
				key: {"A valid integer is required."},
			})
		}
	}
	in.UserID = userID.Value
	in.CategoryID = category.Ptr()
	in.Title, _ = formValue(c, "title")
	in.Image, _ = formValue(c, "image")
	in.Description, _ = formValue(c, "description")
	in.Tags, _ = formValue(c, "tags")
	in.Status, _ = formValue(c, "post_status")

	upload, err := readUpload(c, "image")
	if err != nil {
		return in, err
	}
	in.Upload = upload
	return in, nil
}
