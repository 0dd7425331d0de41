// posts.go
//
// Post lifecycle handlers: create, fetch, delete, comment, like.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/services"
	"github.com/prylics/prylics-data/internal/store"
	"github.com/prylics/prylics-data/internal/types"
	"github.com/prylics/prylics-data/internal/utils"
)

// PostsHandler handles post routes
type PostsHandler struct {
	Store *store.Store
}

// CreatePostRequest is the body of POST /api/posts. Tags tolerate a lone
// string, fundingGoal tolerates a quoted number.
type CreatePostRequest struct {
	Type        string                 `json:"type"`
	Content     string                 `json:"content"`
	Tags        types.FlexList[string] `json:"tags"`
	ImageURL    string                 `json:"imageUrl"`
	FundingGoal types.FlexUint64       `json:"fundingGoal"`
}

// CommentRequest is the body of POST /api/posts/:postId/comments.
type CommentRequest struct {
	Text     string `json:"text"`
	ParentID string `json:"parentId"`
}

// LikeRequest is the body of POST /api/posts/:postId/like.
type LikeRequest struct {
	Unlike bool `json:"unlike"`
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description Create a post authored by the signed-in user; a funding goal makes it a crowdfunding post
// @Tags Posts
// @Accept json
// @Produce json
// @Param request body CreatePostRequest true "Post content"
// @Success 201 {object} models.Post
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /posts [post]
func (h *PostsHandler) CreatePost(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	post, err := services.CreatePost(h.Store, profile, services.PostInput{
		Type:        models.PostType(req.Type),
		Content:     req.Content,
		Tags:        req.Tags.Slice(),
		ImageURL:    req.ImageURL,
		FundingGoal: req.FundingGoal.Uint64(),
	})
	if err != nil {
		return serviceErrorResponse(c, err, "createPost")
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:postId
// @Summary Get a post
// @Tags Posts
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /posts/{postId} [get]
func (h *PostsHandler) GetPost(c *fiber.Ctx) error {
	post, err := services.GetPost(h.Store, c.Params("postId"))
	if err != nil {
		return serviceErrorResponse(c, err, "getPost")
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// DeletePost handles DELETE /api/posts/:postId
// @Summary Delete a post
// @Description Remove a post; only its creator may do this
// @Tags Posts
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /posts/{postId} [delete]
func (h *PostsHandler) DeletePost(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	postID := c.Params("postId")
	if err := services.DeletePost(h.Store, profile.UID, postID); err != nil {
		return serviceErrorResponse(c, err, "deletePost")
	}

	return utils.MutationSuccessResponse(c, fiber.Map{"deleted": postID})
}

// AddComment handles POST /api/posts/:postId/comments
// @Summary Comment on a post
// @Description Append a comment at the root or under a parent comment; returns the updated post
// @Tags Posts
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Param request body CommentRequest true "Comment text and optional parent comment id"
// @Success 200 {object} models.Post
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /posts/{postId}/comments [post]
func (h *PostsHandler) AddComment(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	post, err := services.AddComment(h.Store, c.Params("postId"), profile, req.Text, req.ParentID)
	if err != nil {
		return serviceErrorResponse(c, err, "addComment")
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

// LikePost handles POST /api/posts/:postId/like
// @Summary Like or unlike a post
// @Tags Posts
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Param request body LikeRequest false "Set unlike to take a like back"
// @Success 200 {object} models.Post
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /posts/{postId}/like [post]
func (h *PostsHandler) LikePost(c *fiber.Ctx) error {
	if _, ok := currentProfile(c); !ok {
		return unauthenticatedResponse(c)
	}

	var req LikeRequest
	// Empty body means a like
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
		}
	}

	post, err := services.LikePost(h.Store, c.Params("postId"), req.Unlike)
	if err != nil {
		return serviceErrorResponse(c, err, "likePost")
	}

	return c.Status(fiber.StatusOK).JSON(post)
}
