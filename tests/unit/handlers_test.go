package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/prylics/prylics-data/internal/handlers"
	"github.com/prylics/prylics-data/internal/middleware"
	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/store"
	"github.com/prylics/prylics-data/tests/helpers"
	"gorm.io/gorm"
)

// setupTestStore creates a store over an in-memory SQLite database
func setupTestStore(t *testing.T) *store.Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := db.AutoMigrate(&models.StoreCollection{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return store.New(db)
}

// withProfile mocks the auth middleware, placing a profile in the context
func withProfile(profile models.UserProfile) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.ProfileKey, profile)
		return c.Next()
	}
}

// TestCreatePost tests the POST /api/posts endpoint
func TestCreatePost(t *testing.T) {
	st := setupTestStore(t)
	author := helpers.TestProfile("user-1", "Test User")

	app := fiber.New()
	handler := &handlers.PostsHandler{Store: st}
	app.Post("/api/posts", withProfile(author), handler.CreatePost)

	reqBody := map[string]interface{}{
		"type":    "research",
		"content": "A study of things",
		"tags":    []string{"things"},
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("POST", "/api/posts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 201)

	var post models.Post
	helpers.ParseJSON(t, resp, &post)
	if post.ID == "" {
		t.Error("Expected a generated post id")
	}
	if post.CreatorID != author.UID {
		t.Errorf("Expected creator %s, got %s", author.UID, post.CreatorID)
	}
	if post.Funding != nil {
		t.Error("Expected no funding without a funding goal")
	}
}

// TestCreatePost_LenientBody tests string tags and quoted funding goals
func TestCreatePost_LenientBody(t *testing.T) {
	st := setupTestStore(t)
	author := helpers.TestProfile("user-1", "Test User")

	app := fiber.New()
	handler := &handlers.PostsHandler{Store: st}
	app.Post("/api/posts", withProfile(author), handler.CreatePost)

	// Tags as a lone string, fundingGoal as a quoted number
	body := []byte(`{"type":"research","content":"funded work","tags":"science","fundingGoal":"50000"}`)
	req := httptest.NewRequest("POST", "/api/posts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 201)

	var post models.Post
	helpers.ParseJSON(t, resp, &post)
	if len(post.Tags) != 1 || post.Tags[0] != "science" {
		t.Errorf("Expected tags [science], got %v", post.Tags)
	}
	if post.Funding == nil || post.Funding.Goal != 50000 {
		t.Errorf("Expected funding goal 50000, got %+v", post.Funding)
	}
}

// TestCreatePost_InvalidType tests type validation
func TestCreatePost_InvalidType(t *testing.T) {
	st := setupTestStore(t)
	author := helpers.TestProfile("user-1", "Test User")

	app := fiber.New()
	handler := &handlers.PostsHandler{Store: st}
	app.Post("/api/posts", withProfile(author), handler.CreatePost)

	body := []byte(`{"type":"rant","content":"not a valid type"}`)
	req := httptest.NewRequest("POST", "/api/posts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 400)
}

// TestGetPost_NotFound tests the envelope for a missing post
func TestGetPost_NotFound(t *testing.T) {
	st := setupTestStore(t)

	app := fiber.New()
	handler := &handlers.PostsHandler{Store: st}
	app.Get("/api/posts/:postId", handler.GetPost)

	req := httptest.NewRequest("GET", "/api/posts/nope", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 404)

	var envelope map[string]interface{}
	helpers.ParseJSON(t, resp, &envelope)
	if envelope["ok"] != false {
		t.Errorf("Expected ok=false in error envelope, got %+v", envelope)
	}
}

// TestDeletePost_Forbidden tests that only the creator may delete
func TestDeletePost_Forbidden(t *testing.T) {
	st := setupTestStore(t)
	author := helpers.TestProfile("user-1", "Author")
	stranger := helpers.TestProfile("user-2", "Stranger")

	helpers.SaveCollection(t, st, store.CollectionUserPosts, []models.Post{
		helpers.TestPost("post-1", author, models.PostTypeIdea, "mine", time.Now()),
	})

	app := fiber.New()
	handler := &handlers.PostsHandler{Store: st}
	app.Delete("/api/posts/:postId", withProfile(stranger), handler.DeletePost)

	req := httptest.NewRequest("DELETE", "/api/posts/post-1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 403)
}

// TestAddComment tests commenting through the handler
func TestAddComment(t *testing.T) {
	st := setupTestStore(t)
	author := helpers.TestProfile("user-1", "Author")
	commenter := helpers.TestProfile("user-2", "Commenter")

	helpers.SaveCollection(t, st, store.CollectionUserPosts, []models.Post{
		helpers.TestPost("post-1", author, models.PostTypeQuestion, "what about it", time.Now()),
	})

	app := fiber.New()
	handler := &handlers.PostsHandler{Store: st}
	app.Post("/api/posts/:postId/comments", withProfile(commenter), handler.AddComment)

	body := []byte(`{"text":"good question"}`)
	req := httptest.NewRequest("POST", "/api/posts/post-1/comments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var post models.Post
	helpers.ParseJSON(t, resp, &post)
	if post.CommentCount != 1 || len(post.Comments) != 1 {
		t.Errorf("Expected one comment, got count=%d len=%d", post.CommentCount, len(post.Comments))
	}
	if post.Comments[0].Author.UID != commenter.UID {
		t.Errorf("Expected comment author %s, got %s", commenter.UID, post.Comments[0].Author.UID)
	}
}

// TestLikePost_EmptyBody tests that an empty body counts as a like
func TestLikePost_EmptyBody(t *testing.T) {
	st := setupTestStore(t)
	author := helpers.TestProfile("user-1", "Author")

	helpers.SaveCollection(t, st, store.CollectionUserPosts, []models.Post{
		helpers.TestPost("post-1", author, models.PostTypeIdea, "like me", time.Now()),
	})

	app := fiber.New()
	handler := &handlers.PostsHandler{Store: st}
	app.Post("/api/posts/:postId/like", withProfile(author), handler.LikePost)

	req := httptest.NewRequest("POST", "/api/posts/post-1/like", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var post models.Post
	helpers.ParseJSON(t, resp, &post)
	if post.Likes != 1 {
		t.Errorf("Expected 1 like, got %d", post.Likes)
	}
}

// TestGetFeed tests ordering and type filtering on GET /api/feed
func TestGetFeed(t *testing.T) {
	st := setupTestStore(t)
	author := helpers.TestProfile("user-1", "Author")
	now := time.Now().UTC()

	helpers.SaveCollection(t, st, store.CollectionInitialPosts, []models.Post{
		helpers.TestPost("seed-1", author, models.PostTypeResearch, "older seed", now.Add(-2*time.Hour)),
	})
	helpers.SaveCollection(t, st, store.CollectionUserPosts, []models.Post{
		helpers.TestPost("user-post-1", author, models.PostTypeIdea, "newer", now),
	})

	app := fiber.New()
	handler := &handlers.FeedHandler{Store: st}
	app.Get("/api/feed", handler.GetFeed)

	req := httptest.NewRequest("GET", "/api/feed", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var posts []models.Post
	helpers.ParseJSON(t, resp, &posts)
	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != "user-post-1" {
		t.Errorf("Expected newest post first, got %s", posts[0].ID)
	}

	// Filter to research only
	req = httptest.NewRequest("GET", "/api/feed?type=research", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)
	helpers.ParseJSON(t, resp, &posts)
	if len(posts) != 1 || posts[0].ID != "seed-1" {
		t.Errorf("Expected only the research post, got %+v", posts)
	}
}

// TestGetCrowdfunding tests that only funded posts are listed
func TestGetCrowdfunding(t *testing.T) {
	st := setupTestStore(t)
	author := helpers.TestProfile("user-1", "Author")
	now := time.Now().UTC()

	funded := helpers.TestPost("funded-1", author, models.PostTypeResearch, "fund me", now)
	funded.Funding = &models.Funding{Goal: 10000, Raised: 100}
	helpers.SaveCollection(t, st, store.CollectionUserPosts, []models.Post{
		funded,
		helpers.TestPost("plain-1", author, models.PostTypeIdea, "no funding", now),
	})

	app := fiber.New()
	handler := &handlers.FeedHandler{Store: st}
	app.Get("/api/crowdfunding", handler.GetCrowdfunding)

	req := httptest.NewRequest("GET", "/api/crowdfunding", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var posts []models.Post
	helpers.ParseJSON(t, resp, &posts)
	if len(posts) != 1 || posts[0].ID != "funded-1" {
		t.Errorf("Expected only the funded post, got %+v", posts)
	}
}
