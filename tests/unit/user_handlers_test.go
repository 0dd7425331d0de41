// user_handlers_test.go
//
// Handler tests for the social surfaces: directory, follow graph, circles
// and conversations.

package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prylics/prylics-data/internal/handlers"
	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/store"
	"github.com/prylics/prylics-data/tests/helpers"
)

func TestSearchUsers(t *testing.T) {
	st := setupTestStore(t)
	helpers.SaveCollection(t, st, store.CollectionKnownUsers, []models.UserProfile{
		helpers.TestProfile("user-1", "Evelyn Reed"),
		helpers.TestProfile("user-2", "Kenji Tanaka"),
	})

	app := fiber.New()
	handler := &handlers.UsersHandler{Store: st}
	app.Get("/api/users", handler.SearchUsers)

	req := httptest.NewRequest("GET", "/api/users?q=evelyn", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var matches []models.UserProfile
	helpers.ParseJSON(t, resp, &matches)
	if len(matches) != 1 || matches[0].UID != "user-1" {
		t.Errorf("Expected one match for evelyn, got %+v", matches)
	}

	// Empty query returns nothing rather than the whole directory
	req = httptest.NewRequest("GET", "/api/users", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)
	helpers.ParseJSON(t, resp, &matches)
	if len(matches) != 0 {
		t.Errorf("Expected no matches for empty query, got %+v", matches)
	}
}

func TestGetUser_UnknownGetsPlaceholder(t *testing.T) {
	st := setupTestStore(t)

	app := fiber.New()
	handler := &handlers.UsersHandler{Store: st}
	app.Get("/api/users/:userId", handler.GetUser)

	req := httptest.NewRequest("GET", "/api/users/ghost", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var page map[string]json.RawMessage
	helpers.ParseJSON(t, resp, &page)

	var profile models.UserProfile
	if err := json.Unmarshal(page["user"], &profile); err != nil {
		t.Fatalf("Failed to decode user: %v", err)
	}
	if profile.Name != "Unknown User" {
		t.Errorf("Expected placeholder profile, got %+v", profile)
	}
}

func TestToggleFollow(t *testing.T) {
	st := setupTestStore(t)
	actor := helpers.TestProfile("user-1", "Actor")

	app := fiber.New()
	handler := &handlers.UsersHandler{Store: st}
	app.Post("/api/users/:userId/follow", withProfile(actor), handler.ToggleFollow)

	follow := func(t *testing.T) map[string]interface{} {
		req := httptest.NewRequest("POST", "/api/users/user-2/follow", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		helpers.AssertStatus(t, resp, 200)
		var result map[string]interface{}
		helpers.ParseJSON(t, resp, &result)
		return result
	}

	// First toggle follows, second unfollows
	if result := follow(t); result["following"] != true {
		t.Errorf("Expected following=true, got %+v", result)
	}
	if result := follow(t); result["following"] != false {
		t.Errorf("Expected following=false after second toggle, got %+v", result)
	}
}

func TestToggleFollow_Self(t *testing.T) {
	st := setupTestStore(t)
	actor := helpers.TestProfile("user-1", "Actor")

	app := fiber.New()
	handler := &handlers.UsersHandler{Store: st}
	app.Post("/api/users/:userId/follow", withProfile(actor), handler.ToggleFollow)

	req := httptest.NewRequest("POST", "/api/users/user-1/follow", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 400)
}

func TestCircleLifecycleHandlers(t *testing.T) {
	st := setupTestStore(t)
	creator := helpers.TestProfile("user-1", "Creator")
	member := helpers.TestProfile("user-2", "Member")

	app := fiber.New()
	handler := &handlers.CirclesHandler{Store: st}
	app.Post("/api/circles", withProfile(creator), handler.CreateCircle)
	app.Post("/api/circles/:circleId/membership", withProfile(member), handler.ToggleMembership)
	app.Get("/api/circles/:circleId/messages", withProfile(member), handler.GetMessages)
	app.Post("/api/circles/:circleId/messages", withProfile(member), handler.PostMessage)

	// Create
	body := []byte(`{"name":"Quantum Biology","description":"weird quantum stuff"}`)
	req := httptest.NewRequest("POST", "/api/circles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 201)

	var circle models.Circle
	helpers.ParseJSON(t, resp, &circle)
	if circle.MemberCount != 1 {
		t.Errorf("Expected member count 1, got %d", circle.MemberCount)
	}

	// Join
	req = httptest.NewRequest("POST", "/api/circles/"+circle.ID+"/membership", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)
	var toggle map[string]interface{}
	helpers.ParseJSON(t, resp, &toggle)
	if toggle["joined"] != true {
		t.Errorf("Expected joined=true, got %+v", toggle)
	}

	// Chat
	body = []byte(`{"text":"hello"}`)
	req = httptest.NewRequest("POST", "/api/circles/"+circle.ID+"/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 201)

	req = httptest.NewRequest("GET", "/api/circles/"+circle.ID+"/messages", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)
	var chat models.CircleChat
	helpers.ParseJSON(t, resp, &chat)
	if len(chat.Messages) != 1 || chat.Messages[0].Text != "hello" {
		t.Errorf("Expected the posted message, got %+v", chat.Messages)
	}
}

func TestCircleChat_NonMember(t *testing.T) {
	st := setupTestStore(t)
	creator := helpers.TestProfile("user-1", "Creator")
	outsider := helpers.TestProfile("user-2", "Outsider")

	app := fiber.New()
	handler := &handlers.CirclesHandler{Store: st}
	app.Post("/api/circles", withProfile(creator), handler.CreateCircle)
	app.Get("/api/circles/:circleId/messages", withProfile(outsider), handler.GetMessages)

	body := []byte(`{"name":"Closed Circle"}`)
	req := httptest.NewRequest("POST", "/api/circles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var circle models.Circle
	helpers.ParseJSON(t, resp, &circle)

	req = httptest.NewRequest("GET", "/api/circles/"+circle.ID+"/messages", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 403)
}

func TestConversationHandlers(t *testing.T) {
	st := setupTestStore(t)
	alice := helpers.TestProfile("alice", "Alice")

	app := fiber.New()
	handler := &handlers.ConversationsHandler{Store: st}
	app.Get("/api/conversations", withProfile(alice), handler.ListConversations)
	app.Post("/api/conversations", withProfile(alice), handler.StartConversation)
	app.Post("/api/conversations/:conversationId/messages", withProfile(alice), handler.PostMessage)

	// Start a conversation with bob
	body := []byte(`{"userId":"bob"}`)
	req := httptest.NewRequest("POST", "/api/conversations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var conv models.Conversation
	helpers.ParseJSON(t, resp, &conv)
	if conv.ID != "alice--bob" {
		t.Errorf("Expected deterministic conversation id, got %s", conv.ID)
	}

	// Send a message
	body = []byte(`{"text":"hi bob"}`)
	req = httptest.NewRequest("POST", "/api/conversations/"+conv.ID+"/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 201)

	// List shows the thread
	req = httptest.NewRequest("GET", "/api/conversations", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)
	var conversations []models.Conversation
	helpers.ParseJSON(t, resp, &conversations)
	if len(conversations) != 1 || len(conversations[0].Messages) != 1 {
		t.Errorf("Expected one conversation with one message, got %+v", conversations)
	}
}

func TestStartConversation_Self(t *testing.T) {
	st := setupTestStore(t)
	alice := helpers.TestProfile("alice", "Alice")

	app := fiber.New()
	handler := &handlers.ConversationsHandler{Store: st}
	app.Post("/api/conversations", withProfile(alice), handler.StartConversation)

	body := []byte(`{"userId":"alice"}`)
	req := httptest.NewRequest("POST", "/api/conversations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 400)
}
