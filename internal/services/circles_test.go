package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/prylics/prylics-data/internal/services"
)

func TestCreateCircle(t *testing.T) {
	s := newTestStore(t)
	creator := profile("creator", "Creator")

	circle, err := services.CreateCircle(s, creator, "Quantum Biology", "weird quantum stuff")
	if err != nil {
		t.Fatalf("Failed to create circle: %v", err)
	}

	if !strings.HasPrefix(circle.ID, "quantum-biology-") {
		t.Errorf("Expected slug-prefixed id, got %s", circle.ID)
	}
	if circle.MemberCount != 1 {
		t.Errorf("Expected member count 1, got %d", circle.MemberCount)
	}

	// The creator is already a member
	member, err := services.IsCircleMember(s, creator.UID, circle.ID)
	if err != nil {
		t.Fatalf("Failed to check membership: %v", err)
	}
	if !member {
		t.Error("Expected the creator to be a member")
	}

	// And the chat thread exists, empty
	chat, err := services.GetCircleChat(s, creator.UID, circle.ID)
	if err != nil {
		t.Fatalf("Failed to get chat: %v", err)
	}
	if len(chat.Messages) != 0 {
		t.Errorf("Expected empty chat, got %d messages", len(chat.Messages))
	}
}

func TestCreateCircle_EmptyName(t *testing.T) {
	s := newTestStore(t)

	_, err := services.CreateCircle(s, profile("u", "U"), "   ", "")
	if !errors.Is(err, services.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for blank name, got %v", err)
	}
}

func TestToggleCircleMembership_DoubleToggleIsInverse(t *testing.T) {
	s := newTestStore(t)
	creator := profile("creator", "Creator")
	member := profile("member", "Member")

	circle, err := services.CreateCircle(s, creator, "Toggle Club", "")
	if err != nil {
		t.Fatalf("Failed to create circle: %v", err)
	}

	joined, updated, err := services.ToggleCircleMembership(s, member.UID, circle.ID)
	if err != nil {
		t.Fatalf("Failed to toggle: %v", err)
	}
	if !joined || updated.MemberCount != 2 {
		t.Errorf("Expected join with count 2, got joined=%v count=%d", joined, updated.MemberCount)
	}

	joined, updated, err = services.ToggleCircleMembership(s, member.UID, circle.ID)
	if err != nil {
		t.Fatalf("Failed to toggle back: %v", err)
	}
	if joined || updated.MemberCount != 1 {
		t.Errorf("Expected leave with count 1, got joined=%v count=%d", joined, updated.MemberCount)
	}

	member2, err := services.IsCircleMember(s, member.UID, circle.ID)
	if err != nil {
		t.Fatalf("Failed to check membership: %v", err)
	}
	if member2 {
		t.Error("Expected membership removed after double toggle")
	}
}

func TestToggleCircleMembership_UnknownCircle(t *testing.T) {
	s := newTestStore(t)

	_, _, err := services.ToggleCircleMembership(s, "user", "no-such-circle")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCircle_FanOut(t *testing.T) {
	s := newTestStore(t)
	creator := profile("creator", "Creator")
	member := profile("member", "Member")

	circle, err := services.CreateCircle(s, creator, "Doomed Circle", "")
	if err != nil {
		t.Fatalf("Failed to create circle: %v", err)
	}
	if _, _, err := services.ToggleCircleMembership(s, member.UID, circle.ID); err != nil {
		t.Fatalf("Failed to join: %v", err)
	}
	if _, err := services.AppendCircleMessage(s, circle.ID, member, "soon gone"); err != nil {
		t.Fatalf("Failed to post message: %v", err)
	}

	// Only the creator may delete
	if err := services.DeleteCircle(s, member.UID, circle.ID); !errors.Is(err, services.ErrForbidden) {
		t.Errorf("Expected ErrForbidden for non-creator, got %v", err)
	}

	if err := services.DeleteCircle(s, creator.UID, circle.ID); err != nil {
		t.Fatalf("Failed to delete circle: %v", err)
	}

	if _, err := services.GetCircle(s, circle.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected circle gone, got %v", err)
	}
	for _, uid := range []string{creator.UID, member.UID} {
		circles, err := services.CirclesForUser(s, uid)
		if err != nil {
			t.Fatalf("Failed to list circles for %s: %v", uid, err)
		}
		if len(circles) != 0 {
			t.Errorf("Expected roster scrubbed for %s, got %+v", uid, circles)
		}
	}
}

func TestCircleChat_MembersOnly(t *testing.T) {
	s := newTestStore(t)
	creator := profile("creator", "Creator")
	outsider := profile("outsider", "Outsider")

	circle, err := services.CreateCircle(s, creator, "Private Circle", "")
	if err != nil {
		t.Fatalf("Failed to create circle: %v", err)
	}

	if _, err := services.GetCircleChat(s, outsider.UID, circle.ID); !errors.Is(err, services.ErrForbidden) {
		t.Errorf("Expected ErrForbidden reading chat, got %v", err)
	}
	if _, err := services.AppendCircleMessage(s, circle.ID, outsider, "hello?"); !errors.Is(err, services.ErrForbidden) {
		t.Errorf("Expected ErrForbidden posting, got %v", err)
	}
}
