// conversations.go
//
// Direct-message threads. A conversation's identity is derived from its
// participant pair, so contacting B from A and contacting A from B always
// land in the same thread.

package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/store"
)

// ResolveConversationID derives the canonical thread id for a pair of
// users: the two uids sorted lexicographically and joined with "--".
// Symmetric by construction.
func ResolveConversationID(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + "--" + userB
}

// GetOrCreateConversation returns the thread between the two users,
// creating an empty one on first contact. A user cannot converse with
// themselves.
func GetOrCreateConversation(s *store.Store, userA, userB string) (*models.Conversation, error) {
	if userA == "" || userB == "" {
		return nil, fmt.Errorf("conversation requires two participants: %w", ErrInvalid)
	}
	if userA == userB {
		return nil, fmt.Errorf("self-conversation is not allowed: %w", ErrInvalid)
	}

	conversationID := ResolveConversationID(userA, userB)

	conversations, err := store.Load[models.Conversation](s, store.CollectionConversations)
	if err != nil {
		return nil, err
	}
	for i := range conversations {
		if conversations[i].ID == conversationID {
			return &conversations[i], nil
		}
	}

	conversation := models.Conversation{
		ID:             conversationID,
		ParticipantIDs: []string{userA, userB},
		Messages:       []models.Message{},
	}
	conversations = append(conversations, conversation)
	if err := store.Save(s, store.CollectionConversations, conversations); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// AppendConversationMessage adds a message to an existing thread. The
// sender must be a participant and the text must be non-blank; nothing is
// written otherwise. Returns the stored message.
func AppendConversationMessage(s *store.Store, conversationID string, sender models.UserProfile, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message text is empty: %w", ErrInvalid)
	}

	conversations, err := store.Load[models.Conversation](s, store.CollectionConversations)
	if err != nil {
		return nil, err
	}

	for i := range conversations {
		if conversations[i].ID != conversationID {
			continue
		}
		if !containsID(conversations[i].ParticipantIDs, sender.UID) {
			return nil, fmt.Errorf("user %s is not a participant of %s: %w", sender.UID, conversationID, ErrForbidden)
		}

		message := models.Message{
			ID:        ulid.Make().String(),
			SenderID:  sender.UID,
			Sender:    sender,
			Text:      text,
			Timestamp: time.Now().UTC(),
		}
		conversations[i].Messages = append(conversations[i].Messages, message)

		if err := store.Save(s, store.CollectionConversations, conversations); err != nil {
			return nil, err
		}
		return &message, nil
	}

	return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
}

// GetConversation returns a thread the given user participates in.
func GetConversation(s *store.Store, userID, conversationID string) (*models.Conversation, error) {
	conversations, err := store.Load[models.Conversation](s, store.CollectionConversations)
	if err != nil {
		return nil, err
	}
	for i := range conversations {
		if conversations[i].ID != conversationID {
			continue
		}
		if !containsID(conversations[i].ParticipantIDs, userID) {
			return nil, fmt.Errorf("user %s is not a participant of %s: %w", userID, conversationID, ErrForbidden)
		}
		return &conversations[i], nil
	}
	return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
}

// ListConversations returns the user's threads ordered by most recent
// message. Threads with no messages yet sort last.
func ListConversations(s *store.Store, userID string) ([]models.Conversation, error) {
	conversations, err := store.Load[models.Conversation](s, store.CollectionConversations)
	if err != nil {
		return nil, err
	}

	mine := make([]models.Conversation, 0, len(conversations))
	for _, conversation := range conversations {
		if containsID(conversation.ParticipantIDs, userID) {
			mine = append(mine, conversation)
		}
	}

	sort.SliceStable(mine, func(i, j int) bool {
		return lastMessageTime(mine[i]).After(lastMessageTime(mine[j]))
	})
	return mine, nil
}

func lastMessageTime(conversation models.Conversation) time.Time {
	if len(conversation.Messages) == 0 {
		return time.Time{}
	}
	return conversation.Messages[len(conversation.Messages)-1].Timestamp
}
