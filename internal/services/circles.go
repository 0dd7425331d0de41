// circles.go
//
// Circles: topic groups with a denormalized member count, per-user
// membership rosters and a chat thread per circle. Creating a circle also
// creates the creator's membership and an empty chat; deleting one fans
// out to the chat and every membership roster.

package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/store"
)

// CreateCircle creates a circle with the creator as its first member and
// an empty chat thread.
func CreateCircle(s *store.Store, creator models.UserProfile, name, description string) (*models.Circle, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("circle name is empty: %w", ErrInvalid)
	}

	circle := models.Circle{
		ID:          slugify(name) + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatorID:   creator.UID,
		MemberCount: 1,
	}

	circles, err := store.Load[models.Circle](s, store.CollectionCircles)
	if err != nil {
		return nil, err
	}
	circles = append(circles, circle)
	if err := store.Save(s, store.CollectionCircles, circles); err != nil {
		return nil, err
	}

	if err := addMembership(s, creator.UID, circle.ID); err != nil {
		return nil, err
	}

	chats, err := store.Load[models.CircleChat](s, store.CollectionCircleChats)
	if err != nil {
		return nil, err
	}
	chats = append(chats, models.CircleChat{ID: circle.ID, Messages: []models.Message{}})
	if err := store.Save(s, store.CollectionCircleChats, chats); err != nil {
		return nil, err
	}

	return &circle, nil
}

// ListCircles returns every circle.
func ListCircles(s *store.Store) ([]models.Circle, error) {
	return store.Load[models.Circle](s, store.CollectionCircles)
}

// GetCircle returns a circle by id.
func GetCircle(s *store.Store, circleID string) (*models.Circle, error) {
	circles, err := store.Load[models.Circle](s, store.CollectionCircles)
	if err != nil {
		return nil, err
	}
	for i := range circles {
		if circles[i].ID == circleID {
			return &circles[i], nil
		}
	}
	return nil, fmt.Errorf("circle %s: %w", circleID, ErrNotFound)
}

// ToggleCircleMembership flips whether the actor belongs to the circle and
// keeps the denormalized member count in step, clamped at zero. Returns
// true when the toggle resulted in a join.
func ToggleCircleMembership(s *store.Store, actorID, circleID string) (bool, *models.Circle, error) {
	circles, err := store.Load[models.Circle](s, store.CollectionCircles)
	if err != nil {
		return false, nil, err
	}
	circleIdx := -1
	for i := range circles {
		if circles[i].ID == circleID {
			circleIdx = i
			break
		}
	}
	if circleIdx == -1 {
		return false, nil, fmt.Errorf("circle %s: %w", circleID, ErrNotFound)
	}

	memberships, err := store.Load[models.CircleMembership](s, store.CollectionCircleMemberships)
	if err != nil {
		return false, nil, err
	}
	memberIdx := -1
	for i := range memberships {
		if memberships[i].UserID == actorID {
			memberIdx = i
			break
		}
	}
	if memberIdx == -1 {
		memberships = append(memberships, models.CircleMembership{UserID: actorID, CircleIDs: []string{}})
		memberIdx = len(memberships) - 1
	}

	ids, joined := toggleID(memberships[memberIdx].CircleIDs, circleID)
	memberships[memberIdx].CircleIDs = ids

	if joined {
		circles[circleIdx].MemberCount++
	} else if circles[circleIdx].MemberCount > 0 {
		circles[circleIdx].MemberCount--
	}

	if err := store.Save(s, store.CollectionCircleMemberships, memberships); err != nil {
		return false, nil, err
	}
	if err := store.Save(s, store.CollectionCircles, circles); err != nil {
		return false, nil, err
	}

	return joined, &circles[circleIdx], nil
}

// IsCircleMember reports whether the user belongs to the circle.
func IsCircleMember(s *store.Store, userID, circleID string) (bool, error) {
	memberships, err := store.Load[models.CircleMembership](s, store.CollectionCircleMemberships)
	if err != nil {
		return false, err
	}
	for _, membership := range memberships {
		if membership.UserID == userID {
			return containsID(membership.CircleIDs, circleID), nil
		}
	}
	return false, nil
}

// CirclesForUser returns the circles the user belongs to.
func CirclesForUser(s *store.Store, userID string) ([]models.Circle, error) {
	memberships, err := store.Load[models.CircleMembership](s, store.CollectionCircleMemberships)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, membership := range memberships {
		if membership.UserID == userID {
			ids = membership.CircleIDs
			break
		}
	}

	circles, err := store.Load[models.Circle](s, store.CollectionCircles)
	if err != nil {
		return nil, err
	}
	mine := make([]models.Circle, 0, len(ids))
	for _, circle := range circles {
		if containsID(ids, circle.ID) {
			mine = append(mine, circle)
		}
	}
	return mine, nil
}

// DeleteCircle removes a circle, its chat, and its id from every
// membership roster. Only the creator may delete.
func DeleteCircle(s *store.Store, actorID, circleID string) error {
	circles, err := store.Load[models.Circle](s, store.CollectionCircles)
	if err != nil {
		return err
	}
	circleIdx := -1
	for i := range circles {
		if circles[i].ID == circleID {
			circleIdx = i
			break
		}
	}
	if circleIdx == -1 {
		return fmt.Errorf("circle %s: %w", circleID, ErrNotFound)
	}
	if circles[circleIdx].CreatorID != actorID {
		return fmt.Errorf("circle %s is not owned by %s: %w", circleID, actorID, ErrForbidden)
	}

	circles = append(circles[:circleIdx:circleIdx], circles[circleIdx+1:]...)
	if err := store.Save(s, store.CollectionCircles, circles); err != nil {
		return err
	}

	chats, err := store.Load[models.CircleChat](s, store.CollectionCircleChats)
	if err != nil {
		return err
	}
	remaining := make([]models.CircleChat, 0, len(chats))
	for _, chat := range chats {
		if chat.ID != circleID {
			remaining = append(remaining, chat)
		}
	}
	if err := store.Save(s, store.CollectionCircleChats, remaining); err != nil {
		return err
	}

	memberships, err := store.Load[models.CircleMembership](s, store.CollectionCircleMemberships)
	if err != nil {
		return err
	}
	for i := range memberships {
		memberships[i].CircleIDs = removeID(memberships[i].CircleIDs, circleID)
	}
	return store.Save(s, store.CollectionCircleMemberships, memberships)
}

// GetCircleChat returns the circle's message thread. Members only. A
// circle created before chats were persisted gets an empty thread.
func GetCircleChat(s *store.Store, userID, circleID string) (*models.CircleChat, error) {
	if _, err := GetCircle(s, circleID); err != nil {
		return nil, err
	}
	member, err := IsCircleMember(s, userID, circleID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("user %s is not a member of circle %s: %w", userID, circleID, ErrForbidden)
	}

	chats, err := store.Load[models.CircleChat](s, store.CollectionCircleChats)
	if err != nil {
		return nil, err
	}
	for i := range chats {
		if chats[i].ID == circleID {
			return &chats[i], nil
		}
	}
	return &models.CircleChat{ID: circleID, Messages: []models.Message{}}, nil
}

// AppendCircleMessage adds a message to the circle's chat, creating the
// chat record if it is missing. Members only.
func AppendCircleMessage(s *store.Store, circleID string, sender models.UserProfile, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message text is empty: %w", ErrInvalid)
	}

	if _, err := GetCircle(s, circleID); err != nil {
		return nil, err
	}
	member, err := IsCircleMember(s, sender.UID, circleID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("user %s is not a member of circle %s: %w", sender.UID, circleID, ErrForbidden)
	}

	message := models.Message{
		ID:        ulid.Make().String(),
		SenderID:  sender.UID,
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}

	chats, err := store.Load[models.CircleChat](s, store.CollectionCircleChats)
	if err != nil {
		return nil, err
	}
	chatIdx := -1
	for i := range chats {
		if chats[i].ID == circleID {
			chatIdx = i
			break
		}
	}
	if chatIdx == -1 {
		chats = append(chats, models.CircleChat{ID: circleID, Messages: []models.Message{}})
		chatIdx = len(chats) - 1
	}
	chats[chatIdx].Messages = append(chats[chatIdx].Messages, message)

	if err := store.Save(s, store.CollectionCircleChats, chats); err != nil {
		return nil, err
	}
	return &message, nil
}

// addMembership adds circleID to the user's roster, creating the roster
// record if needed. Used by circle creation.
func addMembership(s *store.Store, userID, circleID string) error {
	memberships, err := store.Load[models.CircleMembership](s, store.CollectionCircleMemberships)
	if err != nil {
		return err
	}
	for i := range memberships {
		if memberships[i].UserID == userID {
			if !containsID(memberships[i].CircleIDs, circleID) {
				memberships[i].CircleIDs = append(memberships[i].CircleIDs, circleID)
			}
			return store.Save(s, store.CollectionCircleMemberships, memberships)
		}
	}
	memberships = append(memberships, models.CircleMembership{UserID: userID, CircleIDs: []string{circleID}})
	return store.Save(s, store.CollectionCircleMemberships, memberships)
}

// slugify lowercases the name and collapses runs of non-alphanumerics to
// single hyphens.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
