package models

import "time"

// PostType classifies a feed post.
type PostType string

const (
	PostTypeResearch PostType = "research"
	PostTypeIdea     PostType = "idea"
	PostTypeQuestion PostType = "question"
)

// Valid reports whether t is one of the known post types.
func (t PostType) Valid() bool {
	switch t {
	case PostTypeResearch, PostTypeIdea, PostTypeQuestion:
		return true
	}
	return false
}

// UserProfile is the embedded author/sender snapshot carried by posts,
// comments and messages. It is a copy taken at write time, not a reference.
type UserProfile struct {
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	AvatarURL  string `json:"avatarUrl"`
	ProfileURL string `json:"profileUrl"`
}

// Comment is a node in a post's reply tree.
type Comment struct {
	ID        string      `json:"id"`
	Author    UserProfile `json:"author"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
	Replies   []Comment   `json:"replies"`
}

// Funding is the optional crowdfunding sub-record of a research post.
type Funding struct {
	Goal   uint64 `json:"goal"`
	Raised uint64 `json:"raised"`
}

// Post is a feed entry. Timestamp is the human display string captured at
// creation; CreatedAt is the sortable instant. Posts deserialized from older
// data may lack CreatedAt, which leaves the zero time and sorts them last.
type Post struct {
	ID           string      `json:"id"`
	Author       UserProfile `json:"author"`
	CreatorID    string      `json:"creatorId"`
	Type         PostType    `json:"type"`
	Timestamp    string      `json:"timestamp"`
	CreatedAt    time.Time   `json:"createdAt"`
	Content      string      `json:"content"`
	Tags         []string    `json:"tags"`
	Likes        int         `json:"likes"`
	Comments     []Comment   `json:"comments"`
	CommentCount int         `json:"commentCount"`
	ImageURL     string      `json:"imageUrl,omitempty"`
	Funding      *Funding    `json:"funding,omitempty"`
}

// Message is a chat entry in a conversation, circle chat or project
// discussion. SenderID duplicates Sender.UID for cheap ownership checks.
type Message struct {
	ID        string      `json:"id"`
	SenderID  string      `json:"senderId"`
	Sender    UserProfile `json:"sender"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
}

// Conversation is a direct-message thread between exactly two users. The ID
// is derived from the sorted participant pair so both sides resolve to the
// same thread.
type Conversation struct {
	ID             string    `json:"id"`
	ParticipantIDs []string  `json:"participantIds"`
	Messages       []Message `json:"messages"`
}

// Following is one user's outbound follow list. Follower lists are derived
// by scanning these records, there is no denormalized follower count.
type Following struct {
	UserID       string   `json:"userId"`
	FollowingIDs []string `json:"followingIds"`
}

// Project is a collaborative research project. The creator is always the
// first collaborator; the collaborator count is the length of the list.
type Project struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	CreatorID     string        `json:"creatorId"`
	Collaborators []UserProfile `json:"collaborators"`
}

// ProjectDiscussion is the message thread attached to a project, stored
// under the project's id.
type ProjectDiscussion struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

// Circle is a topic group with a denormalized member count. The count is
// maintained by the membership toggle and clamped at zero.
type Circle struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatorID   string `json:"creatorId"`
	MemberCount int    `json:"memberCount"`
}

// CircleMembership is one user's circle roster.
type CircleMembership struct {
	UserID    string   `json:"userId"`
	CircleIDs []string `json:"circleIds"`
}

// CircleChat is the message thread of a circle, stored under the circle's id.
type CircleChat struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}
