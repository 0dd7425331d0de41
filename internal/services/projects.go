// projects.go
//
// Collaborative projects. The collaborator roster is an ordered profile
// list with the creator always first; the collaborator count is the list
// length. Each project carries a discussion thread under its id.

package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/store"
)

// CreateProject creates a project with the creator as first collaborator
// and an empty discussion thread.
func CreateProject(s *store.Store, creator models.UserProfile, title, description string) (*models.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("project title is empty: %w", ErrInvalid)
	}

	project := models.Project{
		ID:            uuid.NewString(),
		Title:         title,
		Description:   strings.TrimSpace(description),
		CreatorID:     creator.UID,
		Collaborators: []models.UserProfile{creator},
	}

	projects, err := store.Load[models.Project](s, store.CollectionProjects)
	if err != nil {
		return nil, err
	}
	projects = append(projects, project)
	if err := store.Save(s, store.CollectionProjects, projects); err != nil {
		return nil, err
	}

	discussions, err := store.Load[models.ProjectDiscussion](s, store.CollectionProjectDiscussions)
	if err != nil {
		return nil, err
	}
	discussions = append(discussions, models.ProjectDiscussion{ID: project.ID, Messages: []models.Message{}})
	if err := store.Save(s, store.CollectionProjectDiscussions, discussions); err != nil {
		return nil, err
	}

	return &project, nil
}

// ListProjects returns every project.
func ListProjects(s *store.Store) ([]models.Project, error) {
	return store.Load[models.Project](s, store.CollectionProjects)
}

// GetProject returns a project by id.
func GetProject(s *store.Store, projectID string) (*models.Project, error) {
	projects, err := store.Load[models.Project](s, store.CollectionProjects)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].ID == projectID {
			return &projects[i], nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
}

// ListProjectsForUser returns the projects the user collaborates on.
func ListProjectsForUser(s *store.Store, userID string) ([]models.Project, error) {
	projects, err := store.Load[models.Project](s, store.CollectionProjects)
	if err != nil {
		return nil, err
	}
	mine := make([]models.Project, 0, len(projects))
	for _, project := range projects {
		if isCollaborator(project, userID) {
			mine = append(mine, project)
		}
	}
	return mine, nil
}

// ToggleProjectCollaboration flips whether the actor collaborates on the
// project. Joining appends the actor's profile to the roster; leaving
// filters it out. Returns true when the toggle resulted in a join.
func ToggleProjectCollaboration(s *store.Store, actor models.UserProfile, projectID string) (bool, *models.Project, error) {
	projects, err := store.Load[models.Project](s, store.CollectionProjects)
	if err != nil {
		return false, nil, err
	}

	for i := range projects {
		if projects[i].ID != projectID {
			continue
		}

		joined := true
		if isCollaborator(projects[i], actor.UID) {
			joined = false
			roster := make([]models.UserProfile, 0, len(projects[i].Collaborators))
			for _, collaborator := range projects[i].Collaborators {
				if collaborator.UID != actor.UID {
					roster = append(roster, collaborator)
				}
			}
			projects[i].Collaborators = roster
		} else {
			projects[i].Collaborators = append(projects[i].Collaborators, actor)
		}

		if err := store.Save(s, store.CollectionProjects, projects); err != nil {
			return false, nil, err
		}
		return joined, &projects[i], nil
	}

	return false, nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
}

// GetProjectDiscussion returns the project's message thread. Collaborators
// only.
func GetProjectDiscussion(s *store.Store, userID, projectID string) (*models.ProjectDiscussion, error) {
	project, err := GetProject(s, projectID)
	if err != nil {
		return nil, err
	}
	if !isCollaborator(*project, userID) {
		return nil, fmt.Errorf("user %s is not a collaborator on %s: %w", userID, projectID, ErrForbidden)
	}

	discussions, err := store.Load[models.ProjectDiscussion](s, store.CollectionProjectDiscussions)
	if err != nil {
		return nil, err
	}
	for i := range discussions {
		if discussions[i].ID == projectID {
			return &discussions[i], nil
		}
	}
	return &models.ProjectDiscussion{ID: projectID, Messages: []models.Message{}}, nil
}

// AppendProjectMessage adds a message to the project's discussion,
// creating the thread record if it is missing. Collaborators only.
func AppendProjectMessage(s *store.Store, projectID string, sender models.UserProfile, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message text is empty: %w", ErrInvalid)
	}

	project, err := GetProject(s, projectID)
	if err != nil {
		return nil, err
	}
	if !isCollaborator(*project, sender.UID) {
		return nil, fmt.Errorf("user %s is not a collaborator on %s: %w", sender.UID, projectID, ErrForbidden)
	}

	message := models.Message{
		ID:        ulid.Make().String(),
		SenderID:  sender.UID,
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}

	discussions, err := store.Load[models.ProjectDiscussion](s, store.CollectionProjectDiscussions)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range discussions {
		if discussions[i].ID == projectID {
			idx = i
			break
		}
	}
	if idx == -1 {
		discussions = append(discussions, models.ProjectDiscussion{ID: projectID, Messages: []models.Message{}})
		idx = len(discussions) - 1
	}
	discussions[idx].Messages = append(discussions[idx].Messages, message)

	if err := store.Save(s, store.CollectionProjectDiscussions, discussions); err != nil {
		return nil, err
	}
	return &message, nil
}

func isCollaborator(project models.Project, userID string) bool {
	for _, collaborator := range project.Collaborators {
		if collaborator.UID == userID {
			return true
		}
	}
	return false
}
