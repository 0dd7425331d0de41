// projects.go
//
// Project handlers. Discussions are collaborator-only; everything else on
// the read side is public.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prylics/prylics-data/internal/services"
	"github.com/prylics/prylics-data/internal/store"
	"github.com/prylics/prylics-data/internal/utils"
)

// ProjectsHandler handles project routes
type ProjectsHandler struct {
	Store *store.Store
}

// CreateProjectRequest is the body of POST /api/projects.
type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ListProjects handles GET /api/projects
// @Summary List all projects
// @Tags Projects
// @Produce json
// @Success 200 {array} models.Project
// @Router /projects [get]
func (h *ProjectsHandler) ListProjects(c *fiber.Ctx) error {
	projects, err := services.ListProjects(h.Store)
	if err != nil {
		return serviceErrorResponse(c, err, "listProjects")
	}
	return c.Status(fiber.StatusOK).JSON(projects)
}

// CreateProject handles POST /api/projects
// @Summary Create a project
// @Description The creator becomes the first collaborator and an empty discussion is created
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body CreateProjectRequest true "Project title and description"
// @Success 201 {object} models.Project
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /projects [post]
func (h *ProjectsHandler) CreateProject(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	var req CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	project, err := services.CreateProject(h.Store, profile, req.Title, req.Description)
	if err != nil {
		return serviceErrorResponse(c, err, "createProject")
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// GetProject handles GET /api/projects/:projectId
// @Summary Get a project
// @Tags Projects
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /projects/{projectId} [get]
func (h *ProjectsHandler) GetProject(c *fiber.Ctx) error {
	project, err := services.GetProject(h.Store, c.Params("projectId"))
	if err != nil {
		return serviceErrorResponse(c, err, "getProject")
	}
	return c.Status(fiber.StatusOK).JSON(project)
}

// ToggleCollaboration handles POST /api/projects/:projectId/collaboration
// @Summary Join or leave a project
// @Description Toggle: joining appends the actor to the collaborator roster, leaving filters them out
// @Tags Projects
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /projects/{projectId}/collaboration [post]
func (h *ProjectsHandler) ToggleCollaboration(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	joined, project, err := services.ToggleProjectCollaboration(h.Store, profile, c.Params("projectId"))
	if err != nil {
		return serviceErrorResponse(c, err, "toggleCollaboration")
	}
	return utils.MutationSuccessResponse(c, fiber.Map{"joined": joined, "project": project})
}

// GetMessages handles GET /api/projects/:projectId/messages
// @Summary Get the project discussion
// @Tags Projects
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} models.ProjectDiscussion
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /projects/{projectId}/messages [get]
func (h *ProjectsHandler) GetMessages(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	discussion, err := services.GetProjectDiscussion(h.Store, profile.UID, c.Params("projectId"))
	if err != nil {
		return serviceErrorResponse(c, err, "getProjectMessages")
	}
	return c.Status(fiber.StatusOK).JSON(discussion)
}

// PostMessage handles POST /api/projects/:projectId/messages
// @Summary Send a project discussion message
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param request body MessageRequest true "Message text"
// @Success 201 {object} models.Message
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /projects/{projectId}/messages [post]
func (h *ProjectsHandler) PostMessage(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	message, err := services.AppendProjectMessage(h.Store, c.Params("projectId"), profile, req.Text)
	if err != nil {
		return serviceErrorResponse(c, err, "postProjectMessage")
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
