// Package handler is the HTTP surface of the board service.
package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"board-service/internal/application/command"
	"board-service/internal/application/interfaces"
	"board-service/internal/application/query"
	"board-service/internal/domain"
)

type Handler struct {
	authService    interfaces.AuthService
	projectService interfaces.ProjectService
	ticketService  interfaces.TicketService
	commentService interfaces.CommentService
}

func NewHandler(
	authService interfaces.AuthService,
	projectService interfaces.ProjectService,
	ticketService interfaces.TicketService,
	commentService interfaces.CommentService,
) *Handler {
	return &Handler{
		authService:    authService,
		projectService: projectService,
		ticketService:  ticketService,
		commentService: commentService,
	}
}

// Register mounts the routes on e. Everything except signup and login sits
// behind requireToken.
func (h *Handler) Register(e *echo.Echo, requireToken echo.MiddlewareFunc) {
	e.POST("/signup", h.Signup)
	e.POST("/login", h.Login)

	e.POST("/logout", h.Logout, requireToken)
	e.GET("/me", h.Me, requireToken)
	e.DELETE("/me", h.DeleteAccount, requireToken)
	e.GET("/assignees", h.SearchAssignees, requireToken)

	e.GET("/tickets", h.ListTickets, requireToken)
	e.POST("/tickets/create", h.CreateTicket, requireToken)
	e.PATCH("/tickets/:id", h.UpdateTicket, requireToken)
	e.PUT("/tickets/:id", h.UpdateTicket, requireToken)
	e.DELETE("/tickets/:id/delete", h.DeleteTicket, requireToken)

	e.GET("/projects", h.ListProjects, requireToken)
	e.POST("/projects/create", h.CreateProject, requireToken)
	e.GET("/projects/:id", h.GetProject, requireToken)
	e.PATCH("/projects/:id/update", h.UpdateProject, requireToken)
	e.DELETE("/projects/:id/delete", h.DeleteProject, requireToken)

	e.GET("/tickets/:id/comments", h.ListComments, requireToken)
	e.POST("/tickets/:id/comments/create", h.CreateComment, requireToken)
	e.PATCH("/comments/:id", h.UpdateComment, requireToken)
	e.PUT("/comments/:id", h.UpdateComment, requireToken)
	e.DELETE("/comments/:id/delete", h.DeleteComment, requireToken)
}

func (h *Handler) Signup(c echo.Context) error {
	var signupCommand command.SignupCommand
	if err := c.Bind(&signupCommand); err != nil {
		return err
	}

	result, err := h.authService.Signup(c.Request().Context(), &signupCommand)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) Login(c echo.Context) error {
	var loginCommand command.LoginCommand
	if err := c.Bind(&loginCommand); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), &loginCommand)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Logout(c echo.Context) error {
	result, err := h.authService.Logout(c.Request().Context(), CurrentToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, h.authService.Me(CurrentUser(c)))
}

func (h *Handler) DeleteAccount(c echo.Context) error {
	result, err := h.authService.DeleteAccount(c.Request().Context(), CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) SearchAssignees(c echo.Context) error {
	searchQuery := query.AssigneeSearchQuery{Q: c.QueryParam("q")}
	result, err := h.authService.SearchAssignees(c.Request().Context(), &searchQuery)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ticketID parses the :id segment. Anything that is not a ticket id cannot
// name a ticket, so it is reported as not found.
func ticketID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domain.NotFound("Ticket not found")
	}
	return uint(id), nil
}

func uuidParam(c echo.Context, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domain.NotFound(notFound)
	}
	return id, nil
}
