package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"board-service/internal/application/command"
)

const projectNotFound = "Project not found"

func (h *Handler) ListProjects(c echo.Context) error {
	result, err := h.projectService.ListProjects(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetProject(c echo.Context) error {
	id, err := uuidParam(c, projectNotFound)
	if err != nil {
		return err
	}

	result, err := h.projectService.GetProject(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) CreateProject(c echo.Context) error {
	var createCommand command.CreateProjectCommand
	if err := c.Bind(&createCommand); err != nil {
		return err
	}

	result, err := h.projectService.CreateProject(c.Request().Context(), CurrentUser(c), &createCommand)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) UpdateProject(c echo.Context) error {
	id, err := uuidParam(c, projectNotFound)
	if err != nil {
		return err
	}
	var updateCommand command.UpdateProjectCommand
	if err := c.Bind(&updateCommand); err != nil {
		return err
	}

	result, err := h.projectService.UpdateProject(c.Request().Context(), CurrentUser(c), id, &updateCommand)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) DeleteProject(c echo.Context) error {
	id, err := uuidParam(c, projectNotFound)
	if err != nil {
		return err
	}

	result, err := h.projectService.DeleteProject(c.Request().Context(), CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
