package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"board-service/internal/application/command"
)

const commentNotFound = "Comment not found"

func (h *Handler) ListComments(c echo.Context) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}

	result, err := h.commentService.ListComments(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) CreateComment(c echo.Context) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var createCommand command.CreateCommentCommand
	if err := c.Bind(&createCommand); err != nil {
		return err
	}

	result, err := h.commentService.CreateComment(c.Request().Context(), CurrentUser(c), id, &createCommand)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) UpdateComment(c echo.Context) error {
	id, err := uuidParam(c, commentNotFound)
	if err != nil {
		return err
	}
	var updateCommand command.UpdateCommentCommand
	if err := c.Bind(&updateCommand); err != nil {
		return err
	}

	result, err := h.commentService.UpdateComment(c.Request().Context(), CurrentUser(c), id, &updateCommand)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) DeleteComment(c echo.Context) error {
	id, err := uuidParam(c, commentNotFound)
	if err != nil {
		return err
	}

	result, err := h.commentService.DeleteComment(c.Request().Context(), CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
