package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"board-service/internal/application/command"
	"board-service/internal/application/query"
)

func (h *Handler) ListTickets(c echo.Context) error {
	listQuery := query.TicketListQuery{ProjectId: c.QueryParam("project_id")}
	result, err := h.ticketService.ListTickets(c.Request().Context(), &listQuery)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) CreateTicket(c echo.Context) error {
	var createCommand command.CreateTicketCommand
	if err := c.Bind(&createCommand); err != nil {
		return err
	}

	result, err := h.ticketService.CreateTicket(c.Request().Context(), &createCommand)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) UpdateTicket(c echo.Context) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var updateCommand command.UpdateTicketCommand
	if err := c.Bind(&updateCommand); err != nil {
		return err
	}

	result, err := h.ticketService.UpdateTicket(c.Request().Context(), id, &updateCommand)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) DeleteTicket(c echo.Context) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}

	result, err := h.ticketService.DeleteTicket(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
