package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"gatepass/entity"
)

type postEventRequest struct {
	EventID      string `json:"event_id"`
	Name         string `json:"name"`
	Date         string `json:"date"`
	Venue        string `json:"venue"`
	ImageURL     string `json:"image_url"`
	TotalTickets int    `json:"total_tickets"`
}

func (s *Server) PostEvents(c echo.Context) error {
	var request postEventRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.EventID == "" || request.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "event_id and name are required")
	}

	err := s.eventsRepo.Store(c.Request().Context(), entity.CatalogEvent{
		EventID:      request.EventID,
		Name:         request.Name,
		Date:         request.Date,
		Venue:        request.Venue,
		ImageURL:     request.ImageURL,
		TotalTickets: request.TotalTickets,
	})
	if err != nil {
		return fmt.Errorf("could not store event: %w", err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"event_id": request.EventID})
}

func (s *Server) GetEvent(c echo.Context) error {
	event, err := s.eventsRepo.Get(c.Request().Context(), c.Param("event_id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return fmt.Errorf("could not get event: %w", err)
	}

	return c.JSON(http.StatusOK, event)
}
