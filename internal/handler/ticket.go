package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opentrails/data-relay/internal/model"
	"github.com/opentrails/data-relay/internal/queue"
	"github.com/opentrails/data-relay/internal/repository"
)

// TicketStore is the persistence surface the ticket endpoints need.
// *repository.TicketRepo satisfies it.
type TicketStore interface {
	TypeColor(ctx context.Context, description string) (int, string, error)
	Create(ctx context.Context, t model.Ticket, typeCode int) (int64, error)
	ListAll(ctx context.Context) ([]model.Ticket, error)
	Close(ctx context.Context, ticketID int64) error
	SetNotes(ctx context.Context, ticketID int64, notes string) error
	SetPriority(ctx context.Context, ticketID int64, priority bool) error
}

// TicketHandler serves the municipal-ticket endpoints. None of them
// require a login. Publish, when set, is invoked after a successful
// creation; publish failures are logged by the publisher and never fail the
// request.
type TicketHandler struct {
	Tickets TicketStore
	Publish func(ctx context.Context, ev queue.TicketOpenedEvent) error
}

func NewTicketHandler(tickets TicketStore, publish func(context.Context, queue.TicketOpenedEvent) error) *TicketHandler {
	return &TicketHandler{Tickets: tickets, Publish: publish}
}

type createTicketReq struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	GPS         string  `json:"gps"`
	ImgLink     *string `json:"imgLink"`
	Date        string  `json:"date"`
	Username    string  `json:"username"`
	Priority    bool    `json:"priority"`
}

type ticketResp struct {
	TicketID    int64   `json:"ticketID"`
	Type        string  `json:"type"`
	Color       string  `json:"color"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	GPS         string  `json:"gps"`
	ImgLink     *string `json:"imgLink"`
	Notes       *string `json:"notes"`
	Priority    bool    `json:"priority"`
	Active      int     `json:"active"`
	Username    string  `json:"username"`
	Date        string  `json:"date"`
	DateClosed  *string `json:"dateClosed"`
}

type ticketIDReq struct {
	TicketID int64 `json:"ticketID"`
}

type ticketNotesReq struct {
	TicketID int64  `json:"ticketID"`
	Notes    string `json:"notes"`
}

type ticketPriorityReq struct {
	TicketID int64 `json:"ticketID"`
	Priority bool  `json:"priority"`
}

// Create opens a new ticket. The type must exist in the TicketType lookup
// table; its color is resolved server-side. A ticket.opened event goes out
// after the row is committed.
func (h *TicketHandler) Create(c echo.Context) error {
	var req createTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Type == "" || req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type/title required"})
	}
	opened := time.Now().UTC()
	if req.Date != "" {
		t, err := time.Parse(timeLayout, req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be yyyy-MM-ddTHH:mm:ss"})
		}
		opened = t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	code, color, err := h.Tickets.TypeColor(ctx, req.Type)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownTicketType) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown ticket type"})
		}
		c.Logger().Errorf("ticket type lookup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ticket could not be created"})
	}

	t := model.Ticket{
		Title:       req.Title,
		Description: req.Description,
		GPS:         req.GPS,
		ImgLink:     req.ImgLink,
		Priority:    req.Priority,
		Active:      true,
		Username:    req.Username,
		Date:        opened,
	}
	id, err := h.Tickets.Create(ctx, t, code)
	if err != nil {
		c.Logger().Errorf("ticket create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ticket could not be created"})
	}

	if h.Publish != nil {
		_ = h.Publish(ctx, queue.TicketOpenedEvent{
			TicketID: id,
			Type:     req.Type,
			Color:    color,
			Title:    req.Title,
			GPS:      req.GPS,
			Username: req.Username,
			Priority: req.Priority,
			OpenedAt: opened.Format(timeLayout),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{"ticketID": id, "color": color})
}

// List returns every ticket, newest first.
func (h *TicketHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tickets, err := h.Tickets.ListAll(ctx)
	if err != nil {
		c.Logger().Errorf("ticket list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tickets could not be retrieved"})
	}
	out := make([]ticketResp, 0, len(tickets))
	for _, t := range tickets {
		resp := ticketResp{
			TicketID:    t.TicketID,
			Type:        t.Type,
			Color:       t.Color,
			Title:       t.Title,
			Description: t.Description,
			GPS:         t.GPS,
			ImgLink:     t.ImgLink,
			Notes:       t.Notes,
			Priority:    t.Priority,
			Username:    t.Username,
			Date:        t.Date.Format(timeLayout),
		}
		if t.Active {
			resp.Active = 1
		}
		if t.DateClosed != nil {
			s := t.DateClosed.Format(timeLayout)
			resp.DateClosed = &s
		}
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

// Close deactivates a ticket and stamps its close time.
func (h *TicketHandler) Close(c echo.Context) error {
	var req ticketIDReq
	if err := c.Bind(&req); err != nil || req.TicketID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticketID required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tickets.Close(ctx, req.TicketID); err != nil {
		return h.mutationError(c, "ticket close", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ticketID": req.TicketID})
}

// Notes replaces the free-text notes of a ticket.
func (h *TicketHandler) Notes(c echo.Context) error {
	var req ticketNotesReq
	if err := c.Bind(&req); err != nil || req.TicketID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticketID required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tickets.SetNotes(ctx, req.TicketID, req.Notes); err != nil {
		return h.mutationError(c, "ticket notes", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ticketID": req.TicketID})
}

// Priority sets or clears a ticket's priority flag.
func (h *TicketHandler) Priority(c echo.Context) error {
	var req ticketPriorityReq
	if err := c.Bind(&req); err != nil || req.TicketID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticketID required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tickets.SetPriority(ctx, req.TicketID, req.Priority); err != nil {
		return h.mutationError(c, "ticket priority", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ticketID": req.TicketID})
}

func (h *TicketHandler) mutationError(c echo.Context, op string, err error) error {
	if errors.Is(err, repository.ErrTicketNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	c.Logger().Errorf("%s: %v", op, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ticket could not be updated"})
}
