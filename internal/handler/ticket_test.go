package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentrails/data-relay/internal/model"
	"github.com/opentrails/data-relay/internal/queue"
	"github.com/opentrails/data-relay/internal/repository"
)

type fakeTicketType struct {
	code  int
	color string
}

// fakeTickets is an in-memory TicketStore.
type fakeTickets struct {
	types  map[string]fakeTicketType
	rows   map[int64]*model.Ticket
	nextID int64
}

func newFakeTickets() *fakeTickets {
	return &fakeTickets{
		types:  map[string]fakeTicketType{"pothole": {code: 1, color: "red"}},
		rows:   map[int64]*model.Ticket{},
		nextID: 1,
	}
}

func (f *fakeTickets) TypeColor(_ context.Context, description string) (int, string, error) {
	t, ok := f.types[description]
	if !ok {
		return 0, "", repository.ErrUnknownTicketType
	}
	return t.code, t.color, nil
}

func (f *fakeTickets) Create(_ context.Context, t model.Ticket, _ int) (int64, error) {
	id := f.nextID
	f.nextID++
	t.TicketID = id
	f.rows[id] = &t
	return id, nil
}

func (f *fakeTickets) ListAll(_ context.Context) ([]model.Ticket, error) {
	out := make([]model.Ticket, 0, len(f.rows))
	for _, t := range f.rows {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTickets) Close(_ context.Context, ticketID int64) error {
	t, ok := f.rows[ticketID]
	if !ok {
		return repository.ErrTicketNotFound
	}
	t.Active = false
	now := time.Now().UTC()
	if t.DateClosed == nil {
		t.DateClosed = &now
	}
	return nil
}

func (f *fakeTickets) SetNotes(_ context.Context, ticketID int64, notes string) error {
	t, ok := f.rows[ticketID]
	if !ok {
		return repository.ErrTicketNotFound
	}
	t.Notes = &notes
	return nil
}

func (f *fakeTickets) SetPriority(_ context.Context, ticketID int64, priority bool) error {
	t, ok := f.rows[ticketID]
	if !ok {
		return repository.ErrTicketNotFound
	}
	t.Priority = priority
	return nil
}

func TestCreateTicketUnknownType(t *testing.T) {
	t.Parallel()

	h := NewTicketHandler(newFakeTickets(), nil)
	e := echo.New()

	c, rec := postJSON(e, "/trails/api/1/Ticket", `{"type":"graffiti","title":"tag on bridge"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTicketPublishesEvent(t *testing.T) {
	t.Parallel()

	store := newFakeTickets()
	var published []queue.TicketOpenedEvent
	h := NewTicketHandler(store, func(_ context.Context, ev queue.TicketOpenedEvent) error {
		published = append(published, ev)
		return nil
	})
	e := echo.New()

	body := `{"type":"pothole","title":"big hole","description":"on 5th ave","gps":"44.97,-93.26","username":"ren","priority":true}`
	c, rec := postJSON(e, "/trails/api/1/Ticket", body)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		TicketID int64  `json:"ticketID"`
		Color    string `json:"color"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "red", resp.Color)
	require.NotZero(t, resp.TicketID)

	require.Len(t, published, 1)
	assert.Equal(t, resp.TicketID, published[0].TicketID)
	assert.Equal(t, "pothole", published[0].Type)
	assert.True(t, published[0].Priority)

	row := store.rows[resp.TicketID]
	require.NotNil(t, row)
	assert.True(t, row.Active)
	assert.Nil(t, row.DateClosed)
}

func TestTicketLifecycleMutations(t *testing.T) {
	t.Parallel()

	store := newFakeTickets()
	h := NewTicketHandler(store, nil)
	e := echo.New()

	c, rec := postJSON(e, "/trails/api/1/Ticket", `{"type":"pothole","title":"big hole"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = postJSON(e, "/trails/api/1/Ticket/Notes", `{"ticketID":1,"notes":"crew dispatched"}`)
	require.NoError(t, h.Notes(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = postJSON(e, "/trails/api/1/Ticket/Priority", `{"ticketID":1,"priority":true}`)
	require.NoError(t, h.Priority(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = postJSON(e, "/trails/api/1/Ticket/Close", `{"ticketID":1}`)
	require.NoError(t, h.Close(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	row := store.rows[1]
	assert.False(t, row.Active)
	assert.NotNil(t, row.DateClosed)
	assert.True(t, row.Priority)
	require.NotNil(t, row.Notes)
	assert.Equal(t, "crew dispatched", *row.Notes)

	// Unknown ids are 404s.
	c, rec = postJSON(e, "/trails/api/1/Ticket/Close", `{"ticketID":99}`)
	require.NoError(t, h.Close(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
