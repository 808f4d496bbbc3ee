package repository

import (
	"context"
	"database/sql"

	"github.com/opentrails/data-relay/internal/model"
)

// TicketRepo persists municipal issue tickets.
type TicketRepo struct{ DB *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

// TypeColor resolves a ticket type description to its lookup code and
// display color.
func (r *TicketRepo) TypeColor(ctx context.Context, description string) (int, string, error) {
	var (
		code  int
		color string
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT code, color FROM TicketType WHERE description=? LIMIT 1",
		description).Scan(&code, &color)
	if err == sql.ErrNoRows {
		return 0, "", ErrUnknownTicketType
	}
	if err != nil {
		return 0, "", err
	}
	return code, color, nil
}

// Create inserts a ticket and returns its generated id. The type must
// already be resolved to a lookup code via TypeColor.
func (r *TicketRepo) Create(ctx context.Context, t model.Ticket, typeCode int) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO Ticket (type, title, description, gps, imgLink, date, notes, priority, active, username) VALUES (?,?,?,?,?,?,?,?,?,?)",
		typeCode, t.Title, t.Description, t.GPS, t.ImgLink, t.Date, t.Notes, t.Priority, t.Active, t.Username)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAll returns every ticket joined with its type description and color,
// newest first.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT T.ticketID, Y.description, Y.color, T.title, T.description, T.gps, T.imgLink, T.notes, T.priority, T.active, T.username, T.date, T.dateClosed "+
			"FROM Ticket T JOIN TicketType Y ON T.type = Y.code ORDER BY T.date DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.TicketID, &t.Type, &t.Color, &t.Title, &t.Description, &t.GPS,
			&t.ImgLink, &t.Notes, &t.Priority, &t.Active, &t.Username, &t.Date, &t.DateClosed); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Close marks a ticket inactive and stamps dateClosed. Closing an already
// closed ticket is a no-op success; an unknown id is ErrTicketNotFound.
func (r *TicketRepo) Close(ctx context.Context, ticketID int64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE Ticket SET active=0, dateClosed=COALESCE(dateClosed, NOW()) WHERE ticketID=?", ticketID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetNotes replaces the free-text notes of a ticket.
func (r *TicketRepo) SetNotes(ctx context.Context, ticketID int64, notes string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE Ticket SET notes=? WHERE ticketID=?", notes, ticketID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetPriority sets or clears the priority flag of a ticket.
func (r *TicketRepo) SetPriority(ctx context.Context, ticketID int64, priority bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE Ticket SET priority=? WHERE ticketID=?", priority, ticketID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow turns a zero-match UPDATE into ErrTicketNotFound. MySQL
// reports matched rows here (not changed rows) because the DSN sets
// clientFoundRows, so idempotent updates still count as found.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}
