package model

import "time"

// Ticket is a municipal issue report. Tickets are opened by anyone (no
// login required), stay active until closed, and are never deleted. The
// color is resolved from the TicketType lookup table at creation time.
type Ticket struct {
	TicketID    int64      // Ticket.ticketID
	Type        string     // TicketType.description (joined)
	Color       string     // TicketType.color (joined)
	Title       string     // Ticket.title
	Description string     // Ticket.description
	GPS         string     // Ticket.gps
	ImgLink     *string    // Ticket.imgLink (nullable)
	Notes       *string    // Ticket.notes (nullable)
	Priority    bool       // Ticket.priority
	Active      bool       // Ticket.active
	Username    string     // Ticket.username
	Date        time.Time  // Ticket.date (opened)
	DateClosed  *time.Time // Ticket.dateClosed (nullable)
}
