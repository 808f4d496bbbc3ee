// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// TicketOpenedEvent is published when a municipal ticket is created. It
// carries enough for downstream consumers to log or notify without querying
// the primary database.
type TicketOpenedEvent struct {
	TicketID int64  `json:"ticket_id"`
	Type     string `json:"type"`
	Color    string `json:"color"`
	Title    string `json:"title"`
	GPS      string `json:"gps"`
	Username string `json:"username"`
	Priority bool   `json:"priority"`
	OpenedAt string `json:"opened_at"`
}
