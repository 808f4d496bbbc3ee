// Package repository provides the MySQL persistence layer. This file
// defines sentinel errors shared across repositories so handlers can map
// failure modes to the right HTTP status without inspecting driver errors.
package repository

import "errors"

// ErrUsernameExists is returned when a signup collides with an existing
// username. Handlers translate it into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

// ErrUnknownExerciseType is returned when an activity names an exercise
// type with no row in the exerciseType lookup table.
var ErrUnknownExerciseType = errors.New("unknown exercise type")

// ErrUnknownTicketType is returned when a ticket names a type with no row
// in the TicketType lookup table.
var ErrUnknownTicketType = errors.New("unknown ticket type")

// ErrTicketNotFound is returned by ticket mutations that matched no row.
var ErrTicketNotFound = errors.New("ticket not found")
