package domain

import "time"

// Store is the tenant boundary. Every status, transition, and automation row
// belongs to exactly one store; cross-store references are invalid everywhere.
type Store struct {
	ID         int64
	Name       string
	Slug       string
	OwnerEmail string
	CreatedAt  time.Time
}
