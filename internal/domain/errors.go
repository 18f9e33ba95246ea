package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrStoreNotFound      = errors.New("store not found")
	ErrStatusNotFound     = errors.New("status not found")
	ErrTransitionNotFound = errors.New("transition not found")
	ErrEntityNotFound     = errors.New("entity not found")
)

// SlugConflictError is returned when a store slug or a status slug collides
// within its uniqueness scope.
type SlugConflictError struct {
	Slug string
}

func (e *SlugConflictError) Error() string {
	return fmt.Sprintf("slug %q is already in use", e.Slug)
}

// OwnershipError is returned when an operation references a status that does
// not belong to the expected store and entity type.
type OwnershipError struct {
	StatusID   int64
	StoreID    int64
	EntityType EntityType
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("status %d does not belong to store %d (%s)", e.StatusID, e.StoreID, e.EntityType)
}

// GraphMismatchError is returned when an edge would connect statuses from
// different stores or different entity types.
type GraphMismatchError struct {
	FromStatusID int64
	ToStatusID   int64
}

func (e *GraphMismatchError) Error() string {
	return fmt.Sprintf("statuses %d and %d belong to different graphs", e.FromStatusID, e.ToStatusID)
}

// InvalidEntityTypeError is returned when a caller supplies an unknown entity
// type discriminator.
type InvalidEntityTypeError struct {
	EntityType EntityType
}

func (e *InvalidEntityTypeError) Error() string {
	return fmt.Sprintf("unknown entity type %q", e.EntityType)
}
