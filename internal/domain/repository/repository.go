// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import "context"

// Repository is the generic persistence contract shared by every entity store.
// Entity-specific repositories embed it and add only their extra queries.
type Repository[T any, ID comparable] interface {
	// FindByID retrieves a single record by its primary key.
	FindByID(ctx context.Context, id ID) (*T, error)

	// Create persists a new record and fills in generated fields (id, timestamps).
	Create(ctx context.Context, record *T) error

	// Update writes the mutable fields of an existing record and refreshes its timestamps.
	Update(ctx context.Context, record *T) error

	// Delete removes a record. It reports false when nothing matched the id.
	Delete(ctx context.Context, id ID) (bool, error)
}
