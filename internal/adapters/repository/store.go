// Package repository defines the race store interface and errors.
package repository

import (
	"context"

	"github.com/okian/carrera/internal/domain/model"
)

// Store loads and saves the whole race collection as one document.
// There are no partial updates and no indexes.
type Store interface {
	// Load returns the full collection, initialising an empty document
	// when none exists yet.
	Load(ctx context.Context) (model.Collection, error)

	// Save replaces the persisted document with c.
	Save(ctx context.Context, c model.Collection) error
}
