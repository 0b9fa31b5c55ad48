// Package store persists the working copy of the tenant configuration.
//
// Entities are stored as JSON documents keyed by ID, one table per
// collection. The store is deliberately dumb: all consistency rules live
// in the validation package, which operates on the loaded snapshot.
package store

import (
	"context"

	"github.com/hyperengineering/composer/internal/types"
)

// Store defines the contract for tenant-config persistence.
type Store interface {
	// LoadConfig returns the full working configuration.
	LoadConfig(ctx context.Context) (*types.TenantConfig, error)

	GetProgram(ctx context.Context, id string) (*types.Program, error)
	PutProgram(ctx context.Context, id string, p types.Program) error
	DeleteProgram(ctx context.Context, id string) error

	GetForm(ctx context.Context, id string) (*types.Form, error)
	PutForm(ctx context.Context, id string, f types.Form) error
	DeleteForm(ctx context.Context, id string) error

	GetCTA(ctx context.Context, id string) (*types.CTA, error)
	PutCTA(ctx context.Context, id string, c types.CTA) error
	DeleteCTA(ctx context.Context, id string) error

	GetBranch(ctx context.Context, id string) (*types.Branch, error)
	PutBranch(ctx context.Context, id string, b types.Branch) error
	DeleteBranch(ctx context.Context, id string) error

	Close() error
}
