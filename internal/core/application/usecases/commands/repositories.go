// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"freightops/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// TransactionRepoFactory provides access to the transaction repository within a transaction.
	TransactionRepoFactory interface {
		TransactionRepository() ports.TransactionRepository
	}

	// PackageRepoFactory provides access to the package repository within a transaction.
	PackageRepoFactory interface {
		PackageRepository() ports.PackageRepository
	}

	// TransactionUoW manages transactions for operations touching only the
	// transaction aggregate (delete, watchdog updates).
	TransactionUoW interface {
		TxManager
		TransactionRepoFactory
	}

	// TransactionUoWFactory creates new transaction unit of work instances.
	TransactionUoWFactory interface {
		Create() TransactionUoW
	}

	// UoW manages transactions across the transaction aggregate and the
	// package store. Used by commands that move packages through flow steps.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   txnRepo := uow.TransactionRepository()
	//   packageRepo := uow.PackageRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		TransactionRepoFactory
		PackageRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// TransactionCodeGenerator produces the human-facing codes assigned to new
// transactions ("PT-..."). Codes are unique across the installation.
type TransactionCodeGenerator interface {
	Next() (string, error)
}
