// Package services provides domain services that orchestrate business
// operations across the transaction and cargo aggregates.
//
// The package includes:
//   - StepExecutor: runs one flow step over a batch of packages within a
//     transaction, all-or-nothing by default with an explicit best-effort mode
//   - Aggregator: recomputes transaction progress and completion from
//     authoritative package states, never from cached counters
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
