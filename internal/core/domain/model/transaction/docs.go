// Package transaction contains the PackageTransaction aggregate: one party's
// run through a business flow over a packing list. The aggregate owns the
// claimed-package set and the step execution history, and enforces the
// two-state lifecycle (IN_PROGRESS -> DONE) together with the delete guard.
//
// Exclusivity rules that span aggregates (one active transaction per packing
// list and flow, no package claimed by two active transactions) are enforced
// by the command layer over repository lookups, backed by a storage-level
// uniqueness constraint for the create race.
package transaction
