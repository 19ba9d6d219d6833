// Package cargo contains the Package entity: a physical unit of cargo whose
// position status moves strictly forward through the steps of a business flow.
// Packages are owned by the package store; the workflow engine only requests
// status mutations through ApplyStep.
package cargo
