// Package flow models business flows as data: ordered step sequences that
// describe how cargo packages move through position statuses for one
// operational process (warehouse delivery, container stuffing, destuffing,
// receiving).
//
// The package provides:
//   - Status: position-status tokens, with the empty string meaning "no status yet"
//   - Step: one fromStatus->toStatus edge identified by a code
//   - StepKind: the tagged variant behind a code, with an explicit
//     unimplemented variant so unknown codes fail loudly
//   - Flow: a validated, forward-chained step sequence
//   - Registry: the built-in flow configurations
//
// The workflow engine in the services package interprets these values; nothing
// about a specific flow is hardcoded outside the registry data.
package flow
