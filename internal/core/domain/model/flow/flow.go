package flow

import (
	"errors"
	"fmt"

	"freightops/internal/pkg/errs"
	"freightops/internal/pkg/guard"
)

// Status is a position-status token: the physical/operational state of a cargo
// package within the warehouse (stored, checked out, stuffed into a container).
// The empty string means "no status yet": the package has not entered any flow.
type Status string

// Position-status tokens touched by the built-in business flows.
const (
	StatusStored      Status = "STORED"
	StatusCheckout    Status = "CHECKOUT"
	StatusChecked     Status = "CHECKED"
	StatusDelivered   Status = "DELIVERED"
	StatusInContainer Status = "IN_CONTAINER"
	StatusSealed      Status = "SEALED"
	StatusDestuffed   Status = "DESTUFFED"
	StatusReceived    Status = "RECEIVED"
	StatusAtPort      Status = "AT_PORT"
	StatusInYard      Status = "IN_YARD"
)

// IsUnset reports whether the status token is the "no status yet" value.
func (s Status) IsUnset() bool {
	return s == ""
}

// Direction indicates whether a flow moves cargo into the warehouse or out of it.
type Direction int

const (
	// DirectionUnknown represents an invalid or undefined direction.
	DirectionUnknown Direction = iota

	// Inbound flows bring packages into warehouse custody (receiving, destuffing).
	Inbound

	// Outbound flows move packages out of warehouse custody (delivery, stuffing).
	Outbound
)

// String returns the human-readable name of the direction.
func (d Direction) String() string {
	switch d {
	case Inbound:
		return "Inbound"
	case Outbound:
		return "Outbound"
	default:
		return "Unknown"
	}
}

// StepKind is the tagged variant behind a step code. The engine executes a closed
// set of kinds; every code outside that set maps to StepKindUnimplemented so that
// unknown codes fail loudly instead of being silently skipped.
type StepKind int

const (
	// StepKindUnimplemented marks step codes the engine does not know how to
	// execute (container-level or intake steps such as "seal" and "create").
	StepKindUnimplemented StepKind = iota

	// StepKindSelect claims packages into a transaction and checks them out.
	StepKindSelect

	// StepKindInspect records a physical inspection transition.
	StepKindInspect

	// StepKindHandover releases packages to the receiving party.
	StepKindHandover

	// StepKindStore puts packages away into an assigned storage location.
	StepKindStore

	// StepKindStuffing loads packages into a container.
	StepKindStuffing
)

// Step codes the engine knows how to execute.
const (
	StepCodeSelect   = "select"
	StepCodeInspect  = "inspect"
	StepCodeHandover = "handover"
	StepCodeStore    = "store"
	StepCodeStuffing = "stuffing"

	// StepCodeCreate appears in inbound flow data as the intake edge; intake is
	// performed by upstream processes, so the engine treats it as unimplemented.
	StepCodeCreate = "create"
)

// KindOf maps a step code to its executable kind.
// Codes outside the closed set map to StepKindUnimplemented.
func KindOf(code string) StepKind {
	switch code {
	case StepCodeSelect:
		return StepKindSelect
	case StepCodeInspect:
		return StepKindInspect
	case StepCodeHandover:
		return StepKindHandover
	case StepCodeStore:
		return StepKindStore
	case StepCodeStuffing:
		return StepKindStuffing
	default:
		return StepKindUnimplemented
	}
}

// ErrStepIsNotConstructed is returned when using an improperly initialized Step.
var ErrStepIsNotConstructed = errors.New("Step must be created via NewStep constructor")

// Step is one edge of a business flow: a named transition from one position
// status to another. From may be unset for intake edges (a package entering its
// first status); To may never be unset.
//
// Step is an immutable value object; the zero value is invalid.
type Step struct { //nolint:recvcheck //using for validation
	code  string
	from  Status
	to    Status
	guard guard.ConstructorGuard
}

// NewStep creates a validated Step.
//
// Parameters:
//   - code: the step identifier (must be non-empty; need not be executable)
//   - from: the position status a package must hold for this step to apply
//     (empty means the step applies to packages with no status yet)
//   - to: the position status the step moves packages to (must be non-empty)
//
// Returns a validation error if code or to is missing.
func NewStep(code string, from, to Status) (Step, error) {
	step := Step{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(step.setCode(code), step.setTo(to)); err != nil {
		return Step{}, err
	}
	step.from = from

	return step, nil
}

// Validate checks that the Step was created through NewStep.
func (s Step) Validate() error {
	return s.guard.Validate(ErrStepIsNotConstructed)
}

// Code returns the step identifier.
func (s Step) Code() string {
	return s.code
}

// From returns the position status a package must hold before this step.
func (s Step) From() Status {
	return s.from
}

// To returns the position status this step transitions packages to.
func (s Step) To() Status {
	return s.to
}

// Kind returns the executable variant behind the step code.
func (s Step) Kind() StepKind {
	return KindOf(s.code)
}

// IsExecutable reports whether the engine knows how to execute this step.
func (s Step) IsExecutable() bool {
	return s.Kind() != StepKindUnimplemented
}

// String returns a compact representation for logs, e.g. "select(STORED->CHECKOUT)".
func (s Step) String() string {
	from := string(s.from)
	if s.from.IsUnset() {
		from = "unset"
	}
	return fmt.Sprintf("%s(%s->%s)", s.code, from, s.to)
}

func (s *Step) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("step code")
	}
	s.code = code
	return nil
}

func (s *Step) setTo(to Status) error {
	if to.IsUnset() {
		return errs.NewValueIsRequiredError("step toStatus")
	}
	s.to = to
	return nil
}

// ErrFlowIsNotConstructed is returned when using an improperly initialized Flow.
var ErrFlowIsNotConstructed = errors.New("Flow must be created via NewFlow constructor")

// Flow is a named, ordered sequence of steps describing how packages move
// through position statuses for one operational process (delivery, stuffing,
// destuffing, receiving).
//
// Flow invariants:
//   - Must have a non-empty name and a known direction
//   - Must contain at least one step
//   - Steps form a forward chain: each step starts where the previous one ended
//   - Step codes are unique within the flow
//
// The chain invariant is what makes package transitions strictly forward: a
// package's current status matches at most one step, and applying that step
// moves the package to the next link. No step can be skipped or reversed.
type Flow struct { //nolint:recvcheck //using for validation
	name      string
	direction Direction
	steps     []Step
	guard     guard.ConstructorGuard
}

// NewFlow creates a validated Flow from an ordered step list.
//
// Returns a validation error if the name is empty, the direction is unknown,
// the step list is empty, a step code repeats, or the steps do not chain
// (a step's fromStatus differing from the previous step's toStatus).
func NewFlow(name string, direction Direction, steps []Step) (Flow, error) {
	f := Flow{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		f.setName(name),
		f.setDirection(direction),
		f.setSteps(steps),
	); err != nil {
		return Flow{}, err
	}

	return f, nil
}

// Validate checks that the Flow was created through NewFlow.
func (f Flow) Validate() error {
	return f.guard.Validate(ErrFlowIsNotConstructed)
}

// Name returns the flow name, e.g. "warehouseDelivery".
func (f Flow) Name() string {
	return f.name
}

// Direction returns whether the flow is inbound or outbound.
func (f Flow) Direction() Direction {
	return f.direction
}

// Steps returns a copy of the ordered step list.
func (f Flow) Steps() []Step {
	steps := make([]Step, len(f.steps))
	copy(steps, f.steps)
	return steps
}

// StepByCode returns the step with the given code.
// Returns an ObjectNotFoundError if the flow has no such step.
func (f Flow) StepByCode(code string) (Step, error) {
	for _, s := range f.steps {
		if s.code == code {
			return s, nil
		}
	}
	return Step{}, errs.NewObjectNotFoundError("step", code)
}

// ActiveStepFor returns the step whose fromStatus equals the given package
// position status, i.e. the step the package currently sits at. The boolean is
// false when no step matches: the package is either not yet eligible for this
// flow or has already completed it.
func (f Flow) ActiveStepFor(status Status) (Step, bool) {
	for _, s := range f.steps {
		if s.from == status {
			return s, true
		}
	}
	return Step{}, false
}

// InitialStatus returns the fromStatus of the first step (possibly unset for
// inbound flows whose first edge is intake).
func (f Flow) InitialStatus() Status {
	return f.steps[0].from
}

// TerminalStatus returns the toStatus of the last step. A transaction in this
// flow completes when every claimed package has reached this status.
func (f Flow) TerminalStatus() Status {
	return f.steps[len(f.steps)-1].to
}

func (f *Flow) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("flow name")
	}
	f.name = name
	return nil
}

func (f *Flow) setDirection(direction Direction) error {
	if direction != Inbound && direction != Outbound {
		return errs.NewValueIsInvalidErrorWithCause("flow direction",
			fmt.Errorf("%d is not a valid direction", direction))
	}
	f.direction = direction
	return nil
}

func (f *Flow) setSteps(steps []Step) error {
	if len(steps) == 0 {
		return errs.NewValueIsRequiredError("flow steps")
	}

	seen := make(map[string]struct{}, len(steps))
	for i, s := range steps {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := seen[s.code]; dup {
			return errs.NewValueIsInvalidErrorWithCause("flow steps",
				fmt.Errorf("duplicate step code %q", s.code))
		}
		seen[s.code] = struct{}{}

		if i > 0 && s.from != steps[i-1].to {
			return errs.NewValueIsInvalidErrorWithCause("flow steps",
				fmt.Errorf("step %q starts at %q but previous step ends at %q",
					s.code, s.from, steps[i-1].to))
		}
	}

	f.steps = make([]Step, len(steps))
	copy(f.steps, steps)
	return nil
}
