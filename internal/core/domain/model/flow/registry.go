package flow

import "freightops/internal/pkg/errs"

// Names of the built-in business flows.
const (
	WarehouseDelivery  = "warehouseDelivery"
	StuffingWarehouse  = "stuffingWarehouse"
	DestuffWarehouse   = "destuffWarehouse"
	ReceivingWarehouse = "receivingWarehouse"
)

// Registry resolves flow names to their step configuration. Flows are data, not
// code: the registry is the single place where the operational step sequences
// live, and the engine interprets whatever the registry hands out.
//
// Registry is immutable after construction and safe for concurrent use.
type Registry struct {
	flows map[string]Flow
}

// NewRegistry builds the registry of built-in flows:
//
//	warehouseDelivery  (outbound): select(STORED->CHECKOUT), inspect(CHECKOUT->CHECKED), handover(CHECKED->DELIVERED)
//	stuffingWarehouse  (outbound): select(STORED->CHECKOUT), stuffing(CHECKOUT->IN_CONTAINER)
//	destuffWarehouse   (inbound):  create(->DESTUFFED), store(DESTUFFED->STORED)
//	receivingWarehouse (inbound):  create(->RECEIVED), store(RECEIVED->STORED)
//
// The "create" edges describe intake performed by upstream processes; they are
// present in the data so active-step reporting works for freshly arrived
// packages, but the engine refuses to execute them.
func NewRegistry() (*Registry, error) {
	definitions := []struct {
		name      string
		direction Direction
		steps     [][3]string // code, from, to
	}{
		{
			name:      WarehouseDelivery,
			direction: Outbound,
			steps: [][3]string{
				{StepCodeSelect, string(StatusStored), string(StatusCheckout)},
				{StepCodeInspect, string(StatusCheckout), string(StatusChecked)},
				{StepCodeHandover, string(StatusChecked), string(StatusDelivered)},
			},
		},
		{
			name:      StuffingWarehouse,
			direction: Outbound,
			steps: [][3]string{
				{StepCodeSelect, string(StatusStored), string(StatusCheckout)},
				{StepCodeStuffing, string(StatusCheckout), string(StatusInContainer)},
			},
		},
		{
			name:      DestuffWarehouse,
			direction: Inbound,
			steps: [][3]string{
				{StepCodeCreate, "", string(StatusDestuffed)},
				{StepCodeStore, string(StatusDestuffed), string(StatusStored)},
			},
		},
		{
			name:      ReceivingWarehouse,
			direction: Inbound,
			steps: [][3]string{
				{StepCodeCreate, "", string(StatusReceived)},
				{StepCodeStore, string(StatusReceived), string(StatusStored)},
			},
		},
	}

	flows := make(map[string]Flow, len(definitions))
	for _, def := range definitions {
		steps := make([]Step, 0, len(def.steps))
		for _, raw := range def.steps {
			step, err := NewStep(raw[0], Status(raw[1]), Status(raw[2]))
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
		}

		f, err := NewFlow(def.name, def.direction, steps)
		if err != nil {
			return nil, err
		}
		flows[def.name] = f
	}

	return &Registry{flows: flows}, nil
}

// Get returns the flow configuration for the given name.
// Returns an ObjectNotFoundError for unknown flow names.
func (r *Registry) Get(name string) (Flow, error) {
	f, ok := r.flows[name]
	if !ok {
		return Flow{}, errs.NewObjectNotFoundError("flow", name)
	}
	return f, nil
}

// Names returns the registered flow names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.flows))
	for name := range r.flows {
		names = append(names, name)
	}
	return names
}
