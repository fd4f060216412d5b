package metrics

import (
	"math"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

// EnergyDrift is the largest relative change of a conserved energy over a
// run. Only systems implementing dynamo.Hamiltonian are scored.
type EnergyDrift struct {
	dyn      dynamo.System
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(dyn dynamo.System) *EnergyDrift {
	return &EnergyDrift{dyn: dyn}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	h, ok := e.dyn.(dynamo.Hamiltonian)
	if !ok || len(x) != e.dyn.StateDim() {
		return
	}

	energy := h.Energy(x)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
