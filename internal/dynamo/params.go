package dynamo

import "fmt"

// Parameter names accepted by Params.Get and Params.Set.
const (
	ParamMass      = "mass"
	ParamCharge    = "charge"
	ParamField     = "field"
	ParamVPerp     = "vperp"
	ParamVPar      = "vpar"
	ParamTimeScale = "timescale"
)

// ParamNames lists the numeric parameters in display order.
var ParamNames = []string{ParamMass, ParamCharge, ParamField, ParamVPerp, ParamVPar, ParamTimeScale}

// Params holds the physical parameters of one particle and the playback
// controls that go with them.
type Params struct {
	Mass      float64 `json:"mass"`
	Charge    float64 `json:"charge"`
	Field     float64 `json:"field"`
	VPerp     float64 `json:"vperp"`
	VPar      float64 `json:"vpar"`
	TimeScale float64 `json:"timescale"`
	Follow    bool    `json:"follow"`
}

func DefaultParams() Params {
	return Params{
		Mass:      1.0,
		Charge:    1.0,
		Field:     1.0,
		VPerp:     1.0,
		VPar:      0.2,
		TimeScale: 1.0,
	}
}

// Get returns the named numeric parameter.
func (p Params) Get(name string) (float64, error) {
	switch name {
	case ParamMass:
		return p.Mass, nil
	case ParamCharge:
		return p.Charge, nil
	case ParamField:
		return p.Field, nil
	case ParamVPerp:
		return p.VPerp, nil
	case ParamVPar:
		return p.VPar, nil
	case ParamTimeScale:
		return p.TimeScale, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
}

// Set assigns the named numeric parameter. Values are not range checked.
func (p *Params) Set(name string, v float64) error {
	switch name {
	case ParamMass:
		p.Mass = v
	case ParamCharge:
		p.Charge = v
	case ParamField:
		p.Field = v
	case ParamVPerp:
		p.VPerp = v
	case ParamVPar:
		p.VPar = v
	case ParamTimeScale:
		p.TimeScale = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

// Map returns the numeric parameters keyed by name.
func (p Params) Map() map[string]float64 {
	return map[string]float64{
		ParamMass:      p.Mass,
		ParamCharge:    p.Charge,
		ParamField:     p.Field,
		ParamVPerp:     p.VPerp,
		ParamVPar:      p.VPar,
		ParamTimeScale: p.TimeScale,
	}
}
