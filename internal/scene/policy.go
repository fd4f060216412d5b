package scene

import (
	"fmt"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

// NameFollow is the change name for the follow toggle. A non-zero value
// enables following.
const NameFollow = "follow"

// Change is one parameter edit coming from a renderer or a script.
type Change struct {
	Name  string
	Value float64
}

func (c Change) String() string {
	return fmt.Sprintf("%s=%g", c.Name, c.Value)
}

// Policy says which changes restart the trajectory from t=0. Physical
// parameters reset because the closed form always starts at the origin; a
// change of speed or camera does not.
type Policy map[string]bool

func DefaultPolicy() Policy {
	return Policy{
		dynamo.ParamMass:      true,
		dynamo.ParamCharge:    true,
		dynamo.ParamField:     true,
		dynamo.ParamVPerp:     true,
		dynamo.ParamVPar:      true,
		dynamo.ParamTimeScale: false,
		NameFollow:            false,
	}
}

// With returns a copy of p with overrides applied. Unknown names are an
// error so that typos in configuration files surface.
func (p Policy) With(overrides map[string]bool) (Policy, error) {
	out := make(Policy, len(p))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		if _, ok := out[k]; !ok {
			return nil, fmt.Errorf("reset policy %q: %w", k, dynamo.ErrUnknownParam)
		}
		out[k] = v
	}
	return out, nil
}

func (p Policy) Resets(name string) bool {
	return p[name]
}
