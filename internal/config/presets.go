package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

type Preset struct {
	Description string
	Params      dynamo.Params
}

var Presets = map[string]Preset{
	"electron": {
		Description: "light negative charge, tight fast gyration",
		Params:      dynamo.Params{Mass: 0.5, Charge: -1, Field: 2, VPerp: 1, VPar: 0.3, TimeScale: 1},
	},
	"proton": {
		Description: "heavy positive charge, wide slow gyration",
		Params:      dynamo.Params{Mass: 4, Charge: 1, Field: 1, VPerp: 2, VPar: 0.2, TimeScale: 1},
	},
	"drift": {
		Description: "no field, straight-line motion",
		Params:      dynamo.Params{Mass: 1, Charge: 1, Field: 0, VPerp: 1, VPar: 0.5, TimeScale: 1},
	},
	"tight": {
		Description: "strong field, small radius, long pitch",
		Params:      dynamo.Params{Mass: 1, Charge: 2, Field: 4, VPerp: 1, VPar: 1, TimeScale: 1},
	},
	"slow": {
		Description: "default particle at quarter speed, camera following",
		Params:      dynamo.Params{Mass: 1, Charge: 1, Field: 1, VPerp: 1, VPar: 0.2, TimeScale: 0.25, Follow: true},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces the particle parameters with the named preset.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset %q (available: %v)", name, ListPresets())
	}
	c.Params = FromParams(p.Params)
	return nil
}
