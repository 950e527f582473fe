package config

import "sort"

// Presets are named toss profiles layered over the defaults.
var Presets = map[string]func(*Config){
	// High arc, slow follower: the ball lobs over and drops onto the face.
	"lob": func(c *Config) {
		c.Curve.AnchorForwardBias = 0.4
		c.Curve.AnchorOffsetMax = 3.0
		c.Steer.TargetSpeed = 7.0
		c.Steer.BoostSpeed = 6.0
	},
	// Flat and fast, straight at the face.
	"liner": func(c *Config) {
		c.Curve.AnchorOffsetMax = 0.8
		c.Curve.HandleStrength = 0.4
		c.Steer.TargetSpeed = 13.0
		c.Steer.BoostSpeed = 11.0
		c.Steer.SteerStrength = 20.0
	},
	// Wide sideways bend around an imagined defender.
	"curler": func(c *Config) {
		c.Curve.AnchorOffsetMax = 3.5
		c.Curve.HandleStrength = 0.8
		c.Steer.TargetSpeed = 10.0
		c.Steer.SteerStrength = 18.0
	},
}

// GetPreset returns the preset layered over defaults, or nil if unknown.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ListPresets returns the preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
