package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/tosslab/internal/curve"
	"github.com/san-kum/tosslab/internal/phys"
	"github.com/san-kum/tosslab/internal/steer"
	"github.com/san-kum/tosslab/internal/vec"
)

// Config is the full tunable surface of a toss, loadable from yaml.
type Config struct {
	Scene SceneConfig `yaml:"scene"`
	Curve CurveConfig `yaml:"curve"`
	Drag  DragConfig  `yaml:"drag"`
	Steer SteerConfig `yaml:"steer"`
	Body  phys.Config `yaml:"body"`
	Sim   SimConfig   `yaml:"sim"`
}

// SceneConfig fixes the start, the goal face frame, and the static world.
type SceneConfig struct {
	Start      [3]float64 `yaml:"start"`
	GoalOrigin [3]float64 `yaml:"goal_origin"`
	GoalRight  [3]float64 `yaml:"goal_right"`
	GoalUp     [3]float64 `yaml:"goal_up"`
	GroundY    float64    `yaml:"ground_y"`
	Gravity    float64    `yaml:"gravity"`
	// Backboard is an optional solid slab behind the goal face. Zero
	// min/max disables it.
	BackboardMin [3]float64 `yaml:"backboard_min"`
	BackboardMax [3]float64 `yaml:"backboard_max"`
}

type CurveConfig struct {
	AnchorOffsetMax   float64 `yaml:"anchor_offset_max"`
	AnchorForwardBias float64 `yaml:"anchor_forward_bias"`
	HandleStrength    float64 `yaml:"handle_strength"`
	SampleCount       int     `yaml:"sample_count"`
	XMin              float64 `yaml:"x_min"`
	XMax              float64 `yaml:"x_max"`
	YMin              float64 `yaml:"y_min"`
	YMax              float64 `yaml:"y_max"`
}

type DragConfig struct {
	SpanX float64 `yaml:"span_x"` // fraction of viewport a full-range drag covers
	SpanY float64 `yaml:"span_y"`
}

type SteerConfig struct {
	TargetSpeed    float64 `yaml:"target_speed"`
	SteerStrength  float64 `yaml:"steer_strength"`
	ArriveRadius   float64 `yaml:"arrive_radius"`
	StopOnContact  bool    `yaml:"stop_on_contact"`
	PostHitGravity float64 `yaml:"post_hit_gravity"`
	BoostSpeed     float64 `yaml:"boost_speed"` // release speed along tangent(0)
}

type SimConfig struct {
	Dt          float64 `yaml:"dt"`
	MaxDuration float64 `yaml:"max_duration"`
	Settle      float64 `yaml:"settle"`
	Integrator  string  `yaml:"integrator"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene: SceneConfig{
			Start:      [3]float64{0, 0.5, 0},
			GoalOrigin: [3]float64{0, 1.2, 6},
			GoalRight:  [3]float64{1, 0, 0},
			GoalUp:     [3]float64{0, 1, 0},
			GroundY:    0,
			Gravity:    9.81,
		},
		Curve: CurveConfig{
			AnchorOffsetMax:   2.0,
			AnchorForwardBias: 0.5,
			HandleStrength:    0.6,
			SampleCount:       24,
			XMin:              -1.5,
			XMax:              1.5,
			YMin:              -0.8,
			YMax:              0.8,
		},
		Drag: DragConfig{SpanX: 0.8, SpanY: 0.8},
		Steer: SteerConfig{
			TargetSpeed:    9.0,
			SteerStrength:  14.0,
			ArriveRadius:   0.15,
			StopOnContact:  true,
			PostHitGravity: 1.0,
			BoostSpeed:     7.0,
		},
		Body: phys.Config{
			Mass:          0.45,
			Radius:        0.11,
			Bounce:        0.55,
			Friction:      0.2,
			LinearDamping: 0.05,
			GravityScale:  0, // steering holds the ball on the path until a hit
			Continuous:    true,
		},
		Sim: SimConfig{
			Dt:          0.01,
			MaxDuration: 6.0,
			Settle:      0.75,
			Integrator:  "semi_implicit",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func toVec(a [3]float64) vec.Vec3 { return vec.Vec3{X: a[0], Y: a[1], Z: a[2]} }

// Frame builds the curve frame from the scene.
func (c *Config) Frame() curve.Frame {
	return curve.Frame{
		Start:      toVec(c.Scene.Start),
		FaceOrigin: toVec(c.Scene.GoalOrigin),
		FaceRight:  toVec(c.Scene.GoalRight),
		FaceUp:     toVec(c.Scene.GoalUp),
	}
}

// CurveParams builds the shaping tunables.
func (c *Config) CurveParams() curve.Params {
	return curve.Params{
		AnchorOffsetMax:   c.Curve.AnchorOffsetMax,
		AnchorForwardBias: c.Curve.AnchorForwardBias,
		HandleStrength:    c.Curve.HandleStrength,
		SampleCount:       c.Curve.SampleCount,
		XMin:              c.Curve.XMin,
		XMax:              c.Curve.XMax,
		YMin:              c.Curve.YMin,
		YMax:              c.Curve.YMax,
	}
}

// SteerParams builds the follower tunables.
func (c *Config) SteerParams() steer.Params {
	return steer.Params{
		TargetSpeed:    c.Steer.TargetSpeed,
		SteerStrength:  c.Steer.SteerStrength,
		ArriveRadius:   c.Steer.ArriveRadius,
		StopOnContact:  c.Steer.StopOnContact,
		PostHitGravity: c.Steer.PostHitGravity,
	}
}

// Backboard returns the optional goal slab and whether it is enabled.
func (c *Config) Backboard() (phys.Box, bool) {
	if c.Scene.BackboardMin == c.Scene.BackboardMax {
		return phys.Box{}, false
	}
	return phys.Box{
		Min: toVec(c.Scene.BackboardMin),
		Max: toVec(c.Scene.BackboardMax),
	}, true
}
