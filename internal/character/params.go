package character

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidParams = errors.New("character: invalid params")

// Params are the tunables of a character. They can change between frames.
type Params struct {
	MoveSpeed    float32 `yaml:"move_speed"`
	MoveAccel    float32 `yaml:"move_accel"`
	MoveFriction float32 `yaml:"move_friction"`
	Gravity      float32 `yaml:"gravity"`
	JumpSpeed    float32 `yaml:"jump_speed"`

	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`

	// Overclip pushes the character off a surface after each slide.
	Overclip float32 `yaml:"overclip"`
	// GroundClearance is kept between the feet and the ground when snapping.
	GroundClearance float32 `yaml:"ground_clearance"`
	// GroundNormalThreshold is the minimum up component of a walkable normal.
	GroundNormalThreshold float32 `yaml:"ground_normal_threshold"`
	ProbeHalfHeight       float32 `yaml:"probe_half_height"`
	// ProbeMargin is the prediction used by the ground probe. It spans more
	// than one sweep step so a resting character is found before touching.
	ProbeMargin        float32 `yaml:"probe_margin"`
	MaxSlideIterations int     `yaml:"max_slide_iterations"`
}

func DefaultParams() Params {
	return Params{
		MoveSpeed:             12,
		MoveAccel:             10,
		MoveFriction:          10,
		Gravity:               9.81,
		JumpSpeed:             5,
		Width:                 1,
		Height:                1.7,
		Overclip:              0.001,
		GroundClearance:       0.01,
		GroundNormalThreshold: 0.7,
		ProbeHalfHeight:       0.01,
		ProbeMargin:           0.02,
		MaxSlideIterations:    4,
	}
}

// StepHeight is how far below its center the ground probe reaches.
func (p Params) StepHeight() float32 { return p.Height * 0.5 }

func (p Params) Validate() error {
	positive := []struct {
		name string
		v    float32
	}{
		{"move_speed", p.MoveSpeed},
		{"width", p.Width},
		{"height", p.Height},
		{"probe_half_height", p.ProbeHalfHeight},
	}
	for _, f := range positive {
		if !finite(f.v) || f.v <= 0 {
			return fmt.Errorf("%s %v must be positive: %w", f.name, f.v, ErrInvalidParams)
		}
	}

	nonNegative := []struct {
		name string
		v    float32
	}{
		{"move_accel", p.MoveAccel},
		{"move_friction", p.MoveFriction},
		{"gravity", p.Gravity},
		{"jump_speed", p.JumpSpeed},
		{"overclip", p.Overclip},
		{"ground_clearance", p.GroundClearance},
		{"probe_margin", p.ProbeMargin},
	}
	for _, f := range nonNegative {
		if !finite(f.v) || f.v < 0 {
			return fmt.Errorf("%s %v must not be negative: %w", f.name, f.v, ErrInvalidParams)
		}
	}

	if !finite(p.GroundNormalThreshold) || p.GroundNormalThreshold < 0 || p.GroundNormalThreshold > 1 {
		return fmt.Errorf("ground_normal_threshold %v must be in [0, 1]: %w", p.GroundNormalThreshold, ErrInvalidParams)
	}
	if p.MaxSlideIterations < 1 {
		return fmt.Errorf("max_slide_iterations %d must be at least 1: %w", p.MaxSlideIterations, ErrInvalidParams)
	}
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
