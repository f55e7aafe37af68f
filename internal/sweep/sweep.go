// Package sweep finds the first contact of a shape moving along a straight
// line through a set of static obstacles.
package sweep

import (
	"errors"
	"fmt"
	"math"

	"collisioneer/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("sweep: invalid config")

// Config controls the narrow-phase march.
type Config struct {
	// StepSize is the distance advanced between contact tests.
	StepSize float32 `yaml:"step_size"`
	// Prediction is the separation under which shapes count as touching.
	Prediction float32 `yaml:"prediction"`
}

func DefaultConfig() Config {
	return Config{StepSize: 0.01, Prediction: 0}
}

func (c Config) Validate() error {
	if !(c.StepSize > 0) || math.IsInf(float64(c.StepSize), 0) {
		return fmt.Errorf("step_size %v must be positive: %w", c.StepSize, ErrInvalidConfig)
	}
	if c.Prediction < 0 || math.IsNaN(float64(c.Prediction)) {
		return fmt.Errorf("prediction %v must not be negative: %w", c.Prediction, ErrInvalidConfig)
	}
	return nil
}

// Candidate is a read-only view of one obstacle for a single sweep.
type Candidate struct {
	Entity   uuid.UUID
	Collider *physics.Collider
	Pose     physics.Pose
}

// NewCandidate derives the obstacle's pose from its entity transform.
func NewCandidate(id uuid.UUID, collider *physics.Collider, t physics.Transform) Candidate {
	return Candidate{Entity: id, Collider: collider, Pose: collider.Pose(t)}
}

// Intersection is the first contact found along a sweep.
type Intersection struct {
	Entity            uuid.UUID
	OurNormal         mgl32.Vec3
	TheirNormal       mgl32.Vec3
	OurContactPoint   mgl32.Vec3
	TheirContactPoint mgl32.Vec3
	// Distance is the signed separation at the step of contact.
	Distance float32
	// TOI is the fraction of the requested movement traveled before contact.
	TOI float32
}

type contactFunc func(poseA physics.Pose, a physics.Shape, poseB physics.Pose, b physics.Shape, prediction float32) (physics.ContactResult, bool, error)

// Sweeper runs sweeps with a fixed configuration. It holds no per-sweep
// state and is safe for concurrent use.
type Sweeper struct {
	cfg     Config
	log     *zap.Logger
	contact contactFunc
}

// NewSweeper validates cfg. A nil logger disables logging.
func NewSweeper(cfg Config, log *zap.Logger) (*Sweeper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{cfg: cfg, log: log.Named("sweep"), contact: physics.Contact}, nil
}

func (s *Sweeper) Config() Config { return s.cfg }

// WithPrediction returns a sweeper sharing this one's settings except for
// the prediction margin.
func (s *Sweeper) WithPrediction(prediction float32) *Sweeper {
	c := *s
	c.cfg.Prediction = max(prediction, 0)
	return &c
}

// BroadPhase keeps the candidates whose bounds touch the volume swept by
// shape from start over movement, grown by margin. It never drops a
// candidate that the shape could reach.
func BroadPhase(shape physics.Shape, start physics.Pose, movement mgl32.Vec3, candidates []Candidate, margin float32) []Candidate {
	if len(candidates) == 0 {
		return nil
	}
	swept := physics.SweptBounds(shape, start, start.Translated(movement)).Loosen(margin)

	var out []Candidate
	for _, c := range candidates {
		if c.Collider == nil || c.Collider.Shape == nil {
			continue
		}
		if swept.Intersects(physics.Bounds(c.Collider.Shape, c.Pose)) {
			out = append(out, c)
		}
	}
	return out
}

// Sweep marches shape from start along movement and returns the closest
// contact at the first step that has any. Orientation is held constant.
// Zero movement never intersects.
func (s *Sweeper) Sweep(shape physics.Shape, start physics.Pose, movement mgl32.Vec3, candidates []Candidate) (Intersection, bool) {
	length := float64(movement.Len())
	if !(length > 0) || math.IsInf(length, 0) {
		return Intersection{}, false
	}

	reduced := BroadPhase(shape, start, movement, candidates, s.cfg.Prediction)
	if len(reduced) == 0 {
		return Intersection{}, false
	}

	step := float64(s.cfg.StepSize)
	var traveled float64
	for traveled < length {
		traveled += math.Min(length-traveled, step)
		frac := float32(traveled / length)
		pose := start.Translated(movement.Mul(frac))

		if hit, ok := s.closest(shape, pose, reduced); ok {
			hit.TOI = frac
			return hit, true
		}
	}
	return Intersection{}, false
}

func (s *Sweeper) closest(shape physics.Shape, pose physics.Pose, candidates []Candidate) (Intersection, bool) {
	var best Intersection
	found := false
	for _, c := range candidates {
		res, ok, err := s.contact(pose, shape, c.Pose, c.Collider.Shape, s.cfg.Prediction)
		if err != nil {
			s.log.Warn("contact query failed",
				zap.Stringer("entity", c.Entity),
				zap.Stringer("shape", c.Collider.Shape.Kind()),
				zap.Error(err))
			continue
		}
		if !ok || (found && res.Distance >= best.Distance) {
			continue
		}
		best = Intersection{
			Entity:            c.Entity,
			OurNormal:         res.Normal1,
			TheirNormal:       res.Normal2,
			OurContactPoint:   res.Point1,
			TheirContactPoint: res.Point2,
			Distance:          res.Distance,
		}
		found = true
	}
	return best, found
}
