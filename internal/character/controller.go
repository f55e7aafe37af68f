// Package character moves a kinematic character through static obstacles
// with acceleration, friction, gravity, ground snapping and sliding.
package character

import (
	"fmt"

	"collisioneer/internal/physics"
	"collisioneer/internal/sweep"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var up = mgl32.Vec3{0, 1, 0}

// Controller holds the persistent movement state of one character.
// It is not safe for concurrent use; give each character its own.
type Controller struct {
	params Params

	sweeper *sweep.Sweeper
	ground  *sweep.Sweeper
	probe   *physics.Cylinder
	log     *zap.Logger

	// Runtime state
	velocity mgl32.Vec3
	grounded bool
}

// NewController creates a controller that sweeps with s. A nil logger
// disables logging.
func NewController(p Params, s *sweep.Sweeper, log *zap.Logger) (*Controller, error) {
	if s == nil {
		return nil, fmt.Errorf("character: controller requires a sweeper")
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{sweeper: s, log: log.Named("character")}
	if err := c.SetParams(p); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) Params() Params { return c.params }

// SetParams swaps the tunables, keeping velocity and grounded state.
func (c *Controller) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	probe, err := physics.NewCylinder(p.Width*0.5, p.ProbeHalfHeight)
	if err != nil {
		return fmt.Errorf("character: ground probe: %w", err)
	}
	c.params = p
	c.probe = probe
	c.ground = c.sweeper.WithPrediction(p.ProbeMargin)
	return nil
}

func (c *Controller) Velocity() mgl32.Vec3 { return c.velocity }

func (c *Controller) SetVelocity(v mgl32.Vec3) { c.velocity = v }

func (c *Controller) IsGrounded() bool { return c.grounded }

// Update advances the character by dt seconds. Only the controller state and
// t are modified; obstacles must not contain the character itself.
func (c *Controller) Update(dt float32, collider *physics.Collider, t *physics.Transform, obstacles []sweep.Candidate, in Input) {
	if !(dt > 0) {
		dt = 0
	}

	c.accelerate(in.WishDir(t.Rotation), dt)
	c.detectGround(t, dt, obstacles)
	if c.grounded {
		c.applyFriction(dt)
		if in.Jump {
			c.velocity[1] = c.params.JumpSpeed
			c.grounded = false
			c.log.Debug("jump", zap.Float32("speed", c.params.JumpSpeed))
		}
	} else {
		c.velocity[1] -= c.params.Gravity * dt
	}
	c.moveAndSlide(dt, collider, t, obstacles)
}

// accelerate adds speed along wish without exceeding the move speed.
func (c *Controller) accelerate(wish mgl32.Vec3, dt float32) {
	add := c.params.MoveSpeed - c.velocity.Len()
	if add <= 0 {
		return
	}
	accel := min(c.params.MoveAccel*dt*c.params.MoveSpeed, add)
	c.velocity = c.velocity.Add(wish.Mul(accel))
}

func (c *Controller) applyFriction(dt float32) {
	speed := c.velocity.Len()
	if speed == 0 {
		return
	}
	next := max(speed-speed*c.params.MoveFriction*dt, 0)
	c.velocity = c.velocity.Mul(next / speed)
}

// detectGround sweeps a thin disc down from where the character is about to
// be. A walkable hit snaps the character onto it; anything else means
// airborne.
func (c *Controller) detectGround(t *physics.Transform, dt float32, obstacles []sweep.Candidate) {
	was := c.grounded
	from := physics.NewPose(t.Translation.Add(c.velocity.Mul(dt)))
	down := mgl32.Vec3{0, -c.params.StepHeight(), 0}

	hit, ok := c.ground.Sweep(c.probe, from, down, obstacles)
	if ok && hit.TheirNormal.Dot(up) > c.params.GroundNormalThreshold {
		c.grounded = true
		t.Translation[1] = hit.TheirContactPoint.Y() + c.params.Height*0.5 + c.params.GroundClearance
		c.velocity[1] = 0
	} else {
		c.grounded = false
	}

	if was != c.grounded {
		c.log.Debug("ground state changed",
			zap.Bool("grounded", c.grounded),
			zap.Float32("y", t.Translation.Y()))
	}
}

func (c *Controller) moveAndSlide(dt float32, collider *physics.Collider, t *physics.Transform, obstacles []sweep.Candidate) {
	for i := 0; i < c.params.MaxSlideIterations; i++ {
		movement := c.velocity.Mul(dt)
		if movement.Len() == 0 {
			return
		}

		hit, ok := c.sweeper.Sweep(collider.Shape, collider.Pose(*t), movement, obstacles)
		if !ok {
			t.Translation = t.Translation.Add(movement)
			return
		}

		n := hit.TheirNormal
		c.velocity = c.velocity.Sub(n.Mul(c.velocity.Dot(n)))
		t.Translation = t.Translation.Add(safeNormalize(c.velocity).Mul(max(hit.Distance, 0)))
		t.Translation = t.Translation.Add(n.Mul(c.params.Overclip))
		dt *= 1 - hit.TOI
	}
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
