package sweep

import (
	"testing"

	"collisioneer/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newSweeper(t *testing.T) *Sweeper {
	t.Helper()
	s, err := NewSweeper(DefaultConfig(), nil)
	require.NoError(t, err)
	return s
}

func cuboidCandidate(t *testing.T, center, half mgl32.Vec3) Candidate {
	t.Helper()
	c, err := physics.CuboidCollider(half)
	require.NoError(t, err)
	return NewCandidate(uuid.New(), c, physics.NewTransform(center))
}

func unitCube(t *testing.T) physics.Shape {
	t.Helper()
	s, err := physics.NewCuboid(mgl32.Vec3{0.5, 0.5, 0.5})
	require.NoError(t, err)
	return s
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"zero step", Config{StepSize: 0}, true},
		{"negative step", Config{StepSize: -0.01}, true},
		{"negative prediction", Config{StepSize: 0.01, Prediction: -1}, true},
		{"with prediction", Config{StepSize: 0.05, Prediction: 0.1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				_, err = NewSweeper(tt.cfg, nil)
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBroadPhaseFiltersBySweptBounds(t *testing.T) {
	near := cuboidCandidate(t, mgl32.Vec3{3, 0, 0}, mgl32.Vec3{0.5, 0.5, 0.5})
	behind := cuboidCandidate(t, mgl32.Vec3{-3, 0, 0}, mgl32.Vec3{0.5, 0.5, 0.5})
	far := cuboidCandidate(t, mgl32.Vec3{100, 100, 100}, mgl32.Vec3{0.5, 0.5, 0.5})
	edge := cuboidCandidate(t, mgl32.Vec3{0, 1.05, 0}, mgl32.Vec3{0.5, 0.5, 0.5})

	got := BroadPhase(unitCube(t), physics.NewPose(mgl32.Vec3{}), mgl32.Vec3{2.5, 0, 0},
		[]Candidate{near, behind, far, edge}, 0)
	require.Len(t, got, 1)
	assert.Equal(t, near.Entity, got[0].Entity)

	got = BroadPhase(unitCube(t), physics.NewPose(mgl32.Vec3{}), mgl32.Vec3{2.5, 0, 0},
		[]Candidate{near, behind, far, edge}, 0.1)
	assert.Len(t, got, 2, "the margin reaches the box above")

	assert.Empty(t, BroadPhase(unitCube(t), physics.NewPose(mgl32.Vec3{}), mgl32.Vec3{1, 0, 0}, nil, 0))
}

func TestSweepNoIntersection(t *testing.T) {
	s := newSweeper(t)
	wall := cuboidCandidate(t, mgl32.Vec3{5, 0, 0}, mgl32.Vec3{0.5, 2, 2})

	tests := []struct {
		name       string
		movement   mgl32.Vec3
		candidates []Candidate
	}{
		{"clear path", mgl32.Vec3{0, 0, 3}, []Candidate{wall}},
		{"stops short", mgl32.Vec3{3, 0, 0}, []Candidate{wall}},
		{"empty candidates", mgl32.Vec3{10, 0, 0}, nil},
		{"zero movement", mgl32.Vec3{}, []Candidate{wall}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := s.Sweep(unitCube(t), physics.NewPose(mgl32.Vec3{}), tt.movement, tt.candidates)
			assert.False(t, ok)
		})
	}
}

func TestSweepIntoWall(t *testing.T) {
	s := newSweeper(t)
	wall := cuboidCandidate(t, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{0.5, 2, 2})

	hit, ok := s.Sweep(unitCube(t), physics.NewPose(mgl32.Vec3{}), mgl32.Vec3{2, 0, 0}, []Candidate{wall})
	require.True(t, ok)
	assert.Equal(t, wall.Entity, hit.Entity)
	assert.InDelta(t, 0.5, hit.TOI, 0.006)
	assert.GreaterOrEqual(t, hit.TOI, float32(0))
	assert.LessOrEqual(t, hit.TOI, float32(1))
	assert.LessOrEqual(t, hit.Distance, float32(1e-6))
	assert.Greater(t, hit.Distance, float32(-0.011))
	assert.InDelta(t, -1, hit.TheirNormal.X(), 1e-4)
	assert.InDelta(t, 1, hit.OurNormal.X(), 1e-4)
	assert.InDelta(t, 1.5, hit.TheirContactPoint.X(), 1e-4)
}

func TestSweepPicksClosestAtFirstHitStep(t *testing.T) {
	s := newSweeper(t)
	back := cuboidCandidate(t, mgl32.Vec3{2, -0.6, 0}, mgl32.Vec3{0.5, 0.4, 0.4})
	front := cuboidCandidate(t, mgl32.Vec3{1.995, 0.6, 0}, mgl32.Vec3{0.5, 0.4, 0.4})

	hit, ok := s.Sweep(unitCube(t), physics.NewPose(mgl32.Vec3{}), mgl32.Vec3{2, 0, 0}, []Candidate{back, front})
	require.True(t, ok)
	assert.Equal(t, front.Entity, hit.Entity)
}

func TestSweepStartingInContact(t *testing.T) {
	s := newSweeper(t)
	floor := cuboidCandidate(t, mgl32.Vec3{0, -0.9, 0}, mgl32.Vec3{5, 0.5, 5})

	hit, ok := s.Sweep(unitCube(t), physics.NewPose(mgl32.Vec3{}), mgl32.Vec3{1, 0, 0}, []Candidate{floor})
	require.True(t, ok)
	assert.InDelta(t, 0.01, hit.TOI, 1e-6)
	assert.InDelta(t, -0.1, hit.Distance, 1e-4)
	assert.InDelta(t, 1, hit.TheirNormal.Y(), 1e-4)
}

func TestSweepWithPredictionReportsEarlier(t *testing.T) {
	s := newSweeper(t)
	wall := cuboidCandidate(t, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{0.5, 2, 2})

	loose := s.WithPrediction(0.25)
	assert.Equal(t, float32(0.25), loose.Config().Prediction)
	assert.Equal(t, float32(0), s.Config().Prediction)

	hit, ok := loose.Sweep(unitCube(t), physics.NewPose(mgl32.Vec3{}), mgl32.Vec3{2, 0, 0}, []Candidate{wall})
	require.True(t, ok)
	assert.InDelta(t, 0.375, hit.TOI, 0.006)
	assert.Greater(t, hit.Distance, float32(0))
}

func TestSweepLogsAndSkipsContactFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s, err := NewSweeper(DefaultConfig(), zap.New(core))
	require.NoError(t, err)

	broken := cuboidCandidate(t, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0.5, 0.5, 0.5})
	s.contact = func(physics.Pose, physics.Shape, physics.Pose, physics.Shape, float32) (physics.ContactResult, bool, error) {
		return physics.ContactResult{}, false, physics.ErrNoConvergence
	}

	_, ok := s.Sweep(unitCube(t), physics.NewPose(mgl32.Vec3{}), mgl32.Vec3{0.05, 0, 0}, []Candidate{broken})
	assert.False(t, ok)
	require.GreaterOrEqual(t, logs.Len(), 5, "one warning per step")
	entry := logs.All()[0]
	assert.Equal(t, "contact query failed", entry.Message)
	assert.Equal(t, broken.Entity.String(), entry.ContextMap()["entity"])
}

func BenchmarkSweepManyFarColliders(b *testing.B) {
	s, err := NewSweeper(DefaultConfig(), nil)
	require.NoError(b, err)

	far, err := physics.CuboidCollider(mgl32.Vec3{0.5, 0.5, 0.5})
	require.NoError(b, err)
	floor, err := physics.CuboidCollider(mgl32.Vec3{10, 0.1, 10})
	require.NoError(b, err)

	candidates := []Candidate{NewCandidate(uuid.New(), floor, physics.NewTransform(mgl32.Vec3{0, -1.2, 0}))}
	for i := 0; i < 15000; i++ {
		candidates = append(candidates, NewCandidate(uuid.New(), far, physics.NewTransform(mgl32.Vec3{100, 100, 100})))
	}
	probe, err := physics.NewCylinder(0.5, 0.85)
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Sweep(probe, physics.NewPose(mgl32.Vec3{0, 0, 4}), mgl32.Vec3{0.2, -0.3, 0}, candidates)
	}
}
