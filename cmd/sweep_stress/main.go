// Stress test timing character updates against growing obstacle counts.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"collisioneer/internal/character"
	"collisioneer/internal/logging"
	"collisioneer/internal/physics"
	"collisioneer/internal/scene"
	"collisioneer/internal/sweep"
	"collisioneer/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	characters := flag.Int("characters", 8, "characters walking on the floor")
	frames := flag.Int("frames", 120, "frames per run")
	level := flag.String("log", "warn", "log level")
	flag.Parse()

	log, _, err := logging.New(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// Test various obstacle counts
	counts := []int{100, 1000, 5000, 15000, 50000}
	for _, count := range counts {
		if err := run(log, count, *characters, *frames); err != nil {
			log.Fatal("run failed", zap.Int("obstacles", count), zap.Error(err))
		}
	}
}

func run(log *zap.Logger, obstacles, characters, frames int) error {
	s, err := buildScene(obstacles, characters)
	if err != nil {
		return err
	}
	sweeper, err := sweep.NewSweeper(sweep.DefaultConfig(), log)
	if err != nil {
		return err
	}
	w, err := world.New(s, sweeper, log)
	if err != nil {
		return err
	}

	inputs := make(map[uuid.UUID]character.Input)
	for i, e := range s.Characters() {
		inputs[e.ID] = character.Input{Forward: i%2 == 0, Right: i%3 == 0}
	}

	const dt = 1.0 / 60.0
	ctx := context.Background()
	// Warm up
	if err := w.Step(ctx, dt, inputs); err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		if err := w.Step(ctx, dt, inputs); err != nil {
			return err
		}
	}
	perFrame := time.Since(start) / time.Duration(frames)

	grounded := 0
	for _, e := range s.Characters() {
		if w.Controller(e.ID).IsGrounded() {
			grounded++
		}
	}
	fmt.Printf("%6d obstacles, %3d characters: %10v/frame (%d grounded)\n",
		obstacles, characters, perFrame.Round(time.Microsecond), grounded)
	return nil
}

// buildScene spreads far-away cuboids around a floor the characters walk on.
func buildScene(obstacles, characters int) (*scene.Scene, error) {
	s := scene.NewScene(fmt.Sprintf("stress_%d", obstacles))
	rng := rand.New(rand.NewSource(42)) // Consistent results

	floor, err := physics.CuboidCollider(mgl32.Vec3{50, 0.1, 50})
	if err != nil {
		return nil, err
	}
	e := scene.NewEntity("floor")
	e.Transform = physics.NewTransform(mgl32.Vec3{0, -1.2, 0})
	e.Collider = floor
	s.Add(e)

	box, err := physics.CuboidCollider(mgl32.Vec3{0.5, 0.5, 0.5})
	if err != nil {
		return nil, err
	}
	for i := 0; i < obstacles; i++ {
		e := scene.NewEntity(fmt.Sprintf("perf_%d", i))
		e.Transform = physics.NewTransform(mgl32.Vec3{
			100 + rng.Float32()*50,
			100 + rng.Float32()*50,
			100 + rng.Float32()*50,
		})
		e.Collider = box
		s.Add(e)
	}

	body, err := physics.CylinderCollider(0.5, 0.85)
	if err != nil {
		return nil, err
	}
	for i := 0; i < characters; i++ {
		e := scene.NewEntity(fmt.Sprintf("walker_%d", i))
		e.Transform = physics.NewTransform(mgl32.Vec3{float32(i%8)*3 - 10, 0, float32(i/8)*3 - 10})
		e.Collider = body
		p := character.DefaultParams()
		e.Character = &p
		s.Add(e)
	}
	return s, nil
}
