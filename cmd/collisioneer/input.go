package main

import (
	"collisioneer/internal/character"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const keyReset = rl.KeyR

// readInput samples movement keys as levels and jump as an edge.
func readInput() character.Input {
	return character.Input{
		Forward:  rl.IsKeyDown(rl.KeyW),
		Backward: rl.IsKeyDown(rl.KeyS),
		Left:     rl.IsKeyDown(rl.KeyA),
		Right:    rl.IsKeyDown(rl.KeyD),
		Jump:     rl.IsKeyPressed(rl.KeySpace),
	}
}

func keyPressed(key int32) bool { return rl.IsKeyPressed(key) }

// handleCamera orbits while the right mouse button is held and zooms with
// the wheel.
func (a *app) handleCamera() {
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		d := rl.GetMouseDelta()
		a.orbit.Rotate(d.X, d.Y)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.orbit.Zoom(wheel)
	}
}
