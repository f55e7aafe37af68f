package main

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

var (
	colorPanel = rl.NewColor(24, 24, 32, 210)
	colorText  = rl.NewColor(230, 230, 240, 255)
	colorMuted = rl.NewColor(150, 150, 170, 255)
)

func initStyle() {
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 14)
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorText))
}

type slider struct {
	label    string
	min, max float32
	value    *float32
}

func (a *app) drawHUD() {
	ctrl := a.playerController()
	p := ctrl.Params()
	pos := a.player.Transform.Translation
	vel := ctrl.Velocity()

	rl.DrawRectangle(10, 10, 300, 232, colorPanel)
	rl.DrawFPS(20, 18)

	grounded := rl.Red
	label := "airborne"
	if ctrl.IsGrounded() {
		grounded = rl.Green
		label = "grounded"
	}
	rl.DrawCircle(26, 52, 6, grounded)
	rl.DrawText(label, 40, 45, 16, colorText)

	rl.DrawText(fmt.Sprintf("pos  %6.2f %6.2f %6.2f", pos.X(), pos.Y(), pos.Z()), 20, 68, 14, colorMuted)
	rl.DrawText(fmt.Sprintf("vel  %6.2f %6.2f %6.2f", vel.X(), vel.Y(), vel.Z()), 20, 86, 14, colorMuted)
	rl.DrawText(fmt.Sprintf("step %v  drawn %d  culled %d", a.stepTime.Round(time.Microsecond), a.drawn, a.culled), 20, 104, 14, colorMuted)

	sliders := []slider{
		{"speed", 0, 30, &p.MoveSpeed},
		{"accel", 0, 50, &p.MoveAccel},
		{"friction", 0, 50, &p.MoveFriction},
	}
	before := p
	y := float32(130)
	for _, s := range sliders {
		bounds := rl.NewRectangle(90, y, 160, 18)
		*s.value = gui.Slider(bounds, s.label, fmt.Sprintf("%.1f", *s.value), *s.value, s.min, s.max)
		y += 26
	}
	// Move speed is validated to be positive.
	p.MoveSpeed = max(p.MoveSpeed, 0.1)
	if p != before {
		if err := a.world.SetParams(p); err != nil {
			a.log.Warn("hud params rejected", zap.Error(err))
		}
	}

	rl.DrawText("WASD move  Space jump  RMB orbit  R reset", 20, 214, 12, colorMuted)
}
