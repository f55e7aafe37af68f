package main

import (
	"math"

	"collisioneer/internal/camera"
	"collisioneer/internal/physics"
	"collisioneer/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	nearPlane = 0.1
	farPlane  = 1000
)

var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"Gold":      rl.Gold,
	"White":     rl.White,
	"Gray":      rl.Gray,
	"LightGray": rl.LightGray,
	"DarkGray":  rl.DarkGray,
	"Black":     rl.Black,
	"Pink":      rl.Pink,
	"Maroon":    rl.Maroon,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"SkyBlue":   rl.SkyBlue,
	"DarkBlue":  rl.DarkBlue,
	"Lime":      rl.Lime,
	"DarkGreen": rl.DarkGreen,
}

func entityColor(e *scene.Entity) rl.Color {
	if c, ok := colorByName[e.Color]; ok {
		return c
	}
	if e.IsCharacter() {
		return rl.Maroon
	}
	return rl.LightGray
}

func vec(v mgl32.Vec3) rl.Vector3 { return rl.NewVector3(v.X(), v.Y(), v.Z()) }

func raylibCamera(o *camera.Orbit) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec(o.Position()),
		Target:     vec(o.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       o.Fovy,
		Projection: rl.CameraPerspective,
	}
}

func (a *app) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	aspect := float32(rl.GetScreenWidth()) / float32(max(rl.GetScreenHeight(), 1))
	frustum := a.orbit.Frustum(aspect, nearPlane, farPlane)

	rl.BeginMode3D(raylibCamera(a.orbit))
	rl.DrawGrid(40, 1)
	a.drawn, a.culled = 0, 0
	for _, e := range a.world.Scene.Entities {
		if e.Collider == nil {
			continue
		}
		if !frustum.ContainsAABB(e.Collider.Bounds(e.Transform)) {
			a.culled++
			continue
		}
		drawCollider(e.Collider, e.Transform, entityColor(e))
		a.drawn++
	}
	a.drawProbe()
	rl.EndMode3D()

	a.drawHUD()
	rl.EndDrawing()
}

// drawProbe shows how far below the player the ground probe reaches.
func (a *app) drawProbe() {
	p := a.playerController().Params()
	base := a.player.Transform.Translation
	foot := base.Sub(mgl32.Vec3{0, p.StepHeight(), 0})
	color := rl.Red
	if a.playerController().IsGrounded() {
		color = rl.Green
	}
	rl.DrawLine3D(vec(base), vec(foot), color)
}

func drawCollider(c *physics.Collider, t physics.Transform, color rl.Color) {
	pose := c.Pose(t)
	switch s := c.Shape.(type) {
	case *physics.Cuboid:
		withRotation(pose, func() {
			size := vec(s.HalfExtents().Mul(2))
			rl.DrawCubeV(rl.Vector3{}, size, color)
			rl.DrawCubeWiresV(rl.Vector3{}, size, rl.DarkGray)
		})
	case *physics.Sphere:
		rl.DrawSphere(vec(pose.Position), s.Radius(), color)
	case *physics.Cylinder:
		axis := pose.Rotation.Rotate(mgl32.Vec3{0, s.HalfHeight(), 0})
		bottom, top := vec(pose.Position.Sub(axis)), vec(pose.Position.Add(axis))
		rl.DrawCylinderEx(bottom, top, s.Radius(), s.Radius(), 16, color)
		rl.DrawCylinderWiresEx(bottom, top, s.Radius(), s.Radius(), 16, rl.DarkGray)
	case *physics.ConvexHull:
		withRotation(pose, func() {
			for _, p := range s.Points() {
				rl.DrawSphere(vec(p), 0.05, color)
			}
		})
		b := c.Bounds(t)
		rl.DrawBoundingBox(rl.BoundingBox{Min: vec(b.Min), Max: vec(b.Max)}, color)
	}
}

// withRotation draws fn in the local frame of pose.
func withRotation(pose physics.Pose, fn func()) {
	rl.PushMatrix()
	rl.Translatef(pose.Position.X(), pose.Position.Y(), pose.Position.Z())
	if angle, axis, ok := axisAngle(pose.Rotation); ok {
		rl.Rotatef(angle, axis.X(), axis.Y(), axis.Z())
	}
	fn()
	rl.PopMatrix()
}

// axisAngle returns the rotation in degrees for rlgl.
func axisAngle(q mgl32.Quat) (float32, mgl32.Vec3, bool) {
	q = q.Normalize()
	s := q.V.Len()
	if s < 1e-6 {
		return 0, mgl32.Vec3{}, false
	}
	angle := 2 * math.Atan2(float64(s), float64(q.W))
	return mgl32.RadToDeg(float32(angle)), q.V.Mul(1 / s), true
}
