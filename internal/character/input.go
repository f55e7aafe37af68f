package character

import "github.com/go-gl/mathgl/mgl32"

// Input is one frame of movement intent. Jump is edge triggered: set it only
// on the frame the key goes down.
type Input struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jump     bool
}

// WishDir returns the unit direction the character wants to move in, on the
// ground plane, for a character facing rotation. Forward is local -Z.
func (in Input) WishDir(rotation mgl32.Quat) mgl32.Vec3 {
	var local mgl32.Vec3
	if in.Forward {
		local[2] -= 1
	}
	if in.Backward {
		local[2] += 1
	}
	if in.Left {
		local[0] -= 1
	}
	if in.Right {
		local[0] += 1
	}
	if local.Len() == 0 {
		return mgl32.Vec3{}
	}

	if rotation.Len() > 1e-6 {
		local = rotation.Normalize().Rotate(local)
	}
	local[1] = 0
	if l := local.Len(); l > 1e-6 {
		return local.Mul(1 / l)
	}
	return mgl32.Vec3{}
}
