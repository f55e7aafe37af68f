package scene

import (
	"errors"
	"fmt"
	"os"

	"collisioneer/internal/character"
	"collisioneer/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScene = errors.New("scene: invalid scene file")

// --- YAML types ---

type File struct {
	Name    string      `yaml:"name"`
	Objects []ObjectDef `yaml:"objects"`
}

type ObjectDef struct {
	Name     string     `yaml:"name"`
	Tags     []string   `yaml:"tags,omitempty"`
	Color    string     `yaml:"color,omitempty"`
	Position [3]float32 `yaml:"position"`
	// Rotation is in degrees, applied X then Y then Z.
	Rotation [3]float32   `yaml:"rotation,omitempty"`
	Collider *ColliderDef `yaml:"collider,omitempty"`
	// Repeat spawns this many identical copies.
	Repeat int `yaml:"repeat,omitempty"`
	// Character overrides default character params; its presence marks
	// the object as a character. A zero Kind means the key was absent.
	Character yaml.Node `yaml:"character,omitempty"`
}

type ColliderDef struct {
	Type        string       `yaml:"type"`
	HalfExtents [3]float32   `yaml:"half_extents,omitempty"`
	Radius      float32      `yaml:"radius,omitempty"`
	HalfHeight  float32      `yaml:"half_height,omitempty"`
	Points      [][3]float32 `yaml:"points,omitempty"`
	Offset      [3]float32   `yaml:"offset,omitempty"`
}

// --- Loading ---

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Scene, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return f.Build()
}

// Build instantiates every object definition.
func (f File) Build() (*Scene, error) {
	s := NewScene(f.Name)
	for i, def := range f.Objects {
		name := def.Name
		if name == "" {
			name = fmt.Sprintf("object_%d", i)
		}
		entities, err := def.build(name)
		if err != nil {
			return nil, fmt.Errorf("scene: object %q: %w", name, err)
		}
		for _, e := range entities {
			s.Add(e)
		}
	}
	return s, nil
}

func (def ObjectDef) build(name string) ([]*Entity, error) {
	if def.Repeat < 0 {
		return nil, fmt.Errorf("repeat %d: %w", def.Repeat, ErrInvalidScene)
	}
	count := max(def.Repeat, 1)

	var collider *physics.Collider
	if def.Collider != nil {
		c, err := def.Collider.build()
		if err != nil {
			return nil, err
		}
		collider = c
	}

	var params *character.Params
	if def.Character.Kind != 0 {
		p := character.DefaultParams()
		if err := def.Character.Decode(&p); err != nil {
			return nil, fmt.Errorf("character: %w", err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if collider == nil {
			return nil, fmt.Errorf("character without a collider: %w", ErrInvalidScene)
		}
		params = &p
	}

	rot := mgl32.AnglesToQuat(
		mgl32.DegToRad(def.Rotation[0]),
		mgl32.DegToRad(def.Rotation[1]),
		mgl32.DegToRad(def.Rotation[2]),
		mgl32.XYZ,
	)

	out := make([]*Entity, 0, count)
	for i := 0; i < count; i++ {
		e := NewEntity(name)
		if count > 1 {
			e.Name = fmt.Sprintf("%s_%d", name, i)
		}
		e.Tags = def.Tags
		e.Color = def.Color
		e.Transform = physics.Transform{Translation: mgl32.Vec3(def.Position), Rotation: rot}
		// Copies share the immutable collider.
		e.Collider = collider
		if params != nil {
			p := *params
			e.Character = &p
		}
		out = append(out, e)
	}
	return out, nil
}

func (def ColliderDef) build() (*physics.Collider, error) {
	var c *physics.Collider
	var err error
	switch def.Type {
	case "cuboid":
		c, err = physics.CuboidCollider(mgl32.Vec3(def.HalfExtents))
	case "sphere":
		c, err = physics.SphereCollider(def.Radius)
	case "cylinder":
		c, err = physics.CylinderCollider(def.Radius, def.HalfHeight)
	case "convex_hull":
		points := make([]mgl32.Vec3, len(def.Points))
		for i, p := range def.Points {
			points[i] = mgl32.Vec3(p)
		}
		c, err = physics.ConvexHullCollider(points)
	default:
		return nil, fmt.Errorf("collider type %q: %w", def.Type, ErrInvalidScene)
	}
	if err != nil {
		return nil, fmt.Errorf("%s collider: %w", def.Type, err)
	}
	if def.Offset != [3]float32{} {
		c = c.WithOffset(mgl32.Vec3(def.Offset))
	}
	return c, nil
}
