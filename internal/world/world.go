// Package world steps every character of a scene against one shared
// obstacle snapshot.
package world

import (
	"context"
	"fmt"

	"collisioneer/internal/character"
	"collisioneer/internal/scene"
	"collisioneer/internal/sweep"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type World struct {
	Scene *scene.Scene

	sweeper     *sweep.Sweeper
	controllers map[uuid.UUID]*character.Controller
	log         *zap.Logger
}

// New builds a controller for every character entity in s.
func New(s *scene.Scene, sweeper *sweep.Sweeper, log *zap.Logger) (*World, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w := &World{
		Scene:       s,
		sweeper:     sweeper,
		controllers: make(map[uuid.UUID]*character.Controller),
		log:         log.Named("world"),
	}
	for _, e := range s.Characters() {
		if err := w.addController(e); err != nil {
			return nil, err
		}
	}
	w.log.Info("world ready",
		zap.String("scene", s.Name),
		zap.Int("entities", len(s.Entities)),
		zap.Int("characters", len(w.controllers)))
	return w, nil
}

func (w *World) addController(e *scene.Entity) error {
	ctrl, err := character.NewController(*e.Character, w.sweeper, w.log.With(zap.String("entity", e.Name)))
	if err != nil {
		return fmt.Errorf("world: character %q: %w", e.Name, err)
	}
	w.controllers[e.ID] = ctrl
	return nil
}

// Controller returns the controller driving the entity with id, or nil.
func (w *World) Controller(id uuid.UUID) *character.Controller {
	return w.controllers[id]
}

// SetParams applies p to every character.
func (w *World) SetParams(p character.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for id, ctrl := range w.controllers {
		if err := ctrl.SetParams(p); err != nil {
			return err
		}
		if e := w.Scene.Find(id); e != nil {
			*e.Character = p
		}
	}
	return nil
}

// Step advances every character by dt. Characters never collide with each
// other; each sees the same snapshot of the static obstacles. Inputs are
// keyed by entity id; missing entries mean no input.
func (w *World) Step(ctx context.Context, dt float32, inputs map[uuid.UUID]character.Input) error {
	chars := w.Scene.Characters()
	ids := make([]uuid.UUID, len(chars))
	for i, e := range chars {
		ids[i] = e.ID
	}
	obstacles := w.Scene.Obstacles(ids...)

	g, ctx := errgroup.WithContext(ctx)
	for _, e := range chars {
		ctrl := w.controllers[e.ID]
		if ctrl == nil {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ctrl.Update(dt, e.Collider, &e.Transform, obstacles, inputs[e.ID])
			return nil
		})
	}
	return g.Wait()
}
