package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"collisioneer/internal/camera"
	"collisioneer/internal/character"
	"collisioneer/internal/config"
	"collisioneer/internal/logging"
	"collisioneer/internal/scene"
	"collisioneer/internal/sweep"
	"collisioneer/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxFrameTime bounds the step after a hitch so a single update never
// sweeps across half the level.
const maxFrameTime = 0.1

type app struct {
	cfgPath string
	cfg     config.Config
	log     *zap.Logger
	level   zap.AtomicLevel
	watcher *config.Watcher

	world  *world.World
	player *scene.Entity
	spawn  mgl32.Vec3
	orbit  *camera.Orbit

	stepTime time.Duration
	drawn    int
	culled   int
}

func newApp(cfgPath string, cfg config.Config, log *zap.Logger, level zap.AtomicLevel) (*app, error) {
	a := &app{
		cfgPath: cfgPath,
		cfg:     cfg,
		log:     log,
		level:   level,
	}
	if err := a.loadWorld(); err != nil {
		return nil, err
	}
	a.orbit = camera.NewOrbit(a.player.Transform.Translation)
	a.watch()
	return a, nil
}

func (a *app) loadWorld() error {
	s, err := scene.Load(a.cfg.Scene)
	if err != nil {
		return err
	}
	chars := s.Characters()
	if len(chars) == 0 {
		return fmt.Errorf("scene %q has no character", a.cfg.Scene)
	}

	sweeper, err := sweep.NewSweeper(a.cfg.Sweep, a.log)
	if err != nil {
		return err
	}
	w, err := world.New(s, sweeper, a.log)
	if err != nil {
		return err
	}
	if err := w.SetParams(a.cfg.Character); err != nil {
		return err
	}

	a.world = w
	a.player = chars[0]
	a.spawn = a.player.Transform.Translation
	a.log.Info("scene loaded",
		zap.String("path", a.cfg.Scene),
		zap.String("player", a.player.Name),
		zap.Int("entities", len(s.Entities)))
	return nil
}

// watch (re)starts the watcher on the config and current scene files.
func (a *app) watch() {
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
	w, err := config.NewWatcher(a.cfgPath, a.cfg.Scene)
	if err != nil {
		a.log.Warn("hot reload disabled", zap.Error(err))
		return
	}
	a.watcher = w
}

func (a *app) close() {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
}

func (a *app) pollReload() {
	if a.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-a.watcher.Events:
			if !ok {
				a.watcher = nil
				return
			}
			a.reload(name)
		case err, ok := <-a.watcher.Errors:
			if !ok {
				a.watcher = nil
				return
			}
			a.log.Warn("watch error", zap.Error(err))
		default:
			return
		}
	}
}

func (a *app) reload(name string) {
	cfgAbs, _ := filepath.Abs(a.cfgPath)
	sceneAbs, _ := filepath.Abs(a.cfg.Scene)

	switch name {
	case cfgAbs:
		cfg, err := config.Load(a.cfgPath)
		if err != nil {
			a.log.Warn("config reload rejected", zap.Error(err))
			return
		}
		if lvl, err := logging.ParseLevel(cfg.Log.Level); err == nil {
			a.level.SetLevel(lvl)
		}
		old := a.cfg
		a.cfg = cfg
		if cfg.Scene != old.Scene || cfg.Sweep != old.Sweep {
			a.rebuild(old)
			if cfg.Scene != old.Scene {
				a.watch()
			}
		} else if err := a.world.SetParams(cfg.Character); err != nil {
			a.log.Warn("character params rejected", zap.Error(err))
		}
		a.log.Info("config reloaded", zap.String("path", name))
	case sceneAbs:
		a.rebuild(a.cfg)
	}
}

// rebuild reloads the world, restoring prev if the new one fails to load.
func (a *app) rebuild(prev config.Config) {
	if err := a.loadWorld(); err != nil {
		a.log.Warn("scene reload rejected", zap.Error(err))
		a.cfg = prev
		return
	}
	a.log.Info("scene reloaded", zap.String("path", a.cfg.Scene))
}

func (a *app) update(dt float32) {
	dt = min(dt, maxFrameTime)
	a.handleCamera()
	if keyPressed(keyReset) {
		a.player.Transform.Translation = a.spawn
		a.playerController().SetVelocity(mgl32.Vec3{})
	}

	// Forward follows the camera.
	a.player.Transform.Rotation = a.orbit.Heading()
	inputs := map[uuid.UUID]character.Input{a.player.ID: readInput()}

	start := time.Now()
	if err := a.world.Step(context.Background(), dt, inputs); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Error("step failed", zap.Error(err))
	}
	a.stepTime = time.Since(start)

	a.orbit.Follow(a.player.Transform.Translation, 8, dt)
}

func (a *app) playerController() *character.Controller {
	return a.world.Controller(a.player.ID)
}
