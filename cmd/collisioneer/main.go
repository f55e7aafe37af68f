// Command collisioneer opens the example scene and lets one character walk
// through it with WASD and Space.
package main

import (
	"flag"
	"fmt"
	"os"

	"collisioneer/internal/config"
	"collisioneer/internal/logging"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "collisioneer.yaml", "config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, level, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	a, err := newApp(*cfgPath, cfg, log, level)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	defer a.close()

	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(1280, 720, "collisioneer")
	defer rl.CloseWindow()
	rl.SetTargetFPS(120)
	initStyle()

	for !rl.WindowShouldClose() {
		a.pollReload()
		a.update(rl.GetFrameTime())
		a.draw()
	}
}
