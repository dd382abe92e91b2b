// Command backdrop opens a window with the animated particle background and
// drives the scroll-linked page animations from the mouse wheel and keyboard.
//
// Usage:
//
//	go run ./cmd/backdrop [flags]
//
// Flags:
//
//	-config <file>   YAML page configuration, merged over the defaults
//	-debug           Enable debug logging
//	-poster <file>   Write the static fallback poster here when the GPU path fails
//	-css <file>      Write the composed decoration stylesheet on exit
//
// Controls:
//
//	Wheel, Arrows, PgUp/PgDn, Space  - Scroll the page
//	Home/End                         - Jump to top/bottom
//	Escape                           - Quit
package main

import (
	"flag"
	"log"
	"os"

	"github.com/gekko3d/backdrop"
)

var (
	configFlag = flag.String("config", "", "YAML page configuration")
	debugFlag  = flag.Bool("debug", false, "Enable debug logging")
	posterFlag = flag.String("poster", "", "Write the fallback poster PNG to this path")
	cssFlag    = flag.String("css", "", "Write the decoration CSS to this path on exit")
)

func main() {
	flag.Parse()

	cfg := backdrop.DefaultConfig()
	if *configFlag != "" {
		var err error
		if cfg, err = backdrop.LoadConfig(*configFlag); err != nil {
			log.Fatal(err)
		}
	}

	app := backdrop.NewAppBuilder().
		UseModule(
			backdrop.LoggingModule{Prefix: "backdrop", Debug: *debugFlag || cfg.Debug},
			backdrop.TimeModule{},
			backdrop.NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title),
			backdrop.LifecycleModule{Loading: cfg.Loading},
			backdrop.DecorModule{Config: cfg.Decor, Seed: cfg.Particles.Seed},
			backdrop.BackdropModule{Particles: cfg.Particles, Scene: cfg.Scene, PosterPath: *posterFlag},
			backdrop.ScrollModule{Page: cfg.Page},
		).
		Build()
	app.Run()

	if *cssFlag != "" {
		d := backdrop.Resource[backdrop.Decor](app)
		if d == nil || d.Layout == nil {
			log.Fatal("no decoration was composed")
		}
		if err := os.WriteFile(*cssFlag, []byte(d.CSS), 0o644); err != nil {
			log.Fatal(err)
		}
	}
}
