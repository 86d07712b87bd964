package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"filterlist/config"
	"filterlist/renderer"
	"filterlist/updater"
)

func main() {
	configPath := flag.String("config", "", "Path to render manifest (YAML or TOML)")
	top := flag.String("top", "", "Top filter list target, overrides the manifest")
	output := flag.String("output", "", `Rendered list path, "-" for stdout, overrides the manifest`)
	watch := flag.Bool("watch", false, "Keep running and re-render on the manifest interval")
	flag.Parse()

	cfg := &config.Config{}
	var mgr *config.Manager
	if *configPath != "" {
		mgr = config.NewManager(*configPath)
		if err := mgr.Load(); err != nil {
			log.Fatalf("Failed to load manifest: %v", err)
		}
		cfg = mgr.Get()
		log.Printf("Manifest loaded from %s", *configPath)
	}
	if *top != "" {
		cfg.Top = *top
	}
	if *output != "" {
		cfg.Output = *output
	}
	if cfg.Top == "" {
		log.Fatal("No top filter list: pass -top or a manifest with top set.")
	}
	if cfg.Output == "" {
		cfg.Output = "-"
	}

	render := func() error { return renderOnce(cfg) }
	if err := render(); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	log.Printf("Rendered %s to %s", cfg.Top, cfg.Output)

	if !*watch {
		return
	}
	if mgr == nil {
		log.Fatal("-watch needs -config for the interval and sources.")
	}

	upd := updater.New(mgr, render)
	upd.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigChan
	log.Printf("Received signal %v, shutting down...", s)
	upd.Stop()
}

// newRenderer builds the source map from the manifest. Protocol-less
// include targets resolve against the current directory unless the
// manifest names its own default source.
func newRenderer(cfg *config.Config) *renderer.Renderer {
	sources := make(map[string]renderer.Source, len(cfg.Sources)+1)
	for _, s := range cfg.Sources {
		if s.Path != "" {
			sources[s.Name] = renderer.FSSource{Root: s.Path}
		} else {
			sources[s.Name] = renderer.NewWebSource(s.URLPrefix, cfg.CacheDir)
		}
	}
	if _, ok := sources[""]; !ok {
		sources[""] = renderer.FSSource{Root: "."}
	}
	return &renderer.Renderer{Sources: sources}
}

func renderOnce(cfg *config.Config) error {
	r := newRenderer(cfg)
	if cfg.Output == "-" {
		return r.Render(os.Stdout, cfg.Top)
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	if err := r.Render(f, cfg.Top); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
