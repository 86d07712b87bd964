// Package updater re-renders the output list periodically so remote
// sources stay fresh in watch mode.
package updater

import (
	"log"
	"time"

	"filterlist/config"
)

// Updater re-runs a render function on the manifest interval.
type Updater struct {
	cfg    *config.Manager
	render func() error
	stop   chan struct{}
}

// New creates an Updater around the manifest manager and the render
// function to repeat.
func New(cfg *config.Manager, render func() error) *Updater {
	return &Updater{
		cfg:    cfg,
		render: render,
		stop:   make(chan struct{}),
	}
}

func (u *Updater) Stop() {
	close(u.stop)
}

// Run starts the periodic re-render in the background. Lists without
// web sources never change on disk remotely, so nothing is scheduled
// for them. The interval comes from the manifest, with a one hour
// floor.
func (u *Updater) Run() {
	cfg := u.cfg.Get()
	if !cfg.HasWebSources() {
		log.Println("No web sources to refresh.")
		return
	}

	interval := cfg.RefreshInterval()
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if interval < time.Hour {
		interval = time.Hour
	}

	log.Printf("Updater started. Next render in %v", interval)

	go func() {
		for {
			select {
			case <-time.After(interval):
				log.Println("Updater triggered...")
				if err := u.render(); err != nil {
					log.Printf("Render failed: %v", err)
				} else {
					log.Printf("Render complete. Next in %v", interval)
				}
			case <-u.stop:
				return
			}
		}
	}()
}
