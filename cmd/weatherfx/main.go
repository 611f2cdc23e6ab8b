//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"weatherfx/internal/app"
	"weatherfx/internal/audio"
	"weatherfx/internal/weather"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	var sinks []weather.Sink
	var player *audio.Player
	if cfg.Audio {
		player = audio.NewPlayer(cfg.Seed, cfg.Volume)
		if err := player.Start(); err != nil {
			log.Printf("[weatherfx] audio disabled: %v", err)
			player = nil
		} else {
			defer player.Close()
			sinks = append(sinks, player.Ambience())
		}
	}

	session, err := app.NewSession(cfg, sinks...)
	if err != nil {
		log.Fatal(err)
	}
	if player != nil {
		session.OnPause = player.SetPaused
	}

	game := app.New(session, cfg)

	ebiten.SetWindowTitle("weatherfx")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(cfg.Width+max(0, cfg.HUDWidth), cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
