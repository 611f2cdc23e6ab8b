package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"weatherfx/internal/app"
	"weatherfx/internal/audio"
	"weatherfx/internal/core"
	"weatherfx/internal/term"
	"weatherfx/internal/weather"
)

const (
	cellW = 8
	cellH = 16
)

var runeActions = map[rune]app.Action{
	' ': app.ActionPause,
	'r': app.ActionRainy,
	'p': app.ActionPouring,
	'n': app.ActionSnowy,
}

var keyActions = map[tcell.Key]app.Action{
	tcell.KeyRight:      app.ActionWindUp,
	tcell.KeyLeft:       app.ActionWindDown,
	tcell.KeyUp:         app.ActionPrecipUp,
	tcell.KeyDown:       app.ActionPrecipDown,
	tcell.KeyPgUp:       app.ActionWarmer,
	tcell.KeyPgDn:       app.ActionColder,
	tcell.KeyBackspace:  app.ActionReset,
	tcell.KeyBackspace2: app.ActionReset,
}

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	logPath := flag.String("log", "", "write log output to this file while the screen is active")
	flag.Parse()

	if err := run(cfg, *logPath); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *app.Config, logPath string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	restore := redirectLog(logPath)
	defer restore()

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

	cols, rows := screen.Size()
	cfg.Width, cfg.Height = cols*cellW, max(1, rows-1)*cellH
	session, err := app.NewSession(cfg, sinks...)
	if err != nil {
		return err
	}
	renderer := term.NewRenderer(screen, session.Look, cellW, cellH)
	if player != nil {
		session.OnPause = player.SetPaused
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	step := core.NewFixedStep(cfg.TPS)
	ticker := time.NewTicker(step.Step())
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				cols, rows := screen.Size()
				session.Resize(renderer.StageSize(cols, rows-1))
			case *tcell.EventKey:
				if quit := handleKey(session, ev); quit {
					return nil
				}
			}
		case <-ticker.C:
			for n := step.Due(); n > 0; n-- {
				session.Tick(step.Step())
			}
			_, rows := screen.Size()
			renderer.Draw(session.Stage, 1)
			renderer.DrawStatus(rows-1, session.Status())
			screen.Show()
		}
	}
}

func handleKey(s *app.Session, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		r := ev.Rune()
		if r == 'q' {
			return true
		}
		if r >= '1' && r <= '9' {
			s.ApplyPresetIndex(int(r - '1'))
			return false
		}
		if a, ok := runeActions[r]; ok {
			s.Do(a)
		}
	default:
		if a, ok := keyActions[ev.Key()]; ok {
			s.Do(a)
		}
	}
	return false
}

// redirectLog keeps log output off the terminal while tcell owns it.
func redirectLog(path string) func() {
	var out io.Writer = io.Discard
	var f *os.File
	if path != "" {
		var err error
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			out = f
		}
	}
	log.SetOutput(out)
	return func() {
		log.SetOutput(os.Stderr)
		if f != nil {
			f.Close()
		}
	}
}
