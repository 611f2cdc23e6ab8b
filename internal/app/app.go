//go:build ebiten

package app

import (
	"image/color"
	"time"

	"weatherfx/internal/render"
	"weatherfx/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var actionKeys = map[ebiten.Key]Action{
	ebiten.KeySpace:      ActionPause,
	ebiten.KeyR:          ActionRainy,
	ebiten.KeyP:          ActionPouring,
	ebiten.KeyN:          ActionSnowy,
	ebiten.KeyArrowRight: ActionWindUp,
	ebiten.KeyArrowLeft:  ActionWindDown,
	ebiten.KeyArrowUp:    ActionPrecipUp,
	ebiten.KeyArrowDown:  ActionPrecipDown,
	ebiten.KeyPageUp:     ActionWarmer,
	ebiten.KeyPageDown:   ActionColder,
	ebiten.KeyBackspace:  ActionReset,
}

var presetKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
}

// Game adapts a weather session to the ebiten.Game interface.
type Game struct {
	session *Session
	painter *render.Painter
	hud     *ui.HUD
	overlay *ui.Overlay

	showHUD bool
	tick    time.Duration
}

// New constructs a Game for the provided session.
func New(s *Session, cfg *Config) *Game {
	tps := cfg.TPS
	if tps <= 0 {
		tps = 60
	}
	return &Game{
		session: s,
		painter: render.NewPainter(s.Look, cfg.Seed),
		hud:     ui.NewHUD(s.Controller, cfg.HUDWidth),
		overlay: ui.NewOverlay(s.Stage, s.Controller),
		showHUD: cfg.HUDWidth > 0,
		tick:    time.Second / time.Duration(tps),
	}
}

// Update handles input and advances the animation clock.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for key, action := range actionKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.session.Do(action)
		}
	}
	for i, key := range presetKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.session.ApplyPresetIndex(i)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD && g.hud.Width() > 0
	}
	g.overlay.Update()
	if g.showHUD {
		w, _ := g.session.Stage.Size()
		g.hud.Update(w)
	}
	g.session.Tick(g.tick)
	return nil
}

// Draw renders the weather, the overlay, the HUD and a status line.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Draw(screen, g.session.Stage)
	g.overlay.Draw(screen)
	w, h := g.session.Stage.Size()
	if g.showHUD {
		g.hud.Draw(screen, w, h)
	}
	text.Draw(screen, g.session.Status(), basicfont.Face7x13, 8, h-8, color.RGBA{R: 235, G: 235, B: 240, A: 220})
}

// Layout keeps the stage sized to the window minus the HUD panel.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	viewW := outsideWidth
	if g.showHUD {
		viewW -= g.hud.Width()
	}
	g.session.Resize(max(1, viewW), max(1, outsideHeight))
	return outsideWidth, outsideHeight
}
