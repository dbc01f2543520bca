package stage

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// ErrQuit may be returned from RunConfig.OnUpdate to end the game loop
// without an error.
var ErrQuit = errors.New("stage: quit")

// RunConfig holds window parameters and hooks for Run.
type RunConfig struct {
	Title string
	// OnUpdate runs before the stage processes input each frame.
	OnUpdate func() error
	// ShowFPS draws an FPS/TPS counter in the top-left corner.
	ShowFPS bool
}

// game adapts a Stage to ebiten.Game.
type game struct {
	stage *Stage
	cfg   RunConfig
}

func (g *game) Update() error {
	if g.cfg.OnUpdate != nil {
		if err := g.cfg.OnUpdate(); err != nil {
			return err
		}
	}
	g.stage.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.stage.Draw(screen)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f  TPS: %.0f",
			ebiten.ActualFPS(), ebiten.ActualTPS()), 4, 4)
	}
}

// Layout keeps the logical screen at the stage size; Ebitengine scales it
// to the window.
func (g *game) Layout(_, _ int) (int, int) {
	return g.stage.cfg.Width, g.stage.cfg.Height
}

// Run opens a window sized to the stage and runs the game loop until the
// window closes or OnUpdate returns an error. ErrQuit ends the loop cleanly.
func Run(s *Stage, cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = "dragbind"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(s.cfg.Width, s.cfg.Height)
	if err := ebiten.RunGame(&game{stage: s, cfg: cfg}); err != nil && !errors.Is(err, ErrQuit) {
		return err
	}
	return nil
}
