//go:build !ebiten

package ui

import "weatherfx/internal/scene"

// WindSource exposes the global wind state drawn by the overlay.
type WindSource interface {
	WindIntensity() float64
	WindTilt() float64
}

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(*scene.Stage, WindSource) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
