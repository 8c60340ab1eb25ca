package engine

import (
	"github.com/spaghettifunk/prisma/engine/resources"
)

// Game is the pluggable content layer. The application owns the window,
// the renderer and the run loop; the game only supplies the mesh and
// reacts to the per-frame tick.
type Game struct {
	// State is an arbitrary block owned by the game implementation.
	State interface{}

	// FnInitialize loads or builds the mesh the viewer displays. It runs
	// after the renderer backend is up.
	FnInitialize func() (*resources.MeshAsset, error)
	// FnUpdate runs once per frame before rendering.
	FnUpdate func(deltaTime float64) error
	// FnShutdown runs during application teardown.
	FnShutdown func() error
}

func (g *Game) initialize() (*resources.MeshAsset, error) {
	if g.FnInitialize == nil {
		return nil, nil
	}
	return g.FnInitialize()
}

func (g *Game) update(deltaTime float64) error {
	if g.FnUpdate == nil {
		return nil
	}
	return g.FnUpdate(deltaTime)
}

func (g *Game) shutdown() error {
	if g.FnShutdown == nil {
		return nil
	}
	return g.FnShutdown()
}
