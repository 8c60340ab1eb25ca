//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the viewer with the default configuration.
func (Run) Viewer() error {
	fmt.Println("Run viewer...")
	if _, err := executeCmd("go", withArgs("run", "main.go"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the viewer forced onto the software backend, useful when
// debugging the hardware fallback path.
func (Run) Software() error {
	fmt.Println("Run viewer (software renderer)...")
	if _, err := executeCmd("go", withArgs("run", "main.go"), withStream(), withEnv("PRISMA_RENDERER=software")); err != nil {
		return err
	}
	return nil
}
