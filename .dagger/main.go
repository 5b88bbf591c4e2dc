// finetune CI
//
// Package main runs the finetune tests and builds release binaries, locally
// and in GitHub actions.
package main

import (
	"context"

	"dagger/finetune/internal/dagger"
)

// Finetune is the CI module for the finetune converter
type Finetune struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Finetune CI module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", "build", "tmp", "_examples"]
	source *dagger.Directory,
) *Finetune {
	return &Finetune{
		Source: source,
	}
}

// goContainer returns an Alpine Go container with the module caches and the
// project source mounted. The converter is pure Go, so CGO stays off.
func (f *Finetune) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-alpine").
		WithEnvVariable("CGO_ENABLED", "0").
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", f.Source)
}

// Test runs the unit tests via "go test"
//
// +check
func (f *Finetune) Test(ctx context.Context) (string, error) {
	return f.goContainer().
		WithExec([]string{"go", "test", "./..."}).
		Stdout(ctx)
}
