// PartDeck CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
// It is the main harness for handling nearly all dev operations.
package main

import (
	"context"

	"dagger/partdeck/internal/dagger"
)

// Partdeck is the main module for the PartDeck CI/CD pipeline
type Partdeck struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new PartDeck CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", "build", "tmp"]
	source *dagger.Directory,
) *Partdeck {
	return &Partdeck{
		Source: source,
	}
}

// goContainer returns a Debian Bookworm-based Go container with the project
// source mounted and Go caches in place. CGO stays off; the project is pure Go.
//
// It is the shared foundation for tests, builds, and linting.
func (p *Partdeck) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-bookworm").
		WithEnvVariable("CGO_ENABLED", "0").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", p.Source)
}

// Test runs the partdeck unit tests via "go test"
func (p *Partdeck) Test(ctx context.Context) (string, error) {
	return p.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}
