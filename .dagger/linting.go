package main

import (
	"context"
	"fmt"

	"dagger/partdeck/internal/dagger"
)

const golangciLintVersion = "v2.8.0"

// lintOpts returns the common GolangcilintOpts used by both CheckLint and FixLint.
// It layers golangci-lint on top of goContainer() so the Go caches are already
// in place.
func (p *Partdeck) lintOpts() dagger.GolangcilintOpts {
	base := p.goContainer().
		WithExec([]string{
			"go",
			"install",
			fmt.Sprintf("github.com/golangci/golangci-lint/v2/cmd/golangci-lint@%s", golangciLintVersion),
		})

	return dagger.GolangcilintOpts{
		BaseCtr: base,
		Config:  p.Source.File(".golangci.yml"),
	}
}

// CheckLint runs golangci-lint against the partdeck source code without applying fixes.
func (p *Partdeck) CheckLint(ctx context.Context) (string, error) {
	return dag.Golangcilint(p.Source, p.lintOpts()).Check(ctx)
}

// FixLint runs golangci-lint against the partdeck source code with --fix, applying
// automatic fixes where possible, and returns the modified source directory.
func (p *Partdeck) FixLint(ctx context.Context) *dagger.Directory {
	return dag.Golangcilint(p.Source, p.lintOpts()).Lint()
}
