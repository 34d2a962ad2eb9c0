// Package binder binds a project's externally stored pipeline definition to
// a discovered branch: it resolves the definition target, checks it out, and
// falls back to the configured fallback branch when the branch does not
// exist in the definition repository.
package binder

import (
	"context"
	"fmt"

	"remotepipe.dev/remotepipe/internal/definition"
	rperrors "remotepipe.dev/remotepipe/internal/errors"
	"remotepipe.dev/remotepipe/internal/output"
)

// CheckoutResult is what a successful checkout produced
type CheckoutResult struct {
	// Definition is the content of the definition file
	Definition []byte
	// Revision is the commit the definition was read from
	Revision string
}

// Checkouter fetches a resolved target. Failures that mean "the branch does
// not exist" must carry rperrors.KindRefNotFound.
type Checkouter interface {
	Checkout(ctx context.Context, target definition.ResolvedTarget) (*CheckoutResult, error)
}

// CheckouterFunc adapts a function to Checkouter
type CheckouterFunc func(ctx context.Context, target definition.ResolvedTarget) (*CheckoutResult, error)

// Checkout calls f
func (f CheckouterFunc) Checkout(ctx context.Context, target definition.ResolvedTarget) (*CheckoutResult, error) {
	return f(ctx, target)
}

// Result is the outcome of binding a branch
type Result struct {
	Target     definition.ResolvedTarget
	Definition []byte
	Revision   string
	// FellBack is true when the fallback branch was used
	FellBack bool
}

// Binder runs the bind protocol for one project
type Binder struct {
	config   *definition.ProjectConfig
	checkout Checkouter
	sink     output.Sink
}

// New creates a Binder. sink may be nil.
func New(cfg *definition.ProjectConfig, checkout Checkouter, sink output.Sink) *Binder {
	if sink == nil {
		sink = output.Discard
	}
	return &Binder{config: cfg, checkout: checkout, sink: sink}
}

// Bind resolves and checks out the definition for branch. A pinned checkout
// that fails because the branch is missing is retried exactly once against
// the fallback branch; every other failure is returned as is.
func (b *Binder) Bind(ctx context.Context, branch string, params definition.ParameterSource) (*Result, error) {
	if b.config.Source() == nil {
		return nil, rperrors.ErrNoDefinitionSource
	}

	cfg := b.config.WithDefinitionFile(definition.EffectiveFilePath(b.config, params))
	resolver := definition.NewResolver(cfg)

	target := resolver.Resolve(branch)
	checkout, err := b.checkout.Checkout(ctx, target)
	if err == nil {
		return newResult(target, checkout, false), nil
	}
	if !target.Pinned() || !rperrors.IsRefNotFound(err) {
		return nil, fmt.Errorf("failed to check out definition for branch %s: %w", branch, err)
	}

	b.sink.Printf("Failed to checkout for %s branch for Jenkins File: %v", branch, err)
	b.sink.Printf("Try to checkout %s branch for Jenkins File.", cfg.FallbackBranch())

	fallback := resolver.ResolveFallback()
	checkout, err = b.checkout.Checkout(ctx, fallback)
	if err != nil {
		return nil, fmt.Errorf("failed to check out definition for fallback branch %s: %w", fallback.BranchUsed, err)
	}
	return newResult(fallback, checkout, true), nil
}

func newResult(target definition.ResolvedTarget, checkout *CheckoutResult, fellBack bool) *Result {
	result := &Result{Target: target, FellBack: fellBack}
	if checkout != nil {
		result.Definition = checkout.Definition
		result.Revision = checkout.Revision
	}
	return result
}
