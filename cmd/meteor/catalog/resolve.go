// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/pterm/pterm"

	cat "github.com/costinelmarin/meteor/internal/catalog"
	"github.com/costinelmarin/meteor/internal/meteor"
)

type resolveCmd struct {
	Packages []string `arg:"" help:"Packages to resolve, as name or name@constraint."`

	IgnoreProjectDeps bool `help:"Do not seed the solver with the project's pinned versions." name:"ignore-project-deps"`
}

// Run executes the resolve command.
func (c *resolveCmd) Run(ctx context.Context, mctx *meteor.Context, cats *cat.Catalogs, p pterm.TextPrinter) error {
	if err := initialize(ctx, mctx, cats); err != nil {
		return err
	}

	in := map[string]string{}
	for _, arg := range c.Packages {
		name, constraint, _ := strings.Cut(arg, "@")
		in[name] = constraint
	}

	res, err := cats.Complete.ResolveConstraints(cat.ConstraintMap(in), nil, cat.ResolveConstraintsOptions{
		IgnoreProjectDeps: c.IgnoreProjectDeps,
	})
	if errors.Is(err, cat.ErrResolverUnavailable) {
		p.Println("Constraint resolver is not available yet; only local packages can be loaded.")
		return nil
	}
	if err != nil {
		return err
	}

	names := make([]string, 0, len(res))
	for n := range res {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		p.Printfln("%s@%s", n, res[n])
	}
	return nil
}
