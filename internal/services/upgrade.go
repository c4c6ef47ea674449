package services

import (
	"context"

	"github.com/vvka-141/pgfleet/internal/manifest"
	"github.com/vvka-141/pgfleet/internal/ui"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// targetPlans is the resolved plan pair of one target.
type targetPlans struct {
	target string
	root   pgfleet.Plan
	owner  pgfleet.Plan
}

// resolvePlans expands a migrations expression and builds every plan. No
// plan is returned unless all of them are valid.
func (s *Service) resolvePlans(migrations string) ([]targetPlans, error) {
	selections, err := s.ws.Expander.ExpandSelections(migrations)
	if err != nil {
		return nil, err
	}
	out := make([]targetPlans, 0, len(selections))
	for _, sel := range selections {
		root, owner, err := s.ws.Builder.Build(sel.Target, sel.Units)
		if err != nil {
			return nil, err
		}
		out = append(out, targetPlans{target: sel.Target, root: root, owner: owner})
	}
	return out, nil
}

// Upgrade migrates every selected target: the root plan under the
// administrative identity first, then the owner plan.
func (s *Service) Upgrade(ctx context.Context, migrations string) (Report, error) {
	if err := manifest.RequirePermission(s.ws.Stack, manifest.OpUpgrade); err != nil {
		return Report{}, err
	}
	plans, err := s.resolvePlans(migrations)
	if err != nil {
		return Report{}, err
	}

	byTarget := make(map[string]targetPlans, len(plans))
	targets := make([]string, 0, len(plans))
	for _, p := range plans {
		byTarget[p.target] = p
		targets = append(targets, p.target)
	}
	return s.forEach(ctx, manifest.OpUpgrade, targets, func(ctx context.Context, target string) error {
		return s.upgradeTarget(ctx, byTarget[target])
	})
}

func (s *Service) upgradeTarget(ctx context.Context, p targetPlans) error {
	if !p.root.IsEmpty() {
		s.logger.Info("Migrating %s as root user %s ...", p.target, p.root)
		if err := s.engine.Migrate(ctx, s.migrateRequest(p.target, p.root, true)); err != nil {
			return err
		}
	}
	if !p.owner.IsEmpty() {
		s.logger.Info("Migrating %s as schema owner %s ...", p.target, p.owner)
		if err := s.engine.Migrate(ctx, s.migrateRequest(p.target, p.owner, false)); err != nil {
			return err
		}
	}
	if p.root.IsEmpty() && p.owner.IsEmpty() {
		s.logger.Info("Nothing to migrate for %s", p.target)
	}
	return nil
}

func (s *Service) migrateRequest(target string, plan pgfleet.Plan, root bool) pgfleet.MigrateRequest {
	identity := s.ws.Resolver.Resolve(target)
	if root {
		identity = s.ws.Resolver.RootOn(target)
	}
	return pgfleet.MigrateRequest{
		Target:   target,
		Identity: identity,
		Root:     root,
		Plan:     plan,
		Loader:   s.ws.Loader,
		Locator:  s.ws.Locator,
		Options:  s.ws.Options,
	}
}

// Plan renders the plans of a migrations expression without touching any
// database. It needs no permission.
func (s *Service) Plan(ctx context.Context, migrations string) error {
	plans, err := s.resolvePlans(migrations)
	if err != nil {
		return err
	}
	for _, p := range plans {
		if err := ctx.Err(); err != nil {
			return err
		}
		ui.WritePlan(s.out, p.target, p.root, p.owner)
	}
	return nil
}
