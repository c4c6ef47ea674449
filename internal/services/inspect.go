package services

import (
	"context"

	"github.com/vvka-141/pgfleet/internal/manifest"
	"github.com/vvka-141/pgfleet/internal/plan"
	"github.com/vvka-141/pgfleet/internal/ui"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// inspect runs one read-only engine query per target over its catalogued units.
func (s *Service) inspect(ctx context.Context, op manifest.Operation, targets string, fn func(ctx context.Context, req pgfleet.InspectRequest) error) (Report, error) {
	selected, err := s.permittedTargets(op, targets)
	if err != nil {
		return Report{}, err
	}
	catalogs, err := s.ws.catalogs(selected)
	if err != nil {
		return Report{}, err
	}
	return s.forEach(ctx, op, selected, func(ctx context.Context, target string) error {
		return fn(ctx, s.inspectRequest(target, catalogs[target]))
	})
}

func (s *Service) inspectRequest(target string, catalog plan.Catalog) pgfleet.InspectRequest {
	return pgfleet.InspectRequest{
		Target:  target,
		Owner:   s.ws.Resolver.Resolve(target),
		Root:    s.ws.Resolver.RootOn(target),
		Units:   catalog.Names(),
		Loader:  s.ws.Loader,
		Locator: s.ws.Locator,
		Options: s.ws.Options,
	}
}

// Status renders the engine status of every catalogued unit.
func (s *Service) Status(ctx context.Context, targets string) (Report, error) {
	return s.inspect(ctx, manifest.OpStatus, targets, func(ctx context.Context, req pgfleet.InspectRequest) error {
		results, err := s.engine.Status(ctx, req)
		if err != nil {
			return err
		}
		ui.WriteStatus(s.out, req.Target, results)
		return nil
	})
}

// History renders the applied migrations of every catalogued unit.
func (s *Service) History(ctx context.Context, targets string) (Report, error) {
	return s.inspect(ctx, manifest.OpHistory, targets, func(ctx context.Context, req pgfleet.InspectRequest) error {
		records, err := s.engine.History(ctx, req)
		if err != nil {
			return err
		}
		ui.WriteHistory(s.out, req.Target, records)
		return nil
	})
}

// Validate renders the engine validation of every catalogued unit.
func (s *Service) Validate(ctx context.Context, targets string) (Report, error) {
	return s.inspect(ctx, manifest.OpValidate, targets, func(ctx context.Context, req pgfleet.InspectRequest) error {
		results, err := s.engine.Validate(ctx, req)
		if err != nil {
			return err
		}
		ui.WriteValidation(s.out, req.Target, results)
		return nil
	})
}
