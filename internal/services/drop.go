package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/pgfleet/internal/manifest"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// Drop drops every selected database after approval. A denied approval
// stops the batch.
func (s *Service) Drop(ctx context.Context, targets string) (Report, error) {
	selected, err := s.permittedTargets(manifest.OpDrop, targets)
	if err != nil {
		return Report{}, err
	}

	report := Report{Operation: manifest.OpDrop}
	for _, t := range selected {
		if !s.ws.DryRun() {
			approved, err := s.approver.RequestApproval(ctx, t)
			if err != nil {
				return report, fmt.Errorf("approval for %s: %w", t, err)
			}
			if !approved {
				return report, fmt.Errorf("drop %s: %w", t, pgfleet.ErrApprovalDenied)
			}
		}
		step, err := s.forEach(ctx, manifest.OpDrop, []string{t}, s.dropTarget)
		report.Succeeded = append(report.Succeeded, step.Succeeded...)
		report.Failed = append(report.Failed, step.Failed...)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

func (s *Service) dropTarget(ctx context.Context, target string) error {
	if s.ws.DryRun() {
		s.logger.Info("[dry run] would drop database %s", target)
		return nil
	}

	s.logger.Info("Dropping database %s ...", target)
	return s.withConnection(ctx, s.ws.Resolver.Root(), func(conn pgfleet.DBConnection) error {
		if err := s.dbManager.TerminateConnections(ctx, conn, target); err != nil {
			return err
		}
		if err := s.dbManager.DropDatabase(ctx, conn, target); err != nil {
			return err
		}
		s.logger.Info("... done")
		return nil
	})
}

// Clean drops every object owned by the target's owner, as root connected
// to the target database.
func (s *Service) Clean(ctx context.Context, targets string) (Report, error) {
	selected, err := s.permittedTargets(manifest.OpClean, targets)
	if err != nil {
		return Report{}, err
	}
	return s.forEach(ctx, manifest.OpClean, selected, s.cleanTarget)
}

func (s *Service) cleanTarget(ctx context.Context, target string) error {
	owner := s.ws.Resolver.Resolve(target)
	if s.ws.DryRun() {
		s.logger.Info("[dry run] would drop objects owned by %s in %s", owner.User, target)
		return nil
	}

	s.logger.Info("Cleaning database %s (owner %s) ...", target, owner.User)
	return s.withConnection(ctx, s.ws.Resolver.RootOn(target), func(conn pgfleet.DBConnection) error {
		return s.dbManager.DropOwned(ctx, conn, owner.User)
	})
}
