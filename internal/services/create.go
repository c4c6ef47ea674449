package services

import (
	"context"

	"github.com/vvka-141/pgfleet/internal/manifest"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// Language every created database must provide.
const requiredLanguage = "plpgsql"

// Create creates the owner, database and language of every selected target
// and initializes the engine in it.
func (s *Service) Create(ctx context.Context, targets string) (Report, error) {
	selected, err := s.permittedTargets(manifest.OpCreate, targets)
	if err != nil {
		return Report{}, err
	}
	return s.forEach(ctx, manifest.OpCreate, selected, s.createTarget)
}

func (s *Service) createTarget(ctx context.Context, target string) error {
	owner := s.ws.Resolver.Resolve(target)
	if s.ws.DryRun() {
		s.logger.Info("[dry run] would create user %s and database %s", owner.User, target)
		return nil
	}

	s.logger.Info("Creating database %s ...", target)
	if err := s.withConnection(ctx, s.ws.Resolver.Root(), func(conn pgfleet.DBConnection) error {
		if err := s.ensureUser(ctx, conn, owner); err != nil {
			return err
		}
		return s.ensureDatabase(ctx, conn, target, owner)
	}); err != nil {
		return err
	}

	// The language lives in the new database, so root connects to it.
	if err := s.withConnection(ctx, s.ws.Resolver.RootOn(target), func(conn pgfleet.DBConnection) error {
		return s.ensureLanguage(ctx, conn)
	}); err != nil {
		return err
	}

	s.logger.Info("... initializing metadata ...")
	if err := s.engine.Init(ctx, pgfleet.InitRequest{Target: target, Owner: owner, Options: s.ws.Options}); err != nil {
		return err
	}
	s.logger.Info("... done")
	return nil
}

func (s *Service) ensureUser(ctx context.Context, conn pgfleet.DBConnection, owner pgfleet.TargetConfig) error {
	exists, err := s.dbManager.UserExists(ctx, conn, owner.User)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Verbose("User %s already exists", owner.User)
		return nil
	}
	s.logger.Info("... creating user %s ...", owner.User)
	return s.dbManager.CreateUser(ctx, conn, owner.User, owner.Password)
}

func (s *Service) ensureDatabase(ctx context.Context, conn pgfleet.DBConnection, target string, owner pgfleet.TargetConfig) error {
	exists, err := s.dbManager.DatabaseExists(ctx, conn, target)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Info("... database %s already exists ...", target)
		return nil
	}

	tablespace := owner.Tablespace
	if tablespace != "" {
		ok, err := s.dbManager.TablespaceExists(ctx, conn, tablespace)
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Warn("Tablespace '%s' does not exist, falling back to default!", tablespace)
			tablespace = ""
		}
	}

	s.logger.Info("... creating database %s ...", target)
	return s.dbManager.CreateDatabase(ctx, conn, target, owner.User, tablespace)
}

func (s *Service) ensureLanguage(ctx context.Context, conn pgfleet.DBConnection) error {
	exists, err := s.dbManager.LanguageExists(ctx, conn, requiredLanguage)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Verbose("Language %s exists", requiredLanguage)
		return nil
	}
	s.logger.Info("... creating %s language ...", requiredLanguage)
	return s.dbManager.CreateLanguage(ctx, conn, requiredLanguage)
}
