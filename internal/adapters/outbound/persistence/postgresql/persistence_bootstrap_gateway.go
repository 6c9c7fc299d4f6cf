package postgresql

import (
	"context"
	"database/sql"
	stderrors "errors"
	"path/filepath"

	"billbridge/internal/adapters/outbound/persistence/postgresql/shared"
	portsout "billbridge/internal/application/ports/out"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

type PersistenceBootstrapGateway struct {
	databaseURL    string
	databaseTarget string
	migrationsPath string
	logger         logrus.FieldLogger
}

var _ portsout.PersistenceBootstrapGateway = (*PersistenceBootstrapGateway)(nil)

func NewPersistenceBootstrapGateway(
	databaseURL string,
	databaseTarget string,
	migrationsPath string,
	logger logrus.FieldLogger,
) *PersistenceBootstrapGateway {
	return &PersistenceBootstrapGateway{
		databaseURL:    databaseURL,
		databaseTarget: databaseTarget,
		migrationsPath: migrationsPath,
		logger:         logger.WithField("database_target", databaseTarget),
	}
}

func (g *PersistenceBootstrapGateway) CheckReadiness(ctx context.Context) *apperrors.AppError {
	db, err := sql.Open("pgx", g.databaseURL)
	if err != nil {
		g.logger.WithError(err).Warn("database connection initialization failed")
		return apperrors.NewInternal(
			"db_connect_init_failed",
			"failed to initialize database connection",
			map[string]any{"database_target": g.databaseTarget},
		)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		g.logger.WithError(err).Warn("database readiness check failed")
		return shared.ClassifyStoreError(err, "ping").WithDetail("database_target", g.databaseTarget)
	}

	g.logger.Debug("database readiness check succeeded")
	return nil
}

func (g *PersistenceBootstrapGateway) RunMigrations(ctx context.Context) *apperrors.AppError {
	if err := ctx.Err(); err != nil {
		return apperrors.NewInternal(
			"db_migration_context_canceled",
			"migration context canceled",
			map[string]any{"database_target": g.databaseTarget},
		)
	}

	migrationsAbsPath, err := filepath.Abs(g.migrationsPath)
	if err != nil {
		return apperrors.NewInternal(
			"db_migration_path_resolve_failed",
			"failed to resolve migration path",
			map[string]any{"migrations_path": g.migrationsPath},
		)
	}

	sourceURL := "file://" + filepath.ToSlash(migrationsAbsPath)
	migrationRunner, err := migrate.New(sourceURL, g.databaseURL)
	if err != nil {
		g.logger.WithError(err).Error("migration runner setup failed")
		return apperrors.NewInternal(
			"db_migration_setup_failed",
			"failed to initialize migration runner",
			map[string]any{
				"database_target": g.databaseTarget,
				"migrations_path": g.migrationsPath,
			},
		)
	}

	defer func() {
		sourceErr, dbErr := migrationRunner.Close()
		if sourceErr != nil {
			g.logger.WithError(sourceErr).Warn("migration source close warning")
		}
		if dbErr != nil {
			g.logger.WithError(dbErr).Warn("migration db close warning")
		}
	}()

	err = migrationRunner.Up()
	if err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		g.logger.WithError(err).Error("database migrations failed")
		return apperrors.NewInternal(
			"db_migration_apply_failed",
			"failed to apply migrations",
			map[string]any{
				"database_target": g.databaseTarget,
				"migrations_path": g.migrationsPath,
			},
		)
	}

	if stderrors.Is(err, migrate.ErrNoChange) {
		g.logger.Info("database migrations up to date")
	} else {
		g.logger.Info("database migrations applied")
	}

	return nil
}
