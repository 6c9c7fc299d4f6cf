package badgerdb

import (
	"context"

	portsout "billbridge/internal/application/ports/out"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

// BootstrapGateway reports readiness of an embedded store. There is no schema
// to migrate.
type BootstrapGateway struct {
	store  *badgerhold.Store
	logger logrus.FieldLogger
}

var _ portsout.PersistenceBootstrapGateway = (*BootstrapGateway)(nil)

func NewBootstrapGateway(store *badgerhold.Store, logger logrus.FieldLogger) *BootstrapGateway {
	return &BootstrapGateway{store: store, logger: logger}
}

func (g *BootstrapGateway) CheckReadiness(ctx context.Context) *apperrors.AppError {
	if err := ctx.Err(); err != nil {
		return apperrors.New(apperrors.CodeStoreConnectionError, "readiness check canceled", map[string]any{"error": err.Error()})
	}
	if g.store == nil || g.store.Badger().IsClosed() {
		return apperrors.New(apperrors.CodeStoreConnectionError, "badger store is not open", nil)
	}
	g.logger.Debug("badger store ready")
	return nil
}

func (g *BootstrapGateway) RunMigrations(context.Context) *apperrors.AppError {
	g.logger.Debug("badger store needs no migrations")
	return nil
}
