package di

import (
	"fmt"
	"strings"
	"sync"

	"billbridge/internal/adapters/inbound/http/controllers"
	httpRouter "billbridge/internal/adapters/inbound/http/router"
	"billbridge/internal/adapters/outbound/docs"
	"billbridge/internal/adapters/outbound/galoy"
	issuerhttp "billbridge/internal/adapters/outbound/issuer/http"
	"billbridge/internal/adapters/outbound/lightning"
	badgerdb "billbridge/internal/adapters/outbound/persistence/badger"
	"billbridge/internal/adapters/outbound/persistence/postgresql"
	postgresqlbillpayment "billbridge/internal/adapters/outbound/persistence/postgresql/billpayment"
	postgresqlshared "billbridge/internal/adapters/outbound/persistence/postgresql/shared"
	"billbridge/internal/application/dto"
	portsin "billbridge/internal/application/ports/in"
	portsout "billbridge/internal/application/ports/out"
	"billbridge/internal/application/use_cases"
	"billbridge/internal/domain/entities"
	"billbridge/internal/infrastructure/config"
	"billbridge/internal/infrastructure/httpserver"
	"billbridge/internal/infrastructure/reconciler"
	"billbridge/internal/infrastructure/telemetry"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

type Container struct {
	Server                       *httpserver.Server
	InitializePersistenceUseCase portsin.InitializePersistenceUseCase
	ReconcilerWorker             *reconciler.Worker
	CreatePaymentUseCase         portsin.CreatePaymentUseCase
	GetPaymentUseCase            portsin.GetPaymentUseCase
	ResolveSettingsUseCase       portsin.ResolveSettingsUseCase
	ReconcilePaymentsUseCase     portsin.ReconcilePaymentsUseCase

	closers []func() error
}

// Close releases the store handle. It is safe to call more than once.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

// Store groups the persistence adapters of one DB_TYPE.
type Store struct {
	Repository portsout.BillPaymentRepository
	Bootstrap  portsout.PersistenceBootstrapGateway
	Close      func() error
}

type StoreBuilder func(cfg config.Config, logger logrus.FieldLogger) (Store, error)

var storeBuilders = map[string]StoreBuilder{
	config.DBTypePostgres: func(cfg config.Config, logger logrus.FieldLogger) (Store, error) {
		databasePool, err := postgresqlshared.NewDatabasePool(cfg.DatabaseURL, cfg.DBMaxOpenConns, logger)
		if err != nil {
			return Store{}, fmt.Errorf("open database pool: %w", err)
		}
		return Store{
			Repository: postgresqlbillpayment.NewRepository(databasePool, logger),
			Bootstrap: postgresql.NewPersistenceBootstrapGateway(
				cfg.DatabaseURL,
				cfg.DatabaseTarget,
				cfg.MigrationsPath,
				logger,
			),
			Close: databasePool.Close,
		}, nil
	},
	config.DBTypeBadger: func(cfg config.Config, logger logrus.FieldLogger) (Store, error) {
		store, err := badgerdb.OpenStore(cfg.BadgerDatadir, logger)
		if err != nil {
			return Store{}, fmt.Errorf("open badger store: %w", err)
		}
		return Store{
			Repository: badgerdb.NewBillPaymentRepository(store, logger),
			Bootstrap:  badgerdb.NewBootstrapGateway(store, logger),
			Close:      store.Close,
		}, nil
	},
}

var storeBuildersMu sync.RWMutex

func RegisterStoreBuilder(dbType string, builder StoreBuilder) {
	normalized := strings.ToLower(strings.TrimSpace(dbType))
	if normalized == "" || builder == nil {
		return
	}

	storeBuildersMu.Lock()
	defer storeBuildersMu.Unlock()
	storeBuilders[normalized] = builder
}

func Build(cfg config.Config, logger logrus.FieldLogger, hub *sentry.Hub) (*Container, error) {
	store, err := buildStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	container := &Container{}
	if store.Close != nil {
		container.closers = append(container.closers, store.Close)
	}

	invoiceDecoder, err := lightning.NewInvoiceDecoder(cfg.LightningNetwork)
	if err != nil {
		_ = container.Close()
		return nil, err
	}

	issuerGateway := issuerhttp.NewGateway(
		issuerhttp.NewRegistry(mapIssuers(cfg.Issuers)),
		issuerhttp.Config{Timeout: cfg.IssuerTimeout},
		logger,
	)
	providerGateway := galoy.NewGateway(galoy.Config{
		Endpoint: cfg.GaloyEndpoint,
		APIKey:   cfg.GaloyAPIKey,
		Timeout:  cfg.ProviderTimeout,
	}, logger)
	errorReporter := telemetry.NewErrorReporter(logger, hub)

	healthUseCase := use_cases.NewGetHealthUseCase(store.Bootstrap)
	openAPIUseCase := use_cases.NewGetOpenAPISpecUseCase(docs.NewFileOpenAPISpecReadModel(cfg.OpenAPISpecPath))
	createPaymentUseCase := use_cases.NewCreatePaymentUseCase(
		issuerGateway,
		providerGateway,
		store.Repository,
		use_cases.NewSystemClock(),
	)
	getPaymentUseCase := use_cases.NewGetPaymentUseCase(store.Repository)
	resolveSettingsUseCase := use_cases.NewResolveSettingsUseCase(issuerGateway)
	getPayRequestUseCase := use_cases.NewGetPayRequestUseCase(createPaymentUseCase, invoiceDecoder)
	reconcilePaymentsUseCase := use_cases.NewReconcilePaymentsUseCase(
		store.Repository,
		providerGateway,
		issuerGateway,
		errorReporter,
	)

	reconcilerWorker := reconciler.NewWorker(reconciler.Config{
		Enabled:      cfg.ReconcilerEnabled,
		PollInterval: cfg.ReconcilerPollInterval,
		Cron:         cfg.ReconcilerCron,
		BatchSize:    cfg.ReconcilerBatchSize,
		WorkerID:     cfg.ReconcilerWorkerID,
	}, reconcilePaymentsUseCase, logger)

	router := httpRouter.New(httpRouter.Dependencies{
		HealthController:       controllers.NewHealthController(healthUseCase, logger),
		SwaggerController:      controllers.NewSwaggerController(openAPIUseCase, logger),
		BillPaymentsController: controllers.NewBillPaymentsController(createPaymentUseCase, getPaymentUseCase, logger),
		IssuersController:      controllers.NewIssuersController(resolveSettingsUseCase, logger),
		LNURLController:        controllers.NewLNURLController(getPayRequestUseCase, logger),
	})

	container.Server = httpserver.New(cfg.Address(), router, logger)
	container.InitializePersistenceUseCase = use_cases.NewInitializePersistenceUseCase(store.Bootstrap)
	container.ReconcilerWorker = reconcilerWorker
	container.CreatePaymentUseCase = createPaymentUseCase
	container.GetPaymentUseCase = getPaymentUseCase
	container.ResolveSettingsUseCase = resolveSettingsUseCase
	container.ReconcilePaymentsUseCase = reconcilePaymentsUseCase

	return container, nil
}

func PersistenceCommand(cfg config.Config) dto.InitializePersistenceCommand {
	return dto.InitializePersistenceCommand{
		ReadinessTimeout:       cfg.DBReadinessTimeout,
		ReadinessRetryInterval: cfg.DBReadinessRetryInterval,
	}
}

func buildStore(cfg config.Config, logger logrus.FieldLogger) (Store, error) {
	dbType := strings.ToLower(strings.TrimSpace(cfg.DBType))

	storeBuildersMu.RLock()
	builder, exists := storeBuilders[dbType]
	storeBuildersMu.RUnlock()
	if !exists {
		return Store{}, fmt.Errorf("unsupported db type: %s", cfg.DBType)
	}

	return builder(cfg, logger)
}

func mapIssuers(issuers []config.IssuerConfig) []entities.BillIssuer {
	out := make([]entities.BillIssuer, 0, len(issuers))
	for _, issuer := range issuers {
		out = append(out, entities.BillIssuer{
			Domain:        issuer.Domain,
			Name:          issuer.Name,
			LnAddress:     issuer.LnAddress,
			BillServerURL: issuer.BillServerURL,
			PubKey:        issuer.PubKey,
			LogoURL:       issuer.LogoURL,
		})
	}
	return out
}
