package factory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kadankyi1/amforex/internal/audit"
	"github.com/kadankyi1/amforex/internal/auth"
	"github.com/kadankyi1/amforex/internal/client"
	"github.com/kadankyi1/amforex/internal/config"
	"github.com/kadankyi1/amforex/internal/handler"
	"github.com/kadankyi1/amforex/internal/hashing"
	"github.com/kadankyi1/amforex/internal/mailer"
	"github.com/kadankyi1/amforex/internal/repository/postgres"
	"github.com/kadankyi1/amforex/internal/repository/redis"
	"github.com/kadankyi1/amforex/internal/service"
	"github.com/kadankyi1/amforex/internal/tls"
	"github.com/kadankyi1/amforex/internal/util"
)

// Factory owns every shared dependency: configuration, backing-store
// clients, repositories, services and handlers. Clients are connected up
// front; repositories and services are built lazily on first use.
type Factory struct {
	config     *config.Config
	tlsManager *tls.TLSManager

	postgresClient   *postgres.Client
	redisClient      *client.RedisClient
	kafkaProducer    *client.KafkaProducer
	esClient         *client.ESClient
	clickhouseClient *client.ClickHouseClient

	hasher       *hashing.Hasher
	tokenManager *auth.Manager
	tokenCache   *redis.TokenCache
	mail         *mailer.SMTPMailer
	recorder     *audit.Recorder

	adminRepo    *postgres.AdminRepository
	passcodeRepo *postgres.PasscodeRepository
	currencyRepo *postgres.CurrencyRepository
	rateRepo     *postgres.RateRepository
	bureauRepo   *postgres.BureauRepository
	workerRepo   *postgres.WorkerRepository
	auditRepo    *postgres.AuditRepository

	authService     *service.AuthService
	adminService    *service.AdminService
	currencyService *service.CurrencyService
	rateService     *service.RateService
	bureauService   *service.BureauService
	reportService   *service.ReportService

	closeOnce sync.Once
	closed    chan struct{}
}

func NewFactory() (*Factory, error) {
	cfg := config.LoadConfig()
	util.Init(cfg.Environment, cfg.Logging.Level, cfg.Logging.Format)

	f := &Factory{
		config: cfg,
		closed: make(chan struct{}),
	}

	if cfg.Server.EnableTLS {
		f.tlsManager = tls.NewTLSManager(&tls.TLSConfig{
			EnableTLS:   cfg.Server.EnableTLS,
			AutoCert:    cfg.Server.AutoCert,
			Domain:      cfg.Server.Domain,
			CertFile:    cfg.Server.CertFile,
			KeyFile:     cfg.Server.KeyFile,
			AutoCertDir: cfg.Server.AutoCertDir,
			Email:       cfg.Server.Email,
			Environment: cfg.Environment,
		})
	}

	if err := f.initializeClients(); err != nil {
		return nil, err
	}

	tokenManager, err := auth.NewManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}
	f.tokenManager = tokenManager
	f.hasher = hashing.NewHasher(cfg)
	f.mail = mailer.NewSMTPMailer(cfg)
	if f.redisClient != nil {
		f.tokenCache = redis.NewTokenCache(f.redisClient)
	}

	util.Info("Factory initialized",
		util.String("environment", cfg.Environment),
		util.Bool("tls", cfg.Server.EnableTLS))
	return f, nil
}

// initializeClients connects to the backing stores. In production any
// failure besides Kafka is fatal; in development the service starts
// degraded so that local work does not need the full stack.
func (f *Factory) initializeClients() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var initErrors []string

	if pg, err := postgres.NewClient(f.config); err != nil {
		initErrors = append(initErrors, fmt.Sprintf("postgres: %v", err))
		util.Warn("Postgres initialization failed", util.ErrorField(err))
	} else if err := pg.RunMigrations(ctx); err != nil {
		pg.Close()
		initErrors = append(initErrors, fmt.Sprintf("postgres migrations: %v", err))
		util.Warn("Postgres migrations failed", util.ErrorField(err))
	} else {
		f.postgresClient = pg
		util.Info("Postgres client initialized")
	}

	if rc, err := client.NewRedisClient(f.config); err != nil {
		initErrors = append(initErrors, fmt.Sprintf("redis: %v", err))
		util.Warn("Redis initialization failed", util.ErrorField(err))
	} else {
		f.redisClient = rc
		util.Info("Redis client initialized")
	}

	// Kafka is an optional sink for audit events; its absence is never fatal.
	if kp, err := client.NewKafkaProducer(f.config); err != nil {
		util.Warn("Kafka initialization failed, audit events will not be published", util.ErrorField(err))
	} else {
		f.kafkaProducer = kp
		util.Info("Kafka producer initialized")
	}

	if es, err := client.NewElasticsearchClient(f.config); err != nil {
		initErrors = append(initErrors, fmt.Sprintf("elasticsearch: %v", err))
		util.Warn("Elasticsearch initialization failed", util.ErrorField(err))
	} else {
		f.esClient = es
		util.Info("Elasticsearch client initialized")
	}

	if ch, err := client.NewClickHouseClient(f.config); err != nil {
		initErrors = append(initErrors, fmt.Sprintf("clickhouse: %v", err))
		util.Warn("ClickHouse initialization failed", util.ErrorField(err))
	} else if err := audit.EnsureAnalyticsSchema(ctx, ch); err != nil {
		ch.Close()
		initErrors = append(initErrors, fmt.Sprintf("clickhouse schema: %v", err))
		util.Warn("ClickHouse schema setup failed", util.ErrorField(err))
	} else {
		f.clickhouseClient = ch
		util.Info("ClickHouse client initialized")
	}

	if len(initErrors) > 0 {
		if f.config.IsProduction() {
			return fmt.Errorf("client initialization failed: %s", strings.Join(initErrors, "; "))
		}
		util.Warn("Running with degraded backing stores",
			util.String("failures", strings.Join(initErrors, "; ")))
	}
	return nil
}

func (f *Factory) Config() *config.Config {
	return f.config
}

func (f *Factory) TLSManager() *tls.TLSManager {
	return f.tlsManager
}

func (f *Factory) TokenManager() *auth.Manager {
	return f.tokenManager
}

func (f *Factory) TokenCache() *redis.TokenCache {
	return f.tokenCache
}

func (f *Factory) AdminRepository() *postgres.AdminRepository {
	if f.adminRepo == nil {
		f.adminRepo = postgres.NewAdminRepository(f.postgresClient)
	}
	return f.adminRepo
}

func (f *Factory) PasscodeRepository() *postgres.PasscodeRepository {
	if f.passcodeRepo == nil {
		f.passcodeRepo = postgres.NewPasscodeRepository(f.postgresClient)
	}
	return f.passcodeRepo
}

func (f *Factory) CurrencyRepository() *postgres.CurrencyRepository {
	if f.currencyRepo == nil {
		f.currencyRepo = postgres.NewCurrencyRepository(f.postgresClient)
	}
	return f.currencyRepo
}

func (f *Factory) RateRepository() *postgres.RateRepository {
	if f.rateRepo == nil {
		f.rateRepo = postgres.NewRateRepository(f.postgresClient)
	}
	return f.rateRepo
}

func (f *Factory) BureauRepository() *postgres.BureauRepository {
	if f.bureauRepo == nil {
		f.bureauRepo = postgres.NewBureauRepository(f.postgresClient)
	}
	return f.bureauRepo
}

func (f *Factory) WorkerRepository() *postgres.WorkerRepository {
	if f.workerRepo == nil {
		f.workerRepo = postgres.NewWorkerRepository(f.postgresClient)
	}
	return f.workerRepo
}

func (f *Factory) AuditRepository() *postgres.AuditRepository {
	if f.auditRepo == nil {
		f.auditRepo = postgres.NewAuditRepository(f.postgresClient)
	}
	return f.auditRepo
}

// Recorder fans audit entries out to the sinks that came up. Sinks that
// failed to initialize stay nil and are skipped.
func (f *Factory) Recorder() *audit.Recorder {
	if f.recorder == nil {
		var publisher audit.EventPublisher
		if f.kafkaProducer != nil {
			publisher = f.kafkaProducer
		}
		var indexer audit.SearchIndexer
		if f.esClient != nil {
			indexer = f.esClient
		}
		var analytics audit.AnalyticsWriter
		if f.clickhouseClient != nil {
			analytics = f.clickhouseClient
		}
		f.recorder = audit.NewRecorder(f.AuditRepository(), publisher, indexer, analytics,
			f.config.Kafka.AuditTopic, f.config.Elasticsearch.AuditIndex)
	}
	return f.recorder
}

func (f *Factory) guard() service.Guard {
	return service.NewGuard(f.AdminRepository(), f.TokenCache(), f.hasher, f.Recorder())
}

func (f *Factory) AuthService() *service.AuthService {
	if f.authService == nil {
		f.authService = service.NewAuthService(f.guard(), f.PasscodeRepository(),
			f.tokenManager, f.mail, f.config.Auth.PasscodeDigits, f.config.Auth.TokenLifetime)
	}
	return f.authService
}

func (f *Factory) AdminService() *service.AdminService {
	if f.adminService == nil {
		f.adminService = service.NewAdminService(f.guard(), f.tokenManager)
	}
	return f.adminService
}

func (f *Factory) CurrencyService() *service.CurrencyService {
	if f.currencyService == nil {
		f.currencyService = service.NewCurrencyService(f.guard(), f.CurrencyRepository())
	}
	return f.currencyService
}

func (f *Factory) RateService() *service.RateService {
	if f.rateService == nil {
		f.rateService = service.NewRateService(f.guard(), f.RateRepository(), f.CurrencyRepository())
	}
	return f.rateService
}

func (f *Factory) BureauService() *service.BureauService {
	if f.bureauService == nil {
		f.bureauService = service.NewBureauService(f.guard(), f.BureauRepository(), f.WorkerRepository())
	}
	return f.bureauService
}

func (f *Factory) ReportService() *service.ReportService {
	if f.reportService == nil {
		var searcher service.LogSearcher
		if f.esClient != nil {
			searcher = f.esClient
		}
		var analytics service.ActivityQuerier
		if f.clickhouseClient != nil {
			analytics = f.clickhouseClient
		}
		f.reportService = service.NewReportService(f.guard(), searcher, analytics,
			f.config.Elasticsearch.AuditIndex)
	}
	return f.reportService
}

func (f *Factory) Handlers() handler.Handlers {
	return handler.Handlers{
		Auth:     handler.NewAuthHandler(f.AuthService()),
		Admin:    handler.NewAdminHandler(f.AdminService()),
		Currency: handler.NewCurrencyHandler(f.CurrencyService()),
		Rate:     handler.NewRateHandler(f.RateService()),
		Bureau:   handler.NewBureauHandler(f.BureauService()),
		Report:   handler.NewReportHandler(f.ReportService()),
	}
}

// HealthCheck probes every connected backing store.
func (f *Factory) HealthCheck(ctx context.Context) map[string]error {
	results := make(map[string]error)

	if f.postgresClient != nil {
		results["postgres"] = f.postgresClient.HealthCheck(ctx)
	} else {
		results["postgres"] = fmt.Errorf("not initialized")
	}
	if f.redisClient != nil {
		results["redis"] = f.redisClient.HealthCheck(ctx)
	} else {
		results["redis"] = fmt.Errorf("not initialized")
	}
	if f.kafkaProducer != nil {
		results["kafka"] = f.kafkaProducer.HealthCheck(ctx)
	}
	if f.esClient != nil {
		results["elasticsearch"] = f.esClient.HealthCheck()
	}
	if f.clickhouseClient != nil {
		results["clickhouse"] = f.clickhouseClient.HealthCheck(ctx)
	}
	return results
}

// IsHealthy reports whether the stores required to serve requests are up.
// Kafka is excluded: audit publishing is best-effort.
func (f *Factory) IsHealthy(ctx context.Context) bool {
	for name, err := range f.HealthCheck(ctx) {
		if name == "kafka" {
			continue
		}
		if err != nil {
			return false
		}
	}
	return true
}

// Close shuts the clients down in reverse initialization order.
func (f *Factory) Close() {
	f.closeOnce.Do(func() {
		util.Info("Closing factory resources")

		if f.clickhouseClient != nil {
			if err := f.clickhouseClient.Close(); err != nil {
				util.Warn("Error closing ClickHouse client", util.ErrorField(err))
			}
		}
		if f.esClient != nil {
			f.esClient.Close()
		}
		if f.kafkaProducer != nil {
			if err := f.kafkaProducer.Close(); err != nil {
				util.Warn("Error closing Kafka producer", util.ErrorField(err))
			}
		}
		if f.redisClient != nil {
			if err := f.redisClient.Close(); err != nil {
				util.Warn("Error closing Redis client", util.ErrorField(err))
			}
		}
		if f.postgresClient != nil {
			if err := f.postgresClient.Close(); err != nil {
				util.Warn("Error closing Postgres client", util.ErrorField(err))
			}
		}

		util.Sync()
		close(f.closed)
	})
}

// WaitForClose blocks until Close has completed.
func (f *Factory) WaitForClose() {
	<-f.closed
}
