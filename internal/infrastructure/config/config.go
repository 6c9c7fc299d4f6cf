package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DBTypePostgres = "postgres"
	DBTypeBadger   = "badger"
)

type ConfigError struct {
	Code     string
	Message  string
	Metadata map[string]string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

type IssuerConfig struct {
	Domain        string `mapstructure:"domain" json:"domain"`
	Name          string `mapstructure:"name" json:"name"`
	LnAddress     string `mapstructure:"ln_address" json:"ln_address"`
	BillServerURL string `mapstructure:"bill_server_url" json:"bill_server_url"`
	PubKey        string `mapstructure:"pub_key" json:"pub_key"`
	LogoURL       string `mapstructure:"logo_url" json:"logo_url"`
}

type Config struct {
	Port                     string        `mapstructure:"PORT" envDefault:"8080"`
	OpenAPISpecPath          string        `mapstructure:"OPENAPI_SPEC_PATH" envDefault:"api/openapi.yaml"`
	ShutdownTimeout          time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	DBType                   string        `mapstructure:"DB_TYPE" envDefault:"postgres"`
	DatabaseURL              string        `mapstructure:"DATABASE_URL"`
	BadgerDatadir            string        `mapstructure:"BADGER_DATADIR"`
	MigrationsPath           string        `mapstructure:"MIGRATIONS_PATH" envDefault:"internal/adapters/outbound/persistence/postgresql/migrations"`
	DBReadinessTimeout       time.Duration `mapstructure:"DB_READINESS_TIMEOUT" envDefault:"30s"`
	DBReadinessRetryInterval time.Duration `mapstructure:"DB_READINESS_RETRY_INTERVAL" envDefault:"2s"`
	DBMaxOpenConns           int           `mapstructure:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	GaloyEndpoint            string        `mapstructure:"GALOY_ENDPOINT" envDefault:"https://api.blink.sv/graphql"`
	GaloyAPIKey              string        `mapstructure:"GALOY_API_KEY"`
	ProviderTimeout          time.Duration `mapstructure:"PROVIDER_TIMEOUT" envDefault:"10s"`
	IssuerTimeout            time.Duration `mapstructure:"ISSUER_TIMEOUT" envDefault:"30s"`
	LightningNetwork         string        `mapstructure:"LIGHTNING_NETWORK" envDefault:"mainnet"`
	ReconcilerEnabled        bool          `mapstructure:"RECONCILER_ENABLED" envDefault:"true"`
	ReconcilerPollInterval   time.Duration `mapstructure:"RECONCILER_POLL_INTERVAL" envDefault:"60s"`
	ReconcilerCron           string        `mapstructure:"RECONCILER_CRON"`
	ReconcilerBatchSize      int           `mapstructure:"RECONCILER_BATCH_SIZE" envDefault:"100"`
	ReconcilerWorkerID       string        `mapstructure:"RECONCILER_WORKER_ID"`
	LogLevel                 string        `mapstructure:"LOG_LEVEL" envDefault:"info"`
	LogFormat                string        `mapstructure:"LOG_FORMAT" envDefault:"text"`
	SentryDSN                string        `mapstructure:"SENTRY_DSN"`
	SentryEnvironment        string        `mapstructure:"SENTRY_ENVIRONMENT" envDefault:"production"`
	ConfigFile               string        `mapstructure:"CONFIG_FILE"`
	BillIssuersJSON          string        `mapstructure:"BILL_ISSUERS_JSON"`

	DatabaseTarget string         `mapstructure:"-"`
	Issuers        []IssuerConfig `mapstructure:"-"`
}

func LoadConfig() (Config, *ConfigError) {
	v := viper.New()
	v.AutomaticEnv()

	if err := setDefaultConfig(v); err != nil {
		return Config{}, &ConfigError{
			Code:    "CONFIG_ENV_BINDING_FAILED",
			Message: err.Error(),
		}
	}

	configFile := strings.TrimSpace(v.GetString("CONFIG_FILE"))
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, &ConfigError{
				Code:     "CONFIG_FILE_UNREADABLE",
				Message:  "CONFIG_FILE could not be read",
				Metadata: map[string]string{"path": configFile, "error": err.Error()},
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, &ConfigError{
			Code:     "CONFIG_DECODE_FAILED",
			Message:  "configuration values could not be decoded",
			Metadata: map[string]string{"error": err.Error()},
		}
	}

	issuers, cfgErr := loadIssuers(v, cfg.BillIssuersJSON)
	if cfgErr != nil {
		return Config{}, cfgErr
	}
	cfg.Issuers = issuers

	if cfgErr := cfg.validate(); cfgErr != nil {
		return Config{}, cfgErr
	}

	return cfg, nil
}

func (c Config) Address() string {
	return ":" + c.Port
}

func (c *Config) validate() *ConfigError {
	c.DBType = strings.ToLower(strings.TrimSpace(c.DBType))
	switch c.DBType {
	case DBTypePostgres:
		c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
		if c.DatabaseURL == "" {
			return &ConfigError{
				Code:    "CONFIG_DATABASE_URL_REQUIRED",
				Message: "DATABASE_URL is required",
			}
		}
		target, cfgErr := parseDatabaseTarget(c.DatabaseURL)
		if cfgErr != nil {
			return cfgErr
		}
		c.DatabaseTarget = target
	case DBTypeBadger:
		c.DatabaseTarget = "badger:memory"
		if dir := strings.TrimSpace(c.BadgerDatadir); dir != "" {
			c.DatabaseTarget = "badger:" + dir
		}
	default:
		return &ConfigError{
			Code:     "CONFIG_DB_TYPE_INVALID",
			Message:  "DB_TYPE must be postgres or badger",
			Metadata: map[string]string{"db_type": c.DBType},
		}
	}

	if c.ReconcilerBatchSize <= 0 {
		return &ConfigError{
			Code:    "CONFIG_RECONCILER_BATCH_SIZE_INVALID",
			Message: "RECONCILER_BATCH_SIZE must be positive",
		}
	}
	if strings.TrimSpace(c.ReconcilerCron) == "" && c.ReconcilerPollInterval <= 0 {
		return &ConfigError{
			Code:    "CONFIG_RECONCILER_SCHEDULE_INVALID",
			Message: "RECONCILER_POLL_INTERVAL must be positive when RECONCILER_CRON is empty",
		}
	}
	if strings.TrimSpace(c.GaloyEndpoint) == "" {
		return &ConfigError{
			Code:    "CONFIG_GALOY_ENDPOINT_REQUIRED",
			Message: "GALOY_ENDPOINT is required",
		}
	}

	return nil
}

func parseDatabaseTarget(databaseURL string) (string, *ConfigError) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_INVALID",
			Message: "DATABASE_URL is invalid",
		}
	}

	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_SCHEME_INVALID",
			Message: "DATABASE_URL must use postgres or postgresql scheme",
		}
	}

	if parsed.Host == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_HOST_MISSING",
			Message: "DATABASE_URL host is required",
		}
	}

	databaseName := strings.TrimPrefix(parsed.Path, "/")
	if databaseName == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_NAME_MISSING",
			Message: "DATABASE_URL database name is required",
		}
	}

	return parsed.Host + "/" + databaseName, nil
}

// loadIssuers merges the config file's issuers list with BILL_ISSUERS_JSON.
// Entries from the environment win for a repeated domain.
func loadIssuers(v *viper.Viper, rawJSON string) ([]IssuerConfig, *ConfigError) {
	var fromFile []IssuerConfig
	if v.IsSet("issuers") {
		if err := v.UnmarshalKey("issuers", &fromFile); err != nil {
			return nil, &ConfigError{
				Code:     "CONFIG_BILL_ISSUERS_INVALID",
				Message:  "issuers in CONFIG_FILE must be a list of issuer objects",
				Metadata: map[string]string{"error": err.Error()},
			}
		}
	}

	var fromEnv []IssuerConfig
	if raw := strings.TrimSpace(rawJSON); raw != "" {
		if err := json.Unmarshal([]byte(raw), &fromEnv); err != nil {
			return nil, &ConfigError{
				Code:    "CONFIG_BILL_ISSUERS_INVALID",
				Message: "BILL_ISSUERS_JSON must be a JSON array of issuer objects",
			}
		}
	}

	merged := make([]IssuerConfig, 0, len(fromFile)+len(fromEnv))
	positions := map[string]int{}
	for i, issuer := range append(fromFile, fromEnv...) {
		domain := strings.ToLower(strings.TrimSpace(issuer.Domain))
		if domain == "" {
			return nil, &ConfigError{
				Code:     "CONFIG_BILL_ISSUERS_INVALID",
				Message:  "every bill issuer needs a domain",
				Metadata: map[string]string{"index": fmt.Sprint(i)},
			}
		}
		issuer.Domain = domain
		if position, exists := positions[domain]; exists {
			merged[position] = issuer
			continue
		}
		positions[domain] = len(merged)
		merged = append(merged, issuer)
	}

	return merged, nil
}

func setDefaultConfig(v *viper.Viper) error {
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key := f.Tag.Get("mapstructure")
		if key == "" || key == "-" {
			continue
		}
		if def := f.Tag.Get("envDefault"); def != "" {
			v.SetDefault(key, def)
		}
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("error binding env variable for key %s: %w", key, err)
		}
	}
	return nil
}
