package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openfantasy/dota-fantasy/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	DBURL                   string
	DBDisablePreparedBinary bool
	CORSAllowedOrigins      []string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	OpenDotaBaseURL               string
	OpenDotaTimeout               time.Duration
	OpenDotaMaxRetries            int
	OpenDotaRetryDelay            time.Duration
	OpenDotaCircuitEnabled        bool
	OpenDotaCircuitFailureCount   int
	OpenDotaCircuitOpenTimeout    time.Duration
	OpenDotaCircuitHalfOpenMaxReq int

	PipelineDetailAttempts   int
	PipelineDetailRetryDelay time.Duration
	PipelineRegisterWorkers  int
	RollupWorkers            int

	FormulaPath string

	InternalJobToken            string
	QStashEnabled               bool
	QStashBaseURL               string
	QStashToken                 string
	QStashTargetBaseURL         string
	QStashRetries               int
	QStashCircuitEnabled        bool
	QStashCircuitFailureCount   int
	QStashCircuitOpenTimeout    time.Duration
	QStashCircuitHalfOpenMaxReq int
	JobChainRetryDelay          time.Duration
	JobChainDedupBucket         time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	openDotaTimeout, err := time.ParseDuration(getEnv("OPENDOTA_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_TIMEOUT: %w", err)
	}
	if openDotaTimeout <= 0 {
		return Config{}, fmt.Errorf("OPENDOTA_TIMEOUT must be > 0")
	}
	openDotaMaxRetries, err := getEnvAsInt("OPENDOTA_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_MAX_RETRIES: %w", err)
	}
	if openDotaMaxRetries < 0 {
		return Config{}, fmt.Errorf("OPENDOTA_MAX_RETRIES must be >= 0")
	}
	openDotaRetryDelay, err := time.ParseDuration(getEnv("OPENDOTA_RETRY_DELAY", "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_RETRY_DELAY: %w", err)
	}
	if openDotaRetryDelay <= 0 {
		return Config{}, fmt.Errorf("OPENDOTA_RETRY_DELAY must be > 0")
	}
	openDotaCircuitEnabled, err := strconv.ParseBool(getEnv("OPENDOTA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_CIRCUIT_ENABLED: %w", err)
	}
	openDotaCircuitFailureCount, err := getEnvAsInt("OPENDOTA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if openDotaCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("OPENDOTA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	openDotaCircuitOpenTimeout, err := time.ParseDuration(getEnv("OPENDOTA_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if openDotaCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("OPENDOTA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	openDotaCircuitHalfOpenMaxReq, err := getEnvAsInt("OPENDOTA_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if openDotaCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("OPENDOTA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	detailAttempts, err := getEnvAsInt("PIPELINE_DETAIL_ATTEMPTS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_DETAIL_ATTEMPTS: %w", err)
	}
	if detailAttempts < 1 {
		return Config{}, fmt.Errorf("PIPELINE_DETAIL_ATTEMPTS must be >= 1")
	}
	detailRetryDelay, err := time.ParseDuration(getEnv("PIPELINE_DETAIL_RETRY_DELAY", "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_DETAIL_RETRY_DELAY: %w", err)
	}
	if detailRetryDelay <= 0 {
		return Config{}, fmt.Errorf("PIPELINE_DETAIL_RETRY_DELAY must be > 0")
	}
	registerWorkers, err := getEnvAsInt("PIPELINE_REGISTER_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_REGISTER_WORKERS: %w", err)
	}
	if registerWorkers < 1 {
		return Config{}, fmt.Errorf("PIPELINE_REGISTER_WORKERS must be >= 1")
	}
	rollupWorkers, err := getEnvAsInt("ROLLUP_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse ROLLUP_WORKERS: %w", err)
	}
	if rollupWorkers < 1 {
		return Config{}, fmt.Errorf("ROLLUP_WORKERS must be >= 1")
	}

	qstashEnabled, err := strconv.ParseBool(getEnv("QSTASH_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_ENABLED: %w", err)
	}
	qstashRetries, err := getEnvAsInt("QSTASH_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if qstashRetries < 0 {
		return Config{}, fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	qstashCircuitEnabled, err := strconv.ParseBool(getEnv("QSTASH_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_CIRCUIT_ENABLED: %w", err)
	}
	qstashCircuitFailureCount, err := getEnvAsInt("QSTASH_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if qstashCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("QSTASH_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	qstashCircuitOpenTimeout, err := time.ParseDuration(getEnv("QSTASH_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if qstashCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("QSTASH_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	qstashCircuitHalfOpenMaxReq, err := getEnvAsInt("QSTASH_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if qstashCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("QSTASH_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	qstashBaseURL := strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"))
	qstashToken := strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	qstashTargetBaseURL := strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	internalJobToken := strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if qstashEnabled {
		if qstashToken == "" {
			return Config{}, fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if qstashTargetBaseURL == "" {
			return Config{}, fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if internalJobToken == "" {
			return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}

	jobChainRetryDelay, err := time.ParseDuration(getEnv("JOB_CHAIN_RETRY_DELAY", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_CHAIN_RETRY_DELAY: %w", err)
	}
	if jobChainRetryDelay <= 0 {
		return Config{}, fmt.Errorf("JOB_CHAIN_RETRY_DELAY must be > 0")
	}
	jobChainDedupBucket, err := time.ParseDuration(getEnv("JOB_CHAIN_DEDUP_BUCKET", "1m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_CHAIN_DEDUP_BUCKET: %w", err)
	}
	if jobChainDedupBucket <= 0 {
		return Config{}, fmt.Errorf("JOB_CHAIN_DEDUP_BUCKET must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "dota-fantasy-api"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                   getEnv("DB_URL", ""),
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		OpenDotaBaseURL:               strings.TrimSpace(getEnv("OPENDOTA_BASE_URL", "https://api.opendota.com/api")),
		OpenDotaTimeout:               openDotaTimeout,
		OpenDotaMaxRetries:            openDotaMaxRetries,
		OpenDotaRetryDelay:            openDotaRetryDelay,
		OpenDotaCircuitEnabled:        openDotaCircuitEnabled,
		OpenDotaCircuitFailureCount:   openDotaCircuitFailureCount,
		OpenDotaCircuitOpenTimeout:    openDotaCircuitOpenTimeout,
		OpenDotaCircuitHalfOpenMaxReq: openDotaCircuitHalfOpenMaxReq,

		PipelineDetailAttempts:   detailAttempts,
		PipelineDetailRetryDelay: detailRetryDelay,
		PipelineRegisterWorkers:  registerWorkers,
		RollupWorkers:            rollupWorkers,

		FormulaPath: strings.TrimSpace(getEnv("FORMULA_PATH", "")),

		InternalJobToken:            internalJobToken,
		QStashEnabled:               qstashEnabled,
		QStashBaseURL:               qstashBaseURL,
		QStashToken:                 qstashToken,
		QStashTargetBaseURL:         qstashTargetBaseURL,
		QStashRetries:               qstashRetries,
		QStashCircuitEnabled:        qstashCircuitEnabled,
		QStashCircuitFailureCount:   qstashCircuitFailureCount,
		QStashCircuitOpenTimeout:    qstashCircuitOpenTimeout,
		QStashCircuitHalfOpenMaxReq: qstashCircuitHalfOpenMaxReq,
		JobChainRetryDelay:          jobChainRetryDelay,
		JobChainDedupBucket:         jobChainDedupBucket,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
