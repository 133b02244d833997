package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avsfam/firstgoal/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	DBURL string

	CacheEnabled        bool
	RosterCacheTTL      time.Duration
	LeaderboardCacheTTL time.Duration

	CORSAllowedOrigins []string
	AdminEmails        []string

	AuthBaseURL string
	AuthAPIKey  string
	AuthTimeout time.Duration

	NHLFeedEnabled             bool
	NHLFeedBaseURL             string
	NHLTeamCode                string
	NHLFeedTimeout             time.Duration
	NHLFeedMaxRetries          int
	NHLFeedCircuitEnabled      bool
	NHLFeedCircuitFailureCount int
	NHLFeedCircuitOpenTimeout  time.Duration
	NHLFeedCircuitHalfOpenReq  int

	PointsCorrect        int
	PointsIncorrect      int
	GameInProgressWindow time.Duration

	SweepEnabled      bool
	SweepInterval     time.Duration
	SweepInitialDelay time.Duration

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	cacheEnabled, err := getEnvAsBool("CACHE_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	rosterCacheTTL, err := getEnvAsDuration("ROSTER_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	if rosterCacheTTL <= 0 {
		return Config{}, fmt.Errorf("ROSTER_CACHE_TTL must be > 0")
	}
	leaderboardCacheTTL, err := getEnvAsDuration("LEADERBOARD_CACHE_TTL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	if leaderboardCacheTTL <= 0 {
		return Config{}, fmt.Errorf("LEADERBOARD_CACHE_TTL must be > 0")
	}

	corsAllowedOrigins := splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if len(corsAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	authBaseURL := strings.TrimSpace(getEnv("AUTH_BASE_URL", ""))
	if authBaseURL == "" {
		return Config{}, fmt.Errorf("AUTH_BASE_URL is required")
	}
	authAPIKey := strings.TrimSpace(getEnv("AUTH_API_KEY", ""))
	if authAPIKey == "" {
		return Config{}, fmt.Errorf("AUTH_API_KEY is required")
	}
	authTimeout, err := getEnvAsDuration("AUTH_TIMEOUT", 3*time.Second)
	if err != nil {
		return Config{}, err
	}
	if authTimeout <= 0 {
		return Config{}, fmt.Errorf("AUTH_TIMEOUT must be > 0")
	}

	nhlFeedEnabled, err := getEnvAsBool("NHL_FEED_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	nhlFeedTimeout, err := getEnvAsDuration("NHL_FEED_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, err
	}
	if nhlFeedTimeout <= 0 {
		return Config{}, fmt.Errorf("NHL_FEED_TIMEOUT must be > 0")
	}
	nhlFeedMaxRetries, err := getEnvAsInt("NHL_FEED_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, err
	}
	if nhlFeedMaxRetries < 0 {
		return Config{}, fmt.Errorf("NHL_FEED_MAX_RETRIES must be >= 0")
	}
	nhlFeedCircuitEnabled, err := getEnvAsBool("NHL_FEED_CIRCUIT_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	nhlFeedCircuitFailureCount, err := getEnvAsInt("NHL_FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, err
	}
	if nhlFeedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("NHL_FEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	nhlFeedCircuitOpenTimeout, err := getEnvAsDuration("NHL_FEED_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	if nhlFeedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("NHL_FEED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	nhlFeedCircuitHalfOpenReq, err := getEnvAsInt("NHL_FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, err
	}
	if nhlFeedCircuitHalfOpenReq < 1 {
		return Config{}, fmt.Errorf("NHL_FEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	pointsCorrect, err := getEnvAsInt("POINTS_CORRECT", 10)
	if err != nil {
		return Config{}, err
	}
	pointsIncorrect, err := getEnvAsInt("POINTS_INCORRECT", -5)
	if err != nil {
		return Config{}, err
	}
	gameInProgressWindow, err := getEnvAsDuration("GAME_IN_PROGRESS_WINDOW", 3*time.Hour)
	if err != nil {
		return Config{}, err
	}
	if gameInProgressWindow <= 0 {
		return Config{}, fmt.Errorf("GAME_IN_PROGRESS_WINDOW must be > 0")
	}

	sweepEnabled, err := getEnvAsBool("SWEEP_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	sweepInterval, err := getEnvAsDuration("SWEEP_INTERVAL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	if sweepInterval <= 0 {
		return Config{}, fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	sweepInitialDelay, err := getEnvAsDuration("SWEEP_INITIAL_DELAY", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	if sweepInitialDelay < 0 {
		return Config{}, fmt.Errorf("SWEEP_INITIAL_DELAY must be >= 0")
	}

	pprofEnabled, err := getEnvAsBool("PPROF_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := getEnvAsBool("PYROSCOPE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "firstgoal-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		DBURL: strings.TrimSpace(getEnv("DB_URL", "")),

		CacheEnabled:        cacheEnabled,
		RosterCacheTTL:      rosterCacheTTL,
		LeaderboardCacheTTL: leaderboardCacheTTL,

		CORSAllowedOrigins: corsAllowedOrigins,
		AdminEmails:        splitCSV(getEnv("ADMIN_EMAILS", "")),

		AuthBaseURL: authBaseURL,
		AuthAPIKey:  authAPIKey,
		AuthTimeout: authTimeout,

		NHLFeedEnabled:             nhlFeedEnabled,
		NHLFeedBaseURL:             strings.TrimSpace(getEnv("NHL_FEED_BASE_URL", "https://api-web.nhle.com/v1")),
		NHLTeamCode:                strings.ToUpper(strings.TrimSpace(getEnv("NHL_TEAM_CODE", "COL"))),
		NHLFeedTimeout:             nhlFeedTimeout,
		NHLFeedMaxRetries:          nhlFeedMaxRetries,
		NHLFeedCircuitEnabled:      nhlFeedCircuitEnabled,
		NHLFeedCircuitFailureCount: nhlFeedCircuitFailureCount,
		NHLFeedCircuitOpenTimeout:  nhlFeedCircuitOpenTimeout,
		NHLFeedCircuitHalfOpenReq:  nhlFeedCircuitHalfOpenReq,

		PointsCorrect:        pointsCorrect,
		PointsIncorrect:      pointsIncorrect,
		GameInProgressWindow: gameInProgressWindow,

		SweepEnabled:      sweepEnabled,
		SweepInterval:     sweepInterval,
		SweepInitialDelay: sweepInitialDelay,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
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
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
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
