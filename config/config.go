package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultTokenExpiry        = 24 * time.Hour
	defaultQueryTimeout       = 5 * time.Second
	defaultSlowQueryThreshold = 200 * time.Millisecond
	defaultBcryptCost         = 10
	defaultRateLimitAttempts  = 10
	defaultRateLimitWindow    = time.Minute

	// DevelopmentTokenSecret is the signing secret used when none is configured.
	// It is rejected when the service runs with env "production".
	DevelopmentTokenSecret = "gatekeeper-development-secret-change-me"

	EnvProduction = "production"
)

type Config struct {
	Env  EnvConfig  `json:"env" yaml:"env"`
	HTTP HTTPConfig `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Storage StorageConfig `json:"storage" yaml:"storage"`

	Token TokenConfig `json:"token" yaml:"token"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// RateLimit throttles credential endpoints per client IP. Disabled when nil.
	RateLimit *RateLimitConfig `json:"rateLimit" yaml:"rateLimit"`
}

type EnvConfig struct {
	Env         string `json:"env" yaml:"env"`
	ServiceName string `json:"serviceName" yaml:"serviceName"`
	Debug       bool   `json:"debug" yaml:"debug"`
	Log         Log    `json:"log" yaml:"log"`
}

type HTTPConfig struct {
	Port               int    `json:"port" yaml:"port"`
	MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
	// TrustedProxies lists the CIDR ranges whose X-Forwarded-For header is honored.
	// Empty means the client IP is always the socket peer address.
	TrustedProxies []string `json:"trustedProxies" yaml:"trustedProxies"`
	Timeouts           struct {
		ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
		ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
		WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
		IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
	} `json:"timeouts" yaml:"timeouts"`
}

// StorageConfig bounds every repository round-trip.
type StorageConfig struct {
	QueryTimeout       time.Duration `json:"queryTimeout" yaml:"queryTimeout"`
	SlowQueryThreshold time.Duration `json:"slowQueryThreshold" yaml:"slowQueryThreshold"`

	// AutoMigrate applies the embedded schema migrations when the server starts.
	AutoMigrate bool `json:"autoMigrate" yaml:"autoMigrate"`
}

// TokenConfig holds the bearer token signing material. It is read once at startup.
type TokenConfig struct {
	Secret    string        `json:"secret" yaml:"secret"`
	ExpiresIn time.Duration `json:"expiresIn" yaml:"expiresIn"`
	Issuer    string        `json:"issuer" yaml:"issuer"`
}

// AuthConfig defines password hashing configuration
type AuthConfig struct {
	BcryptCost          int `json:"bcryptCost" yaml:"bcryptCost"`
	MaxConcurrentHashes int `json:"maxConcurrentHashes" yaml:"maxConcurrentHashes"`
}

type RateLimitConfig struct {
	Enabled       bool          `json:"enabled" yaml:"enabled"`
	RedisAddr     string        `json:"redisAddr" yaml:"redisAddr"`
	RedisPassword string        `json:"redisPassword" yaml:"redisPassword"`
	RedisDB       int           `json:"redisDB" yaml:"redisDB"`
	MaxAttempts   int           `json:"maxAttempts" yaml:"maxAttempts"`
	Window        time.Duration `json:"window" yaml:"window"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env.Env, EnvProduction)
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	configFile, found := findConfigFile(currEnv, searchPaths)
	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Environment variables override YAML values. TOKEN_EXPIRESIN -> token.expiresIn
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func findConfigFile(currEnv string, searchPaths []string) (string, bool) {
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	return "", false
}

// New loads .env (when present), config.yaml and environment overrides, then applies defaults.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env failed")
	}

	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	return cfg, nil
}

// ApplyDefaults fills every unset value with a default that is safe for non-production use.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.HTTP.MaxRequestBodySize) == "" {
		c.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if c.Env.ServiceName == "" {
		c.Env.ServiceName = "gatekeeper"
	}
	if c.Env.Log.Level == "" {
		c.Env.Log.Level = "info"
	}
	if c.Storage.QueryTimeout <= 0 {
		c.Storage.QueryTimeout = defaultQueryTimeout
	}
	if c.Storage.SlowQueryThreshold <= 0 {
		c.Storage.SlowQueryThreshold = defaultSlowQueryThreshold
	}
	if c.Token.Secret == "" {
		c.Token.Secret = DevelopmentTokenSecret
	}
	if c.Token.ExpiresIn <= 0 {
		c.Token.ExpiresIn = defaultTokenExpiry
	}
	if c.Token.Issuer == "" {
		c.Token.Issuer = c.Env.ServiceName
	}

	if c.Auth == nil {
		c.Auth = &AuthConfig{}
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = defaultBcryptCost
	}
	if c.Auth.MaxConcurrentHashes <= 0 {
		c.Auth.MaxConcurrentHashes = runtime.GOMAXPROCS(0)
	}

	if c.RateLimit != nil {
		if c.RateLimit.MaxAttempts <= 0 {
			c.RateLimit.MaxAttempts = defaultRateLimitAttempts
		}
		if c.RateLimit.Window <= 0 {
			c.RateLimit.Window = defaultRateLimitWindow
		}
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
