package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/net/http/httpguts"
)

const (
	DefaultPort       = 3000
	DefaultRoutePath  = "/script.lua"
	DefaultFilePath   = "script.lua"
	DefaultHeaderName = "CC-ROM-DRM"
	DefaultStartHash  = "086954732407f2e4a011d75cade1382fd2ba67b10472be931837009b612c15b5"
	DefaultAllowedIPs = "::ffff:127.0.0.1,127.0.0.1"
	DefaultAllowedIDs = "7"
	DefaultLogLevel   = "info"
)

const (
	envPort        = "SCRIPTGATE_PORT"
	envLegacyPort  = "PORT"
	envRoute       = "SCRIPTGATE_ROUTE"
	envFile        = "SCRIPTGATE_FILE"
	envHeader      = "SCRIPTGATE_HEADER"
	envAllowedIPs  = "SCRIPTGATE_ALLOWED_IPS"
	envAllowedIDs  = "SCRIPTGATE_ALLOWED_IDS"
	envStartupHash = "SCRIPTGATE_STARTUP_HASH"
	envGeoIPDB     = "SCRIPTGATE_GEOIP_DB"
	envLogLevel    = "SCRIPTGATE_LOG_LEVEL"
)

var hexPattern = regexp.MustCompile(`^[a-f0-9]+$`)

// Config is the read-only runtime configuration. It is built once by Load and
// handed to the components that need it; nothing mutates it afterwards.
type Config struct {
	Port         int
	RoutePath    string
	FilePath     string
	HeaderName   string
	AllowedIPs   []string
	AllowedIDs   []uint64
	RequiredHash string
	GeoIPPath    string
	LogLevel     log.Level
	ShowVersion  bool
}

// Addr returns the listen address for the configured port on all interfaces.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load parses args and overlays environment variables on top of the flag
// values. Environment always wins over flags, mirroring how the service is
// deployed behind a .env file.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("scriptgate", flag.ContinueOnError)
	portFlag := fs.Int("port", DefaultPort, "Port to listen on")
	routeFlag := fs.String("route", DefaultRoutePath, "Path the script is served on")
	fileFlag := fs.String("file", DefaultFilePath, "File served to validated clients")
	headerFlag := fs.String("header", DefaultHeaderName, "Request header carrying the DRM credential")
	geoFlag := fs.String("geoip-db", "", "Optional GeoLite2 country database used to annotate rejected addresses")
	levelFlag := fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	versionFlag := fs.Bool("version", false, "Print build information and exit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	port, err := portOverride(*portFlag, envPort, envLegacyPort)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:         port,
		RoutePath:    GetEnv(envRoute, *routeFlag),
		FilePath:     GetEnv(envFile, *fileFlag),
		HeaderName:   strings.TrimSpace(GetEnv(envHeader, *headerFlag)),
		RequiredHash: strings.TrimSpace(GetEnv(envStartupHash, DefaultStartHash)),
		GeoIPPath:    strings.TrimSpace(GetEnv(envGeoIPDB, *geoFlag)),
		ShowVersion:  *versionFlag,
	}

	level, err := log.ParseLevel(GetEnv(envLogLevel, *levelFlag))
	if err != nil {
		return Config{}, fmt.Errorf("parse log level: %w", err)
	}
	cfg.LogLevel = level

	cfg.AllowedIPs = NormalizeAddressList(splitList(GetEnv(envAllowedIPs, DefaultAllowedIPs)))

	ids, err := ParseIDList(splitList(GetEnv(envAllowedIDs, DefaultAllowedIDs)))
	if err != nil {
		return Config{}, err
	}
	cfg.AllowedIDs = ids

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that could never admit a request or that
// would make the server unreachable.
func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if !strings.HasPrefix(c.RoutePath, "/") {
		errs = append(errs, fmt.Errorf("route %q must start with /", c.RoutePath))
	}
	if strings.TrimSpace(c.FilePath) == "" {
		errs = append(errs, errors.New("file path must not be empty"))
	}
	if !httpguts.ValidHeaderFieldName(c.HeaderName) {
		errs = append(errs, fmt.Errorf("header name %q is not a valid HTTP field name", c.HeaderName))
	}
	if !hexPattern.MatchString(c.RequiredHash) {
		errs = append(errs, errors.New("startup hash must be non-empty lowercase hex"))
	}
	if len(c.AllowedIPs) == 0 {
		errs = append(errs, errors.New("address allowlist must not be empty"))
	}

	return errors.Join(errs...)
}

func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// portOverride returns the first port set among envKeys, or fallback when
// none is. A set but non-numeric value is an error naming the key; range is
// left to Validate.
func portOverride(fallback int, envKeys ...string) (int, error) {
	for _, key := range envKeys {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			continue
		}
		port, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid port %q", key, raw)
		}
		return port, nil
	}
	return fallback, nil
}
