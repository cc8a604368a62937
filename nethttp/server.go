package nethttp

import (
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mvdm/wayfind"
)

// Config holds the environment-driven settings of the server harness.
type Config struct {
	Addr     string        `env:"WAYFIND_ADDR" envDefault:":8080"`
	LogLevel zapcore.Level `env:"WAYFIND_LOG_LEVEL" envDefault:"info"`
}

// ParseConfig reads the configuration from the environment.
func ParseConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return cfg, errors.Wrap(err, "parse environment")
	}

	return cfg, nil
}

// NewLogger creates a zap logger at the configured level, JSON-encoded
// for log shippers.
func NewLogger(cfg Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zcfg.Build()
}

// NewServer builds an http.Server that routes every request through the
// finder.
func NewServer(cfg Config, f *wayfind.Finder) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           Handler(f),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Serve reads configuration from the environment, attaches a zap-backed
// logger to the routes via the finder options of the caller, and serves
// until the listener fails.
func Serve(routes []wayfind.Route, opts ...wayfind.Option) error {
	cfg, err := ParseConfig()
	if err != nil {
		return err
	}

	logs, err := NewLogger(cfg)
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	defer logs.Sync() //nolint:errcheck // best-effort flush

	opts = append([]wayfind.Option{wayfind.WithLogger(wayfind.NewZapLogger(logs))}, opts...)

	finder, err := wayfind.New(routes, opts...)
	if err != nil {
		return errors.Wrap(err, "build finder")
	}

	logs.Info("serving", zap.String("addr", cfg.Addr))

	return NewServer(cfg, finder).ListenAndServe()
}
