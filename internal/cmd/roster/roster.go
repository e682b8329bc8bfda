// Package roster parses roster command flags and launches the roster server.
package roster

import (
	"context"
	"flag"
	"log"
	"time"

	entrypoint "github.com/louisbranch/roster/internal/platform/cmd"
	rosterserver "github.com/louisbranch/roster/internal/services/roster"
	"github.com/louisbranch/roster/internal/services/roster/controller"
	"github.com/pkg/browser"
)

// Config holds roster command configuration.
type Config struct {
	HTTPAddr       string        `env:"ROSTER_HTTP_ADDR" envDefault:"localhost:8095"`
	DirectoryURL   string        `env:"ROSTER_DIRECTORY_URL" envDefault:"https://jsonplaceholder.typicode.com"`
	RequestTimeout time.Duration `env:"ROSTER_REQUEST_TIMEOUT" envDefault:"10s"`
	SessionTTL     time.Duration `env:"ROSTER_SESSION_TTL" envDefault:"24h"`
	CreateIDPolicy string        `env:"ROSTER_CREATE_ID_POLICY" envDefault:"server"`
	OpenBrowser    bool          `env:"ROSTER_OPEN_BROWSER"`
}

// openURL launches the system browser.
var openURL = browser.OpenURL

// ParseConfig parses .env, environment, and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg, entrypoint.DotEnvFile); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DirectoryURL, "directory-url", cfg.DirectoryURL, "User directory base URL")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "Timeout for each directory request")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "How long an idle browser session keeps its roster")
	fs.StringVar(&cfg.CreateIDPolicy, "create-id-policy", cfg.CreateIDPolicy, "Identifier for created users: server or sequential")
	fs.BoolVar(&cfg.OpenBrowser, "open", cfg.OpenBrowser, "Open the roster page in a browser once listening")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if _, err := controller.ParseIDPolicy(cfg.CreateIDPolicy); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the roster server.
func Run(ctx context.Context, cfg Config) error {
	policy, err := controller.ParseIDPolicy(cfg.CreateIDPolicy)
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoster, func(ctx context.Context) error {
		serverCfg := rosterserver.Config{
			HTTPAddr:       cfg.HTTPAddr,
			DirectoryURL:   cfg.DirectoryURL,
			RequestTimeout: cfg.RequestTimeout,
			SessionTTL:     cfg.SessionTTL,
			IDPolicy:       policy,
		}
		if cfg.OpenBrowser {
			serverCfg.OnReady = func(url string) {
				if err := openURL(url); err != nil {
					log.Printf("open browser: %v", err)
				}
			}
		}
		server, err := rosterserver.NewServer(serverCfg)
		if err != nil {
			return err
		}
		return server.ListenAndServe(ctx)
	})
}
