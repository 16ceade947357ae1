package cli

import (
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/example/plant-shop/internal/confirm"
	"github.com/example/plant-shop/internal/domain/catalog"
	"github.com/example/plant-shop/internal/shopapi"
	"github.com/example/plant-shop/internal/telemetry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	APIURL     string
	Verbose    bool
	Format     string // "json" | "text"

	// HTTPClient replaces the default client, for tests.
	HTTPClient *http.Client
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for shopctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shopctl",
		Short: "Plant shop storefront and admin console",
		Long: `Browse the plant catalog, fill a cart and check out, or manage
products and orders from the admin commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return usagef("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Message: err.Error()}
	})

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", DefaultConfigPath(), "config file")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", "", "API base URL (overrides config and "+EnvAPIURL+")")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log requests to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewShopCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))
	cmd.AddCommand(NewAdminCommand(opts))

	return cmd
}

// session is what a command needs to talk to the shop.
type session struct {
	client     *shopapi.Client
	httpClient *http.Client
	catalog    *catalog.Cache
	logger     *slog.Logger
	out        *OutputFormatter
}

// connect resolves the configuration (file, then environment, then flags)
// and builds the API client.
func (o *RootOptions) connect(cmd *cobra.Command) (*session, error) {
	cfg, err := LoadConfig(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if o.APIURL != "" {
		cfg.APIURL = o.APIURL
	}
	timeout, err := cfg.timeout()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if o.Verbose {
		logger = telemetry.NewLogger(cmd.ErrOrStderr(), "debug", "text")
	}

	httpClient := o.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if timeout > 0 {
		httpClient.Timeout = timeout
	}

	client, err := shopapi.NewClient(cfg.APIURL, shopapi.WithHTTPClient(httpClient), shopapi.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	catalogOpts := []catalog.Option{catalog.WithLogger(logger)}
	if len(cfg.Placeholders) > 0 {
		catalogOpts = append(catalogOpts, catalog.WithPlaceholders(cfg.Placeholders))
	}

	return &session{
		client:     client,
		httpClient: httpClient,
		catalog:    catalog.NewCache(client, catalogOpts...),
		logger:     logger,
		out: &OutputFormatter{
			Format:    o.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
		},
	}, nil
}

// confirmer returns the confirmation gate for destructive commands.
func confirmer(cmd *cobra.Command, yes bool) confirm.Confirmer {
	if yes {
		return confirm.Always
	}
	return confirm.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}
