package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kevin07696/bluesnap-gateway/internal/adapters/secrets"
	"github.com/kevin07696/bluesnap-gateway/internal/config"
	"github.com/kevin07696/bluesnap-gateway/pkg/bluesnap"
	pkghttp "github.com/kevin07696/bluesnap-gateway/pkg/http"
	"github.com/kevin07696/bluesnap-gateway/pkg/observability"
	"github.com/kevin07696/bluesnap-gateway/pkg/ports"
	"github.com/kevin07696/bluesnap-gateway/pkg/resilience"
	"github.com/kevin07696/bluesnap-gateway/pkg/security"
)

func main() {
	var (
		retries     = flag.Int("retries", 2, "Retries for read-only lookups that fail in transport")
		showMetrics = flag.Bool("metrics", false, "Print request metrics to stderr when done")
		live        = flag.Bool("live", false, "Use the production API regardless of BLUESNAP_TEST_MODE")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}
	action, args := flag.Arg(0), flag.Args()[1:]

	cmd, ok := commands[action]
	if !ok {
		fmt.Printf("Unknown command: %s\n", action)
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := security.NewZapLoggerWithLevel(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	a, err := newApp(ctx, cfg, logger, registry)
	if err != nil {
		logger.Error("Failed to initialize gateway", ports.Err(err))
		os.Exit(1)
	}
	if *live {
		a.gateway.SetTestMode(false)
	}
	a.retry.MaxRetries = *retries

	runErr := cmd.run(ctx, a, args)

	if *showMetrics {
		if err := printMetrics(os.Stderr, registry); err != nil {
			logger.Warn("Failed to gather metrics", ports.Err(err))
		}
	}

	if runErr != nil {
		if errors.Is(runErr, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Error("Command failed", ports.String("command", action), ports.Err(runErr))
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: bluesnap [-retries=N] [-metrics] [-live] <command> [options]")
	fmt.Println("Commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-28s - %s\n", name, commands[name].summary)
	}
	fmt.Println("Configuration comes from BLUESNAP_* environment variables or BLUESNAP_CONFIG_FILE.")
}

// app is what every command runs against.
type app struct {
	gateway *bluesnap.HostedCheckoutGateway
	logger  ports.Logger
	retry   resilience.RetryPolicy
	storeID string
	out     io.Writer
}

func newApp(ctx context.Context, cfg *config.Config, logger *security.ZapLoggerAdapter, reg prometheus.Registerer) (*app, error) {
	creds, err := secrets.ResolveCredentials(ctx, cfg, logger.Zap())
	if err != nil {
		return nil, err
	}

	client := bluesnap.NewClient(
		bluesnap.WithHTTPClient(pkghttp.NewHTTPClient(pkghttp.BlueSnapClientConfig(), cfg.HTTP.HTTPTimeout())),
		bluesnap.WithLogger(logger),
		bluesnap.WithListener(observability.NewGatewayMetrics(reg)),
	)

	gateway := bluesnap.NewHostedCheckoutGateway(bluesnap.GatewayConfig{
		Username: creds.Username,
		Password: creds.Password,
		TestMode: cfg.BlueSnap.TestMode,
	}, client)

	logger.Info("BlueSnap gateway ready",
		ports.String("gateway", gateway.Name()),
		ports.Bool("test_mode", gateway.TestMode()),
	)

	return &app{
		gateway: gateway,
		logger:  logger,
		retry:   lookupRetryPolicy(logger),
		storeID: cfg.BlueSnap.StoreID,
		out:     os.Stdout,
	}, nil
}
