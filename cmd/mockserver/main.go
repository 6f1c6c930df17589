// Command mockserver serves restkit mock fixtures over HTTP.
//
//	mockserver --config ./config.yml --fixtures ./fixtures.yml
//
// Environment variables prefixed with RESTKIT_ override the config file,
// e.g. RESTKIT_SERVER_PORT=9000.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/restkit/component"
	"github.com/kbukum/restkit/config"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/mockserver"
	"github.com/kbukum/restkit/observability"
	"github.com/kbukum/restkit/version"
)

const (
	serviceName     = "restkit-mockserver"
	gracefulTimeout = 15 * time.Second
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "mockserver:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	configFile := flags.StringP("config", "c", "", "config file (default: searched)")
	envFile := flags.String("env-file", "", ".env file (default: searched)")
	fixtures := flags.StringP("fixtures", "f", "", "fixture file, overrides server.fixtures")
	port := flags.IntP("port", "p", 0, "listen port, overrides server.port")
	showVersion := flags.BoolP("version", "v", false, "print the version and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Println(serviceName, version.Get())
		return nil
	}

	var cfg serverConfig
	err := config.LoadConfig(serviceName, &cfg,
		config.WithConfigFile(*configFile),
		config.WithEnvFile(*envFile),
		config.WithEnvPrefix("RESTKIT"),
	)
	if err != nil {
		return err
	}
	if *fixtures != "" {
		cfg.Server.Fixtures = *fixtures
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := observability.Setup(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown", logger.MergeWithError(nil, err))
		}
	}()

	loaded, err := mockserver.LoadFixtures(cfg.Server.Fixtures)
	if err != nil {
		return err
	}
	srv, err := mockserver.New(cfg.Server)
	if err != nil {
		return err
	}
	if err := srv.RegisterAll(loaded); err != nil {
		return err
	}

	registry := component.NewRegistry(log.WithComponent("registry"))
	server := mockserver.NewComponent(srv)
	if err := registry.Register(server); err != nil {
		return err
	}

	log.Info("Starting application", logger.Fields("name", cfg.Name, "version", cfg.Version))
	if err := registry.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}
	for _, r := range server.Routes() {
		log.Info("route", logger.Fields(logger.FieldMethod, r.Method, "path", r.Path, "handler", r.Handler))
	}

	<-ctx.Done()
	log.Info("Received shutdown signal, graceful shutdown starting")

	stopCtx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()
	return registry.StopAll(stopCtx)
}
