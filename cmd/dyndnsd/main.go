package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"dyndns/common"
	"dyndns/config"
	"dyndns/downloader"
	"dyndns/log"
	"dyndns/store"
	"dyndns/updater"
)

var (
	configPath = flag.StringP("config", "c", "config.toml", "path to config file")
	statePath  = flag.String("state", "dyndns_state.json", "path to persisted state file")
	debug      = flag.Bool("debug", false, "enable debug output")
	help       = flag.BoolP("help", "h", false, "Print help message")
)

var version = "dev"

var conf *config.Config

func init() {
	flag.Parse()
	if *help {
		fmt.Println(flag.CommandLine.FlagUsages())
		os.Exit(0)
	}
}

func getInitLogger() context.Context {
	var err error
	var logger *zap.Logger

	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}

	if err != nil {
		fmt.Printf("Failed creating logger: %e\n", err)
		os.Exit(1)
	}

	return log.WithLogger(context.Background(), logger)
}

func getLogger(ctx context.Context) context.Context {
	var logOption zap.Config
	if *debug {
		logOption = zap.NewDevelopmentConfig()
	} else {
		logOption = zap.NewProductionConfig()
	}

	if conf.Log.Level != nil {
		logOption.Level.SetLevel(*conf.Log.Level)
	}

	if conf.Log.Encoding != nil {
		logOption.Encoding = *conf.Log.Encoding
	}

	if conf.Log.InfoPath != nil {
		logOption.OutputPaths = *conf.Log.InfoPath
	}

	if conf.Log.ErrorPath != nil {
		logOption.ErrorOutputPaths = *conf.Log.ErrorPath
	}

	logOption.InitialFields = map[string]interface{}{
		"node": conf.Service.Name,
	}

	logger, err := logOption.Build()
	if err != nil {
		log.S(ctx).Fatalw("cannot build real logger", zap.Error(err))
	}

	return log.WithLogger(context.Background(), logger)
}

func readPassword(ctx context.Context) string {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return ""
	}

	fmt.Print("Enter dynamic DNS password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.S(ctx).Fatalw("failed reading password", zap.Error(err))
	}

	return string(password)
}

func main() {
	ctx := getInitLogger()

	log.S(ctx).Infow("dyndnsd starting", "version", version)

	var err error
	conf, err = config.Load(*configPath)
	if err != nil {
		log.S(ctx).Fatalw("failed loading config", zap.Error(err))
	}

	if conf.State.Path != "" {
		*statePath = conf.State.Path
	}

	ctx = getLogger(ctx)

	if conf.Account.Service == common.ProviderNone {
		log.S(ctx).Fatalw("no dynamic DNS service configured")
	}

	if regURL, err := updater.RegistrationURL(conf.Account.Service); err == nil {
		log.S(ctx).Debugw("using dynamic DNS service",
			"service", conf.Account.Service, "registration_url", regURL)
	}

	var opts []store.Option
	if conf.Account.Password == "" {
		if password := readPassword(ctx); password != "" {
			opts = append(opts, store.WithPassword(password))
		}
	}
	st := store.New(*configPath, *statePath, opts...)

	dl, err := downloader.New(ctx, conf.Download)
	if err != nil {
		log.S(ctx).Fatalw("cannot init downloader", zap.Error(err))
	}

	client, err := updater.New(ctx, updater.Config{
		CheckInterval: time.Duration(conf.Service.CheckInterval),
		EchoURL:       conf.Echo.URL,
		UserAgent:     "dyndnsd/" + version,
	}, dl, st)
	if err != nil {
		log.S(ctx).Fatalw("cannot init update client", zap.Error(err))
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			log.S(ctx).Infow("reloading credentials")
			client.RefreshCredentials()
		}
	}()

	if err := client.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.S(ctx).Fatalw("update client exited", zap.Error(err))
	}

	log.S(ctx).Infow("dyndnsd stopped")
}
