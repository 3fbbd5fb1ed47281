package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/JoshuaShepherd/movemental-templates/pkg/common"
	"github.com/JoshuaShepherd/movemental-templates/pkg/config"
	"github.com/JoshuaShepherd/movemental-templates/pkg/index"
	"github.com/JoshuaShepherd/movemental-templates/pkg/messaging"
	"github.com/JoshuaShepherd/movemental-templates/pkg/server"
	"github.com/JoshuaShepherd/movemental-templates/pkg/storage"
	"github.com/JoshuaShepherd/movemental-templates/pkg/tracking"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var enableProfiling = flag.Bool("profiling", false, "enable profiling endpoints on the debug address")

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	storage *storage.DiskStorage
	server  *server.WebServer
	conn    *amqp.Connection
}

func (a *app) loadCatalog(file string) (*index.Catalog, error) {
	if file == "" {
		file = a.cfg.CatalogFile
	}
	return a.storage.Load(file)
}

func (a *app) connectAmqp() error {
	conn, err := amqp.DialConfig(a.cfg.RabbitUrl, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	a.conn = conn
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	if err = messaging.DefineTopic(ch, a.cfg.TopicPrefix, messaging.CatalogReload); err != nil {
		return err
	}
	err = messaging.ListenToTopic(ch, a.cfg.TopicPrefix, messaging.CatalogReload, a.logger, func(d amqp.Delivery) error {
		req, err := messaging.Decode[messaging.ReloadRequest](d)
		if err != nil {
			return err
		}
		a.logger.Info("catalog reload requested", zap.String("file", req.File), zap.String("reason", req.Reason))
		return a.server.Reload(req.File)
	})
	if err != nil {
		return err
	}
	a.logger.Info("listening for catalog reloads", zap.String("prefix", a.cfg.TopicPrefix))
	return nil
}

func (a *app) closeAmqp(ctx context.Context) error {
	if a.conn == nil {
		return nil
	}
	return a.conn.Close()
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := common.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	a := &app{
		cfg:     cfg,
		logger:  logger,
		storage: storage.NewDiskStorage(cfg.DataDir, logger),
	}

	catalog, err := a.loadCatalog("")
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}
	locale, _ := cfg.Locale()
	engine, err := index.NewEngine(catalog,
		index.WithGroupFacet(cfg.GroupFacet),
		index.WithLocale(locale),
		index.WithMemoLimit(cfg.MemoLimit),
		index.WithLogger(logger))
	if err != nil {
		logger.Fatal("failed to create engine", zap.Error(err))
	}

	a.server = server.NewWebServer(engine, logger)
	a.server.CacheTTL = cfg.CacheTTL
	a.server.Loader = a.loadCatalog

	if cfg.RedisUrl != "" {
		a.server.Cache = server.NewCache(cfg.RedisUrl, cfg.RedisPassword, 0)
		if err := a.server.Cache.Ping(context.Background()); err != nil {
			logger.Warn("redis not reachable, projections are cached locally until it is", zap.Error(err))
		} else {
			logger.Info("projection cache enabled", zap.String("addr", cfg.RedisUrl))
		}
	}

	if cfg.RabbitUrl != "" {
		if err := a.connectAmqp(); err != nil {
			logger.Error("catalog reload listener disabled", zap.Error(err))
		}
		trk, err := tracking.NewRabbitTracking(cfg.RabbitUrl, cfg.TopicPrefix, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq for tracking", zap.Error(err))
		} else {
			a.server.Tracking = trk
		}
	}

	server.RegisterEngineMetrics(prometheus.DefaultRegisterer, engine)

	debugMux := http.NewServeMux()
	debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	debugMux.Handle("/metrics", promhttp.Handler())
	if *enableProfiling {
		logger.Info("profiling enabled")
		debugMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	debugServer := &http.Server{Addr: cfg.DebugAddress, Handler: debugMux, ReadHeaderTimeout: cfg.Timeouts.ReadHeader}
	go func() {
		logger.Info("starting debug server", zap.String("addr", cfg.DebugAddress))
		if err := debugServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("debug server failed", zap.Error(err))
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", a.server.ClientHandler()))
	apiServer := common.NewServerWithTimeouts(&http.Server{Addr: cfg.ListenAddress, Handler: mux}, cfg.Timeouts)

	err = common.RunServerWithShutdown(apiServer, "catalog api", logger, cfg.Timeouts,
		a.closeAmqp,
		a.server.Close,
		debugServer.Shutdown,
	)
	if err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
