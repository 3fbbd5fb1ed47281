package server

import (
	"context"
	"net/http"
	"time"

	"github.com/JoshuaShepherd/movemental-templates/pkg/common"
	"github.com/JoshuaShepherd/movemental-templates/pkg/index"
	"github.com/JoshuaShepherd/movemental-templates/pkg/tracking"
	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	noQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_queries_total",
		Help: "The total number of answered catalog queries",
	})
	noCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_query_cache_hits_total",
		Help: "The total number of queries answered from the projection cache",
	})
	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_query_duration_seconds",
		Help:    "Time spent computing a projection",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
	noReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_reloads_total",
		Help: "The total number of catalog reloads by outcome",
	}, []string{"result"})
)

// CatalogLoader produces a fresh catalog, typically by reading the catalog file.
type CatalogLoader func(file string) (*index.Catalog, error)

type WebServer struct {
	Engine   *index.Engine
	Cache    *Cache
	CacheTTL time.Duration
	Tracking tracking.Tracking
	Logger   *zap.Logger
	Loader   CatalogLoader
}

func NewWebServer(engine *index.Engine, logger *zap.Logger) *WebServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebServer{
		Engine:   engine,
		CacheTTL: 5 * time.Minute,
		Tracking: tracking.Nop{},
		Logger:   logger,
	}
}

// RegisterEngineMetrics exposes the engine memo counters.
func RegisterEngineMetrics(reg prometheus.Registerer, engine *index.Engine) {
	factory := promauto.With(reg)
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "catalog_memo_hits_total",
		Help: "Projections answered from the in-process memo",
	}, func() float64 {
		hits, _ := engine.Stats()
		return float64(hits)
	})
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "catalog_memo_misses_total",
		Help: "Projections computed from the catalog",
	}, func() float64 {
		_, misses := engine.Stats()
		return float64(misses)
	})
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "catalog_entries",
		Help: "The number of entries in the current catalog",
	}, func() float64 {
		return float64(engine.Catalog().Len())
	})
}

// Reload replaces the engine's catalog with a freshly loaded one. An empty
// file name lets the loader use its default.
func (ws *WebServer) Reload(file string) error {
	if ws.Loader == nil {
		return nil
	}
	catalog, err := ws.Loader(file)
	if err == nil {
		err = ws.Engine.Replace(catalog)
	}
	if err != nil {
		noReloads.WithLabelValues("error").Inc()
		ws.Logger.Error("catalog reload failed", zap.String("file", file), zap.Error(err))
		return err
	}
	noReloads.WithLabelValues("ok").Inc()
	return nil
}

func (ws *WebServer) ClientHandler() *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	srv.HandleFunc("/query", common.JsonHandler(ws.Logger, ws.Query))
	srv.HandleFunc("/facets", common.JsonHandler(ws.Logger, ws.Facets))
	srv.HandleFunc("/reset", common.JsonHandler(ws.Logger, ws.Reset))
	srv.HandleFunc("/entry/{id}", common.JsonHandler(ws.Logger, ws.GetEntry))
	srv.HandleFunc("/sorts", common.JsonHandler(ws.Logger, ws.Sorts))
	return srv
}

// Close releases the cache and tracking connections.
func (ws *WebServer) Close(ctx context.Context) error {
	var err error
	if ws.Cache != nil {
		err = ws.Cache.Close(ctx)
	}
	if ws.Tracking != nil {
		if tErr := ws.Tracking.Close(); tErr != nil && err == nil {
			err = tErr
		}
	}
	return err
}

func projectionKey(version string, state *types.QueryState) string {
	return "projection:" + version + ":" + state.CacheKey()
}
