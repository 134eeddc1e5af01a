package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/nbtview/internal/cache"
	"github.com/annel0/nbtview/internal/eventbus"
	"github.com/annel0/nbtview/internal/logging"
	"github.com/annel0/nbtview/internal/middleware"
	"github.com/annel0/nbtview/internal/storage"
	"github.com/annel0/nbtview/internal/world"
)

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port  string             // адрес для запуска сервера, например ":8088"
	Store storage.ChunkStore // хранилище чанков (обязательно)

	CanonicalOffsets bool          // FloorMod вместо устаревших смещений
	LookupTimeout    time.Duration // таймаут обращения к хранилищу

	// Cache и Bus необязательны, нужны только для /api/v1/stats
	Cache cache.BlobCache
	Bus   eventbus.EventBus

	// Regions регионы, которые получают собственную метку region в метриках.
	// Остальные имена из URL считаются под меткой OtherRegion.
	Regions []string

	// Registry регистр метрик; nil: глобальный регистр Prometheus
	Registry *prometheus.Registry
	Logger   *logging.Logger
	Tracing  bool // otelgin middleware
}

// OtherRegion метка region для регионов не из Config.Regions
const OtherRegion = "other"

// regionView регион хранилища и фасад мира над ним.
// Собирается на каждый запрос и нигде не хранится.
type regionView struct {
	region *storage.StoreRegion
	world  *world.RegionWorld
}

// Server представляет REST API просмотра мира
type Server struct {
	router  *gin.Engine
	cfg     Config
	logger  *logging.Logger
	metrics *ServerMetrics
	worldM  *world.Metrics
	known   map[string]struct{}

	mu         sync.RWMutex
	httpServer *http.Server
}

// NewServer создаёт REST API сервер
func NewServer(cfg Config) *Server {
	if cfg.Store == nil {
		panic("api: nil store")
	}
	if cfg.Port == "" {
		cfg.Port = ":8088"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetAPILogger()
	}

	var (
		reg      prometheus.Registerer
		gatherer prometheus.Gatherer
	)
	if cfg.Registry != nil {
		reg, gatherer = cfg.Registry, cfg.Registry
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	if cfg.Tracing {
		router.Use(otelgin.Middleware("nbtview"))
	}
	router.Use(middleware.NewRequestLogger(cfg.Logger).Handler())

	promMw := middleware.NewPrometheusMiddleware("nbtview", reg)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, gatherer)

	s := &Server{
		router:  router,
		cfg:     cfg,
		logger:  cfg.Logger,
		metrics: NewServerMetrics(),
		worldM:  world.NewMetrics(reg),
		known:   make(map[string]struct{}, len(cfg.Regions)),
	}
	for _, name := range cfg.Regions {
		s.known[name] = struct{}{}
	}
	s.setupRoutes()
	return s
}

// setupRoutes настраивает маршруты REST API
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/stats", s.handleStats)
		v1.GET("/blocks", s.handleBlockTypes)

		regions := v1.Group("/regions/:region")
		regions.GET("/blocks", s.handleBlock)
		regions.GET("/chunks", s.handleChunkList)
		regions.GET("/chunks/:cx/:cz", s.handleChunk)
		regions.GET("/chunks/:cx/:cz/bytes/:field", s.handleChunkBytes)
	}
}

// Handler возвращает http.Handler сервера (для тестов и встраивания)
func (s *Server) Handler() http.Handler { return s.router }

// view собирает фасад региона для одного запроса
func (s *Server) view(name string) *regionView {
	label := OtherRegion
	if _, ok := s.known[name]; ok {
		label = name
	}

	region := storage.NewStoreRegion(name, s.cfg.Store, s.cfg.LookupTimeout)
	opts := []world.Option{
		world.WithLogger(logging.GetWorldLogger()),
		world.WithMetrics(s.worldM),
		world.WithMetricsLabel(label),
	}
	if s.cfg.CanonicalOffsets {
		opts = append(opts, world.WithCanonicalOffsets())
	}
	return &regionView{region: region, world: world.NewRegionWorld(region, opts...)}
}

// Start запускает REST сервер и блокируется до Stop
func (s *Server) Start() error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("REST API слушает %s", s.cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop выполняет graceful shutdown
func (s *Server) Stop(ctx context.Context) error {
	s.mu.RLock()
	srv := s.httpServer
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
