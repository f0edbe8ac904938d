package api

import (
	"context"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/hostbuddy/api/docs"
	v1 "github.com/hostbuddy/api/internal/api/handler/v1"
	"github.com/hostbuddy/api/internal/api/middleware"
	"github.com/hostbuddy/api/internal/config"
	"github.com/hostbuddy/api/internal/db"
	"github.com/hostbuddy/api/internal/metrics"
	"github.com/hostbuddy/api/internal/pkg/jwthelper"
	"github.com/hostbuddy/api/internal/pkg/password"
	"github.com/hostbuddy/api/internal/repository"
	"github.com/hostbuddy/api/internal/repository/dao"
	"github.com/hostbuddy/api/internal/service"
)

const (
	Version  = "1.0.0"
	basePath = "/api/v1"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	metrics  *metrics.Collector
	gatherer prometheus.Gatherer
}

type handlers struct {
	auth    *v1.AuthHandler
	event   *v1.EventHandler
	layout  *v1.LayoutHandler
	element *v1.ElementHandler
	upload  *v1.UploadHandler
	health  *v1.HealthHandler
	authn   *middleware.Authenticator
}

func NewServer(
	conf *config.AppConfig,
	postgresDB *gorm.DB,
	blobs service.BlobStore,
	collector *metrics.Collector,
	gatherer prometheus.Gatherer,
) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:   conf,
		Router:   engine,
		metrics:  collector,
		gatherer: gatherer,
	}

	h, err := s.initHandlers(postgresDB, blobs)
	if err != nil {
		return nil, err
	}

	s.MountMiddlewares()
	s.MountHandlers(h)

	return s, nil
}

func (s *Server) initHandlers(postgresDB *gorm.DB, blobs service.BlobStore) (handlers, error) {
	issuer, err := jwthelper.NewIssuer([]byte(s.Config.API.JWTSigningKey), s.Config.API.JWTAlgorithm, s.Config.API.TokenTTL())
	if err != nil {
		return handlers{}, err
	}

	users := repository.NewUserRepository(dao.NewUserDAO(postgresDB))
	events := repository.NewEventRepository(dao.NewEventDAO(postgresDB))
	layouts := repository.NewLayoutRepository(dao.NewLayoutDAO(postgresDB))
	elements := repository.NewElementRepository(dao.NewElementDAO(postgresDB))

	var recorder metrics.Recorder = metrics.Nop{}
	if s.metrics != nil {
		recorder = s.metrics
	}

	guard := service.NewGuard(issuer, users, events, layouts, elements)
	authSvc := service.NewAuthService(users, password.NewHasher(password.DefaultParams), issuer, recorder)
	ready := v1.PingFunc(func(ctx context.Context) error {
		return db.Ping(ctx, postgresDB)
	})

	return handlers{
		auth:    v1.NewAuthHandler(authSvc),
		event:   v1.NewEventHandler(service.NewEventService(events, guard, blobs)),
		layout:  v1.NewLayoutHandler(service.NewLayoutService(layouts, guard)),
		element: v1.NewElementHandler(service.NewElementService(elements, guard)),
		upload:  v1.NewUploadHandler(service.NewUploadService(blobs)),
		health:  v1.NewHealthHandler(Version, ready),
		authn:   middleware.NewAuthenticator(guard),
	}, nil
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.Logger())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	if s.Config.API.MetricsEnabled && s.metrics != nil {
		s.Router.Use(middleware.Metrics(s.metrics))
	}
}

func (s *Server) MountHandlers(h handlers) {
	s.Router.GET("/", h.health.HandleRoot)
	s.Router.GET("/health", h.health.HandleHealthcheck)
	s.Router.GET("/ready", h.health.HandleReady)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/register", h.auth.HandleRegister)
		public.POST("/auth/login", h.auth.HandleLogin)
	}

	authed := s.Router.Group(basePath, h.authn.VerifyJWT())
	{
		authed.GET("/auth/me", h.auth.HandleMe)
		authed.PUT("/auth/me/profile", h.auth.HandleUpdateProfile)
		authed.PUT("/auth/me/password", h.auth.HandleChangePassword)
		authed.DELETE("/auth/me", h.auth.HandleDeleteAccount)

		authed.POST("/events", h.event.HandleCreateEvent)
		authed.GET("/events", h.event.HandleListEvents)
		authed.GET("/events/:eventID", h.event.HandleGetEvent)
		authed.PUT("/events/:eventID", h.event.HandleUpdateEvent)
		authed.DELETE("/events/:eventID", h.event.HandleDeleteEvent)
		authed.POST("/events/:eventID/images", h.event.HandleAddImage)
		authed.DELETE("/events/:eventID/images/:index", h.event.HandleRemoveImage)

		authed.POST("/layouts", h.layout.HandleCreateLayout)
		authed.GET("/layouts", h.layout.HandleListLayouts)
		authed.GET("/layouts/event/:eventID", h.layout.HandleListEventLayouts)
		authed.GET("/layouts/:layoutID", h.layout.HandleGetLayout)
		authed.PUT("/layouts/:layoutID", h.layout.HandleUpdateLayout)
		authed.DELETE("/layouts/:layoutID", h.layout.HandleDeleteLayout)
		authed.GET("/layouts/:layoutID/export", h.layout.HandleExportLayout)

		authed.POST("/user-elements", h.element.HandleCreateElement)
		authed.POST("/user-elements/from-selection", h.element.HandleCreateFromSelection)
		authed.GET("/user-elements", h.element.HandleListElements)
		authed.GET("/user-elements/:elementID", h.element.HandleGetElement)
		authed.PUT("/user-elements/:elementID", h.element.HandleUpdateElement)
		authed.POST("/user-elements/:elementID/use", h.element.HandleUseElement)
		authed.DELETE("/user-elements/:elementID", h.element.HandleDeleteElement)

		authed.POST("/upload/upload", h.upload.HandleUpload)
		authed.DELETE("/upload/delete", h.upload.HandleDeleteUpload)
	}

	if s.Config.API.MetricsEnabled && s.gatherer != nil {
		s.Router.GET("/metrics", gin.WrapH(metrics.Handler(s.gatherer)))
	}

	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Host Buddy API"
	docs.SwaggerInfo.Description = "Event planning backend: accounts, events, floor layouts and a reusable element library."
	docs.SwaggerInfo.Version = Version
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
