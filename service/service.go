package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yaoapp/kun/log"

	"github.com/nirman-app/nirman/config"
	"github.com/nirman-app/nirman/dashboard"
	"github.com/nirman-app/nirman/data"
	"github.com/nirman-app/nirman/model"
	"github.com/nirman-app/nirman/realtime"
	"github.com/nirman-app/nirman/user"
	"github.com/nirman-app/nirman/weather"
)

// Service the dashboard HTTP service
type Service struct {
	conf     config.Config
	store    *model.Store
	weather  *weather.Client
	provider *user.Provider
	hub      *realtime.Hub
	loader   *dashboard.Loader
	states   *stateStore

	server *http.Server
	cancel context.CancelFunc
}

// New assemble the service over an opened store
func New(cfg config.Config, store *model.Store) *Service {
	weatherClient := weather.New(cfg.Weather)
	return &Service{
		conf:     cfg,
		store:    store,
		weather:  weatherClient,
		provider: user.NewProvider(cfg.OAuth),
		hub:      realtime.NewHub(),
		loader:   dashboard.NewLoader(store, weatherClient),
		states:   newStateStore(10 * time.Minute),
	}
}

// Router build the gin engine with every route attached
func (service *Service) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), BindDomain(service.conf.AllowFrom))

	// dashboard page
	fileServer := http.FileServer(data.AssetFS())
	router.GET("/", func(c *gin.Context) {
		fileServer.ServeHTTP(c.Writer, c.Request)
	})
	router.GET("/dashboard", func(c *gin.Context) {
		c.Request.URL.Path = "/"
		fileServer.ServeHTTP(c.Writer, c.Request)
	})

	// sign-in
	router.POST("/api/login", service.login)
	router.GET("/oauth/authorize", service.oauthAuthorize)
	router.GET("/oauth/callback", service.oauthCallback)

	// dashboard reads
	api := router.Group("/api", guardCrossOrigin)
	api.GET("/dashboard", service.getDashboard)
	api.GET("/plans/today", service.getTodayPlans)
	api.GET("/workflows/delayed", service.getDelayedWorkflows)
	api.GET("/projects", service.getProjects)
	api.GET("/projects/markers", service.getMarkers)
	api.GET("/progress", service.getProgress)
	api.GET("/weather", service.getWeather)

	// mutations, bearer token required
	edit := api.Group("", guardBearerJWT)
	edit.POST("/plans", service.savePlan)
	edit.DELETE("/plans/:id", service.deletePlan)
	edit.POST("/workflows", service.saveWorkflow)
	edit.DELETE("/workflows/:id", service.deleteWorkflow)
	edit.POST("/projects", service.saveProject)
	edit.DELETE("/projects/:id", service.deleteProject)

	// realtime channel
	router.GET("/ws/:table", service.subscribe)

	return router
}

// Start serve until Stop is called
func (service *Service) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	service.cancel = cancel

	service.hub.Bind(service.store)
	go service.loader.Watch(ctx)

	addr := fmt.Sprintf("%s:%d", service.conf.Host, service.conf.Port)
	service.server = &http.Server{Addr: addr, Handler: service.Router()}

	log.Info("[service] listening on %s", addr)
	err := service.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shut the service down gracefully
func (service *Service) Stop(ctx context.Context) error {
	if service.cancel != nil {
		service.cancel()
	}
	service.hub.Close()
	if service.server == nil {
		return nil
	}
	return service.server.Shutdown(ctx)
}
