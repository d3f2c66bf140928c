package monitoring

import (
	"context"
	"net/http"

	"github.com/votesecure/deployer/src/utils/config"
	"github.com/votesecure/deployer/src/utils/task"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rest API server, serves monitor counters
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine

	monitor Monitor
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.Task = task.NewTask(config, "rest-server").
		WithSubtaskFunc(self.run).
		WithOnStop(self.stop)

	if !config.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	self.Router = gin.New()

	self.httpServer = &http.Server{
		Addr:    config.RESTListenAddress,
		Handler: self.Router,
	}

	return
}

func (self *Server) WithMonitor(monitor Monitor) *Server {
	self.monitor = monitor
	return self
}

func (self *Server) run() (err error) {
	registry := prometheus.NewRegistry()
	err = registry.Register(self.monitor.GetPrometheusCollector())
	if err != nil {
		return
	}

	v1 := self.Router.Group("v1")
	{
		v1.GET("health", self.monitor.OnGetHealth)
		v1.GET("state", self.monitor.OnGetState)
		v1.GET("metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start REST server")
		return
	}
	return nil
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown REST server")
		return
	}
}
