package httpserver

import (
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yndnr/cmsadmin-go/internal/telemetry/logger"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/metric"
)

// RouterConfig configures the metrics router.
type RouterConfig struct {
	Registry *metric.Registry
	Logger   logger.Logger

	// AllowList restricts clients by network. Empty means no restriction.
	AllowList []*net.IPNet
}

// NewRouter routes GET /metrics and GET /healthz.
func NewRouter(cfg RouterConfig) *mux.Router {
	l := cfg.Logger
	if l == nil {
		l = logger.Default()
	}

	r := mux.NewRouter()
	r.Use(
		mux.MiddlewareFunc(RequestID()),
		mux.MiddlewareFunc(AccessLog(l)),
		mux.MiddlewareFunc(Recover(l)),
		mux.MiddlewareFunc(NetworkACL(cfg.AllowList, l)),
	)

	r.Handle("/metrics", cfg.Registry.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", health).Methods(http.MethodGet)
	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "OK")
}
