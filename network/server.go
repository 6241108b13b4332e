package network

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"parrot/common"
	"parrot/config"
	"parrot/emoji"
	"parrot/metrics"
)

var srvWait sync.WaitGroup
var srvCtx context.Context
var srvIndex *emoji.Index
var srvStarted time.Time
var srvLog = common.NewLogger("server")

func buildRouter() *mux.Router {
	r := mux.NewRouter()

	// Scrapers poll on a fixed interval, keep them off the limiter.
	r.Handle("/metrics", metrics.Handler())

	api := r.NewRoute().Subrouter()
	api.Use(RateLimitMiddleware(20, 40))
	buildAPIRouter(api)

	return r
}

func StartServer(ctx context.Context, cfg *config.Config, ix *emoji.Index) *sync.WaitGroup {
	srvCtx = ctx
	srvIndex = ix
	srvStarted = time.Now()
	srvWait.Add(1)

	srvLog.Printf("Starting on %s", cfg.HTTP.Addr)

	r := buildRouter()

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: r,
	}

	go func() {
		<-srvCtx.Done()
		srv.Shutdown(context.Background())
		srvLog.Println("Finished")
		srvWait.Done()
	}()

	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			srvLog.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	return &srvWait
}
