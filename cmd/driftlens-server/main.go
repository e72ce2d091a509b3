// Command driftlens-server runs the driftlens pipeline as a long-lived HTTP
// service, for CI systems that prefer a persistent process over invoking
// the CLI per build.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brennhill/driftlens/internal/config"
	"github.com/brennhill/driftlens/internal/server"
)

func main() {
	cfg := server.LoadConfigFromEnv()

	configPath := os.Getenv("DRIFTLENS_SERVER_CONFIG")
	if configPath == "" {
		configPath = ".driftlens.yml"
	}
	driftCfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("loading driftlens config: %v", err)
	}

	srv, err := server.New(cfg, driftCfg)
	if err != nil {
		log.Fatalf("building server: %v", err)
	}

	go func() {
		fmt.Printf("driftlens-server listening on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
}
