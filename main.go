package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/haresh-sai06/HackAura/api/handlers"
	"github.com/haresh-sai06/HackAura/config"
	"github.com/haresh-sai06/HackAura/session"
)

func main() {
	cfg := config.New()

	sess := session.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if token := os.Getenv("AUTH_TOKEN"); token != "" {
		sess.Tokens.SetToken(token)
	}

	if err := sess.Start(ctx); err != nil {
		zap.S().With(err).Error("failed to start session")
		os.Exit(1)
	}
	defer sess.Stop()

	a := handlers.App{Session: sess}
	a.Initialize()

	zap.S().Infow("dispatch dashboard is up and running",
		"port", cfg.Port,
		"backend", cfg.APIBaseURL,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%v", cfg.Port),
		Handler: a.Router,
	}

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		zap.S().Info("shutting down")
		sess.Stop()
		srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
