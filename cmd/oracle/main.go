package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MetaBloxIO/otp_oracle/conf"
	"github.com/MetaBloxIO/otp_oracle/factor"
	"github.com/MetaBloxIO/otp_oracle/httpbatch"
	"github.com/MetaBloxIO/otp_oracle/oracle"
	"github.com/MetaBloxIO/otp_oracle/server"
	"github.com/MetaBloxIO/otp_oracle/verify"
	log "github.com/sirupsen/logrus"
)

func main() {
	confFile := flag.String("conf", "", "path to config file (json, yaml or toml)")
	flag.Parse()

	c, err := conf.LoadConf(*confFile)
	if err != nil {
		os.Exit(1)
	}
	if err := c.ConfigureLogger(); err != nil {
		log.WithField("error", err).Fatal("Configure logger failed")
	}

	batcher := httpbatch.NewNetBatcher(&http.Client{})
	o := oracle.New(factor.NewResolver(c, batcher), verify.NewVerifier(c, batcher))

	srv := &http.Server{
		Addr:    c.Listen,
		Handler: server.InitRouter(o, c),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("listen", c.Listen).Info("Oracle listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithField("error", err).Fatal("Server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Timeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithField("error", err).Error("Shutdown failed")
	}
}
