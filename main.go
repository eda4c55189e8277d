package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kod2ulz/gostart/app"
	"github.com/kod2ulz/gostart/storage"
	"github.com/kod2ulz/gostart/utils"
	"github.com/kod2ulz/worldpay-iadmin/api"
	isw "github.com/kod2ulz/worldpay-iadmin/client"
	"github.com/kod2ulz/worldpay-iadmin/sql/db"
	"github.com/kod2ulz/worldpay-iadmin/stores"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	a := app.Init()
	ctx, log := a.Ctx(), a.Log()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := utils.Env.Helper("IADMIN_API")
	opts := []isw.IadminClientOption{isw.WithIadminConfig(isw.NewIadminClientConfig())}

	if env.Get("DB_ENABLED", "false").Bool() {
		db, err := db.InitSQL(ctx, log, storage.Config("IADMIN_DB"))
		utils.Error.Fail(log.Entry, err, "failed to connect to database")
		defer utils.ErrorFunc[utils.ShFunc1](a, db.Conn.Close, "failed to close database connection")
		opts = append(opts, isw.WithIadminDB(db))
	}

	if env.Get("ARCHIVE_ENABLED", "false").Bool() {
		store, err := stores.Minio(log)
		utils.Error.Fail(log.Entry, err, "failed to initialise exchange archive")
		opts = append(opts, isw.WithIadminArchive(store))
	}

	iadminClient, err := isw.IadminClient(ctx, log, opts...)
	utils.Error.Fail(log.Entry, err, "failed to initialise iadmin client")

	futurePayAPI, err := api.FuturePay(ctx, log, api.WithIadminClient(iadminClient))
	utils.Error.Fail(log.Entry, err, "failed to initialise futurepay api")

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	futurePayAPI.Routes(router.Group("/api/v1"))

	server := &http.Server{
		Addr:              env.Get("ADDR", ":8080").String(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		utils.Error.Log(log.Entry, server.Shutdown(shutdownCtx), "failed to shut down futurepay api")
	}()

	log.WithField("addr", server.Addr).
		WithField("testMode", iadminClient.TestMode()).
		WithField("url", iadminClient.Url()).
		Info("serving futurepay api")
	if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("futurepay api stopped")
	}
}
