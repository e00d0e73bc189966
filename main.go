package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supercollab/config"
	"supercollab/dao/query"
	"supercollab/ledger"
	"supercollab/logutils"
	"supercollab/model"
	"supercollab/notify"
	"supercollab/orm"
	"supercollab/program"
	"supercollab/service"
	"supercollab/util"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func main() {
	cfg := config.GetConfig()
	if err := logutils.SetLevel(cfg.Log.Level); err != nil {
		fmt.Println("err log level:", err)
		os.Exit(1)
	}
	gin.SetMode(gin.ReleaseMode)

	programID, err := model.ParsePubkey(cfg.Program.ID)
	if err != nil {
		fmt.Println("err program id:", err)
		os.Exit(1)
	}

	sinks := []ledger.Sink{notify.LogSink{}}
	checks := map[string]service.HealthCheckFunc{}

	var store ledger.Store = ledger.NewMemoryStore()
	var journal service.EventJournal
	if cfg.Store.Driver == config.StorePostgres {
		if err := query.InitDB(); err != nil {
			fmt.Println("err init:", err)
			os.Exit(1)
		}
		if err := orm.Migrate(query.DB); err != nil {
			fmt.Println("err migrate:", err)
			os.Exit(1)
		}
		store = query.NewAccountStore(query.DB)
		j := query.NewJournal(query.DB)
		sinks = append(sinks, j)
		journal = j

		sqlDB, err := query.DB.DB()
		if err != nil {
			fmt.Println("err init:", err)
			os.Exit(1)
		}
		checks["postgres"] = sqlDB.PingContext
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		sinks = append(sinks, notify.NewRedisPublisher(client, cfg.Redis.ChannelPrefix))
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	rt := ledger.NewRuntime(store, ledger.WithSinks(sinks...))
	prog := program.New(programID, rt)

	router := service.NewRouter(
		service.RouterOptions{
			AllowOrigins: cfg.Server.AllowOrigins,
			RateLimit:    cfg.Server.RateLimit,
			RateBurst:    cfg.Server.RateBurst,
		},
		util.GetTokenMgr(),
		service.NewProjectHandler(prog, rt, journal),
		service.NewHealthHandler("supercollab", programID.String(), checks),
	)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logutils.Log.Infof("listening on %s, program %s, store %s", cfg.Server.Addr, programID, cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logutils.Log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logutils.Log.Error("shutdown: ", err)
	}
}
