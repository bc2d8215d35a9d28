package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kundix7-sys/product-testing-app/config"
	"github.com/kundix7-sys/product-testing-app/internal/adminapi"
	"github.com/kundix7-sys/product-testing-app/internal/app"
	"github.com/kundix7-sys/product-testing-app/internal/webserver"
)

var (
	cfile   = flag.String("c", "producttesting.yml", "config file")
	initdb  = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println(version)
		return
	}

	cfg := config.LoadConfig(*cfile)
	cfg.InitDirs()

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	webserver.Init(application)
	adminapi.Register()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webserver.Listen()
	})
	g.Go(func() error {
		application.StartBackgroundJobs(ctx)
		<-ctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}
