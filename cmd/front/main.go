package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/api"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/app"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/clientstore"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/config"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/jobs"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/listing"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/logging"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/observability"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/refdata"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/session"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/submit"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("sin archivo .env, usando variables de entorno")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuración inválida: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("no se pudo iniciar el logger: %v", err)
	}
	defer lg.Closer()

	closeSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		lg.Sugar.Warnw("sentry deshabilitado", "err", err)
	}
	defer closeSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := clientstore.Open(cfg.StatePath)
	if err != nil {
		lg.Sugar.Fatalw("no se pudo abrir el estado local", "path", cfg.StatePath, "err", err)
	}
	defer func() { _ = kv.Close() }()

	client := api.New(cfg.APIBaseURL, lg.Sugar)

	sess := session.New(client, kv, lg.Sugar)
	sess.Restore()

	ref := refdata.New(client, lg.Sugar)
	if err := ref.Refresh(ctx); err != nil {
		lg.Sugar.Warnw("referencias incompletas al arrancar", "err", err)
	}
	runner := jobs.New(ctx)
	runner.Every(cfg.RefdataRefresh, "refdata_refresh", ref.Refresh)

	orch := submit.New(lg.Sugar, submit.SleepDweller{}, cfg.StageDwell, cfg.SuccessClear)
	lst := listing.New(client, lg.Sugar, cfg.SearchDebounce)
	svs := listing.NewSurveys(client, lg.Sugar)

	srv := app.NewServer(cfg, lg.Sugar, sess, client, kv, ref, lst, svs, orch)
	srv.Start(ctx, cfg.HTTPAddr)
	lg.Sugar.Infow("front iniciado", "addr", cfg.HTTPAddr, "api", cfg.APIBaseURL)

	<-ctx.Done()
	lg.Sugar.Infow("apagando")
}
