package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/raywall/bookmark-service/bookmark"
	"github.com/raywall/bookmark-service/localdb"
	"github.com/raywall/bookmark-service/pkg/config"
	"github.com/raywall/bookmark-service/pkg/handler"
	"github.com/raywall/bookmark-service/pkg/logger"
	"github.com/raywall/bookmark-service/pkg/metrics"
	"github.com/raywall/bookmark-service/pkg/responder"
	"github.com/raywall/bookmark-service/pkg/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// Variáveis injetáveis para mocking
	serverStarter = func(ctx context.Context, srv *transport.HTTPServer) error { return srv.Run(ctx) }
	lambdaStarter = lambda.Start
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("falha na inicialização")
	}
}

// run contém a lógica principal testável
func run(ctx context.Context, opts ...config.Option) error {
	cfg, err := config.Load(ctx, opts...)
	if err != nil {
		return err
	}

	logger := logger.Configure(cfg.Logging)
	ctx = logger.WithContext(ctx)

	provider, err := metrics.Setup(cfg.Metrics)
	if err != nil {
		return err
	}
	defer provider.Close()

	repo, closeRepo, err := newRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	resp := responder.NewResponseBuilder(cfg.Server.CORSAllowOrigin)
	h := handler.New(bookmark.NewService(repo), resp)
	router, err := transport.NewRouter(h, transport.RouterOptions{
		Handler:   cfg.Server.Handler,
		Timeout:   cfg.Server.RequestTimeout,
		Logger:    logger,
		Metrics:   metrics.NewProcessor(provider, nil),
		Responder: resp,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("runtime", cfg.Server.Runtime).
		Str("backend", cfg.Store.Backend).
		Str("handler", cfg.Server.Handler).
		Str("table", cfg.TableName).
		Msg("serviço inicializado")

	switch cfg.Server.Runtime {
	case config.RuntimeLocal:
		return serverStarter(ctx, transport.NewHTTPServer(router, cfg.Server, logger))
	case config.RuntimeLambda:
		lambdaStarter(router.Handle)
		return nil
	default:
		return fmt.Errorf("runtime desconhecido: %s", cfg.Server.Runtime)
	}
}

// newRepository escolhe o backend; a função retornada libera os recursos.
func newRepository(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (bookmark.Repository, func(), error) {
	ids := bookmark.NewUUIDv7Generator()

	switch cfg.Store.Backend {
	case config.BackendBadger:
		db, err := localdb.Open(localdb.Options{
			Path:   cfg.Store.BadgerPath,
			Logger: localdb.NewLogger(logger),
		})
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("falha ao fechar badger")
			}
		}
		return bookmark.NewLocalRepository(db, cfg.TableName, ids), closeDB, nil
	default:
		awsCfg, err := config.LoadAWS(ctx, cfg.AWS)
		if err != nil {
			return nil, nil, err
		}
		client := config.NewDynamoDBClient(awsCfg, cfg.AWS)
		return bookmark.NewDynamoRepository(client, cfg.TableName, ids), func() {}, nil
	}
}
