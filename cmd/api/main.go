// Command api 启动甜品店订单 HTTP 服务。
//
// @title        Sweetshop API
// @version      1.0
// @description  甜品店订单服务：商品目录、订单与库存。
// @host         localhost:8080
// @BasePath     /api/v1
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/sweetshop/internal/infrastructure/config"
	"github.com/xiebiao/sweetshop/internal/infrastructure/logger"
	"github.com/xiebiao/sweetshop/pkg/tracing"
)

func main() {
	// 价格、数量、总价在 JSON 里输出为数字而不是字符串，进程内只设置这一次
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	// zl.Fatal 会直接 os.Exit，跳过 Sync，所以先记录再退出
	err = run(cfg, zl)
	if err != nil {
		zl.Error("service stopped", zap.Error(err))
	}
	_ = zl.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				zl.Warn("tracer shutdown", zap.Error(err))
			}
		}()
		zl.Info("tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
	}

	engine, cleanup, err := InitializeApp(cfg, zl)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("base_path", cfg.Server.BasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		zl.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	zl.Info("http server stopped")
	return nil
}
