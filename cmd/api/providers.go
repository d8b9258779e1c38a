package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/sweetshop/internal/domain/order"
	"github.com/xiebiao/sweetshop/internal/infrastructure/config"
	"github.com/xiebiao/sweetshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/sweetshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/sweetshop/pkg/circuitbreaker"
	"github.com/xiebiao/sweetshop/pkg/metrics"
)

// provideDB 打开连接池，返回的 cleanup 负责关闭
func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideOrderCache 返回带熔断保护的 Redis 订单缓存；未启用 Redis 时返回空实现
func provideOrderCache(cfg *config.Config, log *zap.Logger) (order.Cache, func(), error) {
	if !cfg.Redis.Enabled {
		log.Info("redis disabled, order cache off")
		return redis.NewNopOrderCache(), func() {}, nil
	}

	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = client.Close() }

	cb := circuitbreaker.New(circuitbreaker.Settings{
		Name:    "order-cache",
		Timeout: cfg.Cache.BreakerTimeout,
		ReadyToTrip: func(c circuitbreaker.Counts) bool {
			return c.ConsecutiveFailures >= cfg.Cache.BreakerFailures
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})
	cache := redis.NewBreakerOrderCache(redis.NewOrderCache(client, cfg.Cache.OrderTTL), cb)
	return cache, cleanup, nil
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

func provideIDGenerator(cfg *config.Config, repo order.Repository, m *metrics.Metrics) *order.IDGenerator {
	return order.NewIDGenerator(repo,
		order.WithMaxAttempts(cfg.Order.MaxIDAttempts),
		order.WithCollisionHook(func(string) { m.IncOrderIDCollision() }),
	)
}
