package health

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Checker is one dependency probed by the readiness endpoint.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Readiness runs every checker in order and fails on the first error.
type Readiness struct {
	checkers []Checker
	timeout  time.Duration
}

func NewReadiness(checkers ...Checker) *Readiness {
	return &Readiness{checkers: checkers, timeout: time.Second}
}

func (r *Readiness) Ready(ctx context.Context) error {
	for _, ch := range r.checkers {
		c, cancel := context.WithTimeout(ctx, r.timeout)
		err := ch.Check(c)
		cancel()
		if err != nil {
			return fmt.Errorf("%s: %w", ch.Name(), err)
		}
	}
	return nil
}

type postgresChecker struct{ pool *pgxpool.Pool }

func Postgres(pool *pgxpool.Pool) Checker { return postgresChecker{pool: pool} }

func (postgresChecker) Name() string                      { return "postgres" }
func (c postgresChecker) Check(ctx context.Context) error { return c.pool.Ping(ctx) }

type redisChecker struct{ rdb *redis.Client }

func Redis(rdb *redis.Client) Checker { return redisChecker{rdb: rdb} }

func (redisChecker) Name() string                      { return "redis" }
func (c redisChecker) Check(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

type elasticChecker struct{ es *elasticsearch.Client }

func Elasticsearch(es *elasticsearch.Client) Checker { return elasticChecker{es: es} }

func (elasticChecker) Name() string { return "elasticsearch" }

func (c elasticChecker) Check(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("ping: %s", res.Status())
	}
	return nil
}

// Func adapts a function into a Checker.
type Func struct {
	Label string
	Fn    func(ctx context.Context) error
}

func (f Func) Name() string                    { return f.Label }
func (f Func) Check(ctx context.Context) error { return f.Fn(ctx) }
