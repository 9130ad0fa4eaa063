package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const metricKeyPrefix = "workforce:metric:"

// RedisMetricsProvider reads business metric values that the rest of
// the platform publishes to Redis. One key per metric name and period,
// holding the latest numeric value.
type RedisMetricsProvider struct {
	client *redis.Client
}

func NewRedisMetricsProvider(client *redis.Client) *RedisMetricsProvider {
	return &RedisMetricsProvider{client: client}
}

func metricKey(name, period string) string {
	if period == "" {
		return metricKeyPrefix + name
	}

	return metricKeyPrefix + name + ":" + period
}

func (p *RedisMetricsProvider) MetricValue(ctx context.Context, name, period string) (float64, error) {
	data, err := p.client.Get(ctx, metricKey(name, period)).Result()
	if err == redis.Nil {
		return 0, fmt.Errorf("metric %s not published", name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read metric %s: %w", name, err)
	}

	value, err := strconv.ParseFloat(data, 64)
	if err != nil {
		return 0, fmt.Errorf("metric %s has non-numeric value %q", name, data)
	}

	return value, nil
}

// PublishMetric writes a metric value. Only exercised by tests and
// local tooling; in production the metrics pipeline owns these keys.
func (p *RedisMetricsProvider) PublishMetric(ctx context.Context, name, period string, value float64) error {
	return p.client.Set(ctx, metricKey(name, period), strconv.FormatFloat(value, 'f', -1, 64), 0).Err()
}
