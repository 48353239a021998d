package data

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/memo_dashboard/internal/conf"
)

// Data 访问后端所需的共享资源
type Data struct {
	client  *http.Client
	limiter *rate.Limiter
}

func NewData(c *conf.Backend, logger log.Logger) (*Data, func(), error) {
	if c == nil || c.Url == "" {
		return nil, nil, fmt.Errorf("backend url is missing")
	}
	if _, err := url.ParseRequestURI(c.Url); err != nil {
		return nil, nil, fmt.Errorf("invalid backend url: %w", err)
	}

	// 默认不设置超时，慢请求会一直阻塞到后端返回
	client := &http.Client{}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid backend timeout: %w", err)
		}
		client.Timeout = d
	}

	limit := rate.Inf
	if c.Qps > 0 {
		limit = rate.Limit(c.Qps)
	}
	burst := int(c.Burst)
	if burst < 1 {
		burst = 1
	}

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		client.CloseIdleConnections()
	}
	return &Data{client: client, limiter: rate.NewLimiter(limit, burst)}, cleanup, nil
}
