package schedule

import (
	"context"
	"time"

	"cennik/internal/logger"
)

// Checker applies due changes on a fixed interval, so changes land even when
// no client triggers the apply endpoint.
type Checker struct {
	service  *Service
	logger   *logger.Logger
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewChecker(service *Service, log *logger.Logger, intervalMinutes int) *Checker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Checker{
		service:  service,
		logger:   log,
		interval: time.Duration(intervalMinutes) * time.Minute,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start runs one check immediately and then one per interval until Stop.
func (c *Checker) Start() {
	c.logger.Info("Starting scheduled change checker with interval: %v", c.interval)

	ticker := time.NewTicker(c.interval)
	go func() {
		defer close(c.done)
		c.run()
		for {
			select {
			case <-ticker.C:
				c.run()
			case <-c.ctx.Done():
				ticker.Stop()
				c.logger.Info("Scheduled change checker stopped")
				return
			}
		}
	}()
}

func (c *Checker) Stop() {
	c.cancel()
	<-c.done
}

func (c *Checker) run() {
	results, err := c.service.ApplyDue(c.ctx)
	if err != nil {
		c.logger.Error("Scheduled change check failed: %v", err)
		return
	}
	if len(results) > 0 {
		c.logger.Info("Scheduled change check processed %d changes", len(results))
	}
}
