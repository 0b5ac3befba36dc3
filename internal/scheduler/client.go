package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"booking_portal_backend/platform/config"
	"booking_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues booking maintenance tasks on demand.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, queue, err := connection(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// TriggerDraftSync enqueues an immediate reconciliation pass.
func (c *Client) TriggerDraftSync(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	_, err := c.client.EnqueueContext(ctx, NewDraftSyncTask(), asynq.Queue(c.queue))
	return err
}

// Periodic registers the recurring draft maintenance entries and runs the
// scheduler until ctx is cancelled.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
	opt, queue, err := connection(cfg)
	if err != nil {
		return nil, err
	}

	sched := asynq.NewScheduler(opt, &asynq.SchedulerOpts{})

	syncEvery := cfg.GetDraftSyncInterval()
	if syncEvery <= 0 {
		return nil, fmt.Errorf("draft sync interval must be positive")
	}

	if _, err := sched.Register(fmt.Sprintf("@every %s", syncEvery), NewDraftSyncTask(), asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register draft sync: %w", err)
	}
	// Cleanup piggybacks on the sync cadence. It is cheap when nothing is
	// stale, so a dedicated interval is not worth a config knob.
	if _, err := sched.Register(fmt.Sprintf("@every %s", syncEvery), NewDraftCleanupTask(), asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register draft cleanup: %w", err)
	}

	return &Periodic{scheduler: sched, log: log}, nil
}

func (p *Periodic) Run(ctx context.Context) {
	if p == nil || p.scheduler == nil {
		return
	}

	go func() {
		<-ctx.Done()
		p.scheduler.Shutdown()
	}()

	if err := p.scheduler.Run(); err != nil {
		p.log.Error("periodic scheduler stopped", "error", err)
	}
}

func connection(cfg config.SchedulerConfig) (asynq.RedisClientOpt, string, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return asynq.RedisClientOpt{}, "", fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return asynq.RedisClientOpt{}, "", err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}
	return opt, queue, nil
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
