package worker

import (
	"context"
	"errors"
	"time"

	"github.com/zopumarket/zopumarket/internal/config"
	"github.com/zopumarket/zopumarket/internal/logger"
	"github.com/zopumarket/zopumarket/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultOverdueSweepInterval = time.Minute

// Service runs the asynq server plus the overdue referral sweep.
type Service struct {
	name          string
	server        *asynq.Server
	mux           *asynq.ServeMux
	consumer      *Consumer
	sweepInterval time.Duration
}

// NewService builds the queue worker service.
func NewService(cfg *config.QueueConfig, referralCfg config.ReferralConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	sweepInterval := defaultOverdueSweepInterval
	if referralCfg.OverdueSweepSeconds > 0 {
		sweepInterval = time.Duration(referralCfg.OverdueSweepSeconds) * time.Second
	}
	return &Service{
		name:          "worker",
		server:        server,
		mux:           mux,
		consumer:      consumer,
		sweepInterval: sweepInterval,
	}, nil
}

// Name reports the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the asynq server. Blocks until shutdown.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.ReferralService != nil {
		go s.runOverdueSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the asynq server down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runOverdueSweepLoop periodically flips SENT referrals past their
// acknowledgement deadline to OVERDUE.
func (s *Service) runOverdueSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.ReferralService == nil {
		return
	}
	runOnce := func() {
		flipped, err := s.consumer.ReferralService.SweepOverdue(time.Now())
		if err != nil {
			logger.Warnw("worker_overdue_sweep_failed", "error", err)
			return
		}
		if flipped > 0 {
			logger.Infow("worker_overdue_sweep_done", "flipped", flipped)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
