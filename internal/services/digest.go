package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"conversationscheduler/internal/domain"
	"conversationscheduler/internal/scheduling"
)

const digestRunTimeout = 2 * time.Minute

// DigestService emails every active user a weekly digest of recommended
// conversation moments, on a cron schedule.
type DigestService struct {
	users     domain.UserService
	scheduler domain.SchedulingService
	renderer  domain.EmailTemplateRenderer
	mailer    domain.Mailer
	logger    *slog.Logger
	cronSpec  string
	location  *time.Location
	c         *cron.Cron
}

// NewDigestService builds the digest job. cronSpec is a standard cron
// expression (e.g. "0 8 * * 1" for Mondays at 08:00); an empty spec
// disables the job.
func NewDigestService(users domain.UserService, scheduler domain.SchedulingService, renderer domain.EmailTemplateRenderer, mailer domain.Mailer, logger *slog.Logger, cronSpec string, location *time.Location) *DigestService {
	if location == nil {
		location = time.UTC
	}
	return &DigestService{
		users:     users,
		scheduler: scheduler,
		renderer:  renderer,
		mailer:    mailer,
		logger:    logger,
		cronSpec:  cronSpec,
		location:  location,
	}
}

// Start registers and starts the cron job. It is a no-op when no spec is
// configured.
func (s *DigestService) Start() error {
	if s.cronSpec == "" {
		s.logger.Info("weekly digest disabled: no cron spec configured")
		return nil
	}
	s.c = cron.New(cron.WithLocation(s.location))
	if _, err := s.c.AddFunc(s.cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestRunTimeout)
		defer cancel()
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("weekly digest run failed", "err", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid digest cron spec %q: %w", s.cronSpec, err)
	}
	s.c.Start()
	s.logger.Info("weekly digest scheduled", "spec", s.cronSpec)
	return nil
}

// Stop halts the cron scheduler, waiting for a running job to finish.
func (s *DigestService) Stop() {
	if s.c != nil {
		<-s.c.Stop().Done()
	}
}

// RunOnce computes conservative recommendations for every active user and
// mails each a digest. Per-user failures are logged and skipped so one bad
// account cannot starve the rest.
func (s *DigestService) RunOnce(ctx context.Context) error {
	users, err := s.users.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	sent := 0
	for _, user := range users {
		result, err := s.scheduler.FindOptimalMoments(ctx, user.ID, scheduling.StrategyConservative, time.Time{})
		if err != nil {
			s.logger.Error("digest: find moments failed", "user_id", user.ID, "err", err)
			continue
		}
		if len(result.Moments) == 0 {
			continue
		}

		data := &domain.WeeklyDigestEmailData{
			Email:     user.Email,
			FirstName: user.FirstName,
			WeekStart: result.WeekRange.Start,
			Moments:   result.Moments,
		}
		subject, html, text, err := s.renderer.Render("weekly_digest", data)
		if err != nil {
			s.logger.Error("digest: render failed", "user_id", user.ID, "err", err)
			continue
		}
		if err := s.mailer.Send(user.Email, subject, html, text); err != nil {
			s.logger.Error("digest: send failed", "user_id", user.ID, "err", err)
			continue
		}
		sent++
	}

	s.logger.Info("weekly digest run complete", "users", len(users), "sent", sent)
	return nil
}
