package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/dedup"
	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/email"
	"github.com/rokko/warranty-tracker/internal/metrics"
	"github.com/rokko/warranty-tracker/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Per-user outcomes of a reminder run.
const (
	OutcomeSent        = "sent"
	OutcomeNoMatches   = "no_matches"
	OutcomeQueryFailed = "query_failed"
	OutcomeNoEmail     = "no_email"
	OutcomeDuplicate   = "duplicate"
	OutcomeSendFailed  = "send_failed"
)

// ReminderLedger records which reminders went out so a rerun on the same
// day skips them. Reserve reports, per key, whether the caller got it first.
type ReminderLedger interface {
	Reserve(ctx context.Context, keys []dedup.Key) ([]bool, error)
	Release(ctx context.Context, keys []dedup.Key) error
}

type ReminderConfig struct {
	From          email.Address
	Location      *time.Location
	Concurrency   int
	RatePerSecond float64
}

type DispatchResult struct {
	EmailsSent   int              `json:"emailsSent"`
	UsersChecked int              `json:"usersChecked"`
	Diagnostics  []UserDiagnostic `json:"diagnostics"`
	Message      string           `json:"message,omitempty"`
}

// UserDiagnostic describes what a run did for one user. Recipient is masked.
type UserDiagnostic struct {
	UserID     uuid.UUID   `json:"userId"`
	TargetDate domain.Date `json:"targetDate"`
	Warranties int         `json:"warranties"`
	Recipient  string      `json:"recipient,omitempty"`
	Outcome    string      `json:"outcome"`
	Error      string      `json:"error,omitempty"`
}

// ReminderService sends each user with email reminders enabled one digest
// of the warranties expiring exactly reminderDays from today. A run never
// writes to the database.
type ReminderService struct {
	settingRepo  repository.ReminderSettingRepository
	warrantyRepo repository.WarrantyRepository
	emails       EmailResolver
	sender       email.Sender
	ledger       ReminderLedger
	limiter      *rate.Limiter
	metrics      *metrics.Metrics
	cfg          ReminderConfig
	now          func() time.Time
	log          zerolog.Logger
}

func NewReminderService(
	settingRepo repository.ReminderSettingRepository,
	warrantyRepo repository.WarrantyRepository,
	emails EmailResolver,
	sender email.Sender,
	ledger ReminderLedger,
	m *metrics.Metrics,
	cfg ReminderConfig,
	now func() time.Time,
	log zerolog.Logger,
) *ReminderService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &ReminderService{
		settingRepo:  settingRepo,
		warrantyRepo: warrantyRepo,
		emails:       emails,
		sender:       sender,
		ledger:       ledger,
		limiter:      rate.NewLimiter(limit, 1),
		metrics:      m,
		cfg:          cfg,
		now:          now,
		log:          log,
	}
}

// Run executes one dispatch. Only a failure to load the enabled settings is
// returned as an error; everything per user ends up in Diagnostics.
func (s *ReminderService) Run(ctx context.Context) (*DispatchResult, error) {
	start := s.now()
	today := domain.Today(start, s.cfg.Location)

	settings, err := s.settingRepo.ListEmailEnabled(ctx)
	if err != nil {
		s.metrics.ObserveRun(metrics.RunFailed, s.now().Sub(start))
		s.log.Error().Err(err).Msg("[ReminderService.Run] failed to load reminder settings")
		return nil, fmt.Errorf("load reminder settings: %w", err)
	}

	result := &DispatchResult{
		UsersChecked: len(settings),
		Diagnostics:  make([]UserDiagnostic, len(settings)),
	}
	if len(settings) == 0 {
		result.Message = "No users with reminders enabled"
		s.metrics.ObserveRun(metrics.RunSuccess, s.now().Sub(start))
		return result, nil
	}

	var sent atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, setting := range settings {
		g.Go(func() error {
			d := s.remindUser(ctx, today, setting)
			result.Diagnostics[i] = d
			if d.Outcome == OutcomeSent {
				sent.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result.EmailsSent = int(sent.Load())
	s.metrics.ObserveRun(metrics.RunSuccess, s.now().Sub(start))
	s.log.Info().
		Str("today", today.String()).
		Int("usersChecked", result.UsersChecked).
		Int("emailsSent", result.EmailsSent).
		Dur("took", s.now().Sub(start)).
		Msg("[ReminderService.Run] reminder run finished")

	return result, nil
}

func (s *ReminderService) remindUser(ctx context.Context, today domain.Date, setting *domain.ReminderSetting) UserDiagnostic {
	target := today.AddDays(setting.ReminderDays)
	d := UserDiagnostic{UserID: setting.UserID, TargetDate: target}
	log := s.log.With().Str("userId", setting.UserID.String()).Str("targetDate", target.String()).Logger()

	warranties, err := s.warrantyRepo.ListExpiringOn(ctx, setting.UserID, target)
	if err != nil {
		d.Outcome, d.Error = OutcomeQueryFailed, err.Error()
		log.Error().Err(err).Msg("[ReminderService.remindUser] warranty query failed")
		return d
	}
	d.Warranties = len(warranties)
	if len(warranties) == 0 {
		d.Outcome = OutcomeNoMatches
		return d
	}

	addr, err := s.emails.EmailForUser(ctx, setting.UserID)
	if err == nil && addr == "" {
		err = errors.New("user has no email address")
	}
	if err != nil {
		d.Outcome, d.Error = OutcomeNoEmail, err.Error()
		log.Warn().Err(err).Msg("[ReminderService.remindUser] could not resolve recipient")
		return d
	}
	d.Recipient = addr.Mask()

	warranties, reserved := s.reserve(ctx, log, setting.UserID, target, warranties)
	if len(warranties) == 0 {
		d.Outcome = OutcomeDuplicate
		s.metrics.IncEmail(metrics.EmailSkipped)
		return d
	}

	fail := func(err error) UserDiagnostic {
		s.release(ctx, log, reserved)
		d.Outcome = OutcomeSendFailed
		d.Error = strings.ReplaceAll(err.Error(), string(addr), d.Recipient)
		s.metrics.IncEmail(metrics.EmailFailed)
		log.Error().Str("error", d.Error).Str("recipient", d.Recipient).Msg("[ReminderService.remindUser] send failed")
		return d
	}

	html, err := email.RenderDigest(setting.Locale, warranties, setting.ReminderDays)
	if err != nil {
		return fail(err)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fail(err)
	}
	subject := email.DigestSubject(setting.Locale, len(warranties), setting.ReminderDays)
	if err := s.sender.Send(ctx, s.cfg.From, addr, subject, html); err != nil {
		return fail(err)
	}

	d.Outcome = OutcomeSent
	s.metrics.IncEmail(metrics.EmailSent)
	log.Info().Str("recipient", d.Recipient).Int("warranties", len(warranties)).Msg("[ReminderService.remindUser] reminder sent")
	return d
}

// reserve drops warranties already reminded about for target. When the
// ledger is unavailable every warranty is kept.
func (s *ReminderService) reserve(ctx context.Context, log zerolog.Logger, userID uuid.UUID, target domain.Date, warranties []*domain.Warranty) ([]*domain.Warranty, []dedup.Key) {
	if s.ledger == nil {
		return warranties, nil
	}

	keys := make([]dedup.Key, len(warranties))
	for i, w := range warranties {
		keys[i] = dedup.Key{UserID: userID, WarrantyID: w.ID, TargetDate: target}
	}

	fresh, err := s.ledger.Reserve(ctx, keys)
	if err != nil {
		log.Warn().Err(err).Msg("[ReminderService.reserve] dedup ledger unavailable, sending anyway")
		return warranties, nil
	}

	kept := make([]*domain.Warranty, 0, len(warranties))
	reserved := make([]dedup.Key, 0, len(keys))
	for i, ok := range fresh {
		if ok {
			kept = append(kept, warranties[i])
			reserved = append(reserved, keys[i])
		}
	}
	return kept, reserved
}

func (s *ReminderService) release(ctx context.Context, log zerolog.Logger, keys []dedup.Key) {
	if s.ledger == nil || len(keys) == 0 {
		return
	}
	if err := s.ledger.Release(context.WithoutCancel(ctx), keys); err != nil {
		log.Warn().Err(err).Msg("[ReminderService.release] failed to release dedup keys")
	}
}
