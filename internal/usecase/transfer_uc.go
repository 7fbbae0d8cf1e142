package usecase

import (
	"context"
	"errors"
	"time"

	"telegram-group-transfer/internal/domain"
	"telegram-group-transfer/internal/domain/model"
	"telegram-group-transfer/internal/domain/ports/adapter"
	"telegram-group-transfer/internal/domain/ports/repository"
	"telegram-group-transfer/internal/infra/logging"
	"telegram-group-transfer/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ TransferUseCase = (*transferUC)(nil)

type TransferUseCase interface {
	// StartTransfer registers and starts a transfer job for the request,
	// returning its id, or domain.ErrJobAlreadyRunning if the requester
	// already has one in flight.
	StartTransfer(ctx context.Context, req model.TransferRequest) (string, error)
	Status(requesterID int64) (*model.Snapshot, error)
	StatusByJobID(jobID string) (*model.Snapshot, error)
	Cancel(requesterID int64) bool
}

// TransferOptions tunes the pipeline; zero values fall back to the defaults
// the config layer also applies.
type TransferOptions struct {
	ProgressEvery  int
	ProgressMaxGap time.Duration
}

type transferUC struct {
	groups   adapter.GroupClient
	scraper  *MemberScraper
	pacer    InvitePacer
	registry *JobRegistry
	reporter *ProgressReporter
	runs     repository.RunRepository
	opts     TransferOptions
	log      *zerolog.Logger
}

func NewTransferUseCase(
	groups adapter.GroupClient,
	pacer InvitePacer,
	registry *JobRegistry,
	reporter *ProgressReporter,
	runs repository.RunRepository,
	opts TransferOptions,
	logger *zerolog.Logger,
) *transferUC {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 10
	}
	if opts.ProgressMaxGap <= 0 {
		opts.ProgressMaxGap = 30 * time.Second
	}
	ucLog := logger.With().Str("component", "TransferUC").Logger()
	return &transferUC{
		groups:   groups,
		scraper:  NewMemberScraper(groups, logger),
		pacer:    pacer,
		registry: registry,
		reporter: reporter,
		runs:     runs,
		opts:     opts,
		log:      &ucLog,
	}
}

func (uc *transferUC) StartTransfer(ctx context.Context, req model.TransferRequest) (string, error) {
	if req.Source.IsZero() || req.Target.IsZero() {
		return "", domain.ErrInvalidArgument
	}
	job := NewJob(ulid.Make().String(), req)
	if !uc.registry.TryRegister(req.RequesterID, job) {
		return "", domain.ErrJobAlreadyRunning
	}
	uc.log.Info().
		Str("job_id", job.ID).
		Int64("requester_id", req.RequesterID).
		Str("source", req.Source.String()).
		Str("target", req.Target.String()).
		Msg("transfer job registered")
	go uc.run(ctx, job)
	return job.ID, nil
}

func (uc *transferUC) Status(requesterID int64) (*model.Snapshot, error) {
	job, ok := uc.registry.Get(requesterID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	s := job.Snapshot()
	return &s, nil
}

func (uc *transferUC) StatusByJobID(jobID string) (*model.Snapshot, error) {
	job, ok := uc.registry.Lookup(jobID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	s := job.Snapshot()
	return &s, nil
}

func (uc *transferUC) Cancel(requesterID int64) bool {
	return uc.registry.Cancel(requesterID)
}

// run drives one job from Pending to a terminal state. Invites are strictly
// sequential: the pacing against Telegram's flood limits depends on it.
func (uc *transferUC) run(ctx context.Context, job *Job) {
	log := logging.With(logging.WithJob(ctx, job.ID, job.Req.RequesterID), uc.log)
	defer logging.TraceDuration(log, "TransferUC.run")()

	defer func() {
		uc.registry.Deregister(job.Req.RequesterID)
		metrics.SetActiveJobs(uc.registry.Active())
		close(job.done)
	}()

	metrics.IncTransferStarted()
	metrics.SetActiveJobs(uc.registry.Active())

	run := &model.TransferRun{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		RequesterID: job.Req.RequesterID,
		Source:      job.Req.Source.String(),
		Target:      job.Req.Target.String(),
		State:       model.JobStateScraping,
		StartedAt:   time.Now(),
	}
	if err := uc.runs.Create(ctx, run); err != nil {
		log.Warn().Err(err).Msg("could not persist run record")
	}

	job.beginScraping()
	uc.reporter.ScrapeStarted(ctx, job.Req.ReplyChatID)

	members, err := uc.scraper.Scrape(ctx, job.Req.Source)
	if err != nil {
		// No partial transfer without a complete member list.
		log.Error().Err(err).Int("partial", len(members)).Msg("scrape failed")
		job.fail(err)
		uc.finish(ctx, job, run, log)
		return
	}
	job.beginTransferring(len(members))
	uc.reporter.Found(ctx, job.Req.ReplyChatID, len(members))

	// Cancellation interrupts pacing waits but never an in-flight invite.
	waitCtx, stopWaiting := context.WithCancel(ctx)
	defer stopWaiting()
	go func() {
		select {
		case <-job.cancelCh:
			stopWaiting()
		case <-waitCtx.Done():
		}
	}()

	lastReport := time.Now()
	for i, m := range members {
		if job.cancelRequested() {
			job.cancelTerminal()
			break
		}
		if err := uc.pacer.Wait(waitCtx); err != nil {
			job.cancelTerminal()
			break
		}
		outcome, fatal := uc.attempt(ctx, waitCtx, job.Req.Target, m, log)
		if fatal != nil {
			log.Error().Err(fatal).Int64("user_id", m.UserID).Msg("aborting remaining invites")
			job.fail(fatal)
			break
		}
		job.record(outcome)
		metrics.IncInviteOutcome(string(outcome.Class), string(outcome.Reason))

		if (i+1)%uc.opts.ProgressEvery == 0 || time.Since(lastReport) >= uc.opts.ProgressMaxGap {
			uc.reporter.Progress(ctx, job.Req.ReplyChatID, job.Snapshot())
			lastReport = time.Now()
		}
	}

	job.complete()
	uc.finish(ctx, job, run, log)
}

// attempt invites one member, retrying exactly once after an extra pacing
// interval when the target rate-limits the call. The returned error is
// non-nil only for conditions that must abort the whole job.
func (uc *transferUC) attempt(ctx, waitCtx context.Context, target model.GroupRef, m model.Member, log *zerolog.Logger) (model.Outcome, error) {
	res, err := uc.invite(ctx, target, m)
	if err != nil {
		if isJobFatal(err) {
			return model.Outcome{}, err
		}
		return failedOutcome(m, model.ReasonUnknown, err.Error()), nil
	}
	if res.Status == adapter.InviteRateLimited {
		log.Debug().Int64("user_id", m.UserID).Dur("retry_after", res.RetryAfter).Msg("invite rate limited, retrying once")
		if err := uc.pacer.Wait(waitCtx); err != nil {
			return failedOutcome(m, model.ReasonFloodWait, res.Detail), nil
		}
		res, err = uc.invite(ctx, target, m)
		if err != nil {
			if isJobFatal(err) {
				return model.Outcome{}, err
			}
			return failedOutcome(m, model.ReasonUnknown, err.Error()), nil
		}
		if res.Status == adapter.InviteRateLimited {
			return failedOutcome(m, model.ReasonFloodWait, res.Detail), nil
		}
	}
	switch res.Status {
	case adapter.InviteOK:
		return model.Outcome{Member: m, Class: model.OutcomeSucceeded}, nil
	case adapter.InviteAlreadyMember:
		return model.Outcome{Member: m, Class: model.OutcomeSkipped, Reason: model.ReasonAlreadyMember}, nil
	case adapter.InvitePrivacy:
		return failedOutcome(m, model.ReasonPrivacyRestricted, res.Detail), nil
	default:
		return failedOutcome(m, model.ReasonUnknown, res.Detail), nil
	}
}

func (uc *transferUC) invite(ctx context.Context, target model.GroupRef, m model.Member) (adapter.InviteResult, error) {
	start := time.Now()
	res, err := uc.groups.Invite(ctx, target, m)
	metrics.ObserveInviteLatency(time.Since(start))
	return res, err
}

func (uc *transferUC) finish(ctx context.Context, job *Job, run *model.TransferRun, log *zerolog.Logger) {
	sum := job.Summary()
	metrics.IncTransferFinished(string(sum.State))

	now := time.Now()
	run.State = sum.State
	run.TotalScraped = sum.TotalScraped
	run.Succeeded = sum.Succeeded
	run.Skipped = sum.Skipped
	run.Failed = sum.Failed
	run.FinishedAt = &now
	if err := uc.runs.Finish(ctx, run); err != nil {
		log.Warn().Err(err).Msg("could not persist run result")
	}

	uc.reporter.Final(ctx, job.Req.ReplyChatID, sum)
	log.Info().
		Str("state", string(sum.State)).
		Int("total_scraped", sum.TotalScraped).
		Int("succeeded", sum.Succeeded).
		Int("skipped", sum.Skipped).
		Int("failed", sum.Failed).
		Dur("duration", sum.Duration).
		Msg("transfer finished")
}

func isJobFatal(err error) bool {
	return errors.Is(err, domain.ErrLostTargetPermission) ||
		errors.Is(err, domain.ErrGroupNotFound) ||
		errors.Is(err, domain.ErrAccessDenied)
}

func failedOutcome(m model.Member, reason model.OutcomeReason, detail string) model.Outcome {
	return model.Outcome{Member: m, Class: model.OutcomeFailed, Reason: reason, Detail: detail}
}
