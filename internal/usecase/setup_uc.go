package usecase

import (
	"context"
	"fmt"

	"telegram-group-transfer/internal/domain"
	"telegram-group-transfer/internal/domain/model"
	"telegram-group-transfer/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ SetupUseCase = (*setupUC)(nil)

// SetupUseCase is the explicit input-collection state machine behind the
// /scrapemembers flow: the admin picks "fetch from" or "push to", pastes a
// group reference for each, and Done turns the collected state into one
// validated TransferRequest.
type SetupUseCase interface {
	Begin(ctx context.Context, tgID, chatID int64) error
	ChooseSource(ctx context.Context, tgID int64) error
	ChooseTarget(ctx context.Context, tgID int64) error
	// HandleInput consumes a pasted group reference while a choice is
	// pending. It reports whether the text was consumed by the flow.
	HandleInput(ctx context.Context, tgID int64, text string) (bool, string, error)
	Done(ctx context.Context, tgID int64) (*model.TransferRequest, error)
	Abort(ctx context.Context, tgID int64) error
}

type setupUC struct {
	states repository.SetupStateRepository
	log    *zerolog.Logger
}

func NewSetupUseCase(states repository.SetupStateRepository, logger *zerolog.Logger) *setupUC {
	ucLog := logger.With().Str("component", "SetupUC").Logger()
	return &setupUC{states: states, log: &ucLog}
}

func (uc *setupUC) Begin(ctx context.Context, tgID, chatID int64) error {
	return uc.states.SetState(ctx, tgID, &repository.SetupState{
		Stage:  repository.StageChoosing,
		ChatID: chatID,
	})
}

func (uc *setupUC) ChooseSource(ctx context.Context, tgID int64) error {
	return uc.setStage(ctx, tgID, repository.StageAwaitingSource)
}

func (uc *setupUC) ChooseTarget(ctx context.Context, tgID int64) error {
	return uc.setStage(ctx, tgID, repository.StageAwaitingTarget)
}

func (uc *setupUC) setStage(ctx context.Context, tgID int64, stage repository.SetupStage) error {
	st, err := uc.states.GetState(ctx, tgID)
	if err != nil {
		return domain.ErrSetupIncomplete
	}
	st.Stage = stage
	return uc.states.SetState(ctx, tgID, st)
}

func (uc *setupUC) HandleInput(ctx context.Context, tgID int64, text string) (bool, string, error) {
	st, err := uc.states.GetState(ctx, tgID)
	if err != nil {
		return false, "", nil // no flow in progress
	}

	switch st.Stage {
	case repository.StageAwaitingSource, repository.StageAwaitingTarget:
	default:
		return false, "", nil
	}

	ref, err := model.ParseGroupRef(text)
	if err != nil {
		return true, "", fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	var reply string
	if st.Stage == repository.StageAwaitingSource {
		st.Source = ref.String()
		reply = fmt.Sprintf("✅ Source set to %s.\nNow configure the target, then press Done.", ref)
	} else {
		st.Target = ref.String()
		reply = fmt.Sprintf("✅ Target set to %s.\nPress Done when ready to start the transfer.", ref)
	}
	st.Stage = repository.StageChoosing
	if err := uc.states.SetState(ctx, tgID, st); err != nil {
		return true, "", err
	}
	return true, reply, nil
}

func (uc *setupUC) Done(ctx context.Context, tgID int64) (*model.TransferRequest, error) {
	st, err := uc.states.GetState(ctx, tgID)
	if err != nil {
		return nil, domain.ErrSetupIncomplete
	}
	if st.Source == "" || st.Target == "" {
		return nil, domain.ErrSetupIncomplete
	}
	source, err := model.ParseGroupRef(st.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	target, err := model.ParseGroupRef(st.Target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	if err := uc.states.ClearState(ctx, tgID); err != nil {
		uc.log.Warn().Err(err).Int64("tg_id", tgID).Msg("could not clear setup state")
	}
	return &model.TransferRequest{
		RequesterID: tgID,
		ReplyChatID: st.ChatID,
		Source:      source,
		Target:      target,
	}, nil
}

func (uc *setupUC) Abort(ctx context.Context, tgID int64) error {
	return uc.states.ClearState(ctx, tgID)
}
