package repository

import "context"

// SetupStage is where a requester is in the transfer setup conversation.
type SetupStage string

const (
	// StageChoosing means the setup keyboard is shown and no input is pending.
	StageChoosing SetupStage = "choosing"
	// StageAwaitingSource means the next text message is the source group.
	StageAwaitingSource SetupStage = "awaiting_source"
	// StageAwaitingTarget means the next text message is the target group.
	StageAwaitingTarget SetupStage = "awaiting_target"
)

// SetupState is the per-requester conversational state of the transfer setup
// flow. Stored as JSON; keep the tags stable.
type SetupState struct {
	Stage  SetupStage `json:"stage"`
	ChatID int64      `json:"chat_id"`
	Source string     `json:"source,omitempty"`
	Target string     `json:"target,omitempty"`
}

// SetupStateRepository persists setup flow state between messages.
type SetupStateRepository interface {
	SetState(ctx context.Context, tgID int64, state *SetupState) error
	GetState(ctx context.Context, tgID int64) (*SetupState, error)
	ClearState(ctx context.Context, tgID int64) error
}
