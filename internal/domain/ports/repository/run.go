package repository

import (
	"context"

	"telegram-group-transfer/internal/domain/model"
)

// RunRepository persists transfer run records for auditing. Both methods are
// best-effort from the engine's point of view: a storage failure is logged
// and never fails the transfer itself.
type RunRepository interface {
	Create(ctx context.Context, run *model.TransferRun) error
	Finish(ctx context.Context, run *model.TransferRun) error
}
