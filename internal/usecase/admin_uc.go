package usecase

import (
	"context"
	"time"

	"telegram-group-transfer/internal/domain/model"
	"telegram-group-transfer/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ AdminUseCase = (*adminUC)(nil)

// AdminUseCase manages the allow-list that gates every bot command.
type AdminUseCase interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	Promote(ctx context.Context, userID int64, username, firstName string, addedBy int64) error
	Demote(ctx context.Context, userID int64) error
	List(ctx context.Context) ([]*model.Admin, error)
	// Seed upserts the statically configured admin ids at startup.
	Seed(ctx context.Context, ids []int64) error
}

type adminUC struct {
	admins repository.AdminRepository
	log    *zerolog.Logger
}

func NewAdminUseCase(admins repository.AdminRepository, logger *zerolog.Logger) *adminUC {
	ucLog := logger.With().Str("component", "AdminUC").Logger()
	return &adminUC{admins: admins, log: &ucLog}
}

func (uc *adminUC) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return uc.admins.IsAdmin(ctx, userID)
}

func (uc *adminUC) Promote(ctx context.Context, userID int64, username, firstName string, addedBy int64) error {
	err := uc.admins.Save(ctx, &model.Admin{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
		AddedBy:   addedBy,
		AddedAt:   time.Now(),
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("user_id", userID).Int64("added_by", addedBy).Msg("admin promoted")
	return nil
}

func (uc *adminUC) Demote(ctx context.Context, userID int64) error {
	if err := uc.admins.Remove(ctx, userID); err != nil {
		return err
	}
	uc.log.Info().Int64("user_id", userID).Msg("admin removed")
	return nil
}

func (uc *adminUC) List(ctx context.Context) ([]*model.Admin, error) {
	return uc.admins.List(ctx)
}

func (uc *adminUC) Seed(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		err := uc.admins.Save(ctx, &model.Admin{
			UserID:    id,
			Username:  "default_admin",
			FirstName: "Default Admin",
			AddedBy:   id,
			AddedAt:   time.Now(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
