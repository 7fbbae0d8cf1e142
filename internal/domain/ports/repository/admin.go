package repository

import (
	"context"

	"telegram-group-transfer/internal/domain/model"
)

// AdminRepository stores the admin allow-list. The transfer engine never
// touches it; only the command layer consults it.
type AdminRepository interface {
	Save(ctx context.Context, admin *model.Admin) error
	Remove(ctx context.Context, userID int64) error
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	List(ctx context.Context) ([]*model.Admin, error)
}
