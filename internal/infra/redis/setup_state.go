package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"telegram-group-transfer/internal/domain"
	"telegram-group-transfer/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.SetupStateRepository = (*SetupStateRepo)(nil)

// SetupStateRepo keeps the /scrapemembers conversational state in Redis so
// abandoned flows expire on their own.
type SetupStateRepo struct {
	client *redClient
	ttl    time.Duration
}

func NewSetupStateRepo(client *redClient, ttl time.Duration) repository.SetupStateRepository {
	if ttl <= 0 {
		ttl = 15 * time.Minute // give admins 15 minutes to finish the flow
	}
	return &SetupStateRepo{client: client, ttl: ttl}
}

func (s *SetupStateRepo) stateKey(tgID int64) string {
	return fmt.Sprintf("setup_state:%d", tgID)
}

func (s *SetupStateRepo) SetState(ctx context.Context, tgID int64, state *repository.SetupState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.stateKey(tgID), data, s.ttl)
}

func (s *SetupStateRepo) GetState(ctx context.Context, tgID int64) (*repository.SetupState, error) {
	data, err := s.client.Get(ctx, s.stateKey(tgID))
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var state repository.SetupState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *SetupStateRepo) ClearState(ctx context.Context, tgID int64) error {
	return s.client.Del(ctx, s.stateKey(tgID))
}
