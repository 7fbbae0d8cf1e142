package usecase

import (
	"context"

	"telegram-group-transfer/internal/domain/model"
	"telegram-group-transfer/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

// MemberScraper materializes the membership of a group through the privileged
// client, deduplicated by user id in listing order.
type MemberScraper struct {
	groups adapter.GroupClient
	log    *zerolog.Logger
}

func NewMemberScraper(groups adapter.GroupClient, logger *zerolog.Logger) *MemberScraper {
	scrLog := logger.With().Str("component", "MemberScraper").Logger()
	return &MemberScraper{groups: groups, log: &scrLog}
}

// Scrape returns the deduplicated member list. On error the members gathered
// so far are returned alongside it; the caller decides they are not worth a
// partial transfer.
func (s *MemberScraper) Scrape(ctx context.Context, group model.GroupRef) ([]model.Member, error) {
	seen := make(map[int64]struct{})
	var members []model.Member

	err := s.groups.ListMembers(ctx, group, func(m model.Member) error {
		if _, dup := seen[m.UserID]; dup {
			return nil
		}
		seen[m.UserID] = struct{}{}
		members = append(members, m)
		return nil
	})
	if err != nil {
		return members, err
	}
	s.log.Debug().Str("group", group.String()).Int("members", len(members)).Msg("scrape finished")
	return members, nil
}
