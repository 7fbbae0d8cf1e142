//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-group-transfer/internal/domain/model"
	"telegram-group-transfer/internal/usecase"
)

func TestMemberScraper(t *testing.T) {
	logger := newTestLogger()
	group := model.GroupRef{Username: "somegroup"}

	t.Run("should deduplicate members by user id keeping first occurrence", func(t *testing.T) {
		groups := &MockGroupClient{
			ListMembersFunc: yieldMembers([]model.Member{
				{UserID: 1, Username: "alice"},
				{UserID: 2, Username: "bob"},
				{UserID: 1, Username: "alice_again"},
				{UserID: 3, Username: "carol"},
				{UserID: 2, Username: "bob_again"},
			}),
		}
		scraper := usecase.NewMemberScraper(groups, logger)

		members, err := scraper.Scrape(context.Background(), group)
		if err != nil {
			t.Fatalf("Scrape returned an error: %v", err)
		}
		if len(members) != 3 {
			t.Fatalf("expected 3 unique members, got %d", len(members))
		}
		if members[0].Username != "alice" || members[1].Username != "bob" || members[2].Username != "carol" {
			t.Errorf("unexpected order or entries: %+v", members)
		}
	})

	t.Run("should return partial members alongside the listing error", func(t *testing.T) {
		listErr := errors.New("connection reset")
		groups := &MockGroupClient{
			ListMembersFunc: func(_ context.Context, _ model.GroupRef, yield func(model.Member) error) error {
				_ = yield(model.Member{UserID: 1})
				_ = yield(model.Member{UserID: 2})
				return listErr
			},
		}
		scraper := usecase.NewMemberScraper(groups, logger)

		members, err := scraper.Scrape(context.Background(), group)
		if !errors.Is(err, listErr) {
			t.Fatalf("expected listing error, got %v", err)
		}
		if len(members) != 2 {
			t.Errorf("expected 2 partial members, got %d", len(members))
		}
	})
}
