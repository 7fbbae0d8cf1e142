// Package mtproto implements the privileged Telegram client used to list
// group members and invite them. It runs on a user account session, not the
// bot token, because bots cannot enumerate arbitrary group members.
package mtproto

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/rs/zerolog"

	"telegram-group-transfer/internal/config"
	"telegram-group-transfer/internal/domain"
	"telegram-group-transfer/internal/domain/model"
	"telegram-group-transfer/internal/domain/ports/adapter"
)

const participantsPageSize = 100

var _ adapter.GroupClient = (*Client)(nil)

// Client wraps a gotd MTProto session and exposes the two operations the
// transfer engine needs. Safe for concurrent use once Ready is closed.
type Client struct {
	tc  *telegram.Client
	api *tg.Client
	log *zerolog.Logger

	floodCeiling time.Duration

	ready chan struct{}

	mu       sync.Mutex
	resolved map[string]*tg.InputChannel
}

func NewClient(cfg *config.TelegramConfig, floodCeiling time.Duration, logger *zerolog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("telegram config is nil")
	}
	if cfg.APIID == 0 || cfg.APIHash == "" {
		return nil, errors.New("telegram api_id and api_hash are required")
	}
	l := logger.With().Str("component", "MTProtoClient").Logger()

	tc := telegram.NewClient(cfg.APIID, cfg.APIHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: cfg.SessionFile},
	})

	return &Client{
		tc:           tc,
		log:          &l,
		floodCeiling: floodCeiling,
		ready:        make(chan struct{}),
		resolved:     make(map[string]*tg.InputChannel),
	}, nil
}

// Ready is closed once the session is connected and authorized.
func (c *Client) Ready() <-chan struct{} { return c.ready }

// Run connects the MTProto session and blocks until ctx is canceled.
// The session file must already be authorized; interactive login is out of
// scope for the service binary.
func (c *Client) Run(ctx context.Context) error {
	return c.tc.Run(ctx, func(ctx context.Context) error {
		status, err := c.tc.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status: %w", err)
		}
		if !status.Authorized {
			return errors.New("session not authorized: run the login helper first")
		}
		c.api = c.tc.API()
		c.log.Info().Msg("mtproto session ready")
		close(c.ready)
		<-ctx.Done()
		return ctx.Err()
	})
}

// ListMembers pages through the group's participants and yields each human,
// non-deleted member. Flood waits at or below the ceiling are slept through;
// longer ones abort the listing.
func (c *Client) ListMembers(ctx context.Context, group model.GroupRef, yield func(model.Member) error) error {
	ch, err := c.resolveChannel(ctx, group)
	if err != nil {
		return err
	}

	offset := 0
	for {
		var page *tg.ChannelsChannelParticipants
		for {
			raw, err := c.api.ChannelsGetParticipants(ctx, &tg.ChannelsGetParticipantsRequest{
				Channel: ch,
				Filter:  &tg.ChannelParticipantsSearch{Q: ""},
				Offset:  offset,
				Limit:   participantsPageSize,
			})
			if err != nil {
				if d, ok := tgerr.AsFloodWait(err); ok && d <= c.floodCeiling {
					c.log.Warn().Dur("wait", d).Int("offset", offset).Msg("flood wait while listing members")
					if serr := sleepCtx(ctx, d); serr != nil {
						return serr
					}
					continue
				}
				return c.mapSourceError(err, group)
			}
			var ok bool
			page, ok = raw.(*tg.ChannelsChannelParticipants)
			if !ok {
				return fmt.Errorf("unexpected participants response %T", raw)
			}
			break
		}

		if len(page.Participants) == 0 {
			return nil
		}

		users := make(map[int64]*tg.User, len(page.Users))
		for _, u := range page.Users {
			if user, ok := u.(*tg.User); ok {
				users[user.ID] = user
			}
		}

		for _, p := range page.Participants {
			user, ok := users[participantUserID(p)]
			if !ok || user.Bot || user.Deleted {
				continue
			}
			m := model.Member{
				UserID:     user.ID,
				Username:   user.Username,
				AccessHash: user.AccessHash,
			}
			if err := yield(m); err != nil {
				return err
			}
		}
		offset += len(page.Participants)
	}
}

// Invite adds one member to the group. Soft per-member failures come back in
// the result; errors are reserved for conditions that doom the whole job.
func (c *Client) Invite(ctx context.Context, group model.GroupRef, m model.Member) (adapter.InviteResult, error) {
	ch, err := c.resolveChannel(ctx, group)
	if err != nil {
		return adapter.InviteResult{}, err
	}

	_, err = c.api.ChannelsInviteToChannel(ctx, &tg.ChannelsInviteToChannelRequest{
		Channel: ch,
		Users: []tg.InputUserClass{
			&tg.InputUser{UserID: m.UserID, AccessHash: m.AccessHash},
		},
	})
	if err == nil {
		return adapter.InviteResult{Status: adapter.InviteOK}, nil
	}

	if d, ok := tgerr.AsFloodWait(err); ok {
		return adapter.InviteResult{Status: adapter.InviteRateLimited, RetryAfter: d}, nil
	}

	switch {
	case tgerr.Is(err, "USER_ALREADY_PARTICIPANT"):
		return adapter.InviteResult{Status: adapter.InviteAlreadyMember}, nil
	case tgerr.Is(err, "USER_PRIVACY_RESTRICTED"), tgerr.Is(err, "USER_NOT_MUTUAL_CONTACT"):
		return adapter.InviteResult{Status: adapter.InvitePrivacy}, nil
	case tgerr.Is(err, "CHAT_ADMIN_REQUIRED"), tgerr.Is(err, "CHAT_WRITE_FORBIDDEN"):
		return adapter.InviteResult{}, fmt.Errorf("inviting to %s: %w", group, domain.ErrLostTargetPermission)
	case tgerr.Is(err, "CHANNEL_PRIVATE"):
		return adapter.InviteResult{}, fmt.Errorf("inviting to %s: %w", group, domain.ErrAccessDenied)
	case tgerr.Is(err, "CHANNEL_INVALID"), tgerr.Is(err, "PEER_ID_INVALID"):
		return adapter.InviteResult{}, fmt.Errorf("inviting to %s: %w", group, domain.ErrGroupNotFound)
	}

	return adapter.InviteResult{Status: adapter.InviteOther, Detail: rpcDetail(err)}, nil
}

// resolveChannel turns a GroupRef into an InputChannel with access hash,
// caching the result for the lifetime of the client.
func (c *Client) resolveChannel(ctx context.Context, group model.GroupRef) (*tg.InputChannel, error) {
	key := group.String()

	c.mu.Lock()
	if ch, ok := c.resolved[key]; ok {
		c.mu.Unlock()
		return ch, nil
	}
	c.mu.Unlock()

	var (
		ch  *tg.InputChannel
		err error
	)
	if group.Username != "" {
		ch, err = c.resolveByUsername(ctx, group.Username)
	} else {
		ch, err = c.resolveByID(ctx, group.ID)
	}
	if err != nil {
		return nil, c.mapSourceError(err, group)
	}

	c.mu.Lock()
	c.resolved[key] = ch
	c.mu.Unlock()
	return ch, nil
}

func (c *Client) resolveByUsername(ctx context.Context, username string) (*tg.InputChannel, error) {
	peer, err := c.api.ContactsResolveUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	for _, chat := range peer.Chats {
		if channel, ok := chat.(*tg.Channel); ok {
			return &tg.InputChannel{ChannelID: channel.ID, AccessHash: channel.AccessHash}, nil
		}
	}
	return nil, fmt.Errorf("@%s: %w", username, domain.ErrGroupNotFound)
}

func (c *Client) resolveByID(ctx context.Context, id int64) (*tg.InputChannel, error) {
	// Zero access hash only works for channels the account has already seen,
	// which covers groups the operator administers.
	raw, err := c.api.ChannelsGetChannels(ctx, []tg.InputChannelClass{
		&tg.InputChannel{ChannelID: id},
	})
	if err != nil {
		return nil, err
	}
	chats, ok := raw.(*tg.MessagesChats)
	if !ok {
		return nil, fmt.Errorf("unexpected chats response %T", raw)
	}
	for _, chat := range chats.Chats {
		if channel, ok := chat.(*tg.Channel); ok && channel.ID == id {
			return &tg.InputChannel{ChannelID: channel.ID, AccessHash: channel.AccessHash}, nil
		}
	}
	return nil, fmt.Errorf("channel %d: %w", id, domain.ErrGroupNotFound)
}

// mapSourceError translates raw RPC errors from resolution and listing into
// the domain sentinels the transfer engine understands.
func (c *Client) mapSourceError(err error, group model.GroupRef) error {
	if errors.Is(err, domain.ErrGroupNotFound) || errors.Is(err, domain.ErrAccessDenied) {
		return err
	}
	switch {
	case tgerr.Is(err, "CHANNEL_PRIVATE"), tgerr.Is(err, "CHAT_ADMIN_REQUIRED"):
		return fmt.Errorf("group %s: %w", group, domain.ErrAccessDenied)
	case tgerr.Is(err, "CHANNEL_INVALID"),
		tgerr.Is(err, "USERNAME_NOT_OCCUPIED"),
		tgerr.Is(err, "USERNAME_INVALID"),
		tgerr.Is(err, "PEER_ID_INVALID"):
		return fmt.Errorf("group %s: %w", group, domain.ErrGroupNotFound)
	}
	return err
}

func participantUserID(p tg.ChannelParticipantClass) int64 {
	switch v := p.(type) {
	case *tg.ChannelParticipant:
		return v.UserID
	case *tg.ChannelParticipantSelf:
		return v.UserID
	case *tg.ChannelParticipantCreator:
		return v.UserID
	case *tg.ChannelParticipantAdmin:
		return v.UserID
	case *tg.ChannelParticipantBanned:
		if peer, ok := v.Peer.(*tg.PeerUser); ok {
			return peer.UserID
		}
	case *tg.ChannelParticipantLeft:
		if peer, ok := v.Peer.(*tg.PeerUser); ok {
			return peer.UserID
		}
	}
	return 0
}

func rpcDetail(err error) string {
	var rpc *tgerr.Error
	if errors.As(err, &rpc) {
		return rpc.Type
	}
	s := err.Error()
	if len(s) > 120 {
		s = s[:120]
	}
	return strings.TrimSpace(s)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
