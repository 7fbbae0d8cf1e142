package adapter

import (
	"context"
	"time"

	"telegram-group-transfer/internal/domain/model"
)

type InviteStatus string

const (
	InviteOK            InviteStatus = "ok"
	InviteAlreadyMember InviteStatus = "already_member"
	InvitePrivacy       InviteStatus = "privacy_restricted"
	InviteRateLimited   InviteStatus = "rate_limited"
	InviteOther         InviteStatus = "other"
)

// InviteResult classifies a single invite call. Statuses are per-member and
// never abort a job; fatal conditions come back as errors instead
// (domain.ErrLostTargetPermission, domain.ErrGroupNotFound).
type InviteResult struct {
	Status     InviteStatus
	RetryAfter time.Duration
	Detail     string
}

// GroupClient is the privileged MTProto capability: it can see the membership
// of the source group and add users to the target group. The bot account
// itself cannot do either.
type GroupClient interface {
	// ListMembers streams the membership of group in listing order, calling
	// yield once per user. Members already yielded before an error stay
	// valid; the error ends the stream.
	ListMembers(ctx context.Context, group model.GroupRef, yield func(model.Member) error) error

	Invite(ctx context.Context, group model.GroupRef, m model.Member) (InviteResult, error)
}
