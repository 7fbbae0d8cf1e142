package model

import (
	"fmt"
	"strconv"
	"strings"
)

// GroupRef points at a group or channel either by @username or by the bare
// channel ID (the "-100..." prefix users paste from chat IDs is stripped).
type GroupRef struct {
	ID       int64
	Username string
}

// ParseGroupRef accepts the two forms admins paste into the setup flow:
// "@channelname" (or "channelname") and numeric IDs like "-1001234567890".
func ParseGroupRef(s string) (GroupRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return GroupRef{}, fmt.Errorf("empty group reference")
	}
	if strings.HasPrefix(s, "@") {
		name := strings.TrimPrefix(s, "@")
		if name == "" {
			return GroupRef{}, fmt.Errorf("empty username")
		}
		return GroupRef{Username: name}, nil
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		if id < 0 {
			// -100<channel_id> chat-id form
			trimmed := strings.TrimPrefix(s, "-100")
			if trimmed != s {
				if bare, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
					return GroupRef{ID: bare}, nil
				}
			}
			return GroupRef{ID: -id}, nil
		}
		return GroupRef{ID: id}, nil
	}
	// Anything non-numeric without "@" is treated as a username.
	return GroupRef{Username: s}, nil
}

func (g GroupRef) String() string {
	if g.Username != "" {
		return "@" + g.Username
	}
	return strconv.FormatInt(g.ID, 10)
}

func (g GroupRef) IsZero() bool { return g.ID == 0 && g.Username == "" }
