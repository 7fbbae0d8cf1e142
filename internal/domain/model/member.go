package model

// Member identifies a single account scraped from the source group.
// AccessHash is the session-bound handle the privileged client needs to
// reference the user in later calls; it is opaque to everything else.
// Members are immutable once scraped and compared by UserID only.
type Member struct {
	UserID     int64
	Username   string
	AccessHash int64
}
