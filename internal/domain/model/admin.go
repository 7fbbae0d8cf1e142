package model

import "time"

// Admin is one entry of the allow-list that gates every bot command.
type Admin struct {
	UserID    int64
	Username  string
	FirstName string
	AddedBy   int64
	AddedAt   time.Time
}
