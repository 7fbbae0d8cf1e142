package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotAuthorized     = errors.New("user is not an admin")
	ErrJobAlreadyRunning = errors.New("requester already has a running transfer job")
	ErrSetupIncomplete   = errors.New("transfer setup is missing source or target")

	// Privileged-client errors. AccessDenied and GroupNotFound abort a job
	// before any member is attempted; LostTargetPermission aborts mid-run and
	// keeps the outcomes recorded so far.
	ErrAccessDenied         = errors.New("no permission to list members of the source group")
	ErrGroupNotFound        = errors.New("group not found")
	ErrLostTargetPermission = errors.New("lost invite permission on the target group")
)
