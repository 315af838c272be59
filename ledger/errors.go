package ledger

import "errors"

var (
	ErrActorNotFound    = errors.New("ledger: actor not found")
	ErrUnknownCategory  = errors.New("ledger: unknown history category")
	ErrNotPending       = errors.New("ledger: submission is not pending")
	ErrNotApproved      = errors.New("ledger: submission is not approved")
	ErrTaskNotAvailable = errors.New("ledger: task is not available for submission")
	ErrQuizNotAvailable = errors.New("ledger: quiz is not open for attempts")
	ErrQuizAttempted    = errors.New("ledger: quiz already attempted")
	ErrDayLocked        = errors.New("ledger: attendance day is locked")
	ErrBadConfirmation  = errors.New("ledger: confirmation phrase mismatch")
	ErrNothingSelected  = errors.New("ledger: no reset category selected")
)
