package storage

import "errors"

// ErrAccountNotFound is returned when a designated account does not exist or
// belongs to a different org.
var ErrAccountNotFound = errors.New("designated account not found")

// ErrBalanceConflict is returned when a credit loses the optimistic check on
// the account balance to a concurrent writer.
var ErrBalanceConflict = errors.New("designated account balance changed concurrently")

// ErrAlertAlreadyOpen is returned when an open alert of the same (org, type)
// already exists.
var ErrAlertAlreadyOpen = errors.New("alert of this type is already open")

// ErrNoOpenAlert is returned by Resolve when there is no open alert of the
// requested type.
var ErrNoOpenAlert = errors.New("no open alert of this type")

// ErrAttemptClaimed is returned when a payment attempt was claimed by a
// concurrent scheduler instance since it was read.
var ErrAttemptClaimed = errors.New("payment attempt already claimed")

// ErrArtifactNotFound is returned when an evidence artifact does not exist.
var ErrArtifactNotFound = errors.New("evidence artifact not found")

// ErrArtifactSealed is returned when sealing an artifact that already has a
// WORM URI assigned.
var ErrArtifactSealed = errors.New("evidence artifact already sealed")
