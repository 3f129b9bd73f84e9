package domain

import "errors"

var (
	ErrGameNotFound = errors.New("game not found")
	ErrAppNotFound  = errors.New("managed application not found")
	// ErrWaitUnsupported signals that the native wait primitive was refused
	// for a process (not a child, or a privilege boundary); callers fall back
	// to interval polling.
	ErrWaitUnsupported = errors.New("native wait unsupported for this process")
	// ErrNotConnected signals a remote-control request outside the Ready state.
	ErrNotConnected = errors.New("remote control connection not ready")
)
