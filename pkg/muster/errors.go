package muster

import "errors"

// Failure taxonomy shared by every command. Callers wrap these with
// fmt.Errorf("%w: ...") so errors.Is keeps working across layers; the
// Discord layer maps each sentinel to a user-facing reply.
var (
	// ErrNotFound indicates a message or channel that could not be located.
	ErrNotFound = errors.New("not found")

	// ErrPermission indicates the bot has no access to the target channel.
	ErrPermission = errors.New("no permission")

	// ErrFormat indicates malformed input (message link, mention block,
	// roster text).
	ErrFormat = errors.New("malformed input")

	// ErrUpstream indicates a collaborator fetch (Discord API, dashboard)
	// failed for an unspecified reason.
	ErrUpstream = errors.New("upstream failure")
)
