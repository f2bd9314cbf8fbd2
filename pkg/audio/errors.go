// ABOUTME: Shared error taxonomy for audio operations
// ABOUTME: Sentinel errors wrapped by packages across the module
package audio

import "errors"

var (
	// ErrFormat indicates an unsupported or corrupt audio format.
	ErrFormat = errors.New("audio: unsupported or corrupt format")

	// ErrInvalidParameter indicates an out-of-range caller parameter.
	ErrInvalidParameter = errors.New("audio: invalid parameter")

	// ErrInvalidInput indicates input data violating an operation's contract.
	ErrInvalidInput = errors.New("audio: invalid input")

	// ErrInvalidState indicates an operation not valid in the current state,
	// such as retargeting an engine that is still playing.
	ErrInvalidState = errors.New("audio: invalid state")

	// ErrDevice indicates the output device rejected or failed a write.
	ErrDevice = errors.New("audio: device error")
)
