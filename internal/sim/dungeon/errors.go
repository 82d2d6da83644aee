package dungeon

import (
	"errors"
	"fmt"

	"chaindepth.gg/internal/protocol"
)

// Error is an action-level failure with a stable protocol code. Handlers
// return it instead of mutating anything; the dispatcher turns it into an
// ACTION_RESULT event.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func errf(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the protocol code from an error, mapping anything foreign
// to E_INTERNAL so clients never see an unknown kind.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) && protocol.IsKnownCode(e.Code) {
		return e.Code
	}
	return protocol.ErrInternal
}
