package handle

import (
	muerrors "github.com/mutools/mubundle/errors"
)

// Result is the enumerator form of a runtime outcome, for callers that want
// a compact code (or its debug name) instead of a structured error.
type Result uint8

const (
	ResultSuccess Result = iota
	ResultAlreadyInitialized
	ResultObjectsStillLive
	ResultOutOfMemory
	ResultInvalidHandle
	ResultNotInitialized
	ResultTerminated
	ResultUnknown
)

var resultNames = [...]string{
	ResultSuccess:            "MU_SUCCESS",
	ResultAlreadyInitialized: "MU_ALREADY_INITIALIZED",
	ResultObjectsStillLive:   "MU_OBJECTS_STILL_LIVE",
	ResultOutOfMemory:        "MU_OUT_OF_MEMORY",
	ResultInvalidHandle:      "MU_INVALID_HANDLE",
	ResultNotInitialized:     "MU_NOT_INITIALIZED",
	ResultTerminated:         "MU_TERMINATED",
	ResultUnknown:            "MU_UNKNOWN",
}

// String returns the enumerator's debug name.
func (r Result) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return "MU_UNKNOWN"
}

// ResultOf maps a runtime error to its result code. Nil maps to success and
// foreign errors to ResultUnknown.
func ResultOf(err error) Result {
	if err == nil {
		return ResultSuccess
	}
	switch muerrors.KindOf(err) {
	case muerrors.KindAlreadyInitialized:
		return ResultAlreadyInitialized
	case muerrors.KindObjectsStillLive:
		return ResultObjectsStillLive
	case muerrors.KindOutOfMemory:
		return ResultOutOfMemory
	case muerrors.KindInvalidHandle:
		return ResultInvalidHandle
	case muerrors.KindNotInitialized:
		return ResultNotInitialized
	case muerrors.KindTerminated:
		return ResultTerminated
	default:
		return ResultUnknown
	}
}
