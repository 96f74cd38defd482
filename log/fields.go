package log

import (
	"go.uber.org/zap"
)

// field constructors re-exported so callers don't need to import zap
var (
	Any      = zap.Any
	Bool     = zap.Bool
	Duration = zap.Duration
	Float64  = zap.Float64
	Int      = zap.Int
	Int32    = zap.Int32
	Int64    = zap.Int64
	String   = zap.String
	Strings  = zap.Strings
	Stringer = zap.Stringer
	Uint     = zap.Uint
	Time     = zap.Time
)

// ErrorField adds err under the key "error"
func ErrorField(err error) Field {
	return zap.Error(err)
}
