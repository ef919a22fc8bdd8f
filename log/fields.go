package log

import (
	"net/netip"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Internal marks the error severe, due to issues in code.
	Internal = zap.String("severe_error", "internal")
)

func ByteField(key string, data []byte) zap.Field {
	if utf8.Valid(data) {
		return zap.ByteString(key, data)
	} else {
		return zap.Binary(key, data)
	}
}

func IP(ip netip.Addr) zap.Field {
	return zap.Stringer("ip", ip)
}

func Code(code string) zap.Field {
	return zap.String("code", code)
}

func Stage(stage string) zap.Field {
	return zap.String("stage", stage)
}

type elapsed struct {
	t   time.Time
	key string
}

func (v *elapsed) MarshalLogObject(e zapcore.ObjectEncoder) error {
	e.AddDuration(v.key, time.Since(v.t))
	return nil
}

// Elapsed records the duration between the field creation and the log call.
func Elapsed(key string) zap.Field {
	return zap.Inline(&elapsed{
		t:   time.Now(),
		key: key,
	})
}
