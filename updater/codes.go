package updater

import (
	"context"
	"net/netip"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dyndns/log"
)

// updateResponse describes how one provider response code affects the client:
// what to log, whether the cached IP is invalidated, and whether polling halts
// with a state transition. Transient failures (911, dnserr) keep the timer
// running so they can self-resolve; credential and policy errors halt polling
// until the user corrects the configuration.
type updateResponse struct {
	message    string
	level      zapcore.Level
	next       State
	transition bool
	halt       bool
	clearIP    bool
}

var updateResponses = map[string]updateResponse{
	"good": {
		message: "dynamic DNS record was successfully updated",
		level:   zapcore.InfoLevel,
	},
	"nochg": {
		message: "dynamic DNS record was successfully updated",
		level:   zapcore.InfoLevel,
	},
	"911": {
		message: "service is temporarily unavailable, update will be retried",
		level:   zapcore.ErrorLevel,
		clearIP: true,
	},
	"dnserr": {
		message: "service is temporarily unavailable, update will be retried",
		level:   zapcore.ErrorLevel,
		clearIP: true,
	},
	"nohost": {
		message:    "hostname supplied does not exist under specified account",
		level:      zapcore.ErrorLevel,
		next:       StateCredentialsInvalid,
		transition: true,
		halt:       true,
		clearIP:    true,
	},
	"badauth": {
		message:    "invalid username or password",
		level:      zapcore.ErrorLevel,
		next:       StateCredentialsInvalid,
		transition: true,
		halt:       true,
		clearIP:    true,
	},
	"badagent": {
		message:    "this client was blacklisted by the service",
		level:      zapcore.ErrorLevel,
		next:       StateFatal,
		transition: true,
		halt:       true,
		clearIP:    true,
	},
	"!donator": {
		message:    "the update requires a paid account feature",
		level:      zapcore.ErrorLevel,
		next:       StateFatal,
		transition: true,
		halt:       true,
		clearIP:    true,
	},
	"abuse": {
		message:    "the username was blocked due to abuse",
		level:      zapcore.ErrorLevel,
		next:       StateFatal,
		transition: true,
		halt:       true,
		clearIP:    true,
	},
}

// handleUpdate interprets the first whitespace-delimited token of the
// provider's plaintext response.
func (c *Client) handleUpdate(ctx context.Context, r downloadResult) {
	if r.err != nil {
		log.S(ctx).Warnw("record update failed", zap.Error(r.err))
		return
	}

	fields := strings.Fields(string(r.data))
	if len(fields) == 0 {
		return
	}
	code := fields[0]

	resp, ok := updateResponses[code]
	if !ok {
		// codes outside the documented set are ignored
		return
	}

	if resp.level == zapcore.InfoLevel {
		log.S(ctx).Infow(resp.message, log.Code(code))
	} else {
		log.S(ctx).Errorw(resp.message, log.Code(code))
	}

	if resp.clearIP {
		c.lastIP = netip.Addr{}
	}
	if resp.halt {
		c.stopTimer()
	}
	if resp.transition {
		c.state = resp.next
	}
}
