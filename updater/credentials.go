package updater

import (
	"context"
	"net/netip"
	"regexp"

	"dyndns/log"
)

const minCredentialLength = 4

// domainPattern: dot-separated labels of up to 63 alphanumeric or hyphen
// characters, not starting with a digit or hyphen, ending in an alphabetic
// TLD of at least two characters.
var domainPattern = regexp.MustCompile(`^(?:[a-zA-Z][a-zA-Z0-9-]{0,62}\.)+[a-zA-Z]{2,}$`)

// applyCredentials adopts and validates fields that differ from the stored
// ones. A validation failure halts polling until corrected credentials come
// in; a change that fixes previously invalid credentials resumes polling and
// checks the public IP right away.
func (c *Client) applyCredentials(ctx context.Context, next Credentials) {
	if c.state == StateFatal {
		return
	}

	changed := false

	if c.creds.Provider != next.Provider {
		c.creds.Provider = next.Provider
		changed = true
	}

	if c.creds.Domain != next.Domain {
		c.creds.Domain = next.Domain
		if !domainPattern.MatchString(next.Domain) {
			c.rejectCredentials(ctx, "supplied domain name is invalid", "domain", next.Domain)
			return
		}
		changed = true
	}

	if c.creds.Username != next.Username {
		c.creds.Username = next.Username
		if len(next.Username) < minCredentialLength {
			c.rejectCredentials(ctx, "supplied username is too short")
			return
		}
		changed = true
	}

	if c.creds.Password != next.Password {
		c.creds.Password = next.Password
		if len(next.Password) < minCredentialLength {
			c.rejectCredentials(ctx, "supplied password is too short")
			return
		}
		changed = true
	}

	if changed && c.state == StateCredentialsInvalid {
		log.S(ctx).Infow("credentials changed, resuming dynamic DNS updates")
		c.state = StateOperational
		c.startTimer()
		c.checkPublicIP(ctx)
	}
}

func (c *Client) rejectCredentials(ctx context.Context, reason string, fields ...interface{}) {
	log.S(ctx).Errorw(reason, fields...)
	c.lastIP = netip.Addr{}
	c.stopTimer()
	c.state = StateCredentialsInvalid
}
