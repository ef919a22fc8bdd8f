package updater

import (
	"context"
	"net/netip"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"dyndns/log"
)

// echoPattern extracts the address from the echo service response body.
var echoPattern = regexp.MustCompile(`Current IP Address:\s+([^<]+)</body>`)

// Run drives the client until ctx is cancelled, then persists the snapshot.
func (c *Client) Run(ctx context.Context) error {
	ctx = log.SWith(ctx, log.Stage("ddns"))

	c.ticker = time.NewTicker(c.interval)
	defer c.ticker.Stop()
	if !c.timerRunning {
		c.ticker.Stop()
	}

	// Avoid flooding after a restart: only check right away when the saved
	// check time is missing or already older than the interval.
	if c.timerRunning && (c.lastCheck.IsZero() || time.Since(c.lastCheck) >= c.interval) {
		c.checkPublicIP(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			snap := Snapshot{LastIP: c.lastIP, LastChecked: c.lastCheck}
			if err := c.store.SaveSnapshot(context.WithoutCancel(ctx), snap); err != nil {
				log.S(ctx).Errorw("failed saving state", zap.Error(err))
			}
			return ctx.Err()

		case <-c.ticker.C:
			// A stopped ticker can still deliver one buffered tick.
			if c.state != StateOperational {
				continue
			}
			c.checkPublicIP(ctx)

		case r := <-c.discoveryc:
			c.handleDiscovery(ctx, r)

		case r := <-c.updatec:
			c.handleUpdate(ctx, r)

		case <-c.refreshc:
			creds, err := c.store.Credentials(ctx)
			if err != nil {
				log.S(ctx).Errorw("failed reloading credentials", zap.Error(err))
				continue
			}
			c.applyCredentials(ctx, creds)
		}
	}
}

// RefreshCredentials asks the event loop to re-read credentials from the
// store. Safe to call from any goroutine.
func (c *Client) RefreshCredentials() {
	select {
	case c.refreshc <- struct{}{}:
	default:
	}
}

// checkPublicIP issues one discovery request to the echo service. Only the
// event loop may call it, and only while the client is operational.
func (c *Client) checkPublicIP(ctx context.Context) {
	if c.state != StateOperational {
		log.S(ctx).Errorw("public IP check requested while not operational",
			"state", c.state, log.Internal)
		return
	}

	c.lastCheck = time.Now()
	c.fetch(ctx, c.echoURL, c.discoveryc)
}

func (c *Client) fetch(ctx context.Context, url string, resultc chan<- downloadResult) {
	go func() {
		data, err := c.downloader.Download(ctx, url, c.userAgent)
		select {
		case resultc <- downloadResult{data: data, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (c *Client) handleDiscovery(ctx context.Context, r downloadResult) {
	if r.err != nil {
		log.S(ctx).Warnw("public IP request failed", zap.Error(r.err))
		return
	}

	m := echoPattern.FindSubmatch(r.data)
	if m == nil {
		log.S(ctx).Warnw("no IP found in echo response", log.ByteField("body", r.data))
		return
	}

	ipString := strings.TrimSpace(string(m[1]))
	ip, err := netip.ParseAddr(ipString)
	if err != nil {
		log.S(ctx).Warnw("bad IP in echo response", "ip", ipString, zap.Error(err))
		return
	}

	if c.lastIP == ip {
		log.S(ctx).Debugw("public IP unchanged", log.IP(ip))
		return
	}

	log.S(ctx).Infow("public IP changed, updating the DNS record",
		log.IP(ip), "old_ip", c.lastIP.String())
	c.lastIP = ip
	c.updateRecord(ctx)
}

// updateRecord issues one update request to the provider for the current IP.
func (c *Client) updateRecord(ctx context.Context) {
	if !c.lastIP.IsValid() {
		log.S(ctx).Errorw("record update requested without a known IP", log.Internal)
		return
	}

	u, err := c.updateURL()
	if err != nil {
		log.S(ctx).Errorw("cannot build update URL", zap.Error(err), log.Internal)
		return
	}

	c.lastCheck = time.Now()
	c.fetch(ctx, u, c.updatec)
}

func (c *Client) stopTimer() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
	c.timerRunning = false
}

func (c *Client) startTimer() {
	if c.ticker != nil {
		c.ticker.Reset(c.interval)
	}
	c.timerRunning = true
}
