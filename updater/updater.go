// Package updater implements the dynamic DNS update client: it watches the
// host's public IP through an external echo service and pushes changes to the
// configured provider using the dyn plaintext update protocol.
package updater

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"go.uber.org/zap"

	"dyndns/common"
	"dyndns/log"
)

const (
	DefaultCheckInterval = 30 * time.Minute
	DefaultEchoURL       = "http://checkip.dyndns.org"
)

// State is the client's operational state. The polling timer only runs while
// the client is Operational.
type State int

const (
	StateOperational State = iota
	StateCredentialsInvalid
	StateFatal
)

func (s State) String() string {
	switch s {
	case StateOperational:
		return "operational"
	case StateCredentialsInvalid:
		return "credentials-invalid"
	case StateFatal:
		return "fatal"
	default:
		return fmt.Sprintf("unknown<%d>", int(s))
	}
}

// Credentials selects the provider and carries the account used for updates.
type Credentials struct {
	Provider common.Provider
	Domain   string
	Username string
	Password string
}

// Snapshot is the state persisted across sessions to avoid flooding the echo
// service with discovery requests right after a restart.
type Snapshot struct {
	LastIP      netip.Addr
	LastChecked time.Time
}

// Downloader performs one HTTP GET. The client runs it from a goroutine and
// feeds the result back into its event loop.
type Downloader interface {
	Download(ctx context.Context, url, userAgent string) ([]byte, error)
}

// Store supplies credentials and persists the client snapshot. Credentials is
// consulted again on every refresh, so implementations should re-read their
// backing source.
type Store interface {
	Credentials(ctx context.Context) (Credentials, error)
	LoadSnapshot(ctx context.Context) (Snapshot, error)
	SaveSnapshot(ctx context.Context, snap Snapshot) error
}

type Config struct {
	CheckInterval time.Duration
	EchoURL       string
	UserAgent     string
}

type downloadResult struct {
	data []byte
	err  error
}

// Client tracks the last observed public IP and drives provider updates when
// it changes. All mutable state is owned by the Run event loop; the exported
// methods other than Run only signal the loop.
type Client struct {
	downloader Downloader
	store      Store

	interval  time.Duration
	echoURL   string
	userAgent string

	state     State
	creds     Credentials
	lastIP    netip.Addr
	lastCheck time.Time

	ticker       *time.Ticker
	timerRunning bool

	discoveryc chan downloadResult
	updatec    chan downloadResult
	refreshc   chan struct{}
}

func New(ctx context.Context, cfg Config, d Downloader, s Store) (*Client, error) {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	if cfg.EchoURL == "" {
		cfg.EchoURL = DefaultEchoURL
	}

	c := &Client{
		downloader:   d,
		store:        s,
		interval:     cfg.CheckInterval,
		echoURL:      cfg.EchoURL,
		userAgent:    cfg.UserAgent,
		state:        StateOperational,
		timerRunning: true,
		discoveryc:   make(chan downloadResult, 1),
		updatec:      make(chan downloadResult, 1),
		refreshc:     make(chan struct{}, 1),
	}

	creds, err := s.Credentials(ctx)
	if err != nil {
		log.S(ctx).Errorw("failed loading credentials", zap.Error(err))
		return nil, fmt.Errorf("failed loading credentials: %w", err)
	}
	c.applyCredentials(ctx, creds)

	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		log.S(ctx).Warnw("failed loading saved state, starting fresh", zap.Error(err))
	} else {
		c.lastIP = snap.LastIP
		c.lastCheck = snap.LastChecked
	}

	return c, nil
}
