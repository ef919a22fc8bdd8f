// Package store persists the update client's snapshot between sessions and
// supplies credentials read from the config file.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"dyndns/config"
	"dyndns/log"
	"dyndns/updater"
)

type File struct {
	configPath string
	statePath  string
	password   string
}

type Option func(*File)

// WithPassword supplies a password collected outside the config file, used
// when the file itself leaves the password empty.
func WithPassword(password string) Option {
	return func(f *File) { f.password = password }
}

func New(configPath, statePath string, opts ...Option) *File {
	f := &File{configPath: configPath, statePath: statePath}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Credentials re-reads the config file so that edits made while the client is
// running are picked up on the next refresh.
func (f *File) Credentials(ctx context.Context) (updater.Credentials, error) {
	conf, err := config.Load(f.configPath)
	if err != nil {
		log.S(ctx).Errorw("failed reading config", zap.Error(err), "path", f.configPath)
		return updater.Credentials{}, fmt.Errorf("failed reading config: %w", err)
	}

	creds := updater.Credentials{
		Provider: conf.Account.Service,
		Domain:   conf.Account.Domain,
		Username: conf.Account.Username,
		Password: conf.Account.Password,
	}
	if creds.Password == "" {
		creds.Password = f.password
	}

	return creds, nil
}

type snapshotFile struct {
	LastIP      string    `json:"last_ip,omitempty"`
	LastChecked time.Time `json:"last_checked"`
}

func (f *File) LoadSnapshot(ctx context.Context) (updater.Snapshot, error) {
	data, err := os.ReadFile(f.statePath)
	if errors.Is(err, fs.ErrNotExist) {
		log.S(ctx).Debugw("no saved state", "path", f.statePath)
		return updater.Snapshot{}, nil
	}
	if err != nil {
		return updater.Snapshot{}, fmt.Errorf("failed reading state: %w", err)
	}

	var sf snapshotFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return updater.Snapshot{}, fmt.Errorf("failed decoding state: %w", err)
	}

	snap := updater.Snapshot{LastChecked: sf.LastChecked}
	if sf.LastIP != "" {
		ip, err := netip.ParseAddr(sf.LastIP)
		if err != nil {
			log.S(ctx).Warnw("bad IP in saved state, ignoring", "ip", sf.LastIP, zap.Error(err))
		} else {
			snap.LastIP = ip
		}
	}

	return snap, nil
}

func (f *File) SaveSnapshot(ctx context.Context, snap updater.Snapshot) error {
	sf := snapshotFile{LastChecked: snap.LastChecked}
	if snap.LastIP.IsValid() {
		sf.LastIP = snap.LastIP.String()
	}

	data, err := json.Marshal(sf)
	if err != nil {
		return fmt.Errorf("failed encoding state: %w", err)
	}

	if err := os.WriteFile(f.statePath, data, 0o600); err != nil {
		return fmt.Errorf("failed writing state: %w", err)
	}

	log.S(ctx).Debugw("state saved", "path", f.statePath)
	return nil
}
