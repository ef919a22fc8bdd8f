package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dyndns/common"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[service]
name = "home"
check_interval = "45m"

[account]
service = "noip"
domain = "host.example.com"
username = "user1"
password = "hunter2"

[echo]
url = "http://checkip.example.net"

[download]
config = { timeout = "10s", max_read = 2048 }

[state]
path = "/var/lib/dyndnsd/state.json"
`)

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %s", err)
	}

	if conf.Service.Name != "home" {
		t.Errorf("Service.Name = %q", conf.Service.Name)
	}
	if got := time.Duration(conf.Service.CheckInterval); got != 45*time.Minute {
		t.Errorf("CheckInterval = %s, want 45m", got)
	}
	if conf.Account.Service != common.ProviderNoIP {
		t.Errorf("Account.Service = %s, want noip", conf.Account.Service)
	}
	if conf.Account.Domain != "host.example.com" || conf.Account.Username != "user1" || conf.Account.Password != "hunter2" {
		t.Errorf("unexpected account: %+v", conf.Account)
	}
	if conf.Echo.URL != "http://checkip.example.net" {
		t.Errorf("Echo.URL = %q", conf.Echo.URL)
	}
	if conf.Download.Config["timeout"] != "10s" {
		t.Errorf("Download.Config = %+v", conf.Download.Config)
	}
	if conf.State.Path != "/var/lib/dyndnsd/state.json" {
		t.Errorf("State.Path = %q", conf.State.Path)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "service": {"name": "home", "check_interval": "1h"},
  "account": {"service": "dyndns", "domain": "host.example.com", "username": "user1", "password": "hunter2"}
}`)

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %s", err)
	}
	if conf.Account.Service != common.ProviderDynDNS {
		t.Errorf("Account.Service = %s, want dyndns", conf.Account.Service)
	}
	if got := time.Duration(conf.Service.CheckInterval); got != time.Hour {
		t.Errorf("CheckInterval = %s, want 1h", got)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
account:
  domain: host.example.com
  username: user1
  password: hunter2
echo:
  url: http://checkip.example.net
`)

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %s", err)
	}
	if conf.Account.Domain != "host.example.com" {
		t.Errorf("Account.Domain = %q", conf.Account.Domain)
	}
	if conf.Echo.URL != "http://checkip.example.net" {
		t.Errorf("Echo.URL = %q", conf.Echo.URL)
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	path := writeConfig(t, "config.ini", "account=none")

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
