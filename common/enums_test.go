package common

import (
	"testing"
	"time"
)

func TestProviderUnmarshalText(t *testing.T) {
	tests := []struct {
		text    string
		want    Provider
		wantErr bool
	}{
		{"", ProviderNone, false},
		{"none", ProviderNone, false},
		{"dyndns", ProviderDynDNS, false},
		{"DynDNS", ProviderDynDNS, false},
		{"dyn", ProviderDynDNS, false},
		{"noip", ProviderNoIP, false},
		{"no-ip", ProviderNoIP, false},
		{"cloudflare", ProviderNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var p Provider
			err := p.UnmarshalText([]byte(tt.text))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err == nil && p != tt.want {
				t.Errorf("got %s, want %s", p, tt.want)
			}
		})
	}
}

func TestDurationUnmarshalText(t *testing.T) {
	tests := []struct {
		text    string
		want    time.Duration
		wantErr bool
	}{
		{"30m", 30 * time.Minute, false},
		{"1h30m", 90 * time.Minute, false},
		{"10s", 10 * time.Second, false},
		{"-5s", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.text))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err == nil && time.Duration(d) != tt.want {
				t.Errorf("got %s, want %s", time.Duration(d), tt.want)
			}
		})
	}
}
