package common

import (
	"errors"
	"fmt"
	"strings"
)

// Provider identifies a dynamic DNS service speaking the dyn update protocol.
type Provider int

const (
	ProviderNone Provider = iota
	ProviderDynDNS
	ProviderNoIP
)

func (p *Provider) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "", "none":
		*p = ProviderNone
	case "dyndns", "dyn":
		*p = ProviderDynDNS
	case "noip", "no-ip":
		*p = ProviderNoIP
	default:
		return errors.New("unknown dynamic DNS service")
	}
	return nil
}

func (p Provider) String() string {
	switch p {
	case ProviderNone:
		return "none"
	case ProviderDynDNS:
		return "dyndns"
	case ProviderNoIP:
		return "noip"
	default:
		return fmt.Sprintf("unknown<%d>", int(p))
	}
}
