package form

import (
	"errors"
	"fmt"
	"strings"
)

// Provider is a social login option, fixed when the button is built.
type Provider int

const (
	ProviderGoogle Provider = iota + 1
	ProviderGitHub
)

var ErrUnknownProvider = errors.New("unknown provider")

func (p Provider) String() string {
	switch p {
	case ProviderGoogle:
		return "Google"
	case ProviderGitHub:
		return "GitHub"
	default:
		return ""
	}
}

// ParseProvider accepts the provider name in any case.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "google":
		return ProviderGoogle, nil
	case "github":
		return ProviderGitHub, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProvider, s)
}
