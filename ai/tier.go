package ai

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTier = errors.New("unknown difficulty")

// Tier is how well a computer seat plays
type Tier int

const (
	Easy Tier = iota
	Normal
	Expert
)

var tierNames = []string{"easy", "normal", "expert"}

var nameToTier = map[string]Tier{
	"easy":    Easy,
	"facil":   Easy,
	"normal":  Normal,
	"expert":  Expert,
	"experta": Expert,
}

func (t Tier) String() string {
	if t < Easy || t > Expert {
		return "unknown"
	}
	return tierNames[t]
}

// ParseTier accepts a difficulty name. The empty string means Normal.
func ParseTier(name string) (Tier, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Normal, nil
	}
	t, ok := nameToTier[name]
	if !ok {
		return Normal, fmt.Errorf("%w: %q", ErrUnknownTier, name)
	}
	return t, nil
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
