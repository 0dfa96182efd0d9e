// Package featureflags evaluates flags from a comma-separated env string,
// with deterministic percentage rollouts keyed on the viewer's user ID.
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Manager holds parsed flag settings. The raw form is
// "nearby_cache=on,feed_cache=25%,legacy_feed=off".
type Manager struct {
	settings map[string]setting
}

type setting struct {
	state   state
	percent int
}

type state int

const (
	stateOff state = iota
	stateOn
	statePercent
)

// NewManager parses the config string. Malformed entries are skipped
// rather than failing startup; an unset flag evaluates to off.
func NewManager(raw string) *Manager {
	m := &Manager{settings: make(map[string]setting)}

	for _, entry := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok {
			continue
		}
		name = canon(name)
		if name == "" {
			continue
		}
		if s, ok := parseSetting(canon(value)); ok {
			m.settings[name] = s
		}
	}

	return m
}

func parseSetting(value string) (setting, bool) {
	switch value {
	case "on", "true", "1":
		return setting{state: stateOn}, true
	case "off", "false", "0":
		return setting{state: stateOff}, true
	}
	if pct, found := strings.CutSuffix(value, "%"); found {
		n, err := strconv.Atoi(pct)
		if err != nil {
			return setting{}, false
		}
		switch {
		case n <= 0:
			return setting{state: stateOff}, true
		case n >= 100:
			return setting{state: stateOn}, true
		}
		return setting{state: statePercent, percent: n}, true
	}
	return setting{}, false
}

// Enabled reports whether the named flag is on for the given user.
// Percentage rollouts hash the flag name with the user ID, so a user's
// bucket is stable across requests; anonymous users never fall inside
// a partial rollout.
func (m *Manager) Enabled(name, userID string) bool {
	if m == nil {
		return false
	}

	s, ok := m.settings[canon(name)]
	if !ok {
		return false
	}

	switch s.state {
	case stateOn:
		return true
	case statePercent:
		if userID == "" {
			return false
		}
		return bucket(canon(name), userID) < s.percent
	default:
		return false
	}
}

// Snapshot evaluates every configured flag for one user.
func (m *Manager) Snapshot(userID string) map[string]bool {
	out := make(map[string]bool, len(m.settings))
	for name := range m.settings {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func canon(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name, userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % 100)
}
