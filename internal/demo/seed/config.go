package seed

import (
	"fmt"
	"strconv"
	"strings"
)

type LookupFunc func(string) (string, bool)

const (
	TargetObjectStore = "objectstore"
	TargetSQLite      = "sqlite"
	TargetPostgres    = "postgres"
)

type Config struct {
	Seed    int64
	Targets []string
}

func DefaultConfig() Config {
	return Config{
		Seed:    42,
		Targets: []string{TargetObjectStore},
	}
}

func LoadConfigFromEnv(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	cfg := DefaultConfig()
	if err := applyInt64(lookup, "AICHAT_SEED", &cfg.Seed); err != nil {
		return Config{}, err
	}
	var targets string
	if err := applyString(lookup, "AICHAT_SEED_TARGETS", &targets); err != nil {
		return Config{}, err
	}
	if targets != "" {
		parsed, err := ParseTargets(targets)
		if err != nil {
			return Config{}, err
		}
		cfg.Targets = parsed
	}
	return cfg, nil
}

// ParseTargets reads a comma separated target list, dropping duplicates.
func ParseTargets(raw string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		target := strings.ToLower(strings.TrimSpace(part))
		if target == "" {
			continue
		}
		switch target {
		case TargetObjectStore, TargetSQLite, TargetPostgres:
		default:
			return nil, fmt.Errorf("AICHAT_SEED_TARGETS: unknown target %q", target)
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("AICHAT_SEED_TARGETS must name at least one target")
	}
	return out, nil
}

func applyString(lookup LookupFunc, key string, dst *string) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	*dst = strings.TrimSpace(raw)
	return nil
}

func applyInt64(lookup LookupFunc, key string, dst *int64) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}
