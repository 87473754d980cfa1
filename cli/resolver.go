package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/konst/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The YAML document is converted as follows:
//   - Nested mappings are flattened, joining keys with hyphens, so that
//     log: {level: debug} sets --log-level
//   - Underscores in keys are read as hyphens, so log_level sets --log-level
//   - Numbers are converted to strings for Kong to parse
//   - Sequences are joined with commas
//
// Example config file:
//
//	log:
//	  level: debug
//	  format: json
//	max-depth: 200
//	cache: false
//
// Command-line flags override config file values. A file that does not parse
// is logged and otherwise ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var doc map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
			log.WarnContext(ctx, "ignoring invalid config file", slog.Any("error", err))

			return config{}, nil
		}

		c := make(config)
		c.flatten("", doc)

		log.DebugContext(ctx, "config loaded", slog.Int("keys", len(c)))

		return c, nil
	}
}

// config implements [kong.Resolver] for flattened YAML configs.
type config map[string]any

// flatten stores each leaf of m in c under its hyphen-joined key path.
// Underscores in keys are stored as hyphens.
func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := value.(type) {
		case map[string]any:
			c.flatten(key, v)

		case map[any]any:
			nested := make(map[string]any, len(v))
			for k, nv := range v {
				nested[fmt.Sprint(k)] = nv
			}

			c.flatten(key, nested)

		default:
			c[key] = scalar(v)
		}
	}
}

// scalar converts a decoded YAML value to a form Kong can parse.
func scalar(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(scalar(item))
		}

		return strings.Join(items, ",")
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
