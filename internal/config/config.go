package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables mapped onto flags: GEOLOCATOR_TARGET_CRS sets --target-crs
const EnvPrefix = "GEOLOCATOR_"

// Values maps flag names to their configured value in textual form
type Values map[string]string

// Keys returns the configured flag names in lexical order
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadFile reads a YAML (.yaml, .yml) or TOML (.toml) file of flag values.
// Nested tables are flattened with dashes, so [cache] size = 1 sets --cache-size.
func LoadFile(path string) (Values, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := map[string]interface{}{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &doc)
	case ".toml":
		err = toml.Unmarshal(raw, &doc)
	default:
		return nil, fmt.Errorf("%s: unsupported config format, use .yaml, .yml or .toml", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	values := Values{}
	if err := flatten(values, "", doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

func flatten(out Values, prefix string, doc map[string]interface{}) error {
	for key, value := range doc {
		name := normalizeKey(key)
		if prefix != "" {
			name = prefix + "-" + name
		}
		switch v := value.(type) {
		case map[string]interface{}:
			if err := flatten(out, name, v); err != nil {
				return err
			}
		case []interface{}:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = fmt.Sprint(item)
			}
			out[name] = strings.Join(items, ",")
		case nil:
		default:
			out[name] = fmt.Sprint(v)
		}
	}
	return nil
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "_", "-")
}

// LoadEnvFile adds the variables of a .env file to the process environment.
// Variables already set are left untouched.
func LoadEnvFile(path string) error {
	return godotenv.Load(path)
}

// FromEnvironment picks the GEOLOCATOR_* entries of environ, as returned by os.Environ
func FromEnvironment(environ []string) Values {
	values := Values{}
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		name := normalizeKey(strings.TrimPrefix(key, EnvPrefix))
		if name != "" {
			values[name] = value
		}
	}
	return values
}

// NewResolver serves flag values from layers, the first layer holding a value wins.
// Flags given on the command line always take precedence over resolved values.
func NewResolver(layers ...Values) kong.Resolver {
	return kong.ResolverFunc(func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (interface{}, error) {
		for _, layer := range layers {
			if value, ok := layer[flag.Name]; ok {
				return value, nil
			}
		}
		return nil, nil
	})
}

// ScanArgs finds the --config and --env-file flags ahead of the actual parsing,
// since their content feeds the parser
func ScanArgs(args []string) (configFile string, envFile string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		for _, name := range []string{"--config", "-c", "--env-file"} {
			value, found := "", false
			if arg == name && i+1 < len(args) {
				value, found = args[i+1], true
			} else if strings.HasPrefix(arg, name+"=") {
				value, found = strings.TrimPrefix(arg, name+"="), true
			}
			if !found {
				continue
			}
			if name == "--env-file" {
				envFile = value
			} else {
				configFile = value
			}
		}
	}
	return configFile, envFile
}
