package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/bsthun/gut"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go.scnd.dev/open/treewatch/package/span"
	"go.scnd.dev/open/treewatch/package/telemetry"
	"go.scnd.dev/open/treewatch/procedure/watcher"
)

const DefaultPath = "treewatch.yml"

type Config struct {
	Document  *string           `yaml:"document"`
	Root      *string           `yaml:"root"`
	Selection *Selection        `yaml:"selection"`
	Collision *string           `yaml:"collision" validate:"omitempty,oneof=overwrite skip confirm"`
	Dedupe    *time.Duration    `yaml:"dedupe" validate:"omitempty,gte=0"`
	Telemetry *telemetry.Config `yaml:"telemetry"`
}

type Selection struct {
	Policy *string `yaml:"policy" validate:"omitempty,oneof=prompt top parent"`
	Parent *string `yaml:"parent"`
}

// Settings is the merged view of flags, configuration file and defaults.
type Settings struct {
	Document  string        `validate:"required"`
	Root      string        `validate:"-"`
	Policy    string        `validate:"oneof=prompt top parent"`
	Parent    string        `validate:"required_if=Policy parent"`
	Collision string        `validate:"oneof=overwrite skip confirm"`
	Dedupe    time.Duration `validate:"gte=0"`
}

// Load reads the configuration file at path after loading .env into the
// environment. A missing file yields an empty configuration.
func Load(path string) (*Config, error) {
	// * load dotenv
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, span.NewError(nil, "unable to read .env file", err)
	}

	// * read config file
	config := new(Config)
	bytes, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, span.NewError(nil, "unable to read configuration file", err)
	}

	return Parse(bytes)
}

func Parse(bytes []byte) (*Config, error) {
	// * process template replacements
	templated, err := Template(bytes)
	if err != nil {
		return nil, span.NewError(nil, "error processing templates", err)
	}

	// * parse config
	config := new(Config)
	if err := yaml.Unmarshal(templated, config); err != nil {
		return nil, span.NewError(nil, "unable to parse configuration file", err)
	}

	// * validate config
	if err := gut.Validate(config); err != nil {
		return nil, span.NewError(nil, "invalid configuration", Describe(err))
	}

	return config, nil
}

// Settings merges overrides, typically command line flags, over the file values
// and the built-in defaults. Empty override fields are treated as unset; Dedupe
// is taken from the file only, callers apply an explicit flag afterwards.
func (r *Config) Settings(overrides Settings) Settings {
	var policy, parent *string
	if r.Selection != nil {
		policy = r.Selection.Policy
		parent = r.Selection.Parent
	}

	settings := Settings{
		Document:  pick(overrides.Document, r.Document, ""),
		Root:      pick(overrides.Root, r.Root, ""),
		Policy:    pick(overrides.Policy, policy, "prompt"),
		Parent:    pick(overrides.Parent, parent, ""),
		Collision: pick(overrides.Collision, r.Collision, "overwrite"),
		Dedupe:    watcher.DefaultDedupe,
	}

	if r.Dedupe != nil {
		settings.Dedupe = *r.Dedupe
	}

	return settings
}

func (r Settings) Validate() error {
	if err := gut.Validate(&r); err != nil {
		return span.NewError(nil, "invalid settings", Describe(err))
	}
	return nil
}

func pick(override string, file *string, fallback string) string {
	if override != "" {
		return override
	}
	if file != nil && *file != "" {
		return *file
	}
	return fallback
}

// Describe flattens validator errors into one readable line.
func Describe(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Param() != "" {
			messages = append(messages, fmt.Sprintf("%s must satisfy %s=%s", e.Namespace(), e.Tag(), e.Param()))
		} else {
			messages = append(messages, fmt.Sprintf("%s must satisfy %s", e.Namespace(), e.Tag()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}

var templateRegex = regexp.MustCompile(`\{\{\s*([^}]+)\s*}}`)

// Template replaces {{ env.NAME || fallback }} expressions. Each alternative is
// tried in order: environment variables when set and non-empty, otherwise a
// literal (JSON literals are converted to YAML).
func Template(bytes []byte) ([]byte, error) {
	processed := templateRegex.ReplaceAllFunc(bytes, func(match []byte) []byte {
		// * extract content inside braces
		content := strings.TrimSpace(string(match[2 : len(match)-2]))

		// * check each alternative
		for _, part := range strings.Split(content, "||") {
			part = strings.TrimSpace(part)
			if strings.HasPrefix(part, "env.") {
				if value := os.Getenv(strings.TrimPrefix(part, "env.")); value != "" {
					return []byte(value)
				}
			} else if part != "" {
				value, err := Nested(part)
				if err != nil {
					return []byte(part)
				}
				return []byte(value)
			}
		}

		return []byte("")
	})

	return processed, nil
}

func Nested(value string) (string, error) {
	// * try to parse as json
	var result any
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return "", err
	}

	// * convert back to yaml
	bytes, err := yaml.Marshal(result)
	if err != nil {
		return "", err
	}

	return strings.TrimSuffix(string(bytes), "\n"), nil
}
