package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"casereport/record"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	KeyStoragePath    = "storage.path"
	KeyBackendURL     = "backend.url"
	KeyBackendToken   = "backend.token"
	KeyBackendTimeout = "backend.timeout_seconds"
	KeyServerAddr     = "server.addr"
	KeyLogLevel       = "log.level"
	KeyRules          = "rules"
)

type Config struct {
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Backend BackendConfig `mapstructure:"backend"`
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Log     LogConfig     `mapstructure:"log"`
	Rules   []Rule        `mapstructure:"rules"`
}

type StorageConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// BackendConfig points the CLI at a remote report API instead of the local
// database. An empty URL means local storage.
type BackendConfig struct {
	URL            string `mapstructure:"url" validate:"omitempty,url"`
	Token          string `mapstructure:"token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Rule maps a file name glob to the file type used when an upload does not
// name one. FileType accepts the numeric id, the slug or the display name.
type Rule struct {
	Name         string `mapstructure:"name" yaml:"name"`
	FileTemplate string `mapstructure:"file_template" yaml:"file_template"`
	FileType     string `mapstructure:"file_type" yaml:"file_type"`
}

// RuleProblem is one validation failure of a single rule.
type RuleProblem struct {
	Index   int
	Name    string
	Field   string
	Message string
}

func (p RuleProblem) Error() string {
	return fmt.Sprintf("rules[%d].%s %s", p.Index, p.Field, p.Message)
}

// DefaultRules returns one rule per known file type, matching workbooks
// whose name starts with the type's display name.
func DefaultRules() []Rule {
	types := record.FileTypes()
	rules := make([]Rule, 0, len(types))
	for _, ft := range types {
		rules = append(rules, Rule{
			Name:         ft.Slug(),
			FileTemplate: ft.String() + "*.xlsx",
			FileType:     ft.Slug(),
		})
	}
	return rules
}

// RulesYAML renders rules as the rules block of a config file.
func RulesYAML(rules []Rule) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(struct {
		Rules []Rule `yaml:"rules"`
	}{Rules: rules}); err != nil {
		return "", fmt.Errorf("encode rules: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("encode rules: %w", err)
	}
	return buf.String(), nil
}

// Type returns the rule's file type, or zero when it does not parse.
func (r Rule) Type() record.FileType {
	ft, err := record.ParseFileType(r.FileType)
	if err != nil {
		return 0
	}
	return ft
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template with one rule per
// known file type.
func ExampleYAML() string {
	rules, err := RulesYAML(DefaultRules())
	if err != nil {
		rules = "rules: []\n"
	}
	return exampleHeader + rules
}

const exampleHeader = `# casereport configuration
storage:
  path: "casereport.db"

# Leave url empty to work against the local database.
backend:
  url: ""
  token: ""
  timeout_seconds: 30

server:
  addr: "127.0.0.1:8080"

log:
  level: "info"

# Map file names to file types (numeric id, slug or name).
`

// ReadRules reads only the rules block of raw YAML content, without
// validating it.
func ReadRules(content []byte) ([]Rule, error) {
	local := viper.New()
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	var rules []Rule
	if err := local.UnmarshalKey(KeyRules, &rules); err != nil {
		return nil, fmt.Errorf("error unmarshaling rules: %w", err)
	}
	return rules, nil
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateRules(cfg.Rules); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStoragePath, "casereport.db")
	v.SetDefault(KeyBackendTimeout, 30)
	v.SetDefault(KeyServerAddr, "127.0.0.1:8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyRules, []map[string]any{})
}

func validateRules(rules []Rule) error {
	problems := CheckRules(rules)
	if len(problems) == 0 {
		return nil
	}
	errs := make([]error, len(problems))
	for i, problem := range problems {
		errs[i] = problem
	}
	return fmt.Errorf("validation failed: %w", errors.Join(errs...))
}

// CheckRules reports every problem of every rule, in rule order.
func CheckRules(rules []Rule) []RuleProblem {
	var problems []RuleProblem
	seen := make(map[string]struct{}, len(rules))
	for i, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		report := func(field, message string) {
			problems = append(problems, RuleProblem{Index: i, Name: name, Field: field, Message: message})
		}

		if name == "" {
			report("name", "is required")
		} else {
			key := strings.ToLower(name)
			if _, exists := seen[key]; exists {
				report("name", fmt.Sprintf("%q is a duplicate rule name", name))
			}
			seen[key] = struct{}{}
		}
		if strings.TrimSpace(rule.FileTemplate) == "" {
			report("file_template", "is required")
		}
		switch {
		case strings.TrimSpace(rule.FileType) == "":
			report("file_type", "is required")
		case rule.Type() == 0:
			report("file_type", fmt.Sprintf("%q is not supported", rule.FileType))
		}
	}
	return problems
}
