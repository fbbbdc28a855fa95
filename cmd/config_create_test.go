package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"casereport/config"
	"casereport/record"

	"github.com/spf13/viper"
)

func TestSaveDefaultConfigWritesRulePerFileType(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "create-template.yaml")
	cfgFile = tmpConfig
	viper.Reset()

	var out bytes.Buffer
	if err := saveDefaultConfig(&out); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("created config must validate: %v\n%s", err, content)
	}

	types := record.FileTypes()
	if len(cfg.Rules) != len(types) {
		t.Fatalf("expected %d rules, got %d", len(types), len(cfg.Rules))
	}
	for i, ft := range types {
		rule := cfg.Rules[i]
		if rule.Type() != ft {
			t.Fatalf("rules[%d]: expected type %s, got %s", i, ft, rule.Type())
		}
		if want := ft.String() + "*.xlsx"; rule.FileTemplate != want {
			t.Fatalf("rules[%d]: expected template %q, got %q", i, want, rule.FileTemplate)
		}
	}

	if !strings.Contains(out.String(), "Rules written: 11") {
		t.Fatalf("expected rule count in output, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Shelter Diversion Follow-Up Log*.xlsx") {
		t.Fatalf("expected rule templates in output, got:\n%s", out.String())
	}
}

func TestSaveDefaultConfigDoesNotOverwriteExistingFile(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "existing.yaml")
	original := "rules:\n  - name: \"los\"\n    file_template: \"LOS*.xlsx\"\n    file_type: 2\n"
	if err := os.WriteFile(tmpConfig, []byte(original), 0o644); err != nil {
		t.Fatalf("failed writing initial config: %v", err)
	}

	cfgFile = tmpConfig
	viper.Reset()

	var out bytes.Buffer
	if err := saveDefaultConfig(&out); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("failed reading existing config after create: %v", err)
	}
	if string(content) != original {
		t.Fatalf("expected existing rules to remain unchanged")
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestEnsureConfigFileWithTemplate(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "nested", "myconfig.yaml")

	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil {
		t.Fatalf("unexpected error creating template config: %v", err)
	}
	if !created {
		t.Fatalf("expected file to be created")
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("unexpected error stat config file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected config file mode 0600, got %o", info.Mode().Perm())
	}

	created, err = ensureConfigFileWithTemplate(configPath)
	if err != nil {
		t.Fatalf("unexpected error on existing config file: %v", err)
	}
	if created {
		t.Fatalf("did not expect existing file to be recreated")
	}
}

func TestDeleteConfigFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		skipPrompt  bool
		wantRemoved bool
	}{
		{name: "confirmed", input: "Y\n", wantRemoved: true},
		{name: "declined", input: "n\n", wantRemoved: false},
		{name: "skip prompt", skipPrompt: true, wantRemoved: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "casereport.yaml")
			if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
				t.Fatalf("write config: %v", err)
			}

			var out bytes.Buffer
			err := deleteConfigFile(strings.NewReader(tt.input), &out, path, tt.skipPrompt)
			_, statErr := os.Stat(path)
			removed := os.IsNotExist(statErr)
			if removed != tt.wantRemoved {
				t.Fatalf("expected removed=%v, got %v (err %v)", tt.wantRemoved, removed, err)
			}
			if tt.wantRemoved && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.wantRemoved && err == nil {
				t.Fatalf("expected abort error")
			}
		})
	}

	if err := deleteConfigFile(strings.NewReader("Y\n"), &bytes.Buffer{}, "", true); err == nil {
		t.Fatalf("expected error without an active config file")
	}
}
