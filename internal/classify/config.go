package classify

import (
	"os"

	"gopkg.in/yaml.v3"

	"minerva/pkg/errors"
)

// RuleSpec is one rule record as it appears in the configuration file.
// Order in the file is the rule priority. A missing excludes list means the
// rule has no exclusions.
type RuleSpec struct {
	Patterns []string `yaml:"patterns"`
	Excludes []string `yaml:"excludes,omitempty"`
	Label    string   `yaml:"scientific_type"`
}

// configFile is the on-disk rule-set document.
type configFile struct {
	DefaultLabel string     `yaml:"default_label"`
	Rules        []RuleSpec `yaml:"rules"`
}

// LoadRuleSet reads and compiles a rule set from an explicit YAML path.
// Path discovery is the caller's responsibility; a missing file is reported
// as ErrClassificationConfigMissing so callers can degrade gracefully.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrClassificationConfigMissing, "rule set %s", path)
		}
		return nil, errors.Wrapf(err, "read rule set %s", path)
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse rule set %s", path)
	}
	if cfg.DefaultLabel == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "rule set %s: default_label is required", path)
	}

	return NewRuleSet(cfg.Rules, cfg.DefaultLabel)
}
