package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"leadgate-engine/internal/rank"
)

// TargetsFile lets target profiles live in their own file, separate from
// engine settings, so they can be edited and versioned independently.
type TargetsFile struct {
	Targets []rank.Target `yaml:"targets"`
}

// OverlayTargets replaces cfg.Targets with the contents of targetsPath when
// the file exists and carries at least one profile. A missing file is not an
// error; startup proceeds on the inline targets.
func OverlayTargets(cfg *Config, targetsPath string) error {
	b, err := os.ReadFile(targetsPath)
	if err != nil {
		return nil
	}

	var tf TargetsFile
	if err := yaml.Unmarshal(b, &tf); err != nil {
		return err
	}

	if len(tf.Targets) > 0 {
		cfg.Targets = tf.Targets
	}
	return nil
}
