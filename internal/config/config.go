package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"leadgate-engine/internal/rank"
)

// Feed is one polled RSS/Atom source. Company, when set, overrides the
// company guess for every item the feed yields.
type Feed struct {
	URL     string `yaml:"url"`
	Company string `yaml:"company"`
}

type Config struct {
	App struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Polling struct {
		EmailSeconds int `yaml:"email_seconds"`
		FeedSeconds  int `yaml:"feed_seconds"`
	} `yaml:"polling"`

	Email struct {
		Enabled          bool     `yaml:"enabled"`
		IMAPHost         string   `yaml:"imap_host"`
		IMAPPort         int      `yaml:"imap_port"`
		Username         string   `yaml:"username"`
		Mailbox          string   `yaml:"mailbox"`
		SearchSubjectAny []string `yaml:"search_subject_any"`
		MaxEmails        int      `yaml:"max_emails"`
	} `yaml:"email"`

	Feeds struct {
		Enabled        bool    `yaml:"enabled"`
		Sources        []Feed  `yaml:"sources"`
		RequestsPerSec float64 `yaml:"requests_per_sec"`
		Burst          int     `yaml:"burst"`
	} `yaml:"feeds"`

	Gate struct {
		MinJDChars      *int     `yaml:"min_jd_chars"`
		MinTargetSignal *int     `yaml:"min_target_signal"`
		BlockedKeywords []string `yaml:"blocked_keywords"`
	} `yaml:"gate"`

	Targets []rank.Target `yaml:"targets"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// GateOptions assembles the scoring-gate options from config. Re-read per
// evaluation so a reloaded config takes effect on the next lead.
func (c Config) GateOptions() rank.Options {
	return rank.Options{
		MinJDChars:      c.Gate.MinJDChars,
		MinTargetSignal: c.Gate.MinTargetSignal,
		BlockedKeywords: c.Gate.BlockedKeywords,
		Targets:         c.Targets,
	}
}
