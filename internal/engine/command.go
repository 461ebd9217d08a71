package engine

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"pwacheck/internal/config"
	"pwacheck/internal/flags"
)

// ReproduceCommand renders the command line that repeats a run with the
// same target, rules and options. Output flags are left out.
func ReproduceCommand(cfg *config.Config) string {
	def := config.New()
	args := []string{"pwacheck", "check"}
	add := func(flag, value string) {
		args = append(args, "--"+flag, shellQuote(value))
	}

	add(flags.FlagRoot, cfg.Target.Root)
	if cfg.Target.Manifest != "" {
		add(flags.FlagManifest, cfg.Target.Manifest)
	}
	if cfg.Target.Entry != "" {
		add(flags.FlagEntry, cfg.Target.Entry)
	}
	if cfg.Target.IconsDir != "" {
		add(flags.FlagIconsDir, cfg.Target.IconsDir)
	}
	if cfg.Target.GitHub != "" {
		add(flags.FlagGitHub, cfg.Target.GitHub)
	}
	if cfg.Target.Ref != "" {
		add(flags.FlagRef, cfg.Target.Ref)
	}
	if cfg.Rules.Selector != "" {
		add(flags.FlagRules, cfg.Rules.Selector)
	}
	if opts, err := cfg.RuleOptions(); err == nil {
		for _, id := range slices.Sorted(maps.Keys(opts)) {
			for _, name := range slices.Sorted(maps.Keys(opts[id])) {
				add(flags.FlagSet, fmt.Sprintf("%s.%s=%s", id, name, opts[id][name]))
			}
		}
	}
	if cfg.Runtime.Timeout != def.Runtime.Timeout {
		add(flags.FlagTimeout, cfg.Runtime.Timeout.Round(time.Millisecond).String())
	}
	return strings.Join(args, " ")
}

// shellQuote single-quotes values that a POSIX shell would split or expand.
func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;!#~,") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
