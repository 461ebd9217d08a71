package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pwacheck/internal/rules"
)

func newRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List and describe rules",
		Long: `Describe pwacheck rules.

This command group helps you discover which rules exist, what each rule
checks and which options it accepts. Rules are evaluated during checks
(see "pwacheck check --help").

Examples:
  # List all available rules
  pwacheck rules list

  # Show one rule and its options
  pwacheck rules show icons.size_set
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newRulesListCommand())
	cmd.AddCommand(newRulesShowCommand())
	return cmd
}

func newRulesListCommand() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available rules",
		Long: `List all rules registered in this build.

Rules are listed in evaluation order.

Examples:
  pwacheck rules list
  pwacheck rules list -q

Output:
  A vertical list of rules:
    ----------------------------------------
    RULE: {ID}
    ----------------------------------------
    {TITLE}
    {DESCRIPTION}
    Severity: {SEVERITY}
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, r := range rules.List() {
				if quiet {
					fmt.Fprintln(cmd.OutOrStdout(), r.ID())
				} else {
					printRule(cmd.OutOrStdout(), r)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print rule IDs")
	return cmd
}

func newRulesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [rule-id]",
		Short: "Show details of a specific rule",
		Long: `Show details of a specific rule by its ID, including its options.

Examples:
  pwacheck rules show manifest.required_fields
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := rules.Lookup(args[0])
			if !ok {
				return fmt.Errorf("rule not found: %s", args[0])
			}
			printRule(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func printRule(w io.Writer, r rules.Rule) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "RULE: %s\n", r.ID())
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, r.Title())
	fmt.Fprintln(w, r.Description())
	fmt.Fprintf(w, "Severity: %s\n", r.Severity())

	if cr, ok := r.(rules.ConfigurableRule); ok {
		opts := cr.Options()
		if len(opts) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Options:")
			for _, opt := range opts {
				def := opt.Default
				if def == "" {
					def = "\"\""
				}
				fmt.Fprintf(w, "  %s\n", opt.Name)
				fmt.Fprintf(w, "    Description: %s\n", opt.Description)
				fmt.Fprintf(w, "    Default:     %s\n", def)
			}
		}
	}
	fmt.Fprintln(w)
}
