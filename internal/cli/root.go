package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pathops/pathops/internal/config"
	"github.com/pathops/pathops/internal/inkscape"
)

var (
	// Global flags
	jsonOutput bool

	// opts is bound to the effect flags; Inkscape writes them from the .inx dialog
	opts = config.Defaults()

	selectIDs   []string
	selectGlobs []string
	notebookTab string

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// rootCmd is the root command for pathops. Running it applies the effect.
var rootCmd = &cobra.Command{
	Use:     "pathops [flags] FILE",
	Version: "dev",
	Short:   "Apply an Inkscape path operation to many objects at once",
	Long: `pathops applies a path operation (union, difference, intersection, exclusion,
division, cut path or combine) between the top-most selected object and every other
selected object or group member, by driving Inkscape's own command line.

Large selections are split into chunks of at most --max_ops objects per Inkscape run.
The resulting document is written to stdout; messages are written to stderr.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setMessageOutput(cmd.ErrOrStderr())
		applyEnv(cmd)
	},
	RunE: runEffect,
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// applyEnv fills options from the environment unless the matching flag was given.
func applyEnv(cmd *cobra.Command) {
	env := config.Defaults()
	env.ApplyEnv(os.Getenv)
	flags := cmd.Flags()
	if !flags.Changed("inkscape") {
		opts.Binary = env.Binary
	}
	if !flags.Changed("dialect") {
		opts.Dialect = env.Dialect
	}
}

// customHelpFunc returns a custom help function that colors group titles
func customHelpFunc(cmd *cobra.Command, args []string) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	}

	help.WriteString(sectionTitleColor.Sprint("Usage:"))
	help.WriteString("\n")
	fmt.Fprintf(&help, "  %s\n\n", cmd.UseLine())

	for _, group := range cmd.Groups() {
		help.WriteString(groupTitleColor.Sprint(group.Title))
		help.WriteString("\n")

		for _, c := range cmd.Commands() {
			if c.GroupID == group.ID && !c.Hidden {
				fmt.Fprintf(&help, "  %-11s %s\n", c.Name(), c.Short)
			}
		}
		help.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailablePersistentFlags() {
		help.WriteString(sectionTitleColor.Sprint("Flags:"))
		help.WriteString("\n")
		help.WriteString(cmd.LocalFlags().FlagUsages())
		help.WriteString(cmd.InheritedFlags().FlagUsages())
		help.WriteString("\n")
	}

	fmt.Fprintf(&help, "Operations: %s\n", operationNames())
	fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())

	fmt.Fprint(cmd.OutOrStdout(), help.String())
}

func operationNames() string {
	ops := inkscape.Operations()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.SetHelpFunc(customHelpFunc)

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&jsonOutput, "json", false, "Output reports in JSON format")
	pf.StringArrayVar(&selectIDs, "id", nil, "Id of a selected object (repeatable)")
	pf.StringArrayVar(&selectGlobs, "select-glob", nil, "Select every object whose id matches the glob pattern (repeatable)")
	pf.BoolVar(&opts.Recursive, "recursive_sel", opts.Recursive, "Recurse into nested groups (false: only selected groups)")
	pf.IntVar(&opts.MaxOps, "max_ops", opts.MaxOps, "Maximum number of objects per Inkscape run")

	// Effect flags, named as Inkscape passes them
	f := rootCmd.Flags()
	f.StringVar(&opts.Operation, "ink_verb", opts.Operation, "Path operation or Inkscape verb (e.g. union, SelectionDiff)")
	f.BoolVar(&opts.KeepTop, "keep_top", opts.KeepTop, "Keep the top-most object when done")
	f.BoolVar(&opts.DryRun, "dry_run", opts.DryRun, "Report the planned Inkscape runs without executing them")
	f.StringVar(&opts.DefaultStroke, "default_stroke", opts.DefaultStroke, "Stroke colour for cut path objects without a plain fill")
	f.StringVar(&opts.DefaultStrokeWidth, "default_stroke_width", opts.DefaultStrokeWidth, "Stroke width for cut path objects without one")
	f.StringVar(&opts.Dialect, "dialect", opts.Dialect, "Inkscape command line protocol: verbs (0.92) or actions (1.x) [$"+config.EnvDialect+"]")
	f.StringVar(&opts.Binary, "inkscape", opts.Binary, "Inkscape executable [$"+config.EnvInkscape+"]")
	f.StringVar(&notebookTab, "tab", "", "Active dialog tab (ignored)")
	_ = f.MarkHidden("tab")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspection",
		Title: "Inspection:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the pathops version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	helpCmd := &cobra.Command{
		Use:     "help [command]",
		Short:   "Help about any command",
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Root().Help()
		},
	}
	rootCmd.SetHelpCommand(helpCmd)

	completionCmd := &cobra.Command{
		Use:     "completion",
		Short:   "Generate the autocompletion script for the specified shell",
		GroupID: "cli-tooling",
		Long: `Generate the autocompletion script for pathops for the specified shell.
See each sub-command's help for details on how to use the generated script.`,
	}
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "bash",
		Short:                 "Generate the autocompletion script for bash",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "zsh",
		Short:                 "Generate the autocompletion script for zsh",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "fish",
		Short:                 "Generate the autocompletion script for fish",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		},
	})
	rootCmd.AddCommand(completionCmd)

	inspectCmd.GroupID = "inspection"
	rootCmd.AddCommand(inspectCmd)
}

// Execute executes the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		_, _ = fmt.Fprintln(rootCmd.ErrOrStderr(), formatError(err))
	}
	return err
}
