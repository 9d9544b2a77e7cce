package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathops/pathops/internal/engine"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "List the objects a run would operate on, top-most first",
	Long: `Inspect resolves the selection exactly like a run would: groups are flattened
(see --recursive_sel), unsupported objects are skipped and the rest are sorted
top-most first. Nothing is modified and Inkscape is not invoked.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		result, err := newEngine().Inspect(ctx, request(args[0]))
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}
		printInspect(result)
		return nil
	},
}

func printInspect(result *engine.InspectResult) {
	PrintSection("Selection")

	if len(result.Objects) == 0 {
		PrintEmptyState("No supported objects selected")
		return
	}

	rows := make([][]string, 0, len(result.Objects))
	for i, obj := range result.Objects {
		role := ""
		if i == 0 {
			role = "top"
		}
		rows = append(rows, []string{obj.ID, obj.KindName, fmt.Sprintf("%d", obj.Position), role})
	}
	PrintTable([]string{"ID", "KIND", "POSITION", "ROLE"}, rows)

	PrintInfo("")
	PrintLabelValue("Objects", fmt.Sprintf("%d", len(result.Objects)))
	PrintLabelValue("Chunks", fmt.Sprintf("%d (max %d objects each)", result.Chunks, result.MaxOps))
	if result.SelectionSets {
		PrintWarning("Document uses selection sets; a run would be refused")
	}
}
