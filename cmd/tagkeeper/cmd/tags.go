package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/tagkeeper/internal/tags"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage the tag catalog",
}

var tagsImportCmd = &cobra.Command{
	Use:   "import <catalog.yaml>",
	Short: "Import tag definitions from a YAML catalog file into the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagsImport,
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tag definitions",
	Args:  cobra.NoArgs,
	RunE:  runTagsList,
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.AddCommand(tagsImportCmd, tagsListCmd)
}

func runTagsImport(cmd *cobra.Command, args []string) error {
	catalog, err := tags.LoadFile(args[0])
	if err != nil {
		return err
	}

	database, store, _, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := store.UpsertTagDefinitions(cmd.Context(), catalog.All()); err != nil {
		return err
	}
	logger.Info("tag catalog imported", zap.String("file", args[0]), zap.Int("tags", catalog.Len()))
	return nil
}

func runTagsList(cmd *cobra.Command, args []string) error {
	catalog, err := catalogOnly(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE TYPE\tOPERATORS\tDICTIONARY")
	for _, d := range catalog.All() {
		ops := strings.Join(d.ValueType.Operators, ",")
		if ops == "" {
			ops = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Key, d.ValueType.Name, ops, d.Dictionary)
	}
	return w.Flush()
}
