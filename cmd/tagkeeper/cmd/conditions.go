package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/tagkeeper/internal/dsl"
	"github.com/solatis/tagkeeper/internal/types"
	"github.com/solatis/tagkeeper/internal/validation"
)

var parseCmd = &cobra.Command{
	Use:   "parse [expression]",
	Short: "Parse DSL text and print the condition tree as JSON",
	Long: `Parse reads a condition from the argument, --file, or stdin and prints its
tree as JSON. Blank input prints null.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a JSON condition tree as canonical DSL text",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(parseCmd, renderCmd)
	for _, c := range []*cobra.Command{parseCmd, renderCmd} {
		c.Flags().String("file", "", "read input from file instead of stdin")
		c.Flags().Bool("validate", false, "validate operators and values against the tag catalog")
	}
}

// newBuilder creates a builder over catalog, adding the catalog validator
// when --validate is set.
func newBuilder(cmd *cobra.Command) (*dsl.Builder, error) {
	catalog, err := catalogOnly(cmd.Context())
	if err != nil {
		return nil, err
	}
	opts := []dsl.Option{dsl.WithLogger(logger)}
	if v, _ := cmd.Flags().GetBool("validate"); v {
		opts = append(opts, dsl.WithValidator(validation.NewOperatorValidator(catalog)))
	}
	return dsl.NewBuilder(catalog, opts...), nil
}

func runParse(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	text, err := readInput(cmd.InOrStdin(), args, path)
	if err != nil {
		return err
	}
	builder, err := newBuilder(cmd)
	if err != nil {
		return err
	}

	root, err := builder.ParseAndValidate(text)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	input, err := readInput(cmd.InOrStdin(), nil, path)
	if err != nil {
		return err
	}

	var root *types.LogicalOperator
	if err := json.Unmarshal([]byte(input), &root); err != nil {
		return fmt.Errorf("failed to decode tree: %w", err)
	}

	builder, err := newBuilder(cmd)
	if err != nil {
		return err
	}
	text, err := builder.Render(root)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
