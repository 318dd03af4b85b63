package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) newRenderCmd() *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readData(dataFile)
			if err != nil {
				return err
			}
			return a.engine(nil).RenderContext(cmd.Context(), cmd.OutOrStdout(), args[0], data)
		},
	}
	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML or JSON file with the render data")
	return cmd
}

// readData decodes a YAML (or JSON) document into render data.
func readData(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding data %s: %w", path, err)
	}
	return data, nil
}
