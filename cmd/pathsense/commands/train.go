package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayusman/pathsense/internal/capture"
	"github.com/ayusman/pathsense/internal/geom"
)

func newTrainCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "train NAME FILE...",
		Short: "Train a custom shape from recorded strokes",
		Long: `Train averages every completed stroke found in the given input files into
a CUSTOM template called NAME and stores it. A template with the same name
is replaced.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			name := args[0]
			var strokes [][]geom.Sample
			for _, path := range args[1:] {
				s, err := readStrokes(path)
				if err != nil {
					return err
				}
				strokes = append(strokes, s...)
			}

			tmpl, err := e.app.Train(name, strokes)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "trained %s (%s) from %d strokes\n", tmpl.Name, tmpl.ID, len(strokes))
			return nil
		},
	}
}

func readStrokes(path string) ([][]geom.Sample, error) {
	src := capture.NewFileSource(path)
	if err := src.Open(); err != nil {
		return nil, err
	}
	defer src.Close()

	strokes, err := capture.Strokes(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read strokes from %s: %w", path, err)
	}
	return strokes, nil
}
