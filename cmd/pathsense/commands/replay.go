package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ayusman/pathsense/internal/app"
	"github.com/ayusman/pathsense/internal/capture"
)

func newReplayCmd(opts *options) *cobra.Command {
	var paced, summary bool

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Replay recorded pointer input and print tracker events",
		Long: `Replay reads pointer input as JSON lines, one object per line:

  {"action":"down","x":120,"y":48,"t":0}

where action is down, move, up or cancel and t is a timestamp in
milliseconds. Every tracker event is written to stdout as a JSON line.
Plugins subscribed to a recognized gesture run as it is reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			listener := e.listener(cmd.OutOrStdout())
			stats, err := e.app.Replay(cmd.Context(), capture.NewFileSource(args[0]), listener, paced)
			if err != nil {
				return err
			}

			if summary {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(struct {
					Summary app.ReplayStats `json:"summary"`
				}{stats})
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&paced, "paced", false, "Feed inputs at their recorded rate")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print a summary line after the events")
	return cmd
}
