package commands

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/pathsense/internal/plugin"
)

func newPluginsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect gesture hook plugins",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List discovered plugins and the gestures they handle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if e.plugins == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no plugin directory configured")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tGESTURES\tEXECUTABLE")
			for _, p := range e.plugins.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					p.Manifest.Name, p.Manifest.Version, strings.Join(p.Manifest.Gestures, ","), p.Executable)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show NAME",
		Short: "Show the manifest of a discovered plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if e.plugins == nil {
				return errors.New("no plugin directory configured")
			}
			p, err := e.plugins.Get(args[0])
			if err != nil {
				if errors.Is(err, plugin.ErrPluginNotFound) {
					return fmt.Errorf("plugin %q not found in %s", args[0], e.plugins.PluginDir())
				}
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Name:\t%s\n", p.Manifest.Name)
			fmt.Fprintf(w, "Version:\t%s\n", p.Manifest.Version)
			fmt.Fprintf(w, "Description:\t%s\n", p.Manifest.Description)
			fmt.Fprintf(w, "Gestures:\t%s\n", strings.Join(p.Manifest.Gestures, ", "))
			fmt.Fprintf(w, "Directory:\t%s\n", p.Path)
			fmt.Fprintf(w, "Executable:\t%s\n", p.Executable)
			return w.Flush()
		},
	})

	return cmd
}
