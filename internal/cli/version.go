package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lgc202/openai-kit/version"
)

func newVersionCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			switch output {
			case "json":
				s, err := info.ToJSON(true)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, s)
			case "short":
				fmt.Fprintln(a.out, info.String())
			case "text":
				fmt.Fprintln(a.out, info.Text())
			default:
				return fmt.Errorf("unsupported output %q: want text, json or short", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or short")
	return cmd
}
