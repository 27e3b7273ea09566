package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazycms/internal/db/query"
	"github.com/rebeliceyang/lazycms/internal/export"
	"github.com/rebeliceyang/lazycms/internal/ui"
)

type outputFlags struct {
	format  string
	output  string
	columns []string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.format, "format", "table", "output format: table, json or csv")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write json or csv output to a file")
	cmd.Flags().StringSliceVar(&o.columns, "columns", nil, "columns to print; author.name reads into an include")
}

func (o *outputFlags) write(c *cli, w io.Writer, res *query.Result) error {
	page, err := export.Project(res.Page, o.columns)
	if err != nil {
		return err
	}

	switch o.format {
	case "json":
		if o.output != "" {
			return export.ExportToJSON(page, o.output)
		}
		return export.WriteJSON(w, page)
	case "csv":
		if o.output != "" {
			return export.ExportToCSV(page, o.output)
		}
		return export.WriteCSV(w, page)
	case "table":
		if o.output != "" {
			return fmt.Errorf("--output needs --format json or csv")
		}
		_, err := fmt.Fprintln(w, ui.RenderPage(c.app.Theme(), page))
		return err
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}
}

func newRunCmd(c *cli) *cobra.Command {
	var file string
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "run ENTITY [REQUEST]",
		Short: "Run a list request and print the resulting page",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readRequest(args[1:], file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			principal, err := c.scope()
			if err != nil {
				return err
			}
			if err := c.app.Connect(cmd.Context()); err != nil {
				return err
			}

			res, err := c.app.Run(cmd.Context(), args[0], raw, principal)
			if err != nil {
				return err
			}
			return out.write(c, cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the request from a file (- for stdin)")
	out.register(cmd)
	return cmd
}
