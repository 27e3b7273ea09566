package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazycms/internal/ui/components"
)

func newSavedCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage named list requests",
	}
	cmd.AddCommand(newSavedAddCmd(c), newSavedListCmd(c), newSavedRunCmd(c), newSavedDeleteCmd(c))
	return cmd
}

func newSavedAddCmd(c *cli) *cobra.Command {
	var description, file string
	var tags []string

	cmd := &cobra.Command{
		Use:   "add NAME ENTITY [REQUEST]",
		Short: "Save a request under a name",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readRequest(args[2:], file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			saved, err := c.app.Saved()
			if err != nil {
				return err
			}
			req, err := saved.Add(args[0], description, args[1], string(raw), tags)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %q (%s)\n", req.Name, req.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tags (repeatable)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the request from a file (- for stdin)")
	return cmd
}

func newSavedListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list [SEARCH]",
		Short: "List saved requests",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := c.app.Saved()
			if err != nil {
				return err
			}
			search := ""
			if len(args) == 1 {
				search = args[0]
			}

			list := saved.Search(search)
			rows := make([][]string, len(list))
			for i, r := range list {
				rows[i] = []string{r.Name, r.Entity, r.Request, strings.Join(r.Tags, ", "), strconv.Itoa(r.UsageCount)}
			}
			table := components.NewTable(c.app.Theme(), []string{"name", "entity", "request", "tags", "used"}, rows, int64(len(saved.GetAll())))
			fmt.Fprintln(cmd.OutOrStdout(), table.View())
			return nil
		},
	}
}

func newSavedRunCmd(c *cli) *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "run NAME",
		Short: "Run a saved request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, err := c.scope()
			if err != nil {
				return err
			}
			if err := c.app.Connect(cmd.Context()); err != nil {
				return err
			}
			res, err := c.app.RunSaved(cmd.Context(), args[0], principal)
			if err != nil {
				return err
			}
			return out.write(c, cmd.OutOrStdout(), res)
		},
	}

	out.register(cmd)
	return cmd
}

func newSavedDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := c.app.Saved()
			if err != nil {
				return err
			}
			if err := saved.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", args[0])
			return nil
		},
	}
}
