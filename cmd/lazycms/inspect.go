package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazycms/internal/filter"
	"github.com/rebeliceyang/lazycms/internal/history"
	"github.com/rebeliceyang/lazycms/internal/ui/components"
)

func newHistoryCmd(c *cli) *cobra.Command {
	var search string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently run requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := c.app.History()
			if err != nil {
				return err
			}

			var entries []history.Entry
			if search != "" {
				entries, err = store.Search(search, limit)
			} else {
				entries, err = store.GetRecent(limit)
			}
			if err != nil {
				return err
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				status := "ok"
				if !e.Success {
					status = "error: " + e.ErrorMessage
				}
				rows[i] = []string{
					e.ExecutedAt.Local().Format("2006-01-02 15:04:05"),
					e.Entity,
					e.Request,
					strconv.Itoa(e.RowCount) + "/" + strconv.FormatInt(e.TotalCount, 10),
					e.Duration.String(),
					status,
				}
			}
			table := components.NewTable(c.app.Theme(), []string{"when", "entity", "request", "rows", "took", "status"}, rows, int64(len(rows)))
			fmt.Fprintln(cmd.OutOrStdout(), table.View())
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only entries whose entity or request contains this text")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries")
	return cmd
}

func newEntitiesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities",
		Short: "Inspect the entity registry",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered entities and their associations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := c.app.Entities()
			var rows [][]string
			for _, name := range reg.Names() {
				e, _ := reg.Lookup(name)
				attrs := make([]string, 0, len(e.Attributes))
				for a := range e.Attributes {
					attrs = append(attrs, a)
				}
				sort.Strings(attrs)
				assocs := make([]string, len(e.Associations))
				for i, a := range e.Associations {
					assocs[i] = fmt.Sprintf("%s %s as %s", a.Kind, a.Target, a.As)
				}
				rows = append(rows, []string{e.Name, e.Table, strings.Join(attrs, ", "), strings.Join(assocs, "; ")})
			}
			table := components.NewTable(c.app.Theme(), []string{"entity", "table", "attributes", "associations"}, rows, int64(len(rows)))
			table.MaxWidth = 60
			fmt.Fprintln(cmd.OutOrStdout(), table.View())
			return nil
		},
	}

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Check that mapped columns exist in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Connect(cmd.Context()); err != nil {
				return err
			}
			missing, err := c.app.VerifyEntities(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range missing {
				fmt.Fprintln(cmd.OutOrStdout(), m.String())
			}
			if len(missing) > 0 {
				return fmt.Errorf("%d mapped columns are missing", len(missing))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all entities match the database")
			return nil
		},
	}

	cmd.AddCommand(list, verify)
	return cmd
}

func newOperatorsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "operators",
		Short: "List the filter operator tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := filter.DefaultOperators()
			tokens := reg.Tokens()
			rows := make([][]string, len(tokens))
			for i, tok := range tokens {
				sym, _ := reg.Lookup(tok)
				rows[i] = []string{tok, "Op." + string(sym)}
			}
			table := components.NewTable(c.app.Theme(), []string{"token", "symbol"}, rows, int64(len(rows)))
			fmt.Fprintln(cmd.OutOrStdout(), table.View())
			return nil
		},
	}
}

func newPingCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Connect to the database and report the round trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Connect(cmd.Context()); err != nil {
				return err
			}
			cfg, took, err := c.app.Ping(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s@%s:%d/%s ok (%s)\n", cfg.User, cfg.Host, cfg.Port, cfg.Database, took)
			return nil
		},
	}
}
