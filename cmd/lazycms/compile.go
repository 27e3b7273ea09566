package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newCompileCmd(c *cli) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "compile ENTITY [REQUEST]",
		Short: "Print the query spec and SQL a request compiles to",
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

			compiled, err := c.app.Compile(args[0], raw, principal)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(map[string]interface{}{
				"entity": compiled.Entity.Name,
				"spec":   compiled.Spec,
				"select": map[string]interface{}{"sql": compiled.Select.SQL, "args": compiled.Select.Args},
				"count":  map[string]interface{}{"sql": compiled.Count.SQL, "args": compiled.Count.Args},
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the request from a file (- for stdin)")
	return cmd
}

func newExplainCmd(c *cli) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "explain ENTITY [REQUEST]",
		Short: "Show the compiled where tree, includes and SQL of a request",
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

			out, err := c.app.Explain(args[0], raw, principal)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the request from a file (- for stdin)")
	return cmd
}
