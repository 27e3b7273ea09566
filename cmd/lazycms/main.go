package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rebeliceyang/lazycms/internal/app"
	"github.com/rebeliceyang/lazycms/internal/config"
	"github.com/rebeliceyang/lazycms/internal/models"
)

type cli struct {
	configPath string
	verbose    bool
	principal  string

	logger *zap.Logger
	app    *app.App
}

func main() {
	c := &cli{}
	if err := execute(c, newRootCmd(c)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs root and releases what setup opened, also when a command fails
func execute(c *cli, root *cobra.Command) error {
	defer c.teardown()
	return root.Execute()
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "lazycms",
		Short:         "Compile and run CMS list requests against PostgreSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: user config dir, then ./config.yaml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")
	flags.StringVar(&c.principal, "principal", "", "user id whose rows the request is scoped to")

	root.AddCommand(
		newCompileCmd(c),
		newExplainCmd(c),
		newRunCmd(c),
		newSavedCmd(c),
		newHistoryCmd(c),
		newEntitiesCmd(c),
		newOperatorsCmd(c),
		newPingCmd(c),
	)
	return root
}

func (c *cli) setup() error {
	logger, err := newLogger(c.verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	c.logger = logger

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) teardown() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
	if c.logger != nil {
		_ = c.logger.Sync()
		c.logger = nil
	}
}

// scope returns the --principal flag as a principal, nil when unset
func (c *cli) scope() (*models.Principal, error) {
	if c.principal == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(c.principal, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid --principal %q: %w", c.principal, err)
	}
	return &models.Principal{UserID: id}, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return cfg.Build()
}

// readRequest takes the request from an argument, a file, or stdin ("-").
// A missing request is the empty envelope.
func readRequest(args []string, file string, stdin io.Reader) ([]byte, error) {
	switch {
	case file != "" && len(args) > 0:
		return nil, fmt.Errorf("pass the request either inline or with --file")
	case file == "-":
		return io.ReadAll(stdin)
	case file != "":
		return os.ReadFile(file)
	case len(args) > 0:
		return []byte(args[0]), nil
	default:
		return []byte("{}"), nil
	}
}
