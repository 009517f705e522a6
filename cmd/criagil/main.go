package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gepes/criagil/internal/app"
	"github.com/gepes/criagil/internal/config"
	"github.com/gepes/criagil/internal/logging"
	"github.com/gepes/criagil/internal/mcp"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries the settings resolved for one invocation.
type cli struct {
	v   *viper.Viper
	out io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out}

	root := &cobra.Command{
		Use:           "criagil",
		Short:         "Criágil demand board",
		Long:          "Manage the Criágil kanban board: demands, projects and the activity log.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.PersistentFlags().String("db", "", "database path (default from config, :memory: when unset)")
	root.PersistentFlags().Bool("seed", true, "install the demo board into an empty database")
	root.PersistentFlags().Bool("json", false, "output JSON")
	root.PersistentFlags().Bool("verbose", false, "log service activity to stderr")
	_ = c.v.BindPFlag("db", root.PersistentFlags().Lookup("db"))
	_ = c.v.BindPFlag("seed", root.PersistentFlags().Lookup("seed"))
	_ = c.v.BindPFlag("json", root.PersistentFlags().Lookup("json"))
	_ = c.v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))

	c.v.SetEnvPrefix("CRIAGIL")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(
		c.boardCmd(),
		c.demandCmd(),
		c.projectCmd(),
		c.userCmd(),
		c.activityCmd(),
	)
	return root
}

// withBoard opens the board for one command and hands its dispatcher to fn.
func (c *cli) withBoard(ctx context.Context, fn func(ctx context.Context, h *mcp.Handler) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.v.IsSet("db") {
		cfg.DB.Path = c.v.GetString("db")
	}
	if c.v.IsSet("seed") {
		cfg.Seed.Enabled = c.v.GetBool("seed")
	}

	logOpts := logging.Options{Level: cfg.Log.Level, Path: cfg.Log.Path}
	if c.v.GetBool("verbose") {
		logOpts = logging.Options{Level: "debug", Fallback: os.Stderr}
	}
	logger, logFile := logging.New(logOpts)
	defer logFile.Close()

	board, err := app.Open(ctx, app.Options{
		DBPath:   cfg.DB.Path,
		Seed:     cfg.Seed.Enabled,
		SeedPath: cfg.Seed.Path,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer board.Close()

	return fn(ctx, board.Services().Handler())
}

// call dispatches one board operation and decodes its typed response.
func call[T any](ctx context.Context, h *mcp.Handler, method string, params any) (T, error) {
	var zero T
	raw, err := json.Marshal(params)
	if err != nil {
		return zero, err
	}
	res, err := h.Handle(ctx, method, raw)
	if err != nil {
		return zero, err
	}
	out, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected %s response %T", method, res)
	}
	return out, nil
}

func (c *cli) jsonOutput() bool {
	return c.v.GetBool("json")
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
