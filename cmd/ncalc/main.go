package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/agenthands/ncalc/pkg/compiler/diag"
	"github.com/agenthands/ncalc/pkg/driver"
	"github.com/urfave/cli"
)

const version = "0.1.0"

var errFailed = errors.New("ncalc: run failed")

// options collects flag values for one invocation.
type options struct {
	expr       string
	configPath string
	noColor    bool
	format     string
	verbose    bool
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if err := newApp(stdout, stderr).Run(args); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}
	return 0
}

func newApp(stdout, stderr io.Writer) *cli.App {
	var opts options

	app := cli.NewApp()
	app.Name = "ncalc"
	app.Usage = "evaluate integer expressions with typed, mutability-checked variables"
	app.Version = version
	app.Writer = stdout
	app.ErrWriter = stderr

	flags := []cli.Flag{
		cli.StringFlag{
			Name:        "expr, e",
			Usage:       "evaluate `SOURCE` given on the command line instead of a file",
			Destination: &opts.expr,
		},
		cli.StringFlag{
			Name:        "config, c",
			Usage:       "load settings from `FILE` (default: ./" + driver.ConfigFileName + " if present)",
			Destination: &opts.configPath,
		},
		cli.BoolFlag{
			Name:        "no-color",
			Usage:       "hide colors in error messages",
			Destination: &opts.noColor,
		},
		cli.StringFlag{
			Name:        "format, f",
			Usage:       "output `FORMAT`: text or yaml",
			Destination: &opts.format,
		},
		cli.BoolFlag{
			Name:        "verbose",
			Usage:       "trace declarations and assignments to stderr",
			Destination: &opts.verbose,
		},
	}

	app.Commands = []cli.Command{
		{
			Name:      "eval",
			Aliases:   []string{"e"},
			Usage:     "Evaluate a program and print its arithmetic result",
			ArgsUsage: "[file]",
			Flags:     flags,
			Action: func(c *cli.Context) error {
				return execute(c.Args(), driver.ModeEvaluate, opts, stdout, stderr)
			},
		},
		{
			Name:      "symbols",
			Aliases:   []string{"s"},
			Usage:     "Run a program and print the final symbol table",
			ArgsUsage: "[file]",
			Flags:     flags,
			Action: func(c *cli.Context) error {
				return execute(c.Args(), driver.ModeSymbols, opts, stdout, stderr)
			},
		},
	}

	app.Action = func(c *cli.Context) error {
		return cli.ShowAppHelp(c)
	}

	return app
}

func execute(args []string, mode driver.Mode, opts options, stdout, stderr io.Writer) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	var logger *log.Logger
	if opts.verbose {
		logger = log.New(stderr, "ncalc: ", log.Lshortfile)
	}

	loader := driver.NewLoader(cfg.Root, cfg.MaxSourceBytes)
	var src driver.Source
	switch {
	case opts.expr != "" && len(args) > 0:
		return fmt.Errorf("ncalc: pass either --expr or a file, not both")
	case opts.expr != "":
		src, err = loader.Inline(opts.expr)
	case len(args) == 1:
		src, err = loader.Load(args[0])
	case len(args) == 0:
		return fmt.Errorf("ncalc: missing source file (or use --expr)")
	default:
		return fmt.Errorf("ncalc: expected one source file, got %d", len(args))
	}
	if err != nil {
		return err
	}

	outcome, err := driver.Run(src, mode, logger)
	if err != nil {
		fmt.Fprintln(stderr, diag.Render(err, src.Name, src.Text, cfg.Color))
		return errFailed
	}
	return driver.WriteOutcome(stdout, outcome, cfg.Format)
}

// resolveConfig loads --config, else ./ncalc.yml when present, else defaults,
// then applies flag overrides.
func resolveConfig(opts options) (driver.Config, error) {
	cfg := driver.DefaultConfig()
	switch {
	case opts.configPath != "":
		loaded, err := driver.LoadConfig(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	default:
		if _, err := os.Stat(driver.ConfigFileName); err == nil {
			loaded, err := driver.LoadConfig(driver.ConfigFileName)
			if err != nil {
				return cfg, err
			}
			cfg = loaded
		}
	}

	if opts.noColor {
		cfg.Color = false
	}
	if opts.format != "" {
		cfg.Format = driver.Format(opts.format)
	}
	return cfg, cfg.Validate()
}
