package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/day"
	"github.com/tartampluch/go-ilr/internal/engine"
	"github.com/tartampluch/go-ilr/internal/export"
	"github.com/tartampluch/go-ilr/internal/server"
	"github.com/tartampluch/go-ilr/internal/timeline"
	"github.com/urfave/cli/v2"
)

// env carries what every command needs besides its flags.
type env struct {
	out      io.Writer
	clock    engine.Clock
	registry *timeline.Registry
}

// newCLIApp creates the CLI application with all commands writing to out.
func newCLIApp(out io.Writer) *cli.App {
	return newCLIAppWith(&env{out: out, clock: engine.RealClock{}, registry: &timeline.Registry{}})
}

func newCLIAppWith(e *env) *cli.App {
	cli.VersionFlag = &cli.BoolFlag{Name: config.FlagVersion, Aliases: []string{"v"}, Usage: config.FlagDescVersion}
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, config.MsgVersionOutput,
			config.AppName, config.Version, config.Commit, config.Date, runtime.GOOS, runtime.GOARCH)
	}

	app := &cli.App{
		Name:    "go-ilr",
		Usage:   config.AppUsage,
		Version: config.Version,
		Writer:  e.out,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: config.FlagDebug, Usage: config.FlagDescDebug},
			&cli.StringFlag{
				Name:    config.FlagDataDir,
				Aliases: []string{"d"},
				Value:   config.DefaultDataDir,
				Usage:   config.FlagDescDataDir,
				EnvVars: []string{config.EnvDataDir},
			},
			&cli.StringFlag{Name: config.FlagAsOf, Usage: config.FlagDescAsOf},
		},
		Commands: []*cli.Command{
			statsCmd(e),
			monthCmd(e),
			yearCmd(e),
			dayCmd(e),
			coverageCmd(e),
			transitionsCmd(e),
			exportCmd(e),
			serveCmd(e),
		},
	}
	// Errors are returned to runMain instead of exiting inside the library.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// load builds the residency for the --data directory.
func (e *env) load(c *cli.Context) (*residency, error) {
	return loadResidency(c.String(config.FlagDataDir), e.registry, e.clock)
}

// asOf returns --as-of, defaulting to the clock's today.
func (e *env) asOf(c *cli.Context) (time.Time, error) {
	raw := strings.TrimSpace(c.String(config.FlagAsOf))
	if raw == "" {
		return day.Normalize(e.clock.Now()), nil
	}
	return parseDateFlag(config.FlagAsOf, raw)
}

func parseDateFlag(name, raw string) (time.Time, error) {
	t, err := time.Parse(config.DateFormatInput, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: --%s %q: %w", config.ErrArgument, name, raw, err)
	}
	return day.Normalize(t), nil
}

func statsCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  config.CmdStats,
		Usage: config.CmdUsageStats,
		Action: func(c *cli.Context) error {
			r, err := e.load(c)
			if err != nil {
				return err
			}
			asOf, err := e.asOf(c)
			if err != nil {
				return err
			}
			s, err := r.engine.GlobalStatistics(asOf)
			if err != nil {
				return err
			}
			writeStats(e.out, r.engine, s)
			return nil
		},
	}
}

func monthCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  config.CmdMonth,
		Usage: config.CmdUsageMonth,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: config.FlagYear, Aliases: []string{"y"}, Required: true, Usage: config.FlagDescYear},
			&cli.IntFlag{Name: config.FlagMonth, Aliases: []string{"m"}, Required: true, Usage: config.FlagDescMonth},
		},
		Action: func(c *cli.Context) error {
			r, err := e.load(c)
			if err != nil {
				return err
			}
			year, month := c.Int(config.FlagYear), time.Month(c.Int(config.FlagMonth))
			s, err := r.engine.MonthlyStatistics(year, month)
			if err != nil {
				return err
			}
			start, end := day.MonthBounds(year, month)
			writePeriod(e.out, r.engine, fmt.Sprintf("%s %d", month, year), start, end, r.engine.CountsForMonth(year, month), s)
			return nil
		},
	}
}

func yearCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  config.CmdYear,
		Usage: config.CmdUsageYear,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: config.FlagYear, Aliases: []string{"y"}, Required: true, Usage: config.FlagDescYear},
		},
		Action: func(c *cli.Context) error {
			r, err := e.load(c)
			if err != nil {
				return err
			}
			year := c.Int(config.FlagYear)
			s, err := r.engine.YearlyStatistics(year)
			if err != nil {
				return err
			}
			start, end := day.YearBounds(year)
			writePeriod(e.out, r.engine, fmt.Sprint(year), start, end, r.engine.CountsForYear(year), s)
			return nil
		},
	}
}

func dayCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  config.CmdDay,
		Usage: config.CmdUsageDay,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: config.FlagDate, Required: true, Usage: config.FlagDescDate},
		},
		Action: func(c *cli.Context) error {
			when, err := parseDateFlag(config.FlagDate, c.String(config.FlagDate))
			if err != nil {
				return err
			}
			r, err := e.load(c)
			if err != nil {
				return err
			}
			d, ok := r.timeline.Day(when)
			if !ok {
				start, end := r.timeline.Range()
				return fmt.Errorf("%s: %s outside %s to %s", config.ErrArgument,
					c.String(config.FlagDate), start.Format(config.DateFormatInput), end.Format(config.DateFormatInput))
			}
			writeDay(e.out, d)
			return nil
		},
	}
}

func coverageCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  config.CmdCoverage,
		Usage: config.CmdUsageCoverage,
		Action: func(c *cli.Context) error {
			r, err := e.load(c)
			if err != nil {
				return err
			}
			writeCoverage(e.out, r.visas.CoverageReport())
			return nil
		},
	}
}

func transitionsCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  config.CmdTransitions,
		Usage: config.CmdUsageTransitions,
		Action: func(c *cli.Context) error {
			r, err := e.load(c)
			if err != nil {
				return err
			}
			writeTransitions(e.out, r.visas.Transitions())
			return nil
		},
	}
}

func exportCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  config.CmdExport,
		Usage: config.CmdUsageExport,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: config.FlagOutput, Aliases: []string{"o"}, Usage: config.FlagDescOutput},
		},
		Action: func(c *cli.Context) error {
			r, err := e.load(c)
			if err != nil {
				return err
			}
			asOf, err := e.asOf(c)
			if err != nil {
				return err
			}
			in, err := r.exportInput(asOf)
			if err != nil {
				return err
			}
			ics, n, err := (&export.Generator{Clock: e.clock}).Generate(c.Context, in)
			if err != nil {
				return err
			}

			path := c.String(config.FlagOutput)
			if path == "" {
				_, err := e.out.Write(ics)
				return err
			}
			if err := os.WriteFile(path, ics, config.FilePermUserRW); err != nil {
				return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
			}
			fmt.Fprintf(e.out, config.OutExportWrote, n, path)
			return nil
		},
	}
}

func serveCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  config.CmdServe,
		Usage: config.CmdUsageServe,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    config.FlagPort,
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   config.FlagDescPort,
				EnvVars: []string{config.EnvPort},
			},
		},
		Action: func(c *cli.Context) error {
			srv := server.New(c.String(config.FlagPort))
			gen := &export.Generator{Clock: e.clock}

			// Data files may change while serving, so each refresh rebuilds.
			refresh := func() error {
				e.registry.Reset()
				r, err := e.load(c)
				if err != nil {
					return err
				}
				asOf, err := e.asOf(c)
				if err != nil {
					return err
				}
				ics, summary, err := r.feeds(c.Context, gen, asOf)
				if err != nil {
					return err
				}
				now := e.clock.Now()
				srv.Publish(server.FeedCalendar, ics, now)
				srv.Publish(server.FeedSummary, summary, now)
				slog.Info(config.MsgFeedRefresh,
					config.LogKeyComponent, config.CompMain,
					config.LogKeyAsOf, asOf.Format(config.DateFormatISO),
				)
				return nil
			}
			if err := refresh(); err != nil {
				return err
			}

			go func() {
				ticker := time.NewTicker(config.FeedRefreshInterval)
				defer ticker.Stop()
				for {
					select {
					case <-c.Context.Done():
						return
					case <-ticker.C:
						// Keep serving the previous snapshot if the data became invalid.
						if err := refresh(); err != nil {
							slog.Error(config.ErrBuildTimeline,
								config.LogKeyComponent, config.CompMain,
								config.LogKeyError, err,
							)
						}
					}
				}
			}()

			return srv.Start(c.Context)
		},
	}
}
