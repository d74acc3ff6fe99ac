package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/okian/trackmeet/internal/adapters/export"
	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/urfave/cli/v2"
)

const stdoutName = "-"

func (r *runner) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
}

func (r *runner) athletesCommand() *cli.Command {
	return &cli.Command{
		Name:  "athletes",
		Usage: "manage the roster",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "add one athlete",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "tier", Required: true, Usage: "High, Med or Low"},
					&cli.StringFlag{Name: "best-events"},
				},
				Action: func(c *cli.Context) error {
					tier, err := model.ParseTier(c.String("tier"))
					if err != nil {
						return err
					}
					a, err := r.svc.AddAthlete(c.Context, c.String("name"), tier, c.String("best-events"))
					if err != nil {
						return err
					}
					fmt.Fprintf(r.out, "added %s (%s) as %s\n", a.Name, a.Tier, a.ID)
					return nil
				},
			},
			{
				Name:      "import",
				Usage:     "append athletes from a CSV or XLSX file",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						return fmt.Errorf("import needs a file")
					}
					f, err := os.Open(path)
					if err != nil {
						return err
					}
					defer f.Close()
					added, err := r.svc.ImportRoster(c.Context, filepath.Base(path), f)
					if err != nil {
						return err
					}
					fmt.Fprintf(r.out, "imported %d athletes\n", len(added))
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "print the roster",
				Action: func(c *cli.Context) error {
					w := r.table()
					fmt.Fprintln(w, "ID\tNAME\tTIER\tBEST EVENTS")
					for _, a := range r.svc.Athletes(c.Context) {
						best := ""
						if a.BestEvents != nil {
							best = *a.BestEvents
						}
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Tier, best)
					}
					return w.Flush()
				},
			},
			{
				Name:      "delete",
				Usage:     "remove one athlete",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					return r.svc.DeleteAthlete(c.Context, c.Args().First())
				},
			},
			{
				Name:  "clear",
				Usage: "remove every athlete",
				Action: func(c *cli.Context) error {
					r.svc.ClearAthletes(c.Context)
					return nil
				},
			},
		},
	}
}

func (r *runner) teamsCommand() *cli.Command {
	return &cli.Command{
		Name:  "teams",
		Usage: "split the roster into teams",
		Subcommands: []*cli.Command{
			{
				Name:      "assign",
				Usage:     "deal the roster into N balanced teams",
				ArgsUsage: "N",
				Action: func(c *cli.Context) error {
					n, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return fmt.Errorf("number of teams: %w", err)
					}
					a, err := r.svc.AssignTeams(c.Context, n)
					if err != nil {
						return err
					}
					fmt.Fprintf(r.out, "%d teams, %d athletes (%d High, %d Med, %d Low), %.1f per team\n",
						len(a.Teams), a.Stats.TotalAthletes, a.Stats.HighTier, a.Stats.MedTier, a.Stats.LowTier, a.Stats.AverageTeamSize)
					return r.printTeams(a.Teams)
				},
			},
			{
				Name:  "move",
				Usage: "move an athlete to another team",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "athlete", Required: true},
					&cli.IntFlag{Name: "from", Required: true},
					&cli.IntFlag{Name: "to", Required: true},
				},
				Action: func(c *cli.Context) error {
					teams, err := r.svc.MoveAthlete(c.Context, c.String("athlete"), c.Int("from"), c.Int("to"))
					if err != nil {
						return err
					}
					return r.printTeams(teams)
				},
			},
			{
				Name:  "list",
				Usage: "print the teams",
				Action: func(c *cli.Context) error {
					teams, _ := r.svc.Teams(c.Context)
					return r.printTeams(teams)
				},
			},
			{
				Name:  "reset",
				Usage: "drop every team",
				Action: func(c *cli.Context) error {
					r.svc.ResetTeams(c.Context)
					return nil
				},
			},
		},
	}
}

func (r *runner) printTeams(teams []model.Team) error {
	w := r.table()
	fmt.Fprintln(w, "TEAM\tNAME\tATHLETES")
	for _, t := range teams {
		names := make([]string, len(t.Athletes))
		for i, a := range t.Athletes {
			names[i] = fmt.Sprintf("%s (%s)", a.Name, a.Tier)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.Name, strings.Join(names, ", "))
	}
	return w.Flush()
}

func (r *runner) eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "manage the event pool and the sequence",
		Subcommands: []*cli.Command{
			{
				Name:  "pool",
				Usage: "print the event pool",
				Action: func(c *cli.Context) error {
					w := r.table()
					fmt.Fprintln(w, "CATEGORY\tEVENT\tENABLED")
					for _, cat := range r.svc.EventPool(c.Context) {
						for _, e := range cat.Events {
							fmt.Fprintf(w, "%s\t%s\t%t\n", cat.Name, e.Name, e.Enabled)
						}
					}
					return w.Flush()
				},
			},
			{
				Name:      "enable",
				Usage:     "enable an event",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					return r.svc.SetEventEnabled(c.Context, c.Args().First(), true)
				},
			},
			{
				Name:      "disable",
				Usage:     "disable an event",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					return r.svc.SetEventEnabled(c.Context, c.Args().First(), false)
				},
			},
			{
				Name:  "pool-reset",
				Usage: "restore the default event pool",
				Action: func(c *cli.Context) error {
					r.svc.ResetEventPool(c.Context)
					return nil
				},
			},
			{
				Name:  "generate",
				Usage: "draw a new event sequence",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "total", Usage: "number of events"},
					&cli.IntFlag{Name: "relays", Usage: "number of relays"},
					&cli.IntSliceFlag{Name: "slot", Usage: "1-based relay slot, repeat per relay"},
				},
				Action: func(c *cli.Context) error {
					total, relays := r.svc.GenerationDefaults()
					if c.IsSet("total") {
						total = c.Int("total")
					}
					if c.IsSet("relays") {
						relays = c.Int("relays")
					}
					var slots []int
					for _, s := range c.IntSlice("slot") {
						slots = append(slots, s-1)
					}
					seq, err := r.svc.GenerateSequence(c.Context, total, relays, slots)
					if err != nil {
						return err
					}
					return r.printSequence(seq)
				},
			},
			{
				Name:  "reveal",
				Usage: "reveal the next event",
				Action: func(c *cli.Context) error {
					event, seq, err := r.svc.RevealNext(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintf(r.out, "event %d of %d: %s\n", seq.RevealedIndex, len(seq.Events), event)
					return nil
				},
			},
			{
				Name:  "reset",
				Usage: "drop the sequence and its results",
				Action: func(c *cli.Context) error {
					r.svc.ResetSequence(c.Context)
					return nil
				},
			},
			{
				Name:  "progress-reset",
				Usage: "hide every event again",
				Action: func(c *cli.Context) error {
					r.svc.ResetProgress(c.Context)
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "print the sequence with hidden events masked",
				Action: func(c *cli.Context) error {
					return r.printSequence(r.svc.Sequence(c.Context))
				},
			},
		},
	}
}

func (r *runner) printSequence(seq model.Sequence) error {
	fmt.Fprintf(r.out, "phase: %s\n", seq.Phase())
	w := r.table()
	fmt.Fprintln(w, "SLOT\tEVENT")
	for i, e := range seq.Events {
		if i >= seq.RevealedIndex {
			e = "?"
		}
		fmt.Fprintf(w, "%d\t%s\n", i+1, e)
	}
	return w.Flush()
}

func (r *runner) resultsCommand() *cli.Command {
	return &cli.Command{
		Name:  "results",
		Usage: "record and list event placements",
		Subcommands: []*cli.Command{
			{
				Name:  "submit",
				Usage: "record placements for a revealed event",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "event", Required: true, Usage: "1-based slot"},
					&cli.StringSliceFlag{Name: "place", Required: true, Usage: "TEAM:PLACE, repeat per team"},
				},
				Action: func(c *cli.Context) error {
					placements, err := parsePlacements(c.StringSlice("place"))
					if err != nil {
						return err
					}
					res, err := r.svc.SubmitResult(c.Context, c.Int("event")-1, placements)
					if err != nil {
						return err
					}
					fmt.Fprintf(r.out, "recorded %s with %d placements\n", res.Event, len(res.Placements))
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "print every slot with its status",
				Action: func(c *cli.Context) error {
					w := r.table()
					fmt.Fprintln(w, "SLOT\tEVENT\tSTATUS\tPLACEMENTS")
					for _, row := range r.svc.Results(c.Context) {
						var places []string
						if row.Result != nil {
							for _, p := range row.Result.Placements {
								places = append(places, fmt.Sprintf("%d:%d", p.TeamID, p.Place))
							}
						}
						event := row.Event
						if event == "" {
							event = "?"
						}
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", row.Index+1, event, row.Status, strings.Join(places, " "))
					}
					return w.Flush()
				},
			},
			{
				Name:  "reset",
				Usage: "drop every recorded result",
				Action: func(c *cli.Context) error {
					r.svc.ResetResults(c.Context)
					return nil
				},
			},
		},
	}
}

// parsePlacements reads TEAM:PLACE pairs.
func parsePlacements(values []string) ([]model.Placement, error) {
	out := make([]model.Placement, 0, len(values))
	for _, v := range values {
		team, place, ok := strings.Cut(v, ":")
		if !ok {
			return nil, fmt.Errorf("placement %q: want TEAM:PLACE", v)
		}
		id, err := strconv.Atoi(strings.TrimSpace(team))
		if err != nil {
			return nil, fmt.Errorf("placement %q: team: %w", v, err)
		}
		p, err := strconv.Atoi(strings.TrimSpace(place))
		if err != nil {
			return nil, fmt.Errorf("placement %q: place: %w", v, err)
		}
		out = append(out, model.Placement{TeamID: id, Place: p})
	}
	return out, nil
}

func (r *runner) scoreboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "scoreboard",
		Usage: "print the ranked scoreboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "chart", Usage: "also write a PNG bar chart to this file"},
		},
		Action: func(c *cli.Context) error {
			w := r.table()
			fmt.Fprintln(w, "RANK\tTEAM\tTOTAL\tEVENTS\tAVERAGE")
			for _, ts := range r.svc.Scoreboard(c.Context) {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.1f\n", ts.Rank, ts.Name, ts.TotalScore, ts.EventCount, ts.AverageScore)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			path := c.String("chart")
			if path == "" {
				return nil
			}
			return writeFile(path, func(out io.Writer) error {
				return r.svc.ScoreboardChart(c.Context, out)
			})
		},
	}
}

func (r *runner) exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write a snapshot of the meet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(export.FormatJSON), Usage: "json, yaml or xlsx"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "file to write, \"-\" for stdout, empty for a dated name"},
		},
		Action: func(c *cli.Context) error {
			format, err := export.ParseFormat(c.String("format"))
			if err != nil {
				return err
			}
			path := c.String("output")
			if path == stdoutName {
				_, err := r.svc.Export(c.Context, r.out, string(format))
				return err
			}
			if path == "" {
				path = format.FileName(r.svc.Snapshot(c.Context).ExportDate)
			}
			if err := writeFile(path, func(out io.Writer) error {
				_, err := r.svc.Export(c.Context, out, string(format))
				return err
			}); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "wrote %s\n", path)
			return nil
		},
	}
}

func (r *runner) clearCommand() *cli.Command {
	return &cli.Command{
		Name:      "clear",
		Usage:     "clear stored data, everything but the event pool when no key is given",
		ArgsUsage: "[KEY...]",
		Action: func(c *cli.Context) error {
			return r.svc.ClearData(c.Context, c.Args().Slice()...)
		},
	}
}

func (r *runner) statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print meet statistics",
		Action: func(c *cli.Context) error {
			stats := r.svc.GetStats(c.Context)
			keys := make([]string, 0, len(stats))
			for k := range stats {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			w := r.table()
			for _, k := range keys {
				fmt.Fprintf(w, "%s\t%v\n", k, stats[k])
			}
			return w.Flush()
		},
	}
}

// writeFile creates path and hands it to fn, removing it again when fn fails.
func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
