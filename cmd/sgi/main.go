// Command sgi is the command-line front end for the indexing engine: a
// thin external collaborator that parses arguments and calls into the
// core the rest of this module implements (the CLI surface itself, per
// the engine's own design notes, is deliberately kept outside the core).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/sgi-dev/sgi/internal/logx"
	"github.com/sgi-dev/sgi/internal/query"
	"github.com/sgi-dev/sgi/internal/sgi"
	"github.com/sgi-dev/sgi/internal/types"
)

var version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "sgi",
		Usage:   "structural code index: PageRank-ranked map, search, and traversal over a project's symbol graph",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "project root", Value: "."},
			&cli.BoolFlag{Name: "count", Usage: "return only the total count"},
			&cli.IntFlag{Name: "offset", Usage: "pagination offset"},
			&cli.IntFlag{Name: "limit", Usage: "max items to return"},
		},
		Commands: []*cli.Command{
			mapCommand(), searchCommand(), symbolsCommand(), callersCommand(),
			depsCommand("deps", false), depsCommand("dependents", true),
			neighborhoodCommand(), orphansCommand(),
			structureCommand(), outlineCommand(),
			contextCommand(), traceCommand(), diffCommand(), historyCommand(),
			reindexCommand(), statsCommand(), uiCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openIndex(c *cli.Context) (*sgi.Index, error) {
	logx.SetVerbose(false)
	return sgi.Open(c.String("root"))
}

func page(c *cli.Context) query.Page {
	return query.Page{Offset: c.Int("offset"), Limit: c.Int("limit"), Count: c.Bool("count")}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func mapCommand() *cli.Command {
	return &cli.Command{
		Name:  "map",
		Usage: "ranked overview of files and symbols",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "focus", Usage: "focus files"},
			&cli.BoolFlag{Name: "structured", Usage: "print structured JSON instead of text"},
		},
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Query.Map(query.MapParams{
				FocusFiles: c.StringSlice("focus"),
				Structured: c.Bool("structured"),
				Page:       page(c),
			})
			if err != nil {
				return err
			}
			if res.Structured != nil || c.Bool("count") {
				return printJSON(res)
			}
			fmt.Print(res.Text)
			return nil
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "substring search over symbol names and signatures",
		ArgsUsage: "<query>",
		Flags:     []cli.Flag{&cli.StringFlag{Name: "kind", Usage: "symbol kind filter"}},
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Query.Search(query.SearchParams{
				Query: c.Args().First(),
				Kind:  types.SymbolKind(c.String("kind")),
				Page:  page(c),
			})
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func symbolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "symbols",
		Usage: "list symbol nodes, optionally filtered by file or kind",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file"},
			&cli.StringFlag{Name: "kind"},
		},
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Query.Symbols(query.SymbolsParams{
				File: c.String("file"),
				Kind: types.SymbolKind(c.String("kind")),
				Page: page(c),
			})
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func callersCommand() *cli.Command {
	return &cli.Command{
		Name:      "callers",
		Usage:     "files and call sites that reference a symbol",
		ArgsUsage: "<symbol>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "narrow to the definition in this file"},
			&cli.IntFlag{Name: "context", Usage: "lines of context around each call site"},
		},
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Query.Callers(query.CallerParams{
				Symbol:  c.Args().First(),
				File:    c.String("file"),
				Context: c.Int("context"),
				Page:    page(c),
			})
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func depsCommand(name string, dependents bool) *cli.Command {
	usage := "outgoing imports of a file"
	if dependents {
		usage = "files that import a file"
	}
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			p := query.FileParams{File: c.Args().First(), Page: page(c)}
			var res query.FileListResult
			if dependents {
				res, err = ix.Query.Dependents(p)
			} else {
				res, err = ix.Query.Dependencies(p)
			}
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func neighborhoodCommand() *cli.Command {
	return &cli.Command{
		Name:      "neighborhood",
		Usage:     "BFS-reachable files around a starting file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "hops", Value: 2},
			&cli.BoolFlag{Name: "include-dependents"},
			&cli.IntFlag{Name: "max-files", Value: 15},
		},
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Query.Neighborhood(query.NeighborhoodParams{
				File:              c.Args().First(),
				Hops:              c.Int("hops"),
				IncludeDependents: c.Bool("include-dependents"),
				MaxFiles:          c.Int("max-files"),
				Count:             c.Bool("count"),
			})
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func orphansCommand() *cli.Command {
	return &cli.Command{
		Name:  "orphans",
		Usage: "files with no imports, or symbols with no external references",
		Flags: []cli.Flag{&cli.StringFlag{Name: "level", Value: "file"}},
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Query.Orphans(query.OrphansParams{
				Level: query.OrphanLevel(c.String("level")),
				Page:  page(c),
			})
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

// structureCommand is the CLI surface's "structure" entry, an alias for
// outline's collapsed rendering — the two names both describe "show me
// this file's shape without its bodies".
func structureCommand() *cli.Command {
	return &cli.Command{
		Name:      "structure",
		Usage:     "collapsed structural outline of a file (alias of outline)",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{&cli.BoolFlag{Name: "callers", Usage: "annotate with external caller counts"}},
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Outline(c.Args().First(), nil, c.Bool("callers"))
			if err != nil {
				return err
			}
			fmt.Print(res.Text)
			return nil
		},
	}
}

func outlineCommand() *cli.Command {
	return &cli.Command{
		Name:      "outline",
		Usage:     "render a file's structure, or expand named symbols in full",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "expand", Usage: "symbol names to print in full"},
			&cli.BoolFlag{Name: "callers", Usage: "annotate with external caller counts"},
		},
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Outline(c.Args().First(), c.StringSlice("expand"), c.Bool("callers"))
			if err != nil {
				return err
			}
			fmt.Print(res.Text)
			if len(res.Suggestions) > 0 {
				fmt.Fprintf(os.Stderr, "no match; did you mean: %v\n", res.Suggestions)
			}
			return nil
		},
	}
}

func contextCommand() *cli.Command {
	return &cli.Command{
		Name:      "context",
		Usage:     "a symbol's used symbols, type previews, and caller files",
		ArgsUsage: "<symbol>",
		Flags:     []cli.Flag{&cli.StringFlag{Name: "file"}},
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Query.Context(query.ContextParams{Symbol: c.Args().First(), File: c.String("file")})
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func traceCommand() *cli.Command {
	return &cli.Command{
		Name:      "trace",
		Usage:     "walk upward from a symbol through its callers",
		ArgsUsage: "<symbol>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file"},
			&cli.IntFlag{Name: "depth", Value: 3},
		},
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Query.Trace(query.TraceParams{
				Symbol: c.Args().First(),
				File:   c.String("file"),
				Depth:  c.Int("depth"),
			})
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "definitions added/removed/modified versus a git ref, ranked by external caller count",
		Flags: []cli.Flag{&cli.StringFlag{Name: "ref", Value: "HEAD"}},
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Query.Diff(context.Background(), query.DiffParams{Ref: c.String("ref")})
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "commit history for a symbol's line range, or an explicit file+range",
		ArgsUsage: "[symbol]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file"},
			&cli.IntFlag{Name: "line-start"},
			&cli.IntFlag{Name: "line-end"},
			&cli.IntFlag{Name: "skip"},
		},
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Query.History(context.Background(), query.HistoryParams{
				File:      c.String("file"),
				Symbol:    c.Args().First(),
				LineStart: c.Int("line-start"),
				LineEnd:   c.Int("line-end"),
				Skip:      c.Int("skip"),
				Limit:     c.Int("limit"),
			})
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func reindexCommand() *cli.Command {
	return &cli.Command{
		Name:  "reindex",
		Usage: "discard the persisted index and rebuild from scratch",
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Reindex()
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "file and symbol counts for the current index",
		Action: func(c *cli.Context) error {
			ix, err := openIndex(c)
			if err != nil {
				return err
			}
			res, err := ix.Stats()
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

// uiCommand exists because the CLI surface names it, but the browser UI
// itself is out of scope for this engine.
func uiCommand() *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "browser UI (not implemented; out of scope for this engine)",
		Action: func(c *cli.Context) error {
			return cli.Exit("the browser UI is a separate collaborator and isn't part of this engine", 1)
		},
	}
}
