// Command starling is the Starling front-end CLI: it drives the
// parse/collate/model/guard/graph pipeline over a source file and either
// prints the result or drops into an interactive graph explorer.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/BenSimner/starling-tool/internal/diag"
	"github.com/BenSimner/starling-tool/internal/driver"
	"github.com/BenSimner/starling-tool/internal/graph"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		targetFlag  = flag.String("target", "graph", "pipeline stage to run to: parse|collate|model|guard|graph")
		jsonFlag    = flag.Bool("json", false, "emit errors as JSON reports instead of coloured text")
		compactFlag = flag.Bool("compact", false, "compact JSON output (only meaningful with -json)")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	switch command {
	case "build":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("error"))
			os.Exit(1)
		}
		runBuild(flag.Arg(1), *targetFlag, *jsonFlag, *compactFlag)

	case "graph-repl":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("error"))
			os.Exit(1)
		}
		runGraphRepl(flag.Arg(1))

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("error"), command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(bold("starling - Starling proof-condition compiler"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s <file.st>    Run the pipeline to -target and print the result\n", cyan("build"))
	fmt.Printf("  %s <file.st>    Explore a file's per-method control-flow graphs\n", cyan("graph-repl"))
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

func parseTarget(s string) (driver.Target, error) {
	switch s {
	case "parse":
		return driver.TargetParse, nil
	case "collate":
		return driver.TargetCollate, nil
	case "model":
		return driver.TargetModel, nil
	case "guard":
		return driver.TargetGuard, nil
	case "graph":
		return driver.TargetGraph, nil
	default:
		return 0, fmt.Errorf("unknown target %q", s)
	}
}

func runBuild(path, targetName string, asJSON, compact bool) {
	target, err := parseTarget(targetName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}

	code, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", red("error"), path, err)
		os.Exit(1)
	}

	res, errs := driver.Run(driver.Config{Target: target, JSON: asJSON, Compact: compact}, driver.Source{
		Code:     string(code),
		Filename: path,
	})

	if len(errs) > 0 {
		if asJSON {
			for _, rep := range errs {
				out, err := rep.ToJSON(compact)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					continue
				}
				fmt.Println(out)
			}
		} else {
			diag.PrintAll(os.Stderr, errs, string(code))
		}
		os.Exit(1)
	}

	switch target {
	case driver.TargetGraph:
		names := make([]string, 0, len(res.Artifacts.Graphs))
		for name := range res.Artifacts.Graphs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			printGraph(res.Artifacts.Graphs[name])
		}
	case driver.TargetModel, driver.TargetGuard:
		if m := res.Artifacts.Model; m != nil {
			fmt.Printf("%s globals=%d locals=%d view_defs=%d methods=%d\n", green("ok"),
				len(m.Globals), len(m.Locals), len(m.ViewDefs), len(m.Methods))
			for _, sig := range m.ViewProtos.Signatures() {
				fmt.Printf("  view %s\n", sig)
			}
		}
	default:
		fmt.Printf("%s\n", green("ok"))
	}

	for phase, ms := range res.PhaseTimings {
		fmt.Printf("  %-10s %dms\n", phase, ms)
	}
}

func printGraph(g *graph.Graph) {
	fmt.Printf("%s %s\n", bold(g.Method), cyan(fmt.Sprintf("(entry=%d exit=%d)", g.Entry, g.Exit)))
	for _, e := range g.Edges {
		fmt.Printf("  %d --[%s]--> %d\n", e.From, e.Cmd.Name, e.To)
	}
}

// runGraphRepl lets the user type a method name and see its CFG, with
// readline history via liner (no ANSI colour in the prompt itself —
// liner doesn't support it).
func runGraphRepl(path string) {
	code, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", red("error"), path, err)
		os.Exit(1)
	}

	res, errs := driver.Run(driver.Config{Target: driver.TargetGraph}, driver.Source{
		Code:     string(code),
		Filename: path,
	})
	if len(errs) > 0 {
		diag.PrintAll(os.Stderr, errs, string(code))
		os.Exit(1)
	}

	names := make([]string, 0, len(res.Artifacts.Graphs))
	for name := range res.Artifacts.Graphs {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println(bold("starling graph-repl"))
	fmt.Printf("methods: %s\n", strings.Join(names, ", "))
	fmt.Println("type a method name to print its graph, :quit to exit")

	line := liner.NewLiner()
	defer line.Close()
	line.SetCompleter(func(in string) (c []string) {
		for _, name := range names {
			if strings.HasPrefix(name, in) {
				c = append(c, name)
			}
		}
		return
	})

	for {
		input, err := line.Prompt("graph> ")
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if input == ":quit" {
			break
		}
		g, ok := res.Artifacts.Graphs[input]
		if !ok {
			fmt.Printf("%s: no method named %q\n", red("error"), input)
			continue
		}
		printGraph(g)
	}
}
