// Command corecheck is the thin CLI surface exercising internal/coredriver
// end-to-end: it mirrors a check/build/run/test/repl command surface, but
// only check is implemented here — parsing, linking, and execution live
// in a separate front end this module does not carry.
//
// Grounded on main.go flag-based command dispatch and
// fatih/color SprintFunc styling.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/axion-lang/coreinfer/internal/coreconfig"
	"github.com/axion-lang/coreinfer/internal/coreerrors"
	"github.com/axion-lang/coreinfer/internal/coredriver"
	"github.com/axion-lang/coreinfer/internal/coresolve"
	"github.com/axion-lang/coreinfer/internal/corewire"
)

var (
	Version = "dev"
	Commit  = "unknown"

	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("corecheck", flag.ContinueOnError)
	versionFlag := fs.Bool("version", false, "print version information")
	helpFlag := fs.Bool("help", false, "show help")
	configPath := fs.String("configfile", "", "path to a coreconfig YAML file")
	plainFlag := fs.Bool("plain", false, "force uncolored diagnostic output")
	cfgOut := coreconfig.FlagSet(fs, coreconfig.Default())

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *versionFlag {
		printVersion()
		return 0
	}
	if *helpFlag || fs.NArg() == 0 {
		printHelp()
		return 0
	}

	cfg := *cfgOut
	if *configPath != "" {
		loaded, err := coreconfig.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			return 2
		}
		reparsed := flag.NewFlagSet("corecheck", flag.ContinueOnError)
		over := coreconfig.FlagSet(reparsed, loaded)
		fs.Visit(func(f *flag.Flag) {
			if reparsed.Lookup(f.Name) != nil {
				_ = reparsed.Set(f.Name, f.Value.String())
			}
		})
		cfg = *over
	}

	command := fs.Arg(0)
	switch command {
	case "check":
		if fs.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: corecheck check <program.json>")
			return 2
		}
		return runCheck(fs.Arg(1), cfg, *plainFlag)

	case "build", "run", "test", "repl":
		fmt.Fprintf(os.Stderr,
			"%s: %q is not implemented by this CLI; only type/effect checking (check) is in scope here\n",
			red("Error"), command)
		return 2

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), command)
		printHelp()
		return 2
	}
}

func runCheck(path string, cfg coreconfig.Config, forcePlain bool) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %q: %v\n", red("Error"), path, err)
		return 2
	}

	program, err := corewire.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 2
	}

	defs, err := program.FuncDecls()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 2
	}

	env, err := program.BuildEnv(cfg.Lib)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 2
	}

	report, errs := coredriver.Run(context.Background(), defs, env, cfg)

	if len(errs) > 0 {
		printDiagnostics(errs, cfg, forcePlain)
		return 1
	}

	if len(report.Obligations) > 0 {
		printDiagnostics(obligationErrors(report.Obligations), cfg, forcePlain)
		return 1
	}

	printSummary(report, cfg)
	if cfg.Stats {
		printStats(report, cfg)
	}
	return 0
}

// obligationErrors converts a run's leftover class obligations (a
// definition generalized with a still-unresolved Class(sym, head)
// constraint) into AmbiguousInstance diagnostics, so a clean inference
// pass that nonetheless couldn't pick an instance is reported as a
// failure rather than printed as success.
func obligationErrors(obligations []coresolve.Obligation) []error {
	errs := make([]error, len(obligations))
	for i, o := range obligations {
		errs[i] = coreerrors.AmbiguousInstance(o.Loc, o.Sym, o.Head)
	}
	return errs
}

func printDiagnostics(errs []error, cfg coreconfig.Config, forcePlain bool) {
	var formatter coreerrors.Formatter = coreerrors.ANSIFormatter{}
	if cfg.JSON {
		formatter = coreerrors.JSONFormatter{}
	} else if forcePlain {
		formatter = coreerrors.PlainFormatter{}
	}

	var jsonLines []string
	for _, err := range errs {
		ce, ok := err.(*coreerrors.CoreError)
		if !ok {
			if cfg.JSON {
				jsonLines = append(jsonLines, fmt.Sprintf(`{"error":%q}`, err.Error()))
			} else {
				fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			}
			continue
		}
		if cfg.JSON {
			jsonLines = append(jsonLines, formatter.Format(ce))
			continue
		}
		fmt.Println(formatter.Format(ce))
	}
	if cfg.JSON {
		fmt.Printf("[%s]\n", joinJSON(jsonLines))
	}
}

func joinJSON(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += ","
		}
		out += l
	}
	return out
}

func printSummary(report *coredriver.Report, cfg coreconfig.Config) {
	if cfg.Verbosity == coreconfig.VerbositySilent {
		return
	}
	summaries := corewire.Summarize(report)
	if cfg.JSON {
		data, _ := json.Marshal(summaries)
		fmt.Println(string(data))
		return
	}
	for _, s := range summaries {
		fmt.Printf("%s : %s \\ %s\n", cyan(s.Sym), s.Type, s.Eff)
	}
}

func printStats(report *coredriver.Report, cfg coreconfig.Config) {
	if cfg.JSON {
		data, _ := json.Marshal(report.Stats)
		fmt.Println(string(data))
		return
	}
	fmt.Printf("%s threads=%d lines=%d iterations=%d\n",
		bold("stats"), report.Stats.Threads, report.Stats.Lines, report.Stats.Iterations)
}

func printVersion() {
	fmt.Printf("corecheck %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("commit: %s\n", Commit)
	}
}

func printHelp() {
	fmt.Println(bold("corecheck - constraint-based type and effect checker"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  corecheck <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <program.json>   Type/effect-check a resolved-AST program\n", cyan("check"))
	fmt.Printf("  %s                  Not implemented here\n", cyan("build"))
	fmt.Printf("  %s                  Not implemented here\n", cyan("run"))
	fmt.Printf("  %s                  Not implemented here\n", cyan("test"))
	fmt.Printf("  %s                  Not implemented here\n", cyan("repl"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version         Print version information")
	fmt.Println("  --help            Show this help message")
	fmt.Println("  --configfile      Load a coreconfig YAML file before flag overrides")
	fmt.Println("  --plain           Force uncolored diagnostic output")
	fmt.Println("  --lib, --threads, --timeout, --verbosity, --json, --x-statistics, ...")
	fmt.Println("                    see coreconfig.FlagSet")
}
