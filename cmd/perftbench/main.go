// Command perftbench runs the perft reference suite, reports throughput and
// exits non-zero when any count is wrong.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/hailam/chesssearch/internal/perft"
	"github.com/hailam/chesssearch/internal/storage"
)

var (
	out        = flag.String("out", "", "write the JSON result to this file")
	quick      = flag.Bool("quick", false, "use reduced depths")
	maxDepth   = flag.Int("maxdepth", 0, "cap every case at this depth")
	verify     = flag.Bool("verify", false, "count cases in parallel instead of timing them")
	workers    = flag.Int("workers", 0, "parallel workers for -verify (default GOMAXPROCS)")
	history    = flag.Bool("history", false, "record the run in the history database")
	showRuns   = flag.Int("runs", 0, "print the last N recorded runs and exit")
	export     = flag.String("export", "", "export the recorded history to a parquet file and exit")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	code, err := run()
	if err != nil {
		log.Print("[bench] ", err)
		if code == 0 {
			code = 2
		}
	}
	if code != 0 {
		pprof.StopCPUProfile()
		os.Exit(code)
	}
}

// run returns the process exit status: 1 for a count mismatch, 2 for any
// other failure.
func run() (int, error) {
	if *export != "" || *showRuns > 0 {
		return 0, historyCommand()
	}

	cases, err := selectCases()
	if err != nil {
		return 2, err
	}

	if *verify {
		return verifyCases(cases)
	}

	started := time.Now()
	report, err := perft.Run(cases, perft.Options{})
	if err != nil {
		return 2, err
	}

	result := storage.NewResult(report.Nodes, report.Elapsed)
	fmt.Printf("Nodes: %d\nTime: %.3fs\nNPS: %.0f\n", result.Nodes, result.ElapsedSeconds, result.NodesPerSecond)
	if report.Passed {
		fmt.Println("PASS")
	} else {
		fmt.Println("FAIL")
	}

	if *out != "" {
		if err := storage.WriteResult(*out, result); err != nil {
			return 2, err
		}
		log.Printf("[bench] result written to %s", *out)
	}
	if *history {
		if err := record(started, result, report); err != nil {
			return 2, err
		}
	}

	if !report.Passed {
		return 1, nil
	}
	return 0, nil
}

func selectCases() ([]perft.Case, error) {
	cases := perft.Suite()
	if *quick {
		cases = perft.Quick()
	}
	if *maxDepth > 0 {
		return perft.Scale(cases, *maxDepth)
	}
	return cases, nil
}

func verifyCases(cases []perft.Case) (int, error) {
	n := *workers
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	start := time.Now()
	results, err := perft.Verify(context.Background(), cases, n)
	for _, r := range results {
		if r.Got == 0 {
			continue
		}
		log.Printf("[bench] %-10s depth %d: %d nodes in %v", r.Case.Name, r.Case.Depth, r.Got, r.Elapsed.Round(time.Millisecond))
	}
	if errors.Is(err, perft.ErrMismatch) {
		log.Printf("[bench] %v", err)
		fmt.Println("FAIL")
		return 1, nil
	}
	if err != nil {
		return 2, err
	}
	fmt.Printf("PASS (%d cases, %d workers, %v)\n", len(results), n, time.Since(start).Round(time.Millisecond))
	return 0, nil
}

func record(started time.Time, result storage.Result, report *perft.Report) error {
	store, err := storage.OpenStore("")
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	r := storage.Run{
		StartedAt: started,
		Result:    result,
		Passed:    report.Passed,
		Quick:     *quick,
	}
	for _, c := range report.Cases {
		r.Cases = append(r.Cases, storage.CaseRun{
			Name:           c.Case.Name,
			Depth:          c.Case.Depth,
			Nodes:          c.Got,
			Expected:       c.Case.Nodes,
			ElapsedSeconds: c.Elapsed.Seconds(),
		})
	}
	if err := store.RecordRun(r); err != nil {
		return err
	}
	log.Printf("[bench] run recorded")
	return nil
}

func historyCommand() error {
	store, err := storage.OpenStore("")
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	if *export != "" {
		runs, err := store.Runs(0)
		if err != nil {
			return err
		}
		if err := storage.ExportParquet(*export, runs); err != nil {
			return err
		}
		log.Printf("[bench] exported %d runs to %s", len(runs), *export)
		return nil
	}

	runs, err := store.Runs(*showRuns)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(runs)
}
