// Package main runs the headless autopilot suite against the engine.
// Exit status is non-zero when any scenario fails.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MRamiBalles/CookOff/server/internal/platform/config"
	"github.com/MRamiBalles/CookOff/server/internal/platform/logger"
	"github.com/MRamiBalles/CookOff/server/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	step := flag.Duration("step", 50*time.Millisecond, "simulated frame length")
	reaction := flag.Duration("reaction", 250*time.Millisecond, "autopilot delay between actions")
	seed := flag.Uint64("seed", 0, "override match seed (0 keeps the configured one)")
	only := flag.String("scenario", "", "run a single scenario by name")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Match.Seed = *seed
	}
	log := logger.NewLogger(cfg.Log.Level)

	fmt.Println("KITCHEN AUTOPILOT SUITE")
	fmt.Println(strings.Repeat("=", 60))

	runner := sim.NewRunner(cfg.Match, *step, *reaction, log)
	passed, failed := 0, 0
	for _, sc := range sim.DefaultScenarios() {
		if *only != "" && sc.Name != *only {
			continue
		}
		fmt.Printf("\n> %s: %s\n", sc.Name, sc.Description)
		out := runner.Run(sc)
		printOutcome(out)
		if out.Passed {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("   passed: %d\n", passed)
	fmt.Printf("   failed: %d\n", failed)
	if failed > 0 || passed == 0 {
		os.Exit(1)
	}
}

func printOutcome(out sim.Outcome) {
	r := out.Report
	fmt.Printf("   match %s, %d frames\n", r.MatchID, r.Frames)
	if r.Result != nil {
		fmt.Printf("   scores: %v winners: %v\n", r.Result.Scores, r.Result.Winners)
	}
	if len(r.Served) > 0 {
		fmt.Printf("   served: %v\n", r.Served)
	}
	if out.Passed {
		fmt.Println("   PASS")
		return
	}
	fmt.Println("   FAIL: " + out.Reason)
}
