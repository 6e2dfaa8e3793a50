// Package main implements the objgc CLI tool.
//
// objgc loads an object-graph scenario into the incremental collector and
// lets an operator watch it work:
//
//	objgc run scenario.json          # simulate a host loop
//	objgc console scenario.json      # interactive gc console
//	objgc render -o heap.png s.json  # picture of the heap mid-cycle
//
// Collector options come from the OBJGC environment variable
// (pause=150,stepmul=200,threshold=262144,verify=1,sites=1); command flags
// override them.
package main

import (
	"fmt"
	"os"

	"github.com/kolkov/objgc/gc"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		runCommand(os.Args[2:])
	case "console":
		consoleCommand(os.Args[2:])
	case "render":
		renderCommand(os.Args[2:])
	case "version", "--version":
		info := gc.GetInfo()
		fmt.Printf("objgc version %s (scenario format %s)\n", info.Version, info.ScenarioFormat)
		fmt.Printf("defaults: pause %d%%, stepmul %d%%, step %d bytes, sweep %d entries\n",
			info.Pause, info.StepMul, info.StepSize, info.SweepMax)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`objgc - incremental tri-color collector playground

USAGE:
    objgc <command> [arguments]

COMMANDS:
    run        Simulate a host loop over a scenario
    console    Interactive console over a scenario
    render     Write a PNG of the heap after some steps
    version    Show version information
    help       Show this help message

EXAMPLES:
    # 600 ticks at 60 fps with 50 garbage objects per tick
    objgc run -ticks 600 -frame 16 -churn 50 scenario.json

    # Status line every tick, cycle transitions on stderr
    objgc run -v scenario.json

    # Step through a cycle by hand
    objgc console scenario.json
    > step 5
    > render step5.png
    > gc full

    # Heap picture after 20 single steps
    objgc render -steps 20 -o heap.png scenario.json

ENVIRONMENT:
    OBJGC    Collector options, comma separated:
             pause=N       pause percentage (default 150)
             stepmul=N     step multiplier percentage (default 200, 0 = unbounded)
             threshold=N   initial threshold in bytes (default 262144)
             verify=BOOL   check the tri-color invariant after every step
             sites=BOOL    record allocation sites for "gc sites"

`)
}
