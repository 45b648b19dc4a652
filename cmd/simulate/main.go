// Command simulate plays a seeded level headlessly: a simple player
// autopilot against the configured rival, printing the board every turn.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/level"
	"github.com/vancomm/sanctum-sweeper/internal/rival"
	"github.com/vancomm/sanctum-sweeper/internal/session"
)

func main() {
	var (
		levelName  = flag.String("level", "meadow", "level to play")
		levelsFile = flag.String("levels", "", "YAML level catalogue (built-in levels when empty)")
		seed       = flag.Uint64("seed", 1, "session seed")
		maxTurns   = flag.Int("turns", 40, "stop after this many turns")
		clueKind   = flag.String("clue", string(board.Imperious), "clue the autopilot asks for each turn")
		strategy   = flag.String("rival", "", "force a rival strategy")
		quiet      = flag.Bool("quiet", false, "only print the summary")
		noColor    = flag.Bool("no-color", false, "disable colors")
		verbose    = flag.Bool("v", false, "print engine traces")
	)
	flag.Parse()

	color.NoColor = color.NoColor || *noColor
	if *verbose {
		setEngineLevel(logrus.DebugLevel)
	} else {
		setEngineLevel(logrus.WarnLevel)
	}

	catalogue := level.Default()
	if *levelsFile != "" {
		var err error
		if catalogue, err = level.LoadFile(*levelsFile); err != nil {
			fail(err)
		}
	}
	l, err := catalogue.Lookup(*levelName)
	if err != nil {
		fail(fmt.Errorf("%w (known: %v)", err, catalogue.Names()))
	}
	if *strategy != "" {
		if _, err := rival.Lookup(*strategy); err != nil {
			fail(fmt.Errorf("%w (known: %v)", err, rival.Names()))
		}
	}

	s, err := session.New(l, *seed, *seed)
	if err != nil {
		fail(err)
	}
	if *strategy != "" {
		s.Rival.Override = *strategy
	}

	p := autopilot{clue: board.ClueKind(*clueKind)}
	if !*quiet {
		p.report = func(r turnReport) { printTurn(os.Stdout, s, r) }
	}
	summary, err := p.play(s, *maxTurns)
	if err != nil {
		fail(err)
	}
	printSummary(os.Stdout, l, *seed, s, summary)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("simulate: %v", err))
	os.Exit(1)
}
