// Command perft counts legal actions from the standard starting position,
// replacing the teacher's cmd/generatemoves (which enumerated and logged
// chess moves for a dataset) with a board-state legal-action counter for
// Minions, grounded on the same flag-driven, log.Fatal-on-error shape.
package main

import (
	"flag"
	"log"

	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
)

var (
	numBoardsFlag = flag.Int("boards", 2, "number of boards in the standard position")
	boardIdxFlag  = flag.Int("board", 0, "which board index to enumerate")
)

func main() {
	flag.Parse()

	if *numBoardsFlag <= 0 {
		log.Fatal("boards must be positive")
	}
	if *boardIdxFlag < 0 || *boardIdxFlag >= *numBoardsFlag {
		log.Fatal("board index out of range")
	}

	cfg := minions.NewStandardConfig(*numBoardsFlag)
	maps := make([]*hexboard.Map, *numBoardsFlag)
	for i := range maps {
		maps[i] = hexboard.NewStandardMap()
	}
	g := minions.NewGame(cfg, maps)

	b := g.Boards[*boardIdxFlag]
	side := g.SideToMove

	setups := minions.LegalSetup(b, side, cfg.Table)
	attacks := minions.LegalAttacks(b, side, cfg.Table)
	spawns := minions.ValidSpawnHexes(b, side, false, cfg.Table)

	log.Printf("board %d: %d setup actions, %d attack candidates, %d ground spawn hexes",
		*boardIdxFlag, len(setups), len(attacks), len(spawns))
}
