package protocol

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Matir03/minions/eval"
	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
	"github.com/Matir03/minions/search"
	"github.com/Matir03/minions/units"
)

// Shell runs spec §6.1's UMI command loop over in/out, the same
// bufio.Scanner-driven read loop shape as the teacher's cmd/infer main.
type Shell struct {
	in  *bufio.Scanner
	out io.Writer

	table *units.Table
	state *minions.GameState
	eng   *search.Engine

	optSpells bool
}

// NewShell builds a shell over the given streams, with no position loaded
// (a "position" command is required before "go").
func NewShell(in io.Reader, out io.Writer) *Shell {
	return &Shell{
		in:    bufio.NewScanner(in),
		out:   out,
		table: units.NewTable(),
	}
}

// Run reads commands until "quit" or EOF, returning the process exit code
// per spec §6.3: 0 on clean quit, non-zero on a protocol error before
// "umiok" was ever issued.
func (s *Shell) Run() int {
	issuedUmiOk := false
	for s.in.Scan() {
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd := fields[0]
		args := fields[1:]

		switch cmd {
		case "umi":
			s.printf("id name spooky\n")
			s.printf("id author minions\n")
			s.printf("option name spells type check default false\n")
			s.printf("umiok\n")
			issuedUmiOk = true
		case "isready":
			s.printf("readyok\n")
		case "setoption":
			s.handleSetOption(args)
		case "position":
			if err := s.handlePosition(args); err != nil {
				s.printf("info error %v\n", err)
				if !issuedUmiOk {
					return 1
				}
			}
		case "go":
			s.handleGo(args)
		case "stop":
			if s.eng != nil {
				s.eng.Budget.Stop()
			}
		case "play":
			s.printf("info error play requires board/action arguments not yet implemented in this shell\n")
		case "turn":
			s.handleGo(args)
		case "display":
			s.handleDisplay()
		case "perft":
			s.handlePerft(args)
		case "getfen":
			if s.state != nil {
				s.printf("%s\n", EmitFEN(s.state))
			} else {
				s.printf("info error no position loaded\n")
			}
		case "quit":
			return 0
		default:
			s.printf("info error unknown command %q\n", cmd)
			if !issuedUmiOk {
				return 1
			}
		}
	}
	return 0
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) handleSetOption(args []string) {
	// "setoption name spells value true"
	if len(args) < 4 || args[0] != "name" || args[2] != "value" {
		s.printf("info error malformed setoption\n")
		return
	}
	if args[1] == "spells" {
		s.optSpells = args[3] == "true"
	}
}

func (s *Shell) handlePosition(args []string) error {
	if len(args) == 0 {
		return minions.ParseError("position requires an argument")
	}
	switch args[0] {
	case "startpos":
		cfg := minions.NewStandardConfig(2)
		s.table = cfg.Table
		maps := []*hexboard.Map{hexboard.NewStandardMap(), hexboard.NewStandardMap()}
		s.state = minions.NewGame(cfg, maps)
		return nil
	case "fen":
		if len(args) < 2 {
			return minions.ParseError("position fen requires a FEN string")
		}
		g, err := ParseFEN(strings.Join(args[1:], " "), s.table)
		if err != nil {
			return err
		}
		s.state = g
		return nil
	}
	return minions.ParseError("unknown position argument " + args[0])
}

func (s *Shell) handleGo(args []string) {
	if s.state == nil {
		s.printf("info error no position loaded\n")
		return
	}
	movetime := 1000 * time.Millisecond
	maxNodes := 0
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "movetime":
			if i+1 < len(args) {
				if ms, err := strconv.Atoi(args[i+1]); err == nil {
					movetime = time.Duration(ms) * time.Millisecond
				}
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				if n, err := strconv.Atoi(args[i+1]); err == nil {
					maxNodes = n
				}
				i++
			}
		}
	}

	conf := search.DefaultConfig()
	ev := eval.NewHeuristic(s.table, len(s.state.Boards))
	budget := search.NewBudget(movetime, maxNodes)
	s.eng = search.NewEngine(s.state, s.state.SideToMove, conf, ev, budget)

	if err := s.eng.Run(context.Background()); err != nil {
		s.printf("info error %v\n", err)
	}

	s.printf("info nodes %d\n", s.eng.Tree.Nodes())
	s.emitTurnActions(s.eng.Tree.BestTurn())
	s.printf("endturn\n")
}

// emitTurnActions prints the wire-level actions for turn, the search's
// actual recommendation (spec §6.1). A nil turn (the root never expanded,
// e.g. the game was already decided) falls back to a pass: every board
// simply ends its phase.
func (s *Shell) emitTurnActions(turn *minions.GameTurn) {
	if turn == nil {
		for i := range s.state.Boards {
			s.printf("action boardaction %d endphase\n", i)
		}
		return
	}

	for i := 0; i < turn.SpellBuys; i++ {
		s.printf("action buyspell\n")
	}
	side := s.state.SideToMove
	for _, idx := range turn.TechAssignment {
		if s.state.TechStatus[side][idx] == minions.Unlocked {
			s.printf("action acquiretech %d\n", idx)
		} else {
			s.printf("action advancetech %d\n", idx)
		}
	}
	for i, bt := range turn.BoardTurns {
		s.emitBoardTurn(i, bt)
	}
}

func (s *Shell) emitBoardTurn(idx int, bt minions.BoardTurn) {
	for _, a := range bt.Setup {
		s.printf("action boardaction %d setup necromancer %c %s\n", idx, a.Unit.FENLetter(), a.Loc)
	}
	for _, a := range bt.Attack {
		switch a.Kind {
		case minions.Move:
			s.printf("action boardaction %d move %s %s\n", idx, a.From, a.To)
		case minions.Attack:
			s.printf("action boardaction %d attack %s %s\n", idx, a.Attacker, a.Target)
		}
	}
	for _, a := range bt.Spawn {
		switch a.Kind {
		case minions.Buy:
			s.printf("action boardaction %d buy %c\n", idx, a.Unit.FENLetter())
		case minions.Spawn:
			s.printf("action boardaction %d spawn %c %s\n", idx, a.Unit.FENLetter(), a.Loc)
		}
	}
	s.printf("action boardaction %d endphase\n", idx)
}

func (s *Shell) handleDisplay() {
	if s.state == nil {
		s.printf("info error no position loaded\n")
		return
	}
	s.printf("%s\n", s.state.String())
	s.printf("%s\n", EmitFEN(s.state))
}

func (s *Shell) handlePerft(args []string) {
	if s.state == nil || len(args) == 0 {
		s.printf("info error perft requires a loaded position and board index\n")
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 0 || idx >= len(s.state.Boards) {
		s.printf("info error bad board index\n")
		return
	}
	b := s.state.Boards[idx]
	side := s.state.SideToMove
	setups := minions.LegalSetup(b, side, s.table)
	attacks := minions.LegalAttacks(b, side, s.table)
	s.printf("info perft setup=%d attacks=%d\n", len(setups), len(attacks))
}
