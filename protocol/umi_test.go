package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runShell(input string) (string, int) {
	var out strings.Builder
	shell := NewShell(strings.NewReader(input), &out)
	code := shell.Run()
	return out.String(), code
}

func TestUMIHandshakePrintsUmiOk(t *testing.T) {
	out, code := runShell("umi\nquit\n")
	assert.Contains(t, out, "id name spooky")
	assert.Contains(t, out, "umiok")
	assert.Equal(t, 0, code)
}

func TestUMIIsReadyRespondsReadyOk(t *testing.T) {
	out, _ := runShell("umi\nisready\nquit\n")
	assert.Contains(t, out, "readyok")
}

func TestUMIUnknownCommandBeforeHandshakeExitsNonZero(t *testing.T) {
	out, code := runShell("bogus\n")
	assert.Contains(t, out, "info error unknown command")
	assert.Equal(t, 1, code)
}

func TestUMIUnknownCommandAfterHandshakeKeepsRunning(t *testing.T) {
	out, code := runShell("umi\nbogus\nquit\n")
	assert.Contains(t, out, "info error unknown command")
	assert.Equal(t, 0, code)
}

func TestUMIPositionStartposThenGetFEN(t *testing.T) {
	out, _ := runShell("umi\nposition startpos\ngetfen\nquit\n")
	assert.NotContains(t, out, "info error no position loaded")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(last, "2 "), "startpos loads a 2-board standard game, so its FEN begins with the board count")
}

func TestUMIGetFENWithoutPositionErrors(t *testing.T) {
	out, _ := runShell("umi\ngetfen\nquit\n")
	assert.Contains(t, out, "info error no position loaded")
}

func TestUMIGoWithoutPositionErrors(t *testing.T) {
	out, _ := runShell("umi\ngo movetime 10\nquit\n")
	assert.Contains(t, out, "info error no position loaded")
}

func TestUMIGoEmitsEndTurn(t *testing.T) {
	out, _ := runShell("umi\nposition startpos\ngo movetime 10 nodes 1\nquit\n")
	assert.Contains(t, out, "endturn")
}

func TestUMIGoEmitsOneEndphasePerBoardFromTheSearchedTurn(t *testing.T) {
	out, _ := runShell("umi\nposition startpos\ngo movetime 200\nquit\n")
	// the recommendation now comes from MCTS.BestTurn's per-board
	// BoardTurn rather than a hardcoded loop, so this must still hold for
	// every board in the position.
	assert.Contains(t, out, "boardaction 0 endphase")
	assert.Contains(t, out, "boardaction 1 endphase")
	assert.Contains(t, out, "info nodes")
}

func TestUMIStopBeforeEngineExistsDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		runShell("umi\nstop\nquit\n")
	})
}

func TestUMIDisplayWithoutPositionErrors(t *testing.T) {
	out, _ := runShell("umi\ndisplay\nquit\n")
	assert.Contains(t, out, "info error no position loaded")
}

func TestUMIPerftReportsCounts(t *testing.T) {
	out, _ := runShell("umi\nposition startpos\nperft 0\nquit\n")
	assert.Contains(t, out, "info perft setup=")
}

func TestUMISetOptionSpells(t *testing.T) {
	var out strings.Builder
	shell := NewShell(strings.NewReader("umi\nsetoption name spells value true\nquit\n"), &out)
	shell.Run()
	assert.True(t, shell.optSpells)
}

func TestUMIQuitReturnsZero(t *testing.T) {
	_, code := runShell("umi\nquit\n")
	assert.Equal(t, 0, code)
}
