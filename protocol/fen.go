// Package protocol implements spec §6: the FEN-like text serialization of a
// GameState (§6.2) and the line-oriented UMI shell protocol (§6.1), grounded
// on the teacher's cmd/infer bufio.Scanner stdin loop and zurichez's
// stdlib-only UCI loop style from the retrieval pack.
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Matir03/minions/hexboard"
	"github.com/Matir03/minions/minions"
	"github.com/Matir03/minions/units"
)

// techOrdinal encodes one techline card as a single integer: unit cards use
// their UnitLabel ordinal; special cards are offset past numLabels so the
// same integer stream can describe either, letting FEN fully round-trip a
// non-standard techline rather than assuming NewStandardTechline.
func techOrdinal(card minions.Tech) int {
	if card.IsUnit {
		return int(card.Unit)
	}
	return 21 + int(card.Special) // 21 == units' numLabels
}

func techFromOrdinal(o int, table *units.Table) minions.Tech {
	if o < 21 {
		return minions.UnitTech(units.UnitLabel(o))
	}
	return minions.SpecialCard(minions.SpecialTech(o - 21))
}

// EmitFEN renders g per spec §6.2.
func EmitFEN(g *minions.GameState) string {
	nBoards := len(g.Boards)
	mapIdx := make([]string, nBoards)
	for i := range mapIdx {
		mapIdx[i] = "0" // the only map family this implementation ships, NewStandardMap
	}

	nTechs := g.Config.Techline.Len()
	techIdx := make([]string, nTechs)
	for i, card := range g.Config.Techline.Cards {
		techIdx[i] = strconv.Itoa(techOrdinal(card))
	}

	boardStrs := make([]string, nBoards)
	for i, b := range g.Boards {
		boardStrs[i] = emitBoard(b)
	}

	techStatusStrs := make([]string, 2)
	for s := 0; s < 2; s++ {
		var sb strings.Builder
		for _, st := range g.TechStatus[hexboard.Side(s)] {
			sb.WriteByte(st.FENLetter())
		}
		techStatusStrs[s] = sb.String()
	}

	return fmt.Sprintf("%d %s %d %s %s %d %s %d|%d",
		nBoards,
		strings.Join(mapIdx, ","),
		nTechs,
		strings.Join(techIdx, ","),
		strings.Join(boardStrs, "|"),
		int(g.SideToMove),
		strings.Join(techStatusStrs, "|"),
		g.Money[hexboard.S0], g.Money[hexboard.S1],
	)
}

func emitBoard(b *minions.Board) string {
	rows := make([]string, hexboard.BoardSize)
	for r := 0; r < hexboard.BoardSize; r++ {
		var sb strings.Builder
		empty := 0
		flush := func() {
			if empty > 0 {
				if empty == 10 {
					sb.WriteByte('0')
				} else {
					sb.WriteByte(byte('0' + empty))
				}
				empty = 0
			}
		}
		for f := 0; f < hexboard.BoardSize; f++ {
			loc := hexboard.Loc{File: f, Rank: r}
			p, ok := b.PieceAt(loc)
			if !ok {
				empty++
				continue
			}
			flush()
			letter := p.Label.FENLetter()
			if p.Side == hexboard.S1 {
				letter += 'a' - 'A'
			}
			sb.WriteByte(letter)
		}
		flush()
		rows[r] = sb.String()
	}
	return strings.Join(rows, "/")
}

// ParseFEN reverses EmitFEN, against table for unit-letter lookups.
func ParseFEN(s string, table *units.Table) (*minions.GameState, error) {
	fields := strings.Fields(s)
	if len(fields) != 8 {
		return nil, parseErr("expected 8 space-separated FEN fields, got %d", len(fields))
	}

	nBoards, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, parseErr("bad board count: %v", err)
	}
	mapIdxStrs := strings.Split(fields[1], ",")
	if len(mapIdxStrs) != nBoards {
		return nil, parseErr("map_idx_csv length does not match board count")
	}

	nTechs, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, parseErr("bad tech count: %v", err)
	}
	techIdxStrs := strings.Split(fields[3], ",")
	if len(techIdxStrs) != nTechs {
		return nil, parseErr("tech_idx_csv length does not match tech count")
	}
	cards := make([]minions.Tech, nTechs)
	for i, ts := range techIdxStrs {
		o, err := strconv.Atoi(ts)
		if err != nil {
			return nil, parseErr("bad tech ordinal %q: %v", ts, err)
		}
		cards[i] = techFromOrdinal(o, table)
	}
	techline := &minions.Techline{Cards: cards}

	boardStrs := strings.Split(fields[4], "|")
	if len(boardStrs) != nBoards {
		return nil, parseErr("board_states does not contain %d boards", nBoards)
	}

	maps := make([]*hexboard.Map, nBoards)
	boards := make([]*minions.Board, nBoards)
	for i, bs := range boardStrs {
		m := hexboard.NewStandardMap()
		maps[i] = m
		b, err := parseBoard(bs, m, table)
		if err != nil {
			return nil, errors.Wrapf(err, "board %d", i)
		}
		boards[i] = b
	}

	sideVal, err := strconv.Atoi(fields[5])
	if err != nil || (sideVal != 0 && sideVal != 1) {
		return nil, parseErr("bad side_to_move %q", fields[5])
	}

	techStatusGroups := strings.Split(fields[6], "|")
	if len(techStatusGroups) != 2 {
		return nil, parseErr("tech_status must have two groups separated by |")
	}
	var techStatus hexboard.SideArray[[]minions.TechStatus]
	for s := 0; s < 2; s++ {
		group := techStatusGroups[s]
		if len(group) != nTechs {
			return nil, parseErr("tech_status group %d length does not match n_techs", s)
		}
		st := make([]minions.TechStatus, nTechs)
		for i := 0; i < nTechs; i++ {
			ts, err := techStatusFromLetter(group[i])
			if err != nil {
				return nil, err
			}
			st[i] = ts
		}
		techStatus[hexboard.Side(s)] = st
	}

	moneyStrs := strings.Split(fields[7], "|")
	if len(moneyStrs) != 2 {
		return nil, parseErr("money must be m0|m1")
	}
	var money hexboard.SideArray[int]
	for s := 0; s < 2; s++ {
		v, err := strconv.Atoi(moneyStrs[s])
		if err != nil {
			return nil, parseErr("bad money value %q: %v", moneyStrs[s], err)
		}
		money[hexboard.Side(s)] = v
	}

	cfg := &minions.GameConfig{Table: table, Techline: techline, NumBoards: nBoards}
	g := &minions.GameState{
		Config:      cfg,
		SideToMove:  hexboard.Side(sideVal),
		Boards:      boards,
		TechStatus:  techStatus,
		Money:       money,
	}
	return g, nil
}

func parseBoard(s string, m *hexboard.Map, table *units.Table) (*minions.Board, error) {
	rows := strings.Split(s, "/")
	if len(rows) != hexboard.BoardSize {
		return nil, parseErr("board must have %d rows, got %d", hexboard.BoardSize, len(rows))
	}
	b := minions.NewBoard(m)
	b.State = minions.Normal
	for r, row := range rows {
		file := 0
		for i := 0; i < len(row); i++ {
			c := row[i]
			if c >= '0' && c <= '9' {
				n := int(c - '0')
				if n == 0 {
					n = 10
				}
				file += n
				continue
			}
			label, ok := units.LabelFromFENLetter(c)
			if !ok {
				return nil, parseErr("unknown FEN letter %q", string(c))
			}
			side := hexboard.S0
			if c >= 'a' && c <= 'z' {
				side = hexboard.S1
			}
			loc := hexboard.Loc{File: file, Rank: r}
			b.Pieces[loc] = minions.Piece{Loc: loc, Label: label, Side: side}
			file++
		}
		if file != hexboard.BoardSize {
			return nil, parseErr("row %d sums to %d, want %d", r, file, hexboard.BoardSize)
		}
	}
	return b, nil
}

func techStatusFromLetter(c byte) (minions.TechStatus, error) {
	switch c {
	case 'L':
		return minions.Locked, nil
	case 'U':
		return minions.Unlocked, nil
	case 'A':
		return minions.Acquired, nil
	}
	return minions.Locked, parseErr("unknown tech status letter %q", string(c))
}

func parseErr(format string, args ...interface{}) error {
	return minions.ParseError(fmt.Sprintf(format, args...))
}
