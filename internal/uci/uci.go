// Package uci implements the command loop side of the Universal Chess
// Interface protocol: parsing GUI commands off stdin and printing info/
// bestmove responses to stdout, backed by the controller/options/search/tt
// packages for everything that isn't protocol plumbing.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/andtsa/chesscore/internal/board"
	"github.com/andtsa/chesscore/internal/controller"
	"github.com/andtsa/chesscore/internal/options"
	"github.com/andtsa/chesscore/internal/position"
	"github.com/andtsa/chesscore/internal/search"
	"github.com/andtsa/chesscore/internal/tt"
)

// UCI is the protocol handler: one per engine process, holding the
// current game position plus the shared table/options/controller state
// that search calls read from.
type UCI struct {
	table *tt.Table
	opts  *options.Store
	ctrl  *controller.Controller
	log   zerolog.Logger

	pos            *board.Position
	positionHashes []uint64

	searching  bool
	searchDone chan struct{}
}

// New returns a UCI handler at the standard chess starting position.
func New(log zerolog.Logger) *UCI {
	o := options.NewStore()
	hashMB := o.Get().HashMB
	u := &UCI{
		table: tt.New(hashMB),
		opts:  o,
		ctrl:  controller.New(),
		log:   log,
		pos:   board.NewPosition(),
	}
	u.positionHashes = []uint64{u.pos.Hash}
	return u
}

// Run reads commands from stdin until "quit" or EOF.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleQuit()
		case "setoption":
			u.handleSetOption(args)
		case "debug":
			// UCI's own top-level "debug on/off" toggle is distinct from
			// the per-module debug spins; treated as a no-op alias since
			// every module already has its own dial.
		case "d":
			fmt.Println(u.pos.String())
		case "perft":
			u.handlePerft(args)
		}
	}
}

func (u *UCI) handleUCI() {
	fmt.Println("id name chesscore")
	fmt.Println("id author andtsa")
	fmt.Println()
	for _, spec := range options.RegisterOptions() {
		switch spec.Type {
		case "check":
			fmt.Printf("option name %s type check default %v\n", spec.Name, spec.DefaultCheck)
		case "spin":
			fmt.Printf("option name %s type spin default %d min %d max %d\n", spec.Name, spec.DefaultSpin, spec.Min, spec.Max)
		}
	}
	fmt.Println("uciok")
}

func (u *UCI) handleNewGame() {
	u.waitIfSearching()
	u.table.Clear()
	u.pos = board.NewPosition()
	u.positionHashes = []uint64{u.pos.Hash}
}

// handlePosition parses `position [startpos|fen <fen>] [moves ...]`.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	u.waitIfSearching()

	moveStart := len(args)
	for i, a := range args {
		if a == "moves" {
			moveStart = i + 1
			break
		}
	}

	switch args[0] {
	case "startpos":
		u.pos = board.NewPosition()
	case "fen":
		fenEnd := moveStart - 1
		if moveStart == len(args) {
			fenEnd = len(args)
		}
		pos, err := board.ParseFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			u.log.Error().Err(err).Msg("invalid FEN in position command")
			return
		}
		u.pos = pos
	default:
		return
	}

	u.positionHashes = []uint64{u.pos.Hash}
	for _, s := range args[moveStart:] {
		m, err := board.ParseMove(s, u.pos)
		if err != nil {
			u.log.Error().Err(err).Str("move", s).Msg("invalid move in position command")
			return
		}
		u.pos.MakeMove(m)
		u.positionHashes = append(u.positionHashes, u.pos.Hash)
	}
}

// handleGo parses search limits and starts IterativeDeepening in a
// goroutine, relaying its messages to stdout until KindBestMove, at which
// point any KindPonder seen along the way is appended to the bestmove line.
func (u *UCI) handleGo(args []string) {
	u.waitIfSearching()

	limits := parseGoLimits(args)
	ply := len(u.positionHashes) - 1
	white := u.pos.SideToMove == board.White
	u.ctrl.Begin(limits, white, ply)

	root := position.New(u.pos.Copy(), u.positionHashes[:len(u.positionHashes)-1])

	opts := u.opts.Get()
	searchLog := u.log.Level(opts.Search.ZerologLevel())
	s := search.New(u.table, u.opts, u.ctrl, searchLog)

	messages := make(chan search.Message, 256)
	u.searching = true
	u.searchDone = make(chan struct{})

	go func() {
		s.IterativeDeepening(root, messages)
		close(messages)
	}()

	go func() {
		defer close(u.searchDone)
		start := time.Now()
		var ponder board.Move = board.NoMove
		for msg := range messages {
			switch msg.Kind {
			case search.KindInfo:
				u.sendInfo(msg.Info, time.Since(start), s.Nodes())
			case search.KindPonder:
				ponder = msg.Move
			case search.KindBestMove:
				u.searching = false
				if msg.Move == board.NoMove {
					fmt.Println("bestmove 0000")
				} else if ponder != board.NoMove {
					fmt.Printf("bestmove %s ponder %s\n", msg.Move.String(), ponder.String())
				} else {
					fmt.Printf("bestmove %s\n", msg.Move.String())
				}
			}
		}
	}()
}

func parseGoLimits(args []string) controller.Limits {
	var l controller.Limits
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				l.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				l.Nodes, _ = strconv.ParseUint(args[i+1], 10, 64)
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				l.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			l.Infinite = true
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				l.WhiteTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				l.BlackTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				l.WhiteInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				l.BlackInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				l.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}
	return l
}

// sendInfo writes one `info ...` line in UCI's score/nodes/time/nps/pv
// format.
func (u *UCI) sendInfo(info search.Info, elapsed time.Duration, nodes uint64) {
	parts := []string{fmt.Sprintf("depth %d", info.Depth)}
	parts = append(parts, "score "+info.Score.String())
	parts = append(parts, fmt.Sprintf("nodes %d", nodes))
	parts = append(parts, fmt.Sprintf("time %d", elapsed.Milliseconds()))
	if elapsed > 0 {
		nps := uint64(float64(nodes) / elapsed.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	parts = append(parts, fmt.Sprintf("hashfull %d", u.table.HashFull()))
	if len(info.PV) > 0 {
		strs := make([]string, len(info.PV))
		for i, m := range info.PV {
			strs[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(strs, " "))
	}
	fmt.Printf("info %s\n", strings.Join(parts, " "))
}

func (u *UCI) handleStop() {
	if u.searching {
		u.ctrl.Stop()
		<-u.searchDone
	}
}

func (u *UCI) waitIfSearching() {
	if u.searching {
		u.ctrl.Stop()
		<-u.searchDone
	}
}

func (u *UCI) handleQuit() {
	u.ctrl.Quit()
	if u.searching {
		<-u.searchDone
	}
	os.Exit(0)
}

// handleSetOption applies `setoption name <name> value <value>`.
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	var readingName, readingValue bool
	for _, a := range args {
		switch a {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				name = joinWord(name, a)
			} else if readingValue {
				value = joinWord(value, a)
			}
		}
	}

	o := u.opts.Get()
	updated, err := o.Receive(strings.ToLower(name), value)
	if err != nil {
		u.log.Error().Err(err).Str("name", name).Str("value", value).Msg("setoption rejected")
		return
	}
	u.opts.Set(updated)
	if strings.ToLower(name) == "hash" {
		if mb, convErr := strconv.Atoi(value); convErr == nil {
			u.table.Resize(mb)
		}
	}
}

func joinWord(existing, next string) string {
	if existing == "" {
		return next
	}
	return existing + " " + next
}

// handlePerft runs a plain move-count perft from the current position, a
// debugging aid for move generator regressions rather than a UCI-standard
// command.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}
	start := time.Now()
	nodes := perft(u.pos, depth)
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}

func perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		nodes += perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
	}
	return nodes
}

