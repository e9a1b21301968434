package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"maxsum/agent"
	"maxsum/game"
	"maxsum/generator"
	"maxsum/heuristic"
	"maxsum/solver"
)

const (
	// MaxNumbers bounds the sequences the server accepts or generates. The
	// solver table grows with the square of the length.
	MaxNumbers      = 1000
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 5 * time.Second
)

// Server answers the web game: it deals sequences and plays the computer's
// side. It keeps no per-game state; clients send the numbers still in play,
// or the whole deal with the bounds of what is left.
type Server struct {
	length    int
	maxValue  int
	semantics solver.Semantics
	variant   heuristic.Variant

	mu  sync.Mutex // guards gen
	gen *generator.Generator
}

type Option func(s *Server)

func WithBoard(length, maxValue int) Option {
	return func(s *Server) {
		s.length = length
		s.maxValue = maxValue
	}
}

func WithSemantics(semantics solver.Semantics) Option {
	return func(s *Server) {
		s.semantics = semantics
	}
}

func WithVariant(variant heuristic.Variant) Option {
	return func(s *Server) {
		s.variant = variant
	}
}

func New(seed uint64, opts ...Option) *Server {
	s := &Server{
		length:   generator.DefaultLength,
		maxValue: generator.DefaultMaxValue,
		gen:      generator.New(seed),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /start-game", s.handleStartGame)
	mux.HandleFunc("POST /computer-move", s.handleComputerMove)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return logRequests(mux)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}

type startGameRequest struct {
	BoardLength int `json:"boardLength"`
}

type startGameResponse struct {
	Numbers []int `json:"numbers"`
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := decode(w, r, &req, true); err != nil {
		writeError(w, err)
		return
	}
	length := s.length
	if req.BoardLength != 0 {
		length = req.BoardLength
	}
	if length > MaxNumbers {
		writeError(w, fmt.Errorf("board length %d above %d: %w", length, MaxNumbers, game.ErrInvalidInput))
		return
	}

	s.mu.Lock()
	seq, err := s.gen.OddSum(length, s.maxValue)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, startGameResponse{Numbers: seq.Values()})
}

// Left and Right are optional. When set, Numbers is the full deal and the
// game continues over [Left, Right]; the fixed parity heuristic needs the
// deal to keep its opening target.
type computerMoveRequest struct {
	Player  int   `json:"player"` // the human's seat
	Numbers []int `json:"numbers"`
	Left    *int  `json:"left,omitempty"`
	Right   *int  `json:"right,omitempty"`
}

type moveResponse struct {
	Choice      *int       `json:"choice"`
	Side        *game.Side `json:"side,omitempty"`
	Explanation string     `json:"explanation,omitempty"`
}

func (s *Server) handleComputerMove(w http.ResponseWriter, r *http.Request) {
	var req computerMoveRequest
	if err := decode(w, r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	if req.Player != game.Player1 && req.Player != game.Player2 {
		writeError(w, fmt.Errorf("player %d: %w", req.Player, game.ErrInvalidInput))
		return
	}
	if (req.Left == nil) != (req.Right == nil) {
		writeError(w, fmt.Errorf("left and right go together: %w", game.ErrInvalidInput))
		return
	}
	if len(req.Numbers) == 0 {
		writeJSON(w, moveResponse{})
		return
	}
	seq, err := sequence(req.Numbers)
	if err != nil {
		writeError(w, err)
		return
	}
	remaining := seq.Full()
	if req.Left != nil {
		remaining = game.Range{Left: *req.Left, Right: *req.Right}
		if remaining.Left == remaining.Right+1 && remaining.Left >= 0 && remaining.Left <= seq.Len() {
			writeJSON(w, moveResponse{})
			return
		}
		if err := remaining.Check(seq.Len()); err != nil {
			writeError(w, err)
			return
		}
	}

	opts := []agent.Option{agent.WithSemantics(s.semantics), agent.WithVariant(s.variant)}
	var table *solver.Table
	if req.Player == game.Player1 {
		if table, err = solver.Build(seq, s.semantics); err != nil {
			writeError(w, err)
			return
		}
		opts = append(opts, agent.WithTable(table))
	}
	computer, err := agent.Opponent(req.Player, seq, opts...)
	if err != nil {
		writeError(w, err)
		return
	}
	session := game.NewSession(seq)
	session.Range = remaining
	session.Player = game.Opponent(req.Player)
	choice, err := computer.FindMove(session)
	if err != nil {
		writeError(w, err)
		return
	}

	var explanation string
	if table != nil {
		explanation, err = explainTable(table, remaining)
	} else {
		explanation, err = explainParity(seq, remaining, s.variant)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	log.Debug().Msgf("%s took %d from the %s", computer.Name(), choice.Value, choice.Side)
	writeJSON(w, moveResponse{Choice: &choice.Value, Side: &choice.Side, Explanation: explanation})
}

type analyzeRequest struct {
	Numbers   []int            `json:"numbers"`
	Semantics solver.Semantics `json:"semantics"`
}

type analyzeResponse struct {
	Semantics solver.Semantics `json:"semantics"`
	Value     int              `json:"value"`
	Choice    int              `json:"choice"`
	Side      game.Side        `json:"side"`
	Line      []game.Choice    `json:"line"`
	Scores    [2]int           `json:"scores"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decode(w, r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	seq, err := sequence(req.Numbers)
	if err != nil {
		writeError(w, err)
		return
	}
	table, err := solver.Build(seq, req.Semantics)
	if err != nil {
		writeError(w, err)
		return
	}
	line, final, err := table.Line(game.NewSession(seq))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, analyzeResponse{
		Semantics: req.Semantics,
		Value:     table.Root(),
		Choice:    line[0].Value,
		Side:      line[0].Side,
		Line:      line,
		Scores:    final.Scores,
	})
}

func explainTable(table *solver.Table, r game.Range) (string, error) {
	cmp, err := table.Compare(r)
	if err != nil {
		return "", err
	}
	if table.Semantics() == solver.OwnScore {
		return fmt.Sprintf("taking the left end leaves the opponent %d, taking the right end leaves %d", cmp.Left, cmp.Right), nil
	}
	return fmt.Sprintf("the left end nets %d, the right end nets %d", cmp.Left, cmp.Right), nil
}

func explainParity(seq game.Sequence, r game.Range, variant heuristic.Variant) (string, error) {
	sums, err := heuristic.RangeSums(seq, r)
	if err != nil {
		return "", err
	}
	var target heuristic.Parity
	if variant == heuristic.Fixed {
		target, err = heuristic.FixedParity(seq)
	} else {
		target, err = heuristic.TargetParity(seq, r)
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("even positions sum to %d, odd positions to %d; aiming for %s positions (%s)",
		sums.Even, sums.Odd, target, variant), nil
}

func sequence(numbers []int) (game.Sequence, error) {
	if len(numbers) > MaxNumbers {
		return game.Sequence{}, fmt.Errorf("%d numbers above %d: %w", len(numbers), MaxNumbers, game.ErrInvalidInput)
	}
	return game.NewSequence(numbers)
}

func decode(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("bad request: %w: %w", err, game.ErrInvalidInput)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	for _, target := range []error{game.ErrInvalidInput, game.ErrRange, game.ErrNoMatch, game.ErrGameOver} {
		if errors.Is(err, target) {
			status = http.StatusBadRequest
			break
		}
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	http.Error(w, err.Error(), status)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().Msgf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
