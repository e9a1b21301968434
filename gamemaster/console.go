package gamemaster

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"maxsum/agent"
	"maxsum/game"
)

// Console runs interactive games between a human on a text stream and a
// computer opponent.
type Console struct {
	in   *bufio.Scanner
	out  io.Writer
	opts []agent.Option
}

// NewConsole reads the human's input from r and writes the game to w. The
// options configure the computer opponent (see agent.Opponent).
func NewConsole(r io.Reader, w io.Writer, opts ...agent.Option) *Console {
	return &Console{
		in:   bufio.NewScanner(r),
		out:  w,
		opts: opts,
	}
}

// Run plays one game over seq and returns the final session. It fails if the
// input ends before the game does.
func (c *Console) Run(seq game.Sequence) (game.Session, error) {
	s := game.NewSession(seq)

	seat, err := c.askSeat()
	if err != nil {
		return s, err
	}
	computer, err := agent.Opponent(seat, seq, c.opts...)
	if err != nil {
		return s, err
	}
	log.Debug().Msgf("human in seat %d against %s", seat, computer.Name())

	c.printf("Numbers: %v\n", seq.Values())
	for !s.Over() {
		var choice game.Choice
		if s.Player == seat {
			if choice, err = c.askChoice(s); err != nil {
				return s, err
			}
		} else {
			if choice, err = computer.FindMove(s); err != nil {
				return s, fmt.Errorf("computer move: %w", err)
			}
		}

		next, err := s.Apply(choice)
		if err != nil {
			return s, fmt.Errorf("player %d: %w", s.Player, err)
		}
		c.printf("\nPlayer %d chose: %d (%s)\n", s.Player, choice.Value, choice.Side)
		c.printf("Player %d score: %d\n", s.Player, next.Score(s.Player))
		s = next
	}

	c.printResult(s, seat)
	return s, nil
}

func (c *Console) askSeat() (int, error) {
	for {
		line, err := c.prompt("Do you want to be Player 1 or Player 2? Enter 1 or 2: ")
		if err != nil {
			return 0, err
		}
		seat, err := strconv.Atoi(line)
		if err == nil && (seat == game.Player1 || seat == game.Player2) {
			return seat, nil
		}
		c.printf("Invalid input. Please enter either '1' or '2'.\n")
	}
}

func (c *Console) askChoice(s game.Session) (game.Choice, error) {
	for {
		c.printf("\nCurrent numbers: %v\n", s.Seq.Slice(s.Range))
		line, err := c.prompt("Enter 'left' or 'right' to choose a number: ")
		if err != nil {
			return game.Choice{}, err
		}
		side, err := game.ParseSide(line)
		if err != nil {
			c.printf("Invalid choice. Please enter 'left' or 'right'.\n")
			continue
		}
		return game.Choice{Value: s.Seq.At(s.Range.Index(side)), Side: side}, nil
	}
}

func (c *Console) prompt(text string) (string, error) {
	c.printf("%s", text)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", fmt.Errorf("read input: %w", io.ErrUnexpectedEOF)
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) printResult(s game.Session, seat int) {
	computerSeat := game.Opponent(seat)
	c.printf("\nGame Over!\n")
	c.printf("Your (Player %d) final score: %d\n", seat, s.Score(seat))
	c.printf("Computer (Player %d) final score: %d\n", computerSeat, s.Score(computerSeat))
	if winner := s.Winner(); winner != 0 {
		c.printf("Player %d wins!\n", winner)
	} else {
		c.printf("It's a tie!\n")
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
