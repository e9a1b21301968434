package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"maxsum/game"
)

// Client calls a running maxsum server.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// StartGame asks the server to deal a sequence. A zero length uses the
// server's default board.
func (c *Client) StartGame(ctx context.Context, length int) (game.Sequence, error) {
	var resp startGameResponse
	if err := c.post(ctx, "/start-game", startGameRequest{BoardLength: length}, &resp); err != nil {
		return game.Sequence{}, err
	}
	return game.NewSequence(resp.Numbers)
}

// ComputerMove asks for the server's move on the remaining numbers when the
// human holds userSeat. ok is false once nothing is left.
func (c *Client) ComputerMove(ctx context.Context, userSeat int, numbers []int) (choice game.Choice, ok bool, err error) {
	return c.computerMove(ctx, computerMoveRequest{Player: userSeat, Numbers: numbers})
}

// ComputerMoveWithin sends the full deal and the range still in play, so a
// fixed parity computer keeps the target it chose at the start.
func (c *Client) ComputerMoveWithin(ctx context.Context, userSeat int, deal []int, r game.Range) (choice game.Choice, ok bool, err error) {
	return c.computerMove(ctx, computerMoveRequest{Player: userSeat, Numbers: deal, Left: &r.Left, Right: &r.Right})
}

func (c *Client) computerMove(ctx context.Context, req computerMoveRequest) (game.Choice, bool, error) {
	var resp moveResponse
	if err := c.post(ctx, "/computer-move", req, &resp); err != nil {
		return game.Choice{}, false, err
	}
	if resp.Choice == nil || resp.Side == nil {
		return game.Choice{}, false, nil
	}
	return game.Choice{Value: *resp.Choice, Side: *resp.Side}, true, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("post %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(msg)))
		if resp.StatusCode == http.StatusBadRequest {
			err = fmt.Errorf("%w: %w", err, game.ErrInvalidInput)
		}
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// RemoteAgent plays whichever seat it is asked to move for by querying a
// server's computer player.
type RemoteAgent struct {
	client  *Client
	timeout time.Duration
}

func NewRemoteAgent(client *Client, timeout time.Duration) *RemoteAgent {
	return &RemoteAgent{client: client, timeout: timeout}
}

func (a *RemoteAgent) Name() string {
	return "remote"
}

func (a *RemoteAgent) FindMove(s game.Session) (game.Choice, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	// The server plays the seat opposite the one named in the request
	choice, ok, err := a.client.ComputerMoveWithin(ctx, game.Opponent(s.Player), s.Seq.Values(), s.Range)
	if err != nil {
		return game.Choice{}, err
	}
	if !ok {
		return game.Choice{}, fmt.Errorf("remote move: %w", game.ErrGameOver)
	}
	return choice, nil
}
