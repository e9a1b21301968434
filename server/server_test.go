package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"maxsum/game"
	"maxsum/heuristic"
)

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestStartGame(t *testing.T) {
	h := New(1).Handler()

	t.Run("default board", func(t *testing.T) {
		rec := post(t, h, "/start-game", "")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[startGameResponse](t, rec)
		require.Len(t, resp.Numbers, 14)
		require.Equal(t, 1, lo.Sum(resp.Numbers)%2)
		for _, v := range resp.Numbers {
			require.True(t, v >= 1 && v <= 99)
		}
	})

	t.Run("requested length", func(t *testing.T) {
		rec := post(t, h, "/start-game", `{"boardLength": 6}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, decodeBody[startGameResponse](t, rec).Numbers, 6)
	})

	t.Run("bad lengths", func(t *testing.T) {
		require.Equal(t, http.StatusBadRequest, post(t, h, "/start-game", `{"boardLength": -1}`).Code)
		require.Equal(t, http.StatusBadRequest, post(t, h, "/start-game", `{"boardLength": 5000}`).Code)
		require.Equal(t, http.StatusBadRequest, post(t, h, "/start-game", `{"boardLength": "six"}`).Code)
	})

	t.Run("same seed deals the same games", func(t *testing.T) {
		a := decodeBody[startGameResponse](t, post(t, New(9).Handler(), "/start-game", ""))
		b := decodeBody[startGameResponse](t, post(t, New(9).Handler(), "/start-game", ""))
		require.Equal(t, a, b)
	})
}

func TestComputerMove(t *testing.T) {
	h := New(1).Handler()

	t.Run("solver answers a human first mover", func(t *testing.T) {
		rec := post(t, h, "/computer-move", `{"player": 1, "numbers": [1, 2, 3]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[map[string]any](t, rec)
		require.Equal(t, 3.0, resp["choice"])
		require.Equal(t, "right", resp["side"])
		require.Equal(t, "the left end nets 0, the right end nets 2", resp["explanation"])
	})

	t.Run("heuristic moves first", func(t *testing.T) {
		rec := post(t, h, "/computer-move", `{"player": 2, "numbers": [1, 2, 3, 4]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[map[string]any](t, rec)
		require.Equal(t, 4.0, resp["choice"])
		require.Equal(t, "right", resp["side"])
		require.Contains(t, resp["explanation"], "even positions sum to 4, odd positions to 6")
	})

	t.Run("nothing left to take", func(t *testing.T) {
		rec := post(t, h, "/computer-move", `{"player": 1, "numbers": []}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[map[string]any](t, rec)
		require.Contains(t, resp, "choice")
		require.Nil(t, resp["choice"])

		rec = post(t, h, "/computer-move", `{"player": 1, "numbers": [1, 2], "left": 2, "right": 1}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Nil(t, decodeBody[map[string]any](t, rec)["choice"])
	})

	t.Run("solver continues within the full deal", func(t *testing.T) {
		rec := post(t, h, "/computer-move", `{"player": 1, "numbers": [5, 1, 2, 3], "left": 1, "right": 3}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[map[string]any](t, rec)
		require.Equal(t, 3.0, resp["choice"])
		require.Equal(t, "right", resp["side"])
		require.Equal(t, "the left end nets 0, the right end nets 2", resp["explanation"])
	})

	t.Run("bad requests", func(t *testing.T) {
		require.Equal(t, http.StatusBadRequest, post(t, h, "/computer-move", `{"player": 3, "numbers": [1]}`).Code)
		require.Equal(t, http.StatusBadRequest, post(t, h, "/computer-move", `{"player": 1, "numbers": [1,`).Code)
		require.Equal(t, http.StatusBadRequest, post(t, h, "/computer-move", "").Code)
		require.Equal(t, http.StatusBadRequest, post(t, h, "/computer-move", `{"player": 1, "numbers": [1, 2], "left": 0}`).Code)
		require.Equal(t, http.StatusBadRequest, post(t, h, "/computer-move", `{"player": 1, "numbers": [1, 2], "left": 0, "right": 5}`).Code)
		require.Equal(t, http.StatusBadRequest, post(t, h, "/computer-move", `{"player": 1, "numbers": [1, 2], "left": -1, "right": 0}`).Code)
	})

	t.Run("oversized body", func(t *testing.T) {
		body := `{"player": 1, "numbers": [` + strings.Repeat("1,", maxBodyBytes) + `1]}`
		require.Equal(t, http.StatusRequestEntityTooLarge, post(t, h, "/computer-move", body).Code)
	})
}

func TestComputerMoveVariant(t *testing.T) {
	// The deal [9, 1, 2, 8] opens with even positions ahead, 11 to 9. After
	// 9 and 1 are gone, [2, 8] favours its odd position.
	const request = `{"player": 2, "numbers": [9, 1, 2, 8], "left": 2, "right": 3}`

	t.Run("per turn retargets on what is left", func(t *testing.T) {
		rec := post(t, New(1).Handler(), "/computer-move", request)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[map[string]any](t, rec)
		require.Equal(t, 8.0, resp["choice"])
		require.Equal(t, "right", resp["side"])
		require.Equal(t, "even positions sum to 2, odd positions to 8; aiming for odd positions (per_turn)", resp["explanation"])
	})

	t.Run("fixed keeps the opening target", func(t *testing.T) {
		rec := post(t, New(1, WithVariant(heuristic.Fixed)).Handler(), "/computer-move", request)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[map[string]any](t, rec)
		require.Equal(t, 2.0, resp["choice"])
		require.Equal(t, "left", resp["side"])
		require.Equal(t, "even positions sum to 2, odd positions to 8; aiming for even positions (fixed)", resp["explanation"])
	})

	t.Run("both agree on the opening move", func(t *testing.T) {
		body := `{"player": 2, "numbers": [9, 1, 2, 8]}`
		perTurn := decodeBody[map[string]any](t, post(t, New(1).Handler(), "/computer-move", body))
		fixed := decodeBody[map[string]any](t, post(t, New(1, WithVariant(heuristic.Fixed)).Handler(), "/computer-move", body))
		require.Equal(t, 9.0, perTurn["choice"])
		require.Equal(t, perTurn["choice"], fixed["choice"])
	})
}

func TestAnalyze(t *testing.T) {
	h := New(1).Handler()

	t.Run("net advantage by default", func(t *testing.T) {
		rec := post(t, h, "/analyze", `{"numbers": [1, 2, 3, 4]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[analyzeResponse](t, rec)
		require.Equal(t, 2, resp.Value)
		require.Equal(t, 4, resp.Choice)
		require.Equal(t, game.Right, resp.Side)
		require.Len(t, resp.Line, 4)
		require.Equal(t, [2]int{6, 4}, resp.Scores)
	})

	t.Run("own score", func(t *testing.T) {
		rec := post(t, h, "/analyze", `{"numbers": [1, 2, 3, 4], "semantics": "own_score"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[analyzeResponse](t, rec)
		require.Equal(t, 6, resp.Value)
		require.Equal(t, 1, resp.Choice)
		require.Equal(t, game.Left, resp.Side)
	})

	t.Run("bad requests", func(t *testing.T) {
		require.Equal(t, http.StatusBadRequest, post(t, h, "/analyze", `{"numbers": []}`).Code)
		require.Equal(t, http.StatusBadRequest, post(t, h, "/analyze", `{"numbers": [1], "semantics": "best"}`).Code)
	})
}

func TestRoutes(t *testing.T) {
	h := New(1).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/start-game", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListenAndServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(1).ListenAndServe(ctx, "127.0.0.1:0")
	}()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
