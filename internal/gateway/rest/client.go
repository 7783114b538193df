package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/gateway"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/logging"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

// Config controls how the client reaches the match backend.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the match backend's REST API and maps payloads to domain models.
type Client struct {
	baseURL    string
	httpClient httpDoer
	logger     *slog.Logger
	now        func() time.Time
}

var _ gateway.MatchGateway = (*Client)(nil)

// NewClient constructs a backend client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		logger:     cfg.Logger,
		now:        time.Now,
	}
}

// GetMatch loads the match record. A {success:false} reply is treated as not found.
func (c *Client) GetMatch(ctx context.Context, sess *session.Session, matchID string) (matches.Match, error) {
	var payload matchResponse
	err := c.do(ctx, sess, http.MethodGet, "/matches/"+url.PathEscape(matchID), nil, &payload)
	if be, ok := gateway.AsBackendError(err); ok && be.Kind == nil && be.StatusCode < http.StatusMultipleChoices {
		be.Kind = gateway.ErrNotFound
		if be.Message == "" {
			be.Message = "Match not found"
		}
	}
	if err != nil {
		return matches.Match{}, err
	}
	if payload.Match == nil {
		return matches.Match{}, &gateway.BackendError{StatusCode: http.StatusOK, Message: "Match not found", Kind: gateway.ErrNotFound}
	}
	match := mapMatch(*payload.Match)
	if match.ID == "" {
		match.ID = matchID
	}
	return match, nil
}

// GetRoster lists a team's players.
func (c *Client) GetRoster(ctx context.Context, sess *session.Session, teamID string) ([]players.Player, error) {
	var payload rosterResponse
	if err := c.do(ctx, sess, http.MethodGet, "/players/team/"+url.PathEscape(teamID), nil, &payload); err != nil {
		return nil, err
	}
	return mapRoster(payload.Players, teamID), nil
}

func (c *Client) SelectPlayer(ctx context.Context, sess *session.Session, matchID, playerID string) (gateway.SelectResult, error) {
	var payload selectResponse
	if err := c.do(ctx, sess, http.MethodPost, matchPath(matchID, "select-player"), selectRequest{PlayerID: playerID}, &payload); err != nil {
		return gateway.SelectResult{}, err
	}
	if payload.Player == nil {
		return gateway.SelectResult{}, &gateway.BackendError{StatusCode: http.StatusOK, Message: "Failed to select player"}
	}
	player := mapPlayer(*payload.Player, "")
	if player.ID == "" {
		player.ID = playerID
	}
	return gateway.SelectResult{Player: player, Stats: mapOptionalStats(payload.Stats)}, nil
}

func (c *Client) ScoreRuns(ctx context.Context, sess *session.Session, matchID string, runs int) (gateway.ScoreResult, error) {
	var payload scoreResponse
	if err := c.do(ctx, sess, http.MethodPost, matchPath(matchID, "score-runs"), runsRequest{Runs: runs}, &payload); err != nil {
		return gateway.ScoreResult{}, err
	}
	return gateway.ScoreResult{
		TeamStats:   mapInnings(payload.TeamStats),
		PlayerStats: mapOptionalStats(payload.PlayerStats),
	}, nil
}

func (c *Client) ScoreExtra(ctx context.Context, sess *session.Session, matchID string, extra gateway.ExtraRequest) (gateway.ScoreResult, error) {
	body := extraRequest{Type: string(extra.Type)}
	if extra.Type == matches.ExtraBye {
		body.ByeRuns = extra.ByeRuns
	}
	var payload scoreResponse
	if err := c.do(ctx, sess, http.MethodPost, matchPath(matchID, "score-extra"), body, &payload); err != nil {
		return gateway.ScoreResult{}, err
	}
	return gateway.ScoreResult{TeamStats: mapInnings(payload.TeamStats)}, nil
}

func (c *Client) DismissPlayer(ctx context.Context, sess *session.Session, matchID string) (gateway.DismissResult, error) {
	var payload dismissResponse
	if err := c.do(ctx, sess, http.MethodPost, matchPath(matchID, "player-out"), nil, &payload); err != nil {
		return gateway.DismissResult{}, err
	}
	return gateway.DismissResult{
		TeamStats:        mapInnings(payload.TeamStats),
		ShouldEndInnings: payload.ShouldEndInnings,
		EndReason:        strings.TrimSpace(payload.EndReason),
		RemainingPlayers: payload.RemainingPlayers,
	}, nil
}

func (c *Client) EndInnings(ctx context.Context, sess *session.Session, matchID string) (gateway.EndInningsResult, error) {
	var payload endInningsResponse
	if err := c.do(ctx, sess, http.MethodPost, matchPath(matchID, "end-innings"), nil, &payload); err != nil {
		return gateway.EndInningsResult{}, err
	}
	return gateway.EndInningsResult{
		Message:       strings.TrimSpace(payload.Message),
		MatchComplete: payload.MatchComplete,
	}, nil
}

func matchPath(matchID, action string) string {
	return "/matches/" + url.PathEscape(matchID) + "/" + action
}

type enveloped interface {
	meta() envelope
}

func (e envelope) meta() envelope { return e }

func (c *Client) do(ctx context.Context, sess *session.Session, method, path string, body any, out enveloped) error {
	req, err := c.buildRequest(ctx, sess, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rest: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("rest: read %s: %w", path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err := c.statusError(resp, raw)
		logging.Debug(logging.FromContext(ctx, c.logger), "backend rejected request",
			logging.FieldMethod, method,
			logging.FieldPath, path,
			logging.FieldStatusCode, resp.StatusCode,
		)
		return err
	}

	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("rest: decode %s: %w", path, err)
		}
	}
	if env := out.meta(); env.failed() {
		return &gateway.BackendError{
			StatusCode: resp.StatusCode,
			Message:    envelopeMessage(env),
			Body:       snippet(raw),
		}
	}
	return nil
}

func (c *Client) buildRequest(ctx context.Context, sess *session.Session, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := sess.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) statusError(resp *http.Response, raw []byte) error {
	msg := messageFromBody(raw)
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return &gateway.RateLimitError{
			Gateway:    Name,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Message:    msg,
		}
	case http.StatusNotFound:
		return &gateway.BackendError{StatusCode: resp.StatusCode, Message: msg, Body: snippet(raw), Kind: gateway.ErrNotFound}
	case http.StatusUnauthorized:
		return &gateway.BackendError{StatusCode: resp.StatusCode, Message: msg, Body: snippet(raw), Kind: gateway.ErrUnauthorized}
	default:
		return &gateway.BackendError{StatusCode: resp.StatusCode, Message: msg, Body: snippet(raw)}
	}
}

func messageFromBody(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	return envelopeMessage(env)
}

// envelopeMessage prefers message over error.
func envelopeMessage(env envelope) string {
	if msg := strings.TrimSpace(env.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(env.Error)
}

func snippet(raw []byte) string {
	if len(raw) > errorSnippetBytes {
		raw = raw[:errorSnippetBytes]
	}
	return strings.TrimSpace(string(raw))
}
