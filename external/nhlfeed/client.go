// Package nhlfeed pulls the team roster and season schedule from the public
// NHL API.
package nhlfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/domain/player"
	"github.com/avsfam/firstgoal/internal/platform/logging"
	"github.com/avsfam/firstgoal/internal/platform/resilience"
	"github.com/avsfam/firstgoal/internal/usecase"
)

const (
	defaultBaseURL  = "https://api-web.nhle.com/v1"
	defaultTeamCode = "COL"

	maxResponseBytes = 4 << 20
)

var errFeedTransient = crerr.New("nhl feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	TeamCode       string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	teamCode       string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

var _ usecase.ScheduleFeed = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	teamCode := strings.ToUpper(strings.TrimSpace(cfg.TeamCode))
	if teamCode == "" {
		teamCode = defaultTeamCode
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		teamCode:       teamCode,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type rosterEnvelope struct {
	Forwards   []rosterPlayer `json:"forwards"`
	Defensemen []rosterPlayer `json:"defensemen"`
	Goalies    []rosterPlayer `json:"goalies"`
}

type rosterPlayer struct {
	FirstName     localizedName `json:"firstName"`
	LastName      localizedName `json:"lastName"`
	SweaterNumber int           `json:"sweaterNumber"`
	PositionCode  string        `json:"positionCode"`
}

type localizedName struct {
	Default string `json:"default"`
}

type scheduleEnvelope struct {
	Games []scheduleGame `json:"games"`
}

type scheduleGame struct {
	ID           int64         `json:"id"`
	StartTimeUTC string        `json:"startTimeUTC"`
	GameState    string        `json:"gameState"`
	Venue        localizedName `json:"venue"`
	HomeTeam     scheduleTeam  `json:"homeTeam"`
	AwayTeam     scheduleTeam  `json:"awayTeam"`
}

type scheduleTeam struct {
	Abbrev     string        `json:"abbrev"`
	PlaceName  localizedName `json:"placeName"`
	CommonName localizedName `json:"commonName"`
}

// FetchRoster returns the team's current roster. Players whose position the
// app does not track are skipped rather than failing the whole sync.
func (c *Client) FetchRoster(ctx context.Context) ([]player.Player, error) {
	var envelope rosterEnvelope
	path := fmt.Sprintf("/roster/%s/current", c.teamCode)
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}

	groups := [][]rosterPlayer{envelope.Forwards, envelope.Defensemen, envelope.Goalies}
	out := make([]player.Player, 0, len(envelope.Forwards)+len(envelope.Defensemen)+len(envelope.Goalies))
	for _, group := range groups {
		for _, item := range group {
			position, ok := positionFromCode(item.PositionCode)
			if !ok {
				c.logger.WarnContext(ctx, "skipping roster player with unknown position",
					"name", item.LastName.Default,
					"positionCode", item.PositionCode,
				)
				continue
			}
			name := strings.TrimSpace(item.FirstName.Default + " " + item.LastName.Default)
			if name == "" || item.SweaterNumber <= 0 {
				continue
			}
			out = append(out, player.Player{
				Name:     name,
				Number:   item.SweaterNumber,
				Position: position,
				IsActive: true,
			})
		}
	}
	return out, nil
}

// FetchSchedule returns the season slate mapped to the team's point of view:
// opponent name, home flag, and venue.
func (c *Client) FetchSchedule(ctx context.Context) ([]game.Game, error) {
	var envelope scheduleEnvelope
	path := fmt.Sprintf("/club-schedule-season/%s/now", c.teamCode)
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}

	out := make([]game.Game, 0, len(envelope.Games))
	for _, item := range envelope.Games {
		startTime, err := time.Parse(time.RFC3339, item.StartTimeUTC)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping game with unparseable start time",
				"gameID", item.ID,
				"startTimeUTC", item.StartTimeUTC,
			)
			continue
		}

		isHome := strings.EqualFold(item.HomeTeam.Abbrev, c.teamCode)
		opponent := item.AwayTeam
		if !isHome {
			opponent = item.HomeTeam
		}
		name := strings.TrimSpace(opponent.PlaceName.Default + " " + opponent.CommonName.Default)
		if name == "" {
			name = opponent.Abbrev
		}

		out = append(out, game.Game{
			Opponent:  name,
			StartTime: startTime.UTC(),
			IsHome:    isHome,
			Location:  item.Venue.Default,
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "nhl feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: nhl feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, done, err := c.attemptRequest(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if done || attempt == c.maxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "nhl feed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// attemptRequest returns done=true when retrying cannot help.
func (c *Client) attemptRequest(ctx context.Context, fullURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, true, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: send request: %v", errFeedTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := io.Copy(buf, io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return nil, false, fmt.Errorf("%w: read response body: %v", errFeedTransient, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isRetryableStatus(resp.StatusCode) {
			return nil, false, fmt.Errorf("%w: feed status=%d", errFeedTransient, resp.StatusCode)
		}
		return nil, true, fmt.Errorf("feed status=%d", resp.StatusCode)
	}

	raw := make([]byte, buf.Len())
	copy(raw, buf.B)
	return raw, true, nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func positionFromCode(code string) (player.Position, bool) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "C":
		return player.PositionCenter, true
	case "L", "LW":
		return player.PositionLeftWing, true
	case "R", "RW":
		return player.PositionRightWing, true
	case "D":
		return player.PositionDefense, true
	case "G":
		return player.PositionGoalie, true
	default:
		return "", false
	}
}
