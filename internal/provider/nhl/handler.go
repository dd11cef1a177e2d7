package nhl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/albapepper/caps-edge/internal/metrics"
	"github.com/albapepper/caps-edge/internal/provider"
	"github.com/albapepper/caps-edge/internal/scoring"
)

const (
	pageSize = 100
	maxRows  = 1000

	// regularSeason is the NHL gameTypeId for regular-season games.
	regularSeason = 2
)

// Handler fetches and normalizes NHL data into canonical provider types.
type Handler struct {
	client *Client
	logger *slog.Logger
}

// NewHandler creates a handler against the public NHL hosts.
func NewHandler(requestsPerMinute int, logger *slog.Logger, rec *metrics.Recorder) *Handler {
	return NewHandlerWithClient(NewClient(StatsBaseURL, WebBaseURL, requestsPerMinute, logger, rec), logger)
}

// NewHandlerWithClient creates a handler around an existing client.
func NewHandlerWithClient(client *Client, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{client: client, logger: logger}
}

// CurrentSeason returns the season id for a date, e.g. "20252026". The
// season rolls over in October.
func CurrentSeason(now time.Time) string {
	year := now.Year()
	if now.Month() < time.October {
		year--
	}
	return fmt.Sprintf("%d%d", year, year+1)
}

// --------------------------------------------------------------------------
// Roster
// --------------------------------------------------------------------------

type localizedName struct {
	Default string `json:"default"`
}

type rosterEntryRaw struct {
	ID            int           `json:"id"`
	FirstName     localizedName `json:"firstName"`
	LastName      localizedName `json:"lastName"`
	PositionCode  string        `json:"positionCode"`
	SweaterNumber *int          `json:"sweaterNumber"`
}

type rosterRaw struct {
	Forwards   []rosterEntryRaw `json:"forwards"`
	Defensemen []rosterEntryRaw `json:"defensemen"`
	Goalies    []rosterEntryRaw `json:"goalies"`
}

// GetRoster fetches a team's skaters for a season. Goalies are skipped.
func (h *Handler) GetRoster(ctx context.Context, team, season string) ([]provider.Player, error) {
	var raw rosterRaw
	if err := h.client.getWeb(ctx, fmt.Sprintf("/roster/%s/%s", team, season), &raw); err != nil {
		return nil, fmt.Errorf("fetch %s roster: %w", team, err)
	}

	players := make([]provider.Player, 0, len(raw.Forwards)+len(raw.Defensemen))
	for _, group := range [][]rosterEntryRaw{raw.Forwards, raw.Defensemen} {
		for _, p := range group {
			players = append(players, normalizeRosterEntry(p))
		}
	}
	h.logger.Info("Fetched roster", "team", team, "season", season, "skaters", len(players))
	return players, nil
}

func normalizeRosterEntry(raw rosterEntryRaw) provider.Player {
	name := raw.FirstName.Default + " " + raw.LastName.Default
	if name == " " {
		name = fmt.Sprintf("Player %d", raw.ID)
	}
	return provider.Player{
		ID:           raw.ID,
		Name:         name,
		Position:     raw.PositionCode,
		JerseyNumber: raw.SweaterNumber,
	}
}

// --------------------------------------------------------------------------
// Stats REST reports (offset-paginated)
// --------------------------------------------------------------------------

// Row is one skater row of a stats report, keyed by the API's field names.
type Row map[string]interface{}

// PlayerID returns the row's playerId, or 0.
func (r Row) PlayerID() int {
	return provider.Int(r["playerId"])
}

// GetSkaterSummaries fetches the league-wide summary report for a season,
// keyed by player id.
func (h *Handler) GetSkaterSummaries(ctx context.Context, season string) (map[int]Row, error) {
	return h.report(ctx, "summary", season)
}

// GetSkaterRealtime fetches the league-wide realtime report (hits, blocks,
// takeaways) for a season, keyed by player id.
func (h *Handler) GetSkaterRealtime(ctx context.Context, season string) (map[int]Row, error) {
	return h.report(ctx, "realtime", season)
}

func (h *Handler) report(ctx context.Context, name, season string) (map[int]Row, error) {
	params := url.Values{
		"limit":      {strconv.Itoa(pageSize)},
		"cayenneExp": {fmt.Sprintf("seasonId=%s and gameTypeId=%d", season, regularSeason)},
	}

	rows := make(map[int]Row)
	for start := 0; start < maxRows; start += pageSize {
		params.Set("start", strconv.Itoa(start))
		resp, err := h.client.getStats(ctx, "/skater/"+name, params)
		if err != nil {
			return nil, fmt.Errorf("fetch skater %s report: %w", name, err)
		}
		if len(resp.Data) == 0 {
			break
		}
		for _, raw := range resp.Data {
			row := Row(raw)
			if id := row.PlayerID(); id != 0 {
				rows[id] = row
			}
		}
		if len(resp.Data) < pageSize {
			break
		}
	}

	h.logger.Info("Fetched skater report", "report", name, "season", season, "players", len(rows))
	return rows, nil
}

// GetSkaterStats fetches traditional stats for the given players. Players
// without a summary row (no games this season) get a zero-valued entry so
// they still list.
func (h *Handler) GetSkaterStats(ctx context.Context, season string, ids []int) (map[int]provider.SkaterStats, error) {
	summary, err := h.GetSkaterSummaries(ctx, season)
	if err != nil {
		return nil, err
	}
	realtime, err := h.GetSkaterRealtime(ctx, season)
	if err != nil {
		return nil, err
	}

	stats := make(map[int]provider.SkaterStats, len(ids))
	for _, id := range ids {
		row, ok := summary[id]
		if !ok {
			h.logger.Warn("No summary stats for player", "player_id", id)
			stats[id] = provider.SkaterStats{PlayerID: id}
			continue
		}
		stats[id] = NormalizeSkaterStats(row, realtime[id])
	}
	return stats, nil
}

// NormalizeSkaterStats merges a summary row with its realtime row. TOI
// arrives in seconds per game and is converted to minutes.
func NormalizeSkaterStats(summary, realtime Row) provider.SkaterStats {
	s := provider.SkaterStats{
		PlayerID:      summary.PlayerID(),
		Position:      provider.String(summary["positionCode"]),
		GamesPlayed:   provider.Int(summary["gamesPlayed"]),
		Goals:         provider.Int(summary["goals"]),
		Assists:       provider.Int(summary["assists"]),
		Points:        provider.Int(summary["points"]),
		PlusMinus:     provider.Int(summary["plusMinus"]),
		PIM:           provider.Int(summary["penaltyMinutes"]),
		FaceoffWinPct: provider.FloatPtr(summary["faceoffWinPct"]),
		Shots:         provider.Int(summary["shots"]),
	}
	if realtime != nil {
		s.Hits = provider.Int(realtime["hits"])
	}

	if toi := provider.Float(summary["timeOnIcePerGame"]); toi > 0 {
		minutes := toi / 60
		s.AvgTOI = &minutes
	}
	if s.AvgTOI != nil && s.GamesPlayed > 0 {
		per60 := math.Round(scoring.Per60(s.Shots, float64(s.GamesPlayed)*(*s.AvgTOI))*100) / 100
		s.ShotsPer60 = &per60
	}
	return s
}

// GetLeagueSamples returns qualified league skaters (at least
// scoring.MinGamesPlayed games) as scoring samples without Edge data. The
// caller fills in Edge fields for the players it samples.
func (h *Handler) GetLeagueSamples(ctx context.Context, season string) ([]scoring.RawPlayerSample, error) {
	summary, err := h.GetSkaterSummaries(ctx, season)
	if err != nil {
		return nil, err
	}
	realtime, err := h.GetSkaterRealtime(ctx, season)
	if err != nil {
		return nil, err
	}

	samples := make([]scoring.RawPlayerSample, 0, len(summary))
	for id, row := range summary {
		stats := NormalizeSkaterStats(row, realtime[id])
		if stats.GamesPlayed < scoring.MinGamesPlayed {
			continue
		}
		samples = append(samples, provider.Sample(id, stats.Position, stats, nil))
	}
	sortSamples(samples)
	h.logger.Info("Built league samples", "season", season, "qualified", len(samples))
	return samples, nil
}

// --------------------------------------------------------------------------
// Edge
// --------------------------------------------------------------------------

// GetEdgeStats fetches a player's Edge tracking stats from the detail,
// skating speed and zone time endpoints. It returns nil, nil when the
// player has no Edge data.
func (h *Handler) GetEdgeStats(ctx context.Context, playerID int, season string) (*provider.EdgeStats, error) {
	suffix := fmt.Sprintf("/%d/%s/%d", playerID, season, regularSeason)

	var detail map[string]interface{}
	if err := h.client.getWeb(ctx, "/edge/skater-detail"+suffix, &detail); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch edge detail for %d: %w", playerID, err)
	}
	if len(detail) == 0 {
		return nil, nil
	}

	// Speed and zone detail only add bursts over 22 and zone starts; a
	// failure there still leaves a usable row.
	var speed, zone map[string]interface{}
	if err := h.client.getWeb(ctx, "/edge/skater-skating-speed-detail"+suffix, &speed); err != nil {
		h.logger.Warn("Edge speed detail unavailable", "player_id", playerID, "error", err)
	}
	if err := h.client.getWeb(ctx, "/edge/skater-zone-time"+suffix, &zone); err != nil {
		h.logger.Warn("Edge zone time unavailable", "player_id", playerID, "error", err)
	}

	return NormalizeEdgeStats(detail, speed, zone), nil
}

// NormalizeEdgeStats maps the three Edge payloads onto provider.EdgeStats.
// speed and zone may be nil.
func NormalizeEdgeStats(detail, speed, zone map[string]interface{}) *provider.EdgeStats {
	skating := obj(detail, "skatingSpeed")
	speedMax := obj(skating, "speedMax")
	bursts20 := obj(skating, "burstsOver20")
	bursts22 := obj(obj(speed, "skatingSpeedDetails"), "burstsOver22")
	distance := obj(detail, "totalDistanceSkated")
	zoneTime := obj(detail, "zoneTimeDetails")
	zoneStarts := obj(zone, "zoneStarts")
	shotSpeed := obj(detail, "topShotSpeed")

	e := &provider.EdgeStats{
		TopSpeedMPH:          provider.FloatPtr(speedMax["imperial"]),
		TopSpeedPercentile:   provider.ToPercentile(speedMax["percentile"]),
		Bursts20Plus:         provider.IntPtr(bursts20["value"]),
		Bursts20Percentile:   provider.ToPercentile(bursts20["percentile"]),
		Bursts22Plus:         provider.IntPtr(bursts22["value"]),
		Bursts22Percentile:   provider.ToPercentile(bursts22["percentile"]),
		DistancePercentile:   provider.ToPercentile(distance["percentile"]),
		OffZoneTimePct:       provider.Pct(zoneTime["offensiveZonePctg"]),
		OffZonePercentile:    provider.ToPercentile(zoneTime["offensiveZonePercentile"]),
		DefZoneTimePct:       provider.Pct(zoneTime["defensiveZonePctg"]),
		DefZonePercentile:    provider.ToPercentile(zoneTime["defensiveZonePercentile"]),
		NeuZoneTimePct:       provider.Pct(zoneTime["neutralZonePctg"]),
		ZoneStartsOffPct:     provider.Pct(zoneStarts["offensiveZoneStartsPctg"]),
		ZoneStartsPercentile: provider.ToPercentile(zoneStarts["offensiveZoneStartsPctgPercentile"]),
		TopShotSpeedMPH:      provider.FloatPtr(shotSpeed["imperial"]),
		ShotSpeedPercentile:  provider.ToPercentile(shotSpeed["percentile"]),
	}

	games := 1
	if gp, ok := provider.ExtractValue(obj(detail, "player")["gamesPlayed"]); ok {
		games = int(gp)
	}
	if total := provider.Float(distance["imperial"]); total > 0 && games > 0 {
		perGame := math.Round(total/float64(games)*100) / 100
		e.DistancePerGameMiles = &perGame
	}
	return e
}

// obj returns a nested object or an empty map, so lookups chain safely.
func obj(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	if inner, ok := m[key].(map[string]interface{}); ok {
		return inner
	}
	return map[string]interface{}{}
}

// sortSamples orders league samples by games played, most first, so a
// capped Edge sample favours regulars. Ties break on player id.
func sortSamples(samples []scoring.RawPlayerSample) {
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].GamesPlayed != samples[j].GamesPlayed {
			return samples[i].GamesPlayed > samples[j].GamesPlayed
		}
		return samples[i].PlayerID < samples[j].PlayerID
	})
}
