package serverapp

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"idlepost/internal/catalog"
	"idlepost/internal/config"
	"idlepost/internal/economy"
	"idlepost/internal/identity"
	"idlepost/internal/leaderboard"
	"idlepost/internal/model"
	"idlepost/internal/session"
	"idlepost/internal/telemetry"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

type apiHandler struct {
	manager   *session.Manager
	board     leaderboard.Store
	telemetry telemetry.Repository
	balance   config.Balance
	limits    config.LeaderboardConfig
}

// StateResponse is the full client payload: the raw save plus every
// derived number the UI shows, so clients never reimplement formulas.
type StateResponse struct {
	State   model.GameState `json:"state"`
	Derived Derived         `json:"derived"`
}

type Derived struct {
	ClickValue       float64            `json:"clickValue"`
	PassiveRate      float64            `json:"passiveRate"`
	GlobalMultiplier float64            `json:"globalMultiplier"`
	AwardChance      float64            `json:"awardChance"`
	CanPrestige      bool               `json:"canPrestige"`
	PrestigeReward   float64            `json:"prestigeReward"`
	NextCosts        map[string]float64 `json:"nextCosts"`
	OfflineGain      float64            `json:"offlineGain,omitempty"`
}

func (h *apiHandler) derived(s model.GameState, offlineGain float64) Derived {
	costs := map[string]float64{}
	for _, tracks := range [][]catalog.UpgradeDef{catalog.Upgrades, catalog.Passives, catalog.Infinites} {
		for _, def := range tracks {
			level := levelOf(s, def.Key)
			if def.MaxLevel > 0 && level >= def.MaxLevel {
				continue
			}
			costs[def.Key] = economy.UpgradeCost(def.BaseCost, level, def.CostMultiplier)
		}
	}
	return Derived{
		ClickValue:       economy.ClickValue(h.balance, s),
		PassiveRate:      economy.PassiveRate(h.balance, s),
		GlobalMultiplier: economy.GlobalMultiplier(h.balance, s),
		AwardChance:      economy.AwardChance(h.balance, s),
		CanPrestige:      economy.CanPrestige(h.balance, s),
		PrestigeReward:   economy.PrestigeReward(h.balance, s),
		NextCosts:        costs,
		OfflineGain:      offlineGain,
	}
}

func levelOf(s model.GameState, key string) int {
	switch key {
	case "reply":
		return s.Upgrades.Reply
	case "pc":
		return s.Upgrades.PC
	case "chair":
		return s.Upgrades.Chair
	case "comment":
		return s.Passives.Comment
	case "post":
		return s.Passives.Post
	case "shitpost":
		return s.Passives.Shitpost
	case "repost":
		return s.Passives.Repost
	case "viralpost":
		return s.Passives.Viralpost
	case "popular":
		return s.Infinite.Popular
	case "influencer":
		return s.Infinite.Influencer
	}
	return 0
}

func (h *apiHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	p, ok := identity.PlayerFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "missing player identity")
		return nil, false
	}
	s, err := h.manager.Get(r.Context(), p)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "could not open session")
		return nil, false
	}
	return s, true
}

// GET /api/state
func (h *apiHandler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	snap := s.Engine.Snapshot()
	writeJSON(w, http.StatusOK, StateResponse{State: snap, Derived: h.derived(snap, s.OfflineGain)})
}

// POST /api/click
func (h *apiHandler) Click(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	res := s.Engine.Click()
	h.manager.Record(s.Player.ID, telemetry.EventClick, telemetry.EventMetadata{"gain": res.Gain})
	if res.Award {
		h.manager.Record(s.Player.ID, telemetry.EventAwardDropped, nil)
	}
	for _, id := range res.Unlocked {
		h.manager.Record(s.Player.ID, telemetry.EventAchievement, telemetry.EventMetadata{"achievement": id})
	}

	snap := s.Engine.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"result":  res,
		"state":   snap,
		"derived": h.derived(snap, 0),
	})
}

// POST /api/upgrade
func (h *apiHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var in struct {
		Key string `json:"key"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	bought := s.Engine.BuyUpgrade(in.Key)
	if bought {
		h.manager.Record(s.Player.ID, telemetry.EventUpgradeBought, telemetry.EventMetadata{"key": in.Key})
	}

	snap := s.Engine.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"bought":  bought,
		"state":   snap,
		"derived": h.derived(snap, 0),
	})
}

// GET /api/shop lists the catalog; POST buys an item.
func (h *apiHandler) Shop(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"items": catalog.ShopItems})

	case http.MethodPost:
		var in struct {
			ItemID string `json:"itemId"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json")
			return
		}
		s, ok := h.session(w, r)
		if !ok {
			return
		}

		before := s.Engine.Snapshot().Prestige.Level
		bought := s.Engine.BuyShopItem(in.ItemID)
		snap := s.Engine.Snapshot()
		if bought {
			h.manager.Record(s.Player.ID, telemetry.EventShopPurchase, telemetry.EventMetadata{"item_id": in.ItemID})
			if snap.Prestige.Level > before {
				h.manager.Record(s.Player.ID, telemetry.EventPrestige, telemetry.EventMetadata{"level": snap.Prestige.Level})
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"bought":  bought,
			"state":   snap,
			"derived": h.derived(snap, 0),
		})

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// POST /api/settings
func (h *apiHandler) Settings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var in struct {
		Theme     *string `json:"theme,omitempty"`
		Anonymous *bool   `json:"anonymous,omitempty"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	themeOK := true
	if in.Theme != nil {
		themeOK = s.Engine.SetTheme(*in.Theme)
	}
	if in.Anonymous != nil {
		s.Engine.SetAnonymous(*in.Anonymous)
		// Visibility changes take effect on the board immediately, not
		// at the next periodic flush.
		_ = h.manager.Flush(r.Context(), s)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"themeApplied": themeOK,
		"state":        s.Engine.Snapshot(),
	})
}

// POST /api/achievements/viewed
func (h *apiHandler) AchievementsViewed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Engine.MarkAchievementsViewed()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// POST /api/resume re-checks offline progress for a client that kept
// its tab in the background.
func (h *apiHandler) Resume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	gain := s.Engine.ApplyOfflineProgress()
	if gain > 0 {
		h.manager.Record(s.Player.ID, telemetry.EventOfflineProgress, telemetry.EventMetadata{"gain": gain})
	}

	snap := s.Engine.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"gain":    gain,
		"state":   snap,
		"derived": h.derived(snap, 0),
	})
}

// POST /api/reset wipes the save entirely.
func (h *apiHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.Engine.Reset()
	if err := h.manager.Flush(r.Context(), s); err != nil {
		writeErr(w, http.StatusInternalServerError, "could not persist reset")
		return
	}
	if err := h.board.Remove(r.Context(), s.Player.ID); err != nil {
		writeErr(w, http.StatusInternalServerError, "could not clear ranking")
		return
	}
	h.manager.Record(s.Player.ID, telemetry.EventHardReset, nil)

	snap := s.Engine.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   snap,
		"derived": h.derived(snap, 0),
	})
}

// GET /api/leaderboard
func (h *apiHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := h.limits.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeErr(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	if limit > h.limits.MaxLimit {
		limit = h.limits.MaxLimit
	}

	rows, err := h.board.TopN(r.Context(), limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "leaderboard unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": rows})
}

// GET /api/rank
func (h *apiHandler) Rank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	p, ok := identity.PlayerFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "missing player identity")
		return
	}

	e, ranked, err := h.board.RankOf(r.Context(), p.ID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "leaderboard unavailable")
		return
	}
	if !ranked {
		writeJSON(w, http.StatusOK, map[string]any{"ranked": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ranked": true, "entry": e})
}

// GET /api/telemetry/stats
func (h *apiHandler) TelemetryStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	since := time.Now().Add(-24 * time.Hour)
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid since timestamp")
			return
		}
		since = t
	}

	events, err := h.telemetry.GetEvents(since, nil)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "telemetry unavailable")
		return
	}
	stats, err := telemetry.CalculateStats(events, since)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "telemetry unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
