// Package identity resolves the calling player from request headers.
// The upstream gateway authenticates players; this service only trusts
// the identity it forwards.
package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

const (
	HeaderPlayerID   = "X-Player-Id"
	HeaderPlayerName = "X-Player-Name"
)

// Player is the resolved caller. Name falls back to the ID when the
// gateway forwards none.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ctxKey string

const playerContextKey ctxKey = "idlepost.identity.player"

func withPlayerContext(ctx context.Context, p Player) context.Context {
	return context.WithValue(ctx, playerContextKey, p)
}

func PlayerFromContext(ctx context.Context) (Player, bool) {
	v := ctx.Value(playerContextKey)
	p, ok := v.(Player)
	return p, ok
}

// FromRequest extracts the player from the headers without requiring
// one to be present.
func FromRequest(r *http.Request) (Player, bool) {
	id := strings.TrimSpace(r.Header.Get(HeaderPlayerID))
	if id == "" {
		return Player{}, false
	}
	name := strings.TrimSpace(r.Header.Get(HeaderPlayerName))
	if name == "" {
		name = id
	}
	return Player{ID: id, Name: name}, true
}

// Require rejects requests without a player identity and stores the
// resolved player on the context for downstream handlers.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromRequest(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "missing player identity"})
			return
		}
		next.ServeHTTP(w, r.WithContext(withPlayerContext(r.Context(), p)))
	})
}
