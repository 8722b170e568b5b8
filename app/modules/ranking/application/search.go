package rankingservice

import (
	"context"
	"fmt"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	"github.com/uptrace/bun"
)

const playerSearchLimit = 20

// SearchPlayers matches usernames containing every cleaned term of arg. An
// exact username match comes first, then the rest alphabetically.
func (s *RankingService) SearchPlayers(ctx context.Context, arg string) ([]PlayerView, error) {
	return withTelemetry(s, ctx, "SearchPlayers", arg, func(ctx context.Context) ([]PlayerView, error) {
		terms := rankingdomain.SearchTerms(arg)
		if len(terms) == 0 {
			return []PlayerView{}, nil
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) ([]PlayerView, error) {
			players, err := s.repo.SearchPlayers(ctx, db, arg, terms, playerSearchLimit)
			if err != nil {
				return nil, fmt.Errorf("failed to search players: %w", err)
			}
			out := make([]PlayerView, len(players))
			for i, p := range players {
				out[i] = PlayerView{ID: p.ID, Username: p.Username}
			}
			return out, nil
		})
	})
}
