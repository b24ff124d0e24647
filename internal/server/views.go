package server

import (
	"github.com/partydeck/partydeck/internal/game"
)

// LobbySummaries builds the lobby browser rows for every active game.
func LobbySummaries(s game.State) []GameSummary {
	summaries := make([]GameSummary, 0, len(s.Games))
	for _, g := range s.Games {
		summaries = append(summaries, GameSummary{
			Name:        g.Name,
			Host:        g.Host,
			Started:     g.Started,
			Players:     g.PlayerNames(),
			HasPassword: g.Password != "",
		})
	}
	return summaries
}

// GameViewFor builds the game view for one member. Only the recipient's
// own hand is included; other members are reduced to name, score, hand
// size and whether they have submitted this round.
func GameViewFor(g *game.Game, player string) GameStateData {
	view := GameStateData{
		Name:       g.Name,
		Host:       g.Host,
		Started:    g.Started,
		Decider:    g.Decider,
		LastWinner: g.LastWinner,
		Current:    g.Current,
	}

	view.Players = make([]PlayerView, len(g.Players))
	for i, p := range g.Players {
		_, submitted := g.PlayBy(p.Name)
		view.Players[i] = PlayerView{
			Name:      p.Name,
			Score:     p.Score,
			HandSize:  len(p.Hand),
			Submitted: submitted,
		}
	}

	if member, ok := g.Player(player); ok {
		view.Hand = member.Hand
	}

	view.Plays = make([]PlayView, len(g.Plays))
	for i, play := range g.Plays {
		view.Plays[i] = PlayView{Player: play.Player, Cards: play.Cards}
	}
	return view
}
