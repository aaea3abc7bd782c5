package room

import (
	"github.com/manty98/lakdi/internal/apperrors"
	"github.com/manty98/lakdi/internal/logger"
	"github.com/manty98/lakdi/internal/protocol"
)

// cutPenalty is the flat score added for losing a contest: the caller
// of a beaten Lakdi, or the cutter of one that stands.
const cutPenalty = 50

// finishRound books the round scores, announces the result and moves
// the room to RoundOver, or GameOver once someone crosses the
// threshold. Caller holds the lock.
func (r *Room) finishRound(outcome, cutterID string, roundScores map[string]int) {
	d := r.declaration

	lines := make([]protocol.PlayerScore, 0, len(r.players))
	for _, p := range r.players {
		p.Score += roundScores[p.ID]
		lines = append(lines, protocol.PlayerScore{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			HandTotal:  d.HandTotals[p.ID],
			RoundScore: roundScores[p.ID],
			TotalScore: p.Score,
		})
	}

	r.broadcast(protocol.MustNewMessage(protocol.MsgRoundResult, protocol.RoundResultPayload{
		Outcome:  outcome,
		CallerID: d.CallerID,
		CutterID: cutterID,
		Scores:   lines,
	}))

	if r.anyOverThreshold() {
		r.gameOver(lines)
	} else {
		r.phase = PhaseRoundOver
		logger.LogInfo("Room %s: round %d over (%s)", r.Code, r.round, outcome)
	}
	r.pushState()
	r.notifyChange()
}

func (r *Room) anyOverThreshold() bool {
	for _, p := range r.players {
		if p.Score >= r.endThreshold {
			return true
		}
	}
	return false
}

// gameOver crowns the lowest cumulative score. Caller holds the lock.
func (r *Room) gameOver(lines []protocol.PlayerScore) {
	r.phase = PhaseGameOver

	winner := r.players[0]
	for _, p := range r.players[1:] {
		if p.Score < winner.Score {
			winner = p
		}
	}

	logger.LogInfo("Room %s: game over after round %d, winner %s with %d points",
		r.Code, r.round, winner.Name, winner.Score)
	r.broadcast(protocol.MustNewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		Scores:     lines,
	}))
	if r.onGameOver != nil {
		r.onGameOver(winner.Name)
	}
}

// NextRound deals the following round with the start seat rotated one
// to the left. Host only, and only after the previous round resolved.
func (r *Room) NextRound(requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if err := r.requireHost(requesterID); err != nil {
		return err
	}
	if r.phase != PhaseRoundOver {
		return apperrors.ErrGameNotActive
	}

	r.startIdx = (r.startIdx + 1) % len(r.players)
	r.dealRound()
	return nil
}
