package room

import (
	"time"

	"github.com/manty98/lakdi/internal/apperrors"
	"github.com/manty98/lakdi/internal/logger"
	"github.com/manty98/lakdi/internal/protocol"
	"github.com/manty98/lakdi/internal/protocol/convert"
)

// Declare opens a Lakdi contest: the active player bets that no other
// hand is strictly lower. Hand totals are snapshotted immediately, the
// turn clock stops and the contest window opens.
func (r *Room) Declare(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	return r.declareLocked(playerID)
}

func (r *Room) declareLocked(playerID string) error {
	switch r.phase {
	case PhasePlaying:
	case PhaseDeclared:
		return apperrors.ErrDeclarationInProgress
	default:
		return apperrors.ErrGameNotActive
	}
	p := r.playerByID(playerID)
	if p == nil {
		return apperrors.ErrNotInRoom
	}
	if r.activePlayer() != p {
		return apperrors.ErrNotYourTurn
	}
	if r.turnsElapsed < 1 {
		return apperrors.ErrTooEarly
	}

	// strand the turn timer, the turn cycle is over for this round
	r.turnSeq++
	if r.turnTimer != nil {
		r.turnTimer.Stop()
	}

	now := time.Now()
	d := &Declaration{
		CallerID:   p.ID,
		HandTotals: make(map[string]int, len(r.players)),
		OpenedAt:   now,
		Deadline:   now.Add(r.cutWindow),
		Responded:  make(map[string]bool),
	}
	for _, pl := range r.players {
		d.HandTotals[pl.ID] = pl.HandTotal()
	}
	r.declaration = d
	r.phase = PhaseDeclared

	// server-side fallback fires a beat after the player-visible window
	r.declTimer = time.AfterFunc(r.cutFallback, func() {
		r.handleDeclarationTimeout(d)
	})

	logger.LogInfo("Room %s: %s called Lakdi with %d points", r.Code, p.Name, d.HandTotals[p.ID])
	r.broadcast(protocol.MustNewMessage(protocol.MsgLakdiCalled, protocol.LakdiCalledPayload{
		CallerID:   p.ID,
		CallerName: p.Name,
		CallerHand: convert.CardsToInfos(p.Hand),
		DeadlineMs: d.Deadline.UnixMilli(),
	}))
	r.pushState()
	r.notifyChange()
	return nil
}

// Respond registers a cut or a pass against the open declaration. A cut
// resolves the contest on the spot; a pass from the last eligible
// responder resolves it as uncontested.
func (r *Room) Respond(playerID string, cut bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	d := r.declaration
	if r.phase != PhaseDeclared || d == nil || d.Resolved {
		return apperrors.ErrWindowClosed
	}
	p := r.playerByID(playerID)
	if p == nil {
		return apperrors.ErrNotInRoom
	}
	if p.ID == d.CallerID || d.Responded[p.ID] {
		return apperrors.ErrAlreadyResponded
	}
	if time.Now().After(d.Deadline) {
		return apperrors.ErrWindowClosed
	}

	d.Responded[p.ID] = true
	if cut {
		logger.LogInfo("Room %s: %s cuts the Lakdi call", r.Code, p.Name)
		r.resolveCut(p)
		return nil
	}

	logger.LogInfo("Room %s: %s passes", r.Code, p.Name)
	if r.allEligibleResponded() {
		r.resolveUncontested("all players passed")
		return nil
	}
	r.pushState()
	r.notifyChange()
	return nil
}

// allEligibleResponded reports whether every non-caller seat has
// passed. Bots and absent players never respond, so a table holding
// either keeps the window open until the fallback timer fires.
func (r *Room) allEligibleResponded() bool {
	d := r.declaration
	for _, p := range r.players {
		if p.ID == d.CallerID {
			continue
		}
		if !d.Responded[p.ID] {
			return false
		}
	}
	return true
}

// handleDeclarationTimeout resolves a contest nobody cut. The pointer
// comparison plus the Resolved flag make it a no-op when a cut or a
// unanimous pass got there first.
func (r *Room) handleDeclarationTimeout(d *Declaration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.declaration != d || d.Resolved {
		return
	}
	r.touch()
	r.resolveUncontested("window expired")
}

// resolveCut settles a contested declaration against the snapshotted
// totals. The cut is good only if the cutter's total is strictly lower
// than the caller's. Caller holds the lock.
func (r *Room) resolveCut(cutter *Player) {
	d := r.declaration
	d.Resolved = true
	if r.declTimer != nil {
		r.declTimer.Stop()
	}

	callerTotal := d.HandTotals[d.CallerID]
	cutterTotal := d.HandTotals[cutter.ID]

	outcome := protocol.OutcomeValidCut
	scores := make(map[string]int, len(r.players))
	if cutterTotal < callerTotal {
		// the caller was beaten: flat penalty, the cutter walks free
		for _, p := range r.players {
			scores[p.ID] = d.HandTotals[p.ID]
		}
		scores[cutter.ID] = 0
		scores[d.CallerID] = cutPenalty
	} else {
		// the call stands: the failed cutter eats the penalty instead
		outcome = protocol.OutcomeInvalidCut
		for _, p := range r.players {
			scores[p.ID] = d.HandTotals[p.ID]
		}
		scores[d.CallerID] = 0
		scores[cutter.ID] = cutPenalty
	}

	logger.LogInfo("Room %s: cut by %s resolved as %s (caller %d vs cutter %d)",
		r.Code, cutter.Name, outcome, callerTotal, cutterTotal)
	r.finishRound(outcome, cutter.ID, scores)
}

// resolveUncontested settles a declaration nobody cut: the lowest
// hand(s) score zero, everyone else scores their own total, and the
// caller pays the penalty on top if someone silently undercut them.
func (r *Room) resolveUncontested(reason string) {
	d := r.declaration
	d.Resolved = true
	if r.declTimer != nil {
		r.declTimer.Stop()
	}

	lowest := -1
	for _, total := range d.HandTotals {
		if lowest < 0 || total < lowest {
			lowest = total
		}
	}

	scores := make(map[string]int, len(r.players))
	for _, p := range r.players {
		total := d.HandTotals[p.ID]
		if total == lowest {
			scores[p.ID] = 0
		} else {
			scores[p.ID] = total
		}
	}
	if d.HandTotals[d.CallerID] != lowest {
		scores[d.CallerID] = d.HandTotals[d.CallerID] + cutPenalty
	}

	logger.LogInfo("Room %s: Lakdi call resolved uncontested (%s), lowest total %d", r.Code, reason, lowest)
	r.finishRound(protocol.OutcomeUncontested, "", scores)
}
