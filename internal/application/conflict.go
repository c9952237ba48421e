package application

import (
	"fmt"

	"github.com/podiumhq/podium/internal/domain"
	"github.com/podiumhq/podium/internal/ports"
)

// LastWriteWins resolves conflicts by client timestamp: among the
// existing current evaluation and all pending submissions for a key,
// the latest timestamp wins. Client clocks are explicitly trusted;
// that is the policy's defining trade-off.
type LastWriteWins struct{}

// NewLastWriteWins creates the last-write-wins resolver.
func NewLastWriteWins() *LastWriteWins { return &LastWriteWins{} }

// Name implements ports.ConflictResolver.
func (*LastWriteWins) Name() string { return string(domain.ConflictLastWriteWins) }

// Resolve returns the index of the winning pending submission, or -1
// when the existing evaluation remains current. The existing evaluation
// wins an exact timestamp tie against a pending one; among pendings
// with equal timestamps, the later batch entry wins.
func (*LastWriteWins) Resolve(existing *domain.Evaluation, pending []domain.PendingEvaluation) (int, error) {
	winner := -1
	var winnerTS int64
	hasWinner := false
	if existing != nil {
		winnerTS = existing.Input.ClientTimestamp.UnixNano()
		hasWinner = true
	}
	for i, p := range pending {
		ts := p.Input.ClientTimestamp.UnixNano()
		switch {
		case !hasWinner:
			winner, winnerTS, hasWinner = i, ts, true
		case ts > winnerTS:
			winner, winnerTS = i, ts
		case ts == winnerTS && winner >= 0:
			// Equal pending timestamps: the later batch entry wins.
			winner = i
		}
	}
	return winner, nil
}

// NewConflictResolver returns the resolver implementing the policy.
// Only last_write_wins has mandated semantics; the remaining policy
// values are configuration surface without an implementation yet.
func NewConflictResolver(policy domain.ConflictPolicy) (ports.ConflictResolver, error) {
	switch policy {
	case domain.ConflictLastWriteWins, "":
		return NewLastWriteWins(), nil
	case domain.ConflictServerWins, domain.ConflictClientWins, domain.ConflictManual:
		return nil, fmt.Errorf("%w: conflict policy %q is not implemented",
			domain.ErrInvalidConfiguration, policy)
	default:
		return nil, fmt.Errorf("%w: unknown conflict policy %q",
			domain.ErrInvalidConfiguration, policy)
	}
}
