package dungeon

import (
	"chaindepth.gg/internal/protocol"
)

type sessionKey struct {
	Player   string
	Delegate string
}

// createSession registers (or replaces) a delegation grant from owner to a
// delegate key. Owner-only: the dispatcher never routes this through a
// session.
func (d *Dungeon) createSession(owner *Player, spec *protocol.SessionSpec, now uint64) error {
	if spec == nil || spec.Delegate == "" {
		return errf(protocol.ErrBadRequest, "session spec missing")
	}
	if spec.Delegate == owner.ID {
		return errf(protocol.ErrBadRequest, "cannot delegate to self")
	}
	if spec.Allowlist == 0 {
		return errf(protocol.ErrSessionBadAllowlist, "empty allowlist grants nothing")
	}
	if spec.StartTick >= spec.EndTick || spec.EndTick <= now {
		return errf(protocol.ErrSessionBadExpiry, "window [%d,%d) invalid at tick %d",
			spec.StartTick, spec.EndTick, now)
	}
	d.sessions[sessionKey{owner.ID, spec.Delegate}] = &SessionAuthority{
		Player:    owner.ID,
		Delegate:  spec.Delegate,
		StartTick: spec.StartTick,
		EndTick:   spec.EndTick,
		Allowlist: spec.Allowlist,
		SpendCap:  spec.SpendCap,
		Active:    true,
		CreatedAt: now,
	}
	owner.addEvent(evSessionCreated(owner.ID, spec.Delegate, spec.Allowlist, spec.SpendCap))
	d.sink(evSessionCreated(owner.ID, spec.Delegate, spec.Allowlist, spec.SpendCap))
	return nil
}

// revokeSession deactivates a grant. The record stays around so a revoked
// delegate fails with E_SESSION_INACTIVE rather than E_UNAUTHORIZED.
func (d *Dungeon) revokeSession(owner *Player, delegate string) error {
	sess, ok := d.sessions[sessionKey{owner.ID, delegate}]
	if !ok {
		return errf(protocol.ErrBadRequest, "no session for delegate %s", delegate)
	}
	sess.Active = false
	owner.addEvent(evSessionRevoked(owner.ID, delegate))
	d.sink(evSessionRevoked(owner.ID, delegate))
	return nil
}

// authorize decides whether signer may run an instruction against owner's
// state. A signer acting on its own wallet always passes with no session
// involved. Delegates are checked in a fixed order (window, active flag,
// allowlist bit, spend cap) so a given bad grant always fails with the same
// code. The returned session, if any, must be debited by the caller once the
// instruction itself has succeeded, keeping failed instructions free of side
// effects.
func (d *Dungeon) authorize(signer, owner string, bit, spend uint64, now uint64) (*SessionAuthority, error) {
	if signer == owner {
		return nil, nil
	}
	sess, ok := d.sessions[sessionKey{owner, signer}]
	if !ok {
		return nil, errf(protocol.ErrUnauthorized, "%s has no session for %s", signer, owner)
	}
	if now < sess.StartTick || now >= sess.EndTick {
		return nil, errf(protocol.ErrSessionExpired, "tick %d outside [%d,%d)",
			now, sess.StartTick, sess.EndTick)
	}
	if !sess.Active {
		return nil, errf(protocol.ErrSessionInactive, "session revoked")
	}
	if sess.Allowlist&bit == 0 {
		return nil, errf(protocol.ErrSessionNotAllowed, "instruction not in allowlist")
	}
	if spend > sess.SpendCap {
		return nil, errf(protocol.ErrSessionSpendCap, "spend %d exceeds remaining cap %d",
			spend, sess.SpendCap)
	}
	return sess, nil
}
