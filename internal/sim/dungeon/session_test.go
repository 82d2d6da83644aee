package dungeon

import (
	"testing"

	"chaindepth.gg/internal/protocol"
)

func grantSession(t *testing.T, d *Dungeon, owner *Player, delegate string, allowlist, cap uint64) {
	t.Helper()
	err := d.createSession(owner, &protocol.SessionSpec{
		Delegate:  delegate,
		StartTick: 0,
		EndTick:   1000,
		Allowlist: allowlist,
		SpendCap:  cap,
	}, d.tick)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
}

func TestAuthorizeOwnerBypassesSessions(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	sess, err := d.authorize(p.ID, p.ID, protocol.BitMove, 0, d.tick)
	if err != nil || sess != nil {
		t.Fatalf("owner must always pass without a session, got %v %v", sess, err)
	}
}

func TestAuthorizeNoSession(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	q := addPlayer(d, "mallory")
	_, err := d.authorize(q.ID, p.ID, protocol.BitMove, 0, d.tick)
	if CodeOf(err) != protocol.ErrUnauthorized {
		t.Fatalf("expected E_UNAUTHORIZED, got %v", err)
	}
}

func TestAuthorizeWindow(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	q := addPlayer(d, "delegate")
	err := d.createSession(p, &protocol.SessionSpec{
		Delegate: q.ID, StartTick: 10, EndTick: 20, Allowlist: protocol.BitMove,
	}, d.tick)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := d.authorize(q.ID, p.ID, protocol.BitMove, 0, 5); CodeOf(err) != protocol.ErrSessionExpired {
		t.Fatalf("before window: expected E_SESSION_EXPIRED, got %v", err)
	}
	if _, err := d.authorize(q.ID, p.ID, protocol.BitMove, 0, 10); err != nil {
		t.Fatalf("window start is inclusive: %v", err)
	}
	if _, err := d.authorize(q.ID, p.ID, protocol.BitMove, 0, 20); CodeOf(err) != protocol.ErrSessionExpired {
		t.Fatalf("window end is exclusive: expected E_SESSION_EXPIRED, got %v", err)
	}
}

func TestAuthorizeRevoked(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	q := addPlayer(d, "delegate")
	grantSession(t, d, p, q.ID, protocol.BitMove, 0)
	if err := d.revokeSession(p, q.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	_, err := d.authorize(q.ID, p.ID, protocol.BitMove, 0, d.tick)
	if CodeOf(err) != protocol.ErrSessionInactive {
		t.Fatalf("expected E_SESSION_INACTIVE, got %v", err)
	}
}

func TestAuthorizeAllowlist(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	q := addPlayer(d, "delegate")
	grantSession(t, d, p, q.ID, protocol.BitMove, 0)
	if _, err := d.authorize(q.ID, p.ID, protocol.BitMove, 0, d.tick); err != nil {
		t.Fatalf("allowed bit: %v", err)
	}
	_, err := d.authorize(q.ID, p.ID, protocol.BitJoinJob, 0, d.tick)
	if CodeOf(err) != protocol.ErrSessionNotAllowed {
		t.Fatalf("expected E_SESSION_NOT_ALLOWED, got %v", err)
	}
}

func TestAuthorizeSpendCap(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	q := addPlayer(d, "delegate")
	grantSession(t, d, p, q.ID, protocol.BitJoinJob, 5)
	_, err := d.authorize(q.ID, p.ID, protocol.BitJoinJob, 10, d.tick)
	if CodeOf(err) != protocol.ErrSessionSpendCap {
		t.Fatalf("expected E_SESSION_SPEND_CAP, got %v", err)
	}
	if _, err := d.authorize(q.ID, p.ID, protocol.BitJoinJob, 5, d.tick); err != nil {
		t.Fatalf("spend equal to cap must pass: %v", err)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	err := d.createSession(p, &protocol.SessionSpec{
		Delegate: "D", StartTick: 0, EndTick: 100, Allowlist: 0,
	}, d.tick)
	if CodeOf(err) != protocol.ErrSessionBadAllowlist {
		t.Fatalf("expected E_SESSION_BAD_ALLOWLIST, got %v", err)
	}
	err = d.createSession(p, &protocol.SessionSpec{
		Delegate: "D", StartTick: 100, EndTick: 100, Allowlist: protocol.BitMove,
	}, d.tick)
	if CodeOf(err) != protocol.ErrSessionBadExpiry {
		t.Fatalf("expected E_SESSION_BAD_EXPIRY for empty window, got %v", err)
	}
	d.DebugAdvanceTicks(500)
	err = d.createSession(p, &protocol.SessionSpec{
		Delegate: "D", StartTick: 0, EndTick: 100, Allowlist: protocol.BitMove,
	}, d.tick)
	if CodeOf(err) != protocol.ErrSessionBadExpiry {
		t.Fatalf("expected E_SESSION_BAD_EXPIRY for past window, got %v", err)
	}
}

// Delegated join-job through the full dispatcher: the session is debited on
// success and a failed attempt costs nothing.
func TestDelegatedJoinJobDebitsCap(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	owner := addPlayer(d, "owner")
	del := addPlayer(d, "delegate")
	stake := d.tun.Economy.StakeAmount
	grantSession(t, d, owner, del.ID, protocol.BitJoinJob, stake)

	err := d.applyInstant(del, protocol.InstantReq{
		Type: protocol.InstJoinJob, Player: owner.ID, Direction: "NORTH", // open wall, will fail
	}, d.tick)
	if CodeOf(err) != protocol.ErrNotRubble {
		t.Fatalf("expected E_NOT_RUBBLE, got %v", err)
	}
	sess := d.sessions[sessionKey{owner.ID, del.ID}]
	if sess.SpendCap != stake {
		t.Fatalf("failed instruction must not debit the cap, got %d", sess.SpendCap)
	}

	err = d.applyInstant(del, protocol.InstantReq{
		Type: protocol.InstJoinJob, Player: owner.ID, Direction: "SOUTH",
	}, d.tick)
	if err != nil {
		t.Fatalf("delegated join: %v", err)
	}
	if sess.SpendCap != 0 {
		t.Fatalf("expected cap fully debited, got %d", sess.SpendCap)
	}
	if len(owner.ActiveJobs) != 1 || len(del.ActiveJobs) != 0 {
		t.Fatalf("delegated act must hit the owner's state")
	}
	// Cap exhausted now.
	err = d.applyInstant(del, protocol.InstantReq{
		Type: protocol.InstJoinJob, Player: owner.ID, Direction: "WEST",
	}, d.tick)
	if CodeOf(err) != protocol.ErrSessionSpendCap {
		t.Fatalf("expected E_SESSION_SPEND_CAP, got %v", err)
	}
}

func TestSessionManagementOwnerOnly(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	owner := addPlayer(d, "owner")
	del := addPlayer(d, "delegate")
	grantSession(t, d, owner, del.ID, ^uint64(0), 0)
	err := d.applyInstant(del, protocol.InstantReq{
		Type: protocol.InstRevokeSession, Player: owner.ID, Delegate: del.ID,
	}, d.tick)
	if CodeOf(err) != protocol.ErrUnauthorized {
		t.Fatalf("expected E_UNAUTHORIZED, got %v", err)
	}
}
