package dungeon

import (
	"chaindepth.gg/internal/protocol"
	"chaindepth.gg/internal/sim/gen"
)

// applyAct runs every instant of one ACT message. Each instant is
// all-or-nothing: a failing one produces an ACTION_RESULT error event and
// leaves no trace; the rest of the batch still runs.
func (d *Dungeon) applyAct(env ActEnvelope, now uint64) {
	signer, ok := d.players[env.PlayerID]
	if !ok {
		d.logf("[act] dropping act from unknown player %s", env.PlayerID)
		return
	}
	for _, inst := range env.Act.Instants {
		err := d.applyInstant(signer, inst, now)
		if err != nil {
			code := CodeOf(err)
			d.logf("[act] %s %s failed: %s", signer.ID, inst.Type, err)
			signer.addEvent(evActionResult(inst.ID, inst.Type, false, code))
			continue
		}
		signer.addEvent(evActionResult(inst.ID, inst.Type, true, ""))
	}
}

// applyInstant resolves who the instant acts for, authorizes the signer, and
// dispatches. A delegated session is debited only after the instruction
// succeeds, so a failed attempt costs the delegate nothing.
func (d *Dungeon) applyInstant(signer *Player, inst protocol.InstantReq, now uint64) error {
	owner := signer
	if inst.Player != "" && inst.Player != signer.ID {
		o, ok := d.players[inst.Player]
		if !ok {
			return errf(protocol.ErrBadRequest, "unknown player %q", inst.Player)
		}
		owner = o
	}

	switch inst.Type {
	case protocol.InstCreateSession:
		if owner.ID != signer.ID {
			return errf(protocol.ErrUnauthorized, "session management is owner-only")
		}
		return d.createSession(signer, inst.Session, now)
	case protocol.InstRevokeSession:
		if owner.ID != signer.ID {
			return errf(protocol.ErrUnauthorized, "session management is owner-only")
		}
		return d.revokeSession(signer, inst.Delegate)
	}

	bit, ok := protocol.InstructionBit(inst.Type)
	if !ok {
		return errf(protocol.ErrBadRequest, "unknown instant type %q", inst.Type)
	}
	var spend uint64
	if inst.Type == protocol.InstJoinJob {
		spend = d.tun.Economy.StakeAmount
	}
	sess, err := d.authorize(signer.ID, owner.ID, bit, spend, now)
	if err != nil {
		return err
	}
	if err := d.dispatch(owner, inst, now); err != nil {
		return err
	}
	if sess != nil {
		sess.SpendCap -= spend
	}
	return nil
}

func (d *Dungeon) dispatch(p *Player, inst protocol.InstantReq, now uint64) error {
	switch inst.Type {
	case protocol.InstMove:
		// MOVE takes a direction or an explicit adjacent target cell.
		dirStr := inst.Direction
		if dirStr == "" {
			dir, ok := stepDirection(p.X, p.Y, inst.X, inst.Y)
			if !ok {
				return errf(protocol.ErrNotAdjacent, "(%d,%d) is not one step from (%d,%d)",
					inst.X, inst.Y, p.X, p.Y)
			}
			dirStr = dir.String()
		}
		return d.handleMove(p, dirStr, now)
	case protocol.InstJoinJob:
		return d.handleJoinJob(p, inst.Direction, now)
	case protocol.InstCompleteJob:
		return d.handleCompleteJob(p, inst.Direction, now)
	case protocol.InstAbandonJob, protocol.InstClaimReward:
		dir, ok := gen.ParseDirection(inst.Direction)
		if !ok {
			return errf(protocol.ErrInvalidDirection, "bad direction %q", inst.Direction)
		}
		key := JobKey{Coord: Coord{X: inst.X, Y: inst.Y}, Dir: dir}
		if inst.Type == protocol.InstAbandonJob {
			return d.handleAbandonJob(p, key, now)
		}
		return d.handleClaimReward(p, key, now)
	case protocol.InstJoinBossFight:
		return d.handleJoinBossFight(p, now)
	case protocol.InstLeaveBossFight:
		return d.handleLeaveBossFight(p, now)
	case protocol.InstLootChest:
		return d.handleLootChest(p, now)
	case protocol.InstLootBoss:
		return d.handleLootBoss(p, now)
	case protocol.InstCreateProfile:
		return d.handleCreateProfile(p, inst.SkinID, inst.DisplayName)
	case protocol.InstEquipItem:
		return d.handleEquipItem(p, inst.ItemID)
	}
	return errf(protocol.ErrBadRequest, "unknown instant type %q", inst.Type)
}
