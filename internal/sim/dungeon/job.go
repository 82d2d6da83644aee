package dungeon

import (
	"chaindepth.gg/internal/protocol"
	"chaindepth.gg/internal/sim/gen"
)

// handleJoinJob stakes the player onto a rubble wall of their current room.
// The first helper on an idle wall (re)starts the clock and pins the tick
// requirement to the season's frontier depth at that moment.
func (d *Dungeon) handleJoinJob(p *Player, dirStr string, now uint64) error {
	dir, ok := gen.ParseDirection(dirStr)
	if !ok {
		return errf(protocol.ErrInvalidDirection, "bad direction %q", dirStr)
	}
	room := d.rooms.Get(p.At())
	if room == nil {
		return errf(protocol.ErrInternal, "player %s in unmaterialized room", p.ID)
	}
	if room.Walls[dir] != gen.WallRubble {
		return errf(protocol.ErrNotRubble, "%s wall is %s", dir, room.Walls[dir])
	}
	key := JobKey{Coord: room.Coord, Dir: dir}
	if p.hasActiveJob(key) {
		return errf(protocol.ErrAlreadyJoined, "already staked on this wall")
	}
	if len(p.ActiveJobs) >= d.tun.Jobs.MaxActiveJobs {
		return errf(protocol.ErrTooManyJobs, "at most %d active jobs", d.tun.Jobs.MaxActiveJobs)
	}
	job := room.Jobs[dir]
	if job == nil {
		job = &JobState{}
		room.Jobs[dir] = job
	}
	if job.Completed {
		return errf(protocol.ErrJobCompleted, "wall already cleared")
	}
	settleJob(job, now)

	stake := d.tun.Economy.StakeAmount
	if err := d.ledger.Transfer(p.ID, EscrowAccount(key), stake); err != nil {
		return err
	}
	if job.HelperCount == 0 {
		job.StartTick = now
		job.Progress = 0
		job.BaseTicks = gen.BaseTicks(d.depth, d.tun.Jobs.BaseTicksDepth0)
	}
	job.HelperCount++
	job.TotalStaked += stake

	stakes := d.stakes[key]
	if stakes == nil {
		stakes = make(map[string]*HelperStake)
		d.stakes[key] = stakes
	}
	stakes[p.ID] = &HelperStake{Player: p.ID, Key: key, Staked: stake, JoinTick: now}
	p.ActiveJobs = append(p.ActiveJobs, key)

	ev := evJobJoined(p.ID, key, stake)
	p.addEvent(ev)
	d.sink(ev)
	return nil
}

// handleCompleteJob clears a wall whose job has accumulated enough ticks.
// The completer must be one of the helpers. Completion opens both sides of
// the wall, materializes the far room, funds the helper bonus from the prize
// pool into the job's escrow, and bumps the season job counter that decays
// future bonuses.
func (d *Dungeon) handleCompleteJob(p *Player, dirStr string, now uint64) error {
	dir, ok := gen.ParseDirection(dirStr)
	if !ok {
		return errf(protocol.ErrInvalidDirection, "bad direction %q", dirStr)
	}
	room := d.rooms.Get(p.At())
	if room == nil {
		return errf(protocol.ErrInternal, "player %s in unmaterialized room", p.ID)
	}
	if room.Walls[dir] != gen.WallRubble {
		return errf(protocol.ErrNotRubble, "%s wall is %s", dir, room.Walls[dir])
	}
	key := JobKey{Coord: room.Coord, Dir: dir}
	job := room.Jobs[dir]
	if job == nil {
		return errf(protocol.ErrNoActiveJob, "no job on this wall")
	}
	if job.Completed {
		return errf(protocol.ErrJobCompleted, "wall already cleared")
	}
	if job.HelperCount == 0 {
		return errf(protocol.ErrNoActiveJob, "no helpers on this wall")
	}
	if d.stakes[key][p.ID] == nil {
		return errf(protocol.ErrNotHelper, "only helpers can complete")
	}
	settleJob(job, now)
	if job.Progress < job.BaseTicks {
		return errf(protocol.ErrJobNotReady, "progress %d of %d", job.Progress, job.BaseTicks)
	}

	// Decayed bonus: the per-helper share shrinks as the season completes
	// more jobs (this completion included), and the prize pool is never
	// overdrawn. Integer division remainders stay behind in escrow.
	completed := d.jobsCompleted + 1
	bonus := d.tun.Economy.MinTip / (1 + completed/100) / uint64(job.HelperCount)
	total := bonus * uint64(job.HelperCount)
	if pool := d.ledger.Balance(AccountPrizePool); total > pool {
		bonus = pool / uint64(job.HelperCount)
		total = bonus * uint64(job.HelperCount)
	}
	if err := d.ledger.Transfer(AccountPrizePool, EscrowAccount(key), total); err != nil {
		return err
	}

	job.Completed = true
	job.Progress = job.BaseTicks
	job.BonusPerHelper = bonus
	d.jobsCompleted = completed

	room.Walls[dir] = gen.WallOpen
	// Walls on the grid edge can still be cleared; there is just no room on
	// the far side to open into.
	nx, ny := gen.Adjacent(room.X, room.Y, dir)
	if d.inBounds(nx, ny) {
		if _, err := d.openIntoAdjacent(room, dir, p.ID, now); err != nil {
			return err
		}
	}

	ev := evJobCompleted(p.ID, key, bonus, d.tun.Economy.StakeAmount+bonus, job.HelperCount, d.depth)
	p.addEvent(ev)
	d.sink(ev)
	return nil
}

// handleAbandonJob withdraws a helper from an uncompleted job; the helper
// must be standing in the job's room. Part of the stake is refunded; the
// forfeited remainder feeds the prize pool. When the last helper leaves,
// accumulated progress is lost.
func (d *Dungeon) handleAbandonJob(p *Player, key JobKey, now uint64) error {
	if key.Coord != p.At() {
		return errf(protocol.ErrNotInRoom, "must be in room (%d,%d)", key.X, key.Y)
	}
	room := d.rooms.Get(key.Coord)
	if room == nil || room.Jobs[key.Dir] == nil {
		return errf(protocol.ErrNoActiveJob, "no job at (%d,%d) %s", key.X, key.Y, key.Dir)
	}
	job := room.Jobs[key.Dir]
	stake := d.stakes[key][p.ID]
	if stake == nil {
		return errf(protocol.ErrNotHelper, "not a helper on this job")
	}
	if job.Completed {
		return errf(protocol.ErrJobCompleted, "job done, claim instead")
	}
	settleJob(job, now)

	refund := stake.Staked * d.tun.Jobs.AbandonRefundPercent / 100
	forfeit := stake.Staked - refund
	esc := EscrowAccount(key)
	if err := d.ledger.Transfer(esc, p.ID, refund); err != nil {
		return err
	}
	if err := d.ledger.Transfer(esc, AccountPrizePool, forfeit); err != nil {
		return err
	}

	job.HelperCount--
	job.TotalStaked -= stake.Staked
	if job.HelperCount == 0 {
		job.Progress = 0
		job.StartTick = now
	}
	delete(d.stakes[key], p.ID)
	p.dropActiveJob(key)

	ev := evJobAbandoned(p.ID, key, refund)
	p.addEvent(ev)
	d.sink(ev)
	return nil
}

// handleClaimReward pays out a helper's stake plus the recorded bonus for a
// completed job, exactly once, and frees the player's job slot. Like abandon,
// it is collected in person.
func (d *Dungeon) handleClaimReward(p *Player, key JobKey, now uint64) error {
	if key.Coord != p.At() {
		return errf(protocol.ErrNotInRoom, "must be in room (%d,%d)", key.X, key.Y)
	}
	room := d.rooms.Get(key.Coord)
	if room == nil || room.Jobs[key.Dir] == nil {
		return errf(protocol.ErrNoActiveJob, "no job at (%d,%d) %s", key.X, key.Y, key.Dir)
	}
	job := room.Jobs[key.Dir]
	stake := d.stakes[key][p.ID]
	if stake == nil {
		return errf(protocol.ErrNotHelper, "not a helper on this job")
	}
	if !job.Completed {
		return errf(protocol.ErrJobNotCompleted, "job still in progress")
	}
	if stake.Claimed {
		return errf(protocol.ErrAlreadyClaimed, "reward already claimed")
	}

	payout := stake.Staked + job.BonusPerHelper
	if err := d.ledger.Transfer(EscrowAccount(key), p.ID, payout); err != nil {
		return err
	}
	stake.Claimed = true
	p.dropActiveJob(key)
	p.JobsCompleted++

	ev := evRewardClaimed(p.ID, key, payout)
	p.addEvent(ev)
	d.sink(ev)
	return nil
}
