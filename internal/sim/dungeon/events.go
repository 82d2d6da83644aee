package dungeon

import (
	"chaindepth.gg/internal/protocol"
	"chaindepth.gg/internal/sim/gen"
)

// Event type names delivered in OBS frames and written to the season index.
const (
	EvSeasonStarted  = "SEASON_STARTED"
	EvActionResult   = "ACTION_RESULT"
	EvPlayerMoved    = "PLAYER_MOVED"
	EvJobJoined      = "JOB_JOINED"
	EvJobCompleted   = "JOB_COMPLETED"
	EvJobAbandoned   = "JOB_ABANDONED"
	EvRewardClaimed  = "REWARD_CLAIMED"
	EvBossJoined     = "BOSS_FIGHT_JOINED"
	EvBossLeft       = "BOSS_FIGHT_LEFT"
	EvBossDefeated   = "BOSS_DEFEATED"
	EvBossLooted     = "BOSS_LOOTED"
	EvChestLooted    = "CHEST_LOOTED"
	EvSessionCreated = "SESSION_CREATED"
	EvSessionRevoked = "SESSION_REVOKED"
)

// EventSink receives every domain event the engine emits, tagged with the
// tick it happened on. The engine loop calls it synchronously; sinks must
// not block.
type EventSink interface {
	SinkEvent(tick uint64, ev protocol.Event)
}

func evActionResult(id, instType string, ok bool, code string) protocol.Event {
	e := protocol.Event{
		"type":      EvActionResult,
		"id":        id,
		"inst_type": instType,
		"ok":        ok,
	}
	if code != "" {
		e["code"] = code
	}
	return e
}

func evPlayerMoved(player string, fromX, fromY, toX, toY int) protocol.Event {
	return protocol.Event{
		"type": EvPlayerMoved, "player": player,
		"from": [2]int{fromX, fromY}, "to": [2]int{toX, toY},
	}
}

func evJobJoined(player string, k JobKey, staked uint64) protocol.Event {
	return protocol.Event{
		"type": EvJobJoined, "player": player,
		"x": k.X, "y": k.Y, "direction": k.Dir.String(), "staked": staked,
	}
}

func evJobCompleted(player string, k JobKey, bonusPerHelper, rewardPerHelper uint64, helpers, newDepth int) protocol.Event {
	return protocol.Event{
		"type": EvJobCompleted, "player": player,
		"x": k.X, "y": k.Y, "direction": k.Dir.String(),
		"bonus_per_helper": bonusPerHelper, "reward_per_helper": rewardPerHelper,
		"helpers": helpers, "new_depth": newDepth,
	}
}

func evJobAbandoned(player string, k JobKey, refund uint64) protocol.Event {
	return protocol.Event{
		"type": EvJobAbandoned, "player": player,
		"x": k.X, "y": k.Y, "direction": k.Dir.String(), "refund": refund,
	}
}

func evRewardClaimed(player string, k JobKey, payout uint64) protocol.Event {
	return protocol.Event{
		"type": EvRewardClaimed, "player": player,
		"x": k.X, "y": k.Y, "direction": k.Dir.String(), "payout": payout,
	}
}

func evBossJoined(player string, c Coord, dps uint64) protocol.Event {
	return protocol.Event{
		"type": EvBossJoined, "player": player, "x": c.X, "y": c.Y, "dps": dps,
	}
}

func evBossLeft(player string, c Coord) protocol.Event {
	return protocol.Event{"type": EvBossLeft, "player": player, "x": c.X, "y": c.Y}
}

func evBossDefeated(c Coord, bossID int, tick uint64) protocol.Event {
	return protocol.Event{
		"type": EvBossDefeated, "x": c.X, "y": c.Y, "boss_id": bossID, "tick": tick,
	}
}

func evBossLooted(player string, c Coord, drop Drop) protocol.Event {
	return protocol.Event{
		"type": EvBossLooted, "player": player, "x": c.X, "y": c.Y,
		"item_id": drop.ItemID, "amount": drop.Amount,
	}
}

func evChestLooted(player string, c Coord, drop Drop) protocol.Event {
	return protocol.Event{
		"type": EvChestLooted, "player": player, "x": c.X, "y": c.Y,
		"item_id": drop.ItemID, "amount": drop.Amount,
	}
}

func evSessionCreated(player, delegate string, allowlist, spendCap uint64) protocol.Event {
	return protocol.Event{
		"type": EvSessionCreated, "player": player, "delegate": delegate,
		"allowlist": allowlist, "spend_cap": spendCap,
	}
}

func evSessionRevoked(player, delegate string) protocol.Event {
	return protocol.Event{"type": EvSessionRevoked, "player": player, "delegate": delegate}
}

func evSeasonStarted(seasonID string, seed uint64, startWalls [4]gen.WallState) protocol.Event {
	walls := [4]string{}
	for i, w := range startWalls {
		walls[i] = w.String()
	}
	return protocol.Event{
		"type": EvSeasonStarted, "season_id": seasonID, "seed": seed, "start_walls": walls,
	}
}
