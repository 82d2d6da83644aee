package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeAct     = "ACT"
	TypeObs     = "OBS"
)

// Instant action types carried inside ACT.
const (
	InstMove           = "MOVE"
	InstJoinJob        = "JOIN_JOB"
	InstCompleteJob    = "COMPLETE_JOB"
	InstAbandonJob     = "ABANDON_JOB"
	InstClaimReward    = "CLAIM_REWARD"
	InstJoinBossFight  = "JOIN_BOSS_FIGHT"
	InstLeaveBossFight = "LEAVE_BOSS_FIGHT"
	InstLootChest      = "LOOT_CHEST"
	InstLootBoss       = "LOOT_BOSS"
	InstCreateProfile  = "CREATE_PROFILE"
	InstEquipItem      = "EQUIP_ITEM"
	InstCreateSession  = "CREATE_SESSION"
	InstRevokeSession  = "REVOKE_SESSION"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
