package protocol

// Session allowlist bits. Wire values are stable for the life of a season.
const (
	BitMove uint64 = 1 << iota
	BitJoinJob
	BitCompleteJob
	BitAbandonJob
	BitClaimReward
	BitJoinBossFight
	BitLeaveBossFight
	BitLootChest
	BitLootBoss
	BitCreateProfile
	BitEquipItem
)

// InstructionBit maps an instant type to its session allowlist bit.
// Session management itself is owner-only and has no bit.
func InstructionBit(instType string) (uint64, bool) {
	switch instType {
	case InstMove:
		return BitMove, true
	case InstJoinJob:
		return BitJoinJob, true
	case InstCompleteJob:
		return BitCompleteJob, true
	case InstAbandonJob:
		return BitAbandonJob, true
	case InstClaimReward:
		return BitClaimReward, true
	case InstJoinBossFight:
		return BitJoinBossFight, true
	case InstLeaveBossFight:
		return BitLeaveBossFight, true
	case InstLootChest:
		return BitLootChest, true
	case InstLootBoss:
		return BitLootBoss, true
	case InstCreateProfile:
		return BitCreateProfile, true
	case InstEquipItem:
		return BitEquipItem, true
	}
	return 0, false
}

// HELLO (client -> server)
type HelloMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	PlayerName      string     `json:"player_name"`
	Auth            *HelloAuth `json:"auth,omitempty"`
}

type HelloAuth struct {
	Token string `json:"token,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	PlayerID        string       `json:"player_id"`
	ResumeToken     string       `json:"resume_token"`
	Season          SeasonParams `json:"season"`
}

type SeasonParams struct {
	SeasonID    string `json:"season_id"`
	Seed        uint64 `json:"seed"`
	TickRateHz  int    `json:"tick_rate_hz"`
	MinCoord    int    `json:"min_coord"`
	MaxCoord    int    `json:"max_coord"`
	StartX      int    `json:"start_x"`
	StartY      int    `json:"start_y"`
	EndTick     uint64 `json:"end_tick"`
	StakeAmount uint64 `json:"stake_amount"`
}

// ACT (client -> server)
type ActMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	Tick            uint64       `json:"tick"`
	PlayerID        string       `json:"player_id"`
	Instants        []InstantReq `json:"instants,omitempty"`
}

// InstantReq is one requested action. Player is the wallet owner when the
// sender acts under a delegated session; empty means the sender acts for
// itself.
type InstantReq struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Player string `json:"player,omitempty"`

	X         int    `json:"x,omitempty"`
	Y         int    `json:"y,omitempty"`
	Direction string `json:"direction,omitempty"`

	SkinID      int    `json:"skin_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	ItemID      int    `json:"item_id,omitempty"`

	Session  *SessionSpec `json:"session,omitempty"`
	Delegate string       `json:"delegate,omitempty"`
}

// SessionSpec describes a delegated session to create.
type SessionSpec struct {
	Delegate  string `json:"delegate"`
	StartTick uint64 `json:"start_tick"`
	EndTick   uint64 `json:"end_tick"`
	Allowlist uint64 `json:"allowlist"`
	SpendCap  uint64 `json:"spend_cap"`
}

// OBS (server -> client): authoritative view after each applied ACT.
type ObsMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	PlayerID        string `json:"player_id"`

	Self      SelfObs     `json:"self"`
	Room      RoomObs     `json:"room"`
	Inventory []ItemStack `json:"inventory"`
	Events    []Event     `json:"events"`
}

type SelfObs struct {
	Pos          [2]int   `json:"pos"`
	Balance      uint64   `json:"balance"`
	EquippedItem int      `json:"equipped_item"`
	ActiveJobs   []JobRef `json:"active_jobs"`
	JobsDone     uint64   `json:"jobs_done"`
	ChestsLooted uint64   `json:"chests_looted"`
}

type JobRef struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Direction string `json:"direction"`
}

type RoomObs struct {
	X           int       `json:"x"`
	Y           int       `json:"y"`
	Depth       int       `json:"depth"`
	Walls       [4]string `json:"walls"`
	Center      string    `json:"center"`
	CenterID    int       `json:"center_id"`
	Jobs        [4]JobObs `json:"jobs"`
	Boss        *BossObs  `json:"boss,omitempty"`
	LootedCount int       `json:"looted_count"`
	Players     []string  `json:"players"`
}

type JobObs struct {
	HelperCount    int    `json:"helper_count"`
	Progress       uint64 `json:"progress"`
	BaseTicks      uint64 `json:"base_ticks"`
	TotalStaked    uint64 `json:"total_staked"`
	Completed      bool   `json:"completed"`
	BonusPerHelper uint64 `json:"bonus_per_helper"`
}

type BossObs struct {
	MaxHP        uint64 `json:"max_hp"`
	CurrentHP    uint64 `json:"current_hp"`
	TotalDPS     uint64 `json:"total_dps"`
	FighterCount int    `json:"fighter_count"`
	Defeated     bool   `json:"defeated"`
}

type ItemStack struct {
	ItemID     int `json:"item_id"`
	Amount     int `json:"amount"`
	Durability int `json:"durability,omitempty"`
}

// Event is a loosely-typed domain event payload. Constructors live in the
// dungeon package; consumers should treat unknown keys as forward-compatible.
type Event map[string]interface{}
