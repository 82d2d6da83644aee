package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Topology.
	ErrOutOfBounds = "E_OUT_OF_BOUNDS"
	ErrNotAdjacent = "E_NOT_ADJACENT"
	ErrWallNotOpen = "E_WALL_NOT_OPEN"

	// Jobs.
	ErrInvalidDirection = "E_INVALID_DIRECTION"
	ErrNotRubble        = "E_NOT_RUBBLE"
	ErrAlreadyJoined    = "E_ALREADY_JOINED"
	ErrNotHelper        = "E_NOT_HELPER"
	ErrJobNotReady      = "E_JOB_NOT_READY"
	ErrNoActiveJob      = "E_NO_ACTIVE_JOB"
	ErrJobCompleted     = "E_JOB_COMPLETED"
	ErrJobNotCompleted  = "E_JOB_NOT_COMPLETED"
	ErrTooManyJobs      = "E_TOO_MANY_JOBS"
	ErrAlreadyClaimed   = "E_ALREADY_CLAIMED"

	// Resources.
	ErrInventoryFull     = "E_INVENTORY_FULL"
	ErrInvalidItem       = "E_INVALID_ITEM"
	ErrInsufficientItems = "E_INSUFFICIENT_ITEMS"
	ErrInsufficientFunds = "E_INSUFFICIENT_FUNDS"
	ErrOverflow          = "E_OVERFLOW"

	// Loot.
	ErrNoChest       = "E_NO_CHEST"
	ErrNoBoss        = "E_NO_BOSS"
	ErrNotInRoom     = "E_NOT_IN_ROOM"
	ErrAlreadyLooted = "E_ALREADY_LOOTED"
	ErrLootersFull   = "E_LOOTERS_FULL"

	// Boss fights.
	ErrBossDefeated    = "E_BOSS_DEFEATED"
	ErrBossNotDefeated = "E_BOSS_NOT_DEFEATED"
	ErrAlreadyFighting = "E_ALREADY_FIGHTING"
	ErrNotFighter      = "E_NOT_FIGHTER"

	// Session authorization.
	ErrSessionExpired      = "E_SESSION_EXPIRED"
	ErrSessionInactive     = "E_SESSION_INACTIVE"
	ErrSessionNotAllowed   = "E_SESSION_NOT_ALLOWED"
	ErrSessionSpendCap     = "E_SESSION_SPEND_CAP"
	ErrSessionBadExpiry    = "E_SESSION_BAD_EXPIRY"
	ErrSessionBadAllowlist = "E_SESSION_BAD_ALLOWLIST"
	ErrUnauthorized        = "E_UNAUTHORIZED"

	// Generic.
	ErrBadRequest = "E_BAD_REQUEST"
	ErrInternal   = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:     {},
	ErrOutOfBounds:         {},
	ErrNotAdjacent:         {},
	ErrWallNotOpen:         {},
	ErrInvalidDirection:    {},
	ErrNotRubble:           {},
	ErrAlreadyJoined:       {},
	ErrNotHelper:           {},
	ErrJobNotReady:         {},
	ErrNoActiveJob:         {},
	ErrJobCompleted:        {},
	ErrJobNotCompleted:     {},
	ErrTooManyJobs:         {},
	ErrAlreadyClaimed:      {},
	ErrInventoryFull:       {},
	ErrInvalidItem:         {},
	ErrInsufficientItems:   {},
	ErrInsufficientFunds:   {},
	ErrOverflow:            {},
	ErrNoChest:             {},
	ErrNoBoss:              {},
	ErrNotInRoom:           {},
	ErrAlreadyLooted:       {},
	ErrLootersFull:         {},
	ErrBossDefeated:        {},
	ErrBossNotDefeated:     {},
	ErrAlreadyFighting:     {},
	ErrNotFighter:          {},
	ErrSessionExpired:      {},
	ErrSessionInactive:     {},
	ErrSessionNotAllowed:   {},
	ErrSessionSpendCap:     {},
	ErrSessionBadExpiry:    {},
	ErrSessionBadAllowlist: {},
	ErrUnauthorized:        {},
	ErrBadRequest:          {},
	ErrInternal:            {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
