package dungeon

import (
	"math"
	"strconv"

	"chaindepth.gg/internal/protocol"
)

// Well-known ledger accounts. Escrow accounts are derived per job.
const (
	AccountPrizePool = "sys:prize_pool"
	AccountTreasury  = "sys:treasury"
)

// EscrowAccount derives the ledger account holding stakes for one job.
func EscrowAccount(k JobKey) string {
	return "escrow:" + strconv.Itoa(k.X) + ":" + strconv.Itoa(k.Y) + ":" + k.Dir.String()
}

// Ledger is the season's token book. Balances are unsigned; every movement
// is a checked transfer between two accounts, so tokens are conserved except
// at explicit Mint points (season funding, player onboarding).
type Ledger struct {
	accounts map[string]uint64
}

func NewLedger() *Ledger {
	return &Ledger{accounts: make(map[string]uint64)}
}

func (l *Ledger) Balance(acct string) uint64 {
	return l.accounts[acct]
}

// Mint creates tokens out of thin air. Only season setup and player
// onboarding call it.
func (l *Ledger) Mint(acct string, amount uint64) error {
	cur := l.accounts[acct]
	if amount > math.MaxUint64-cur {
		return errf(protocol.ErrOverflow, "mint overflows %s", acct)
	}
	l.accounts[acct] = cur + amount
	return nil
}

// Transfer moves amount from one account to another, failing closed: an
// underfunded source or an overflowing destination leaves both untouched.
func (l *Ledger) Transfer(from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	src := l.accounts[from]
	if src < amount {
		return errf(protocol.ErrInsufficientFunds, "%s has %d, needs %d", from, src, amount)
	}
	dst := l.accounts[to]
	if amount > math.MaxUint64-dst {
		return errf(protocol.ErrOverflow, "transfer overflows %s", to)
	}
	l.accounts[from] = src - amount
	l.accounts[to] = dst + amount
	return nil
}

// Total sums every account. Tests use it to assert conservation.
func (l *Ledger) Total() uint64 {
	var sum uint64
	for _, v := range l.accounts {
		sum += v
	}
	return sum
}

// Accounts returns a copy of the full book for snapshots.
func (l *Ledger) Accounts() map[string]uint64 {
	out := make(map[string]uint64, len(l.accounts))
	for k, v := range l.accounts {
		out[k] = v
	}
	return out
}
