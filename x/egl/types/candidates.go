package types

import (
	"bytes"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegistryKind names one of the two independent candidate registries.
type RegistryKind string

const (
	RegistryDao     RegistryKind = "dao"
	RegistryUpgrade RegistryKind = "upgrade"
)

// CandidateEntry is a live candidate. Insertion is a per registry counter
// assigned when the candidate was stored and breaks vote count ties in favor
// of the earlier candidate.
type CandidateEntry struct {
	Address   sdk.AccAddress `json:"address"`
	VoteCount math.Int       `json:"vote_count"`
	Amount    math.Int       `json:"amount"`
	Insertion uint64         `json:"insertion"`
}

// CandidateOutcome describes what AddVote did with a vote.
type CandidateOutcome string

const (
	// CandidateAdded means the candidate was stored in a free slot.
	CandidateAdded CandidateOutcome = "added"
	// CandidateIncremented means an existing candidate received the vote.
	CandidateIncremented CandidateOutcome = "incremented"
	// CandidateReplaced means the weakest candidate was evicted to make room.
	CandidateReplaced CandidateOutcome = "replaced"
	// CandidateLost means the registry was full and the vote was too weak to
	// evict anyone, so nothing was stored.
	CandidateLost CandidateOutcome = "lost"
)

// CandidateAddResult is returned by CandidateRegistry.AddVote.
type CandidateAddResult struct {
	Outcome CandidateOutcome
	Entry   CandidateEntry
	// Evicted is set when Outcome is CandidateReplaced.
	Evicted *CandidateEntry
}

// CandidateRegistry is a bounded list of at most MaxCandidates entries kept
// in slot order. Lookups and the eviction scan are linear.
type CandidateRegistry struct {
	Entries       []CandidateEntry `json:"entries"`
	NextInsertion uint64           `json:"next_insertion"`
}

// NewCandidateRegistry returns an empty registry.
func NewCandidateRegistry() CandidateRegistry {
	return CandidateRegistry{Entries: []CandidateEntry{}}
}

// Len returns the number of live entries.
func (r CandidateRegistry) Len() int {
	return len(r.Entries)
}

// Find returns the slot of the candidate or -1.
func (r CandidateRegistry) Find(addr sdk.AccAddress) int {
	for i, e := range r.Entries {
		if bytes.Equal(e.Address, addr) {
			return i
		}
	}
	return -1
}

// Get returns the candidate entry if it is live.
func (r CandidateRegistry) Get(addr sdk.AccAddress) (CandidateEntry, bool) {
	if i := r.Find(addr); i >= 0 {
		return r.Entries[i], true
	}
	return CandidateEntry{}, false
}

// TotalVotes is the vote count summed over all live entries.
func (r CandidateRegistry) TotalVotes() math.Int {
	total := math.ZeroInt()
	for _, e := range r.Entries {
		total = total.Add(e.VoteCount)
	}
	return total
}

// AddVote records weight (and amount, for treasury candidates) for addr.
func (r *CandidateRegistry) AddVote(addr sdk.AccAddress, weight, amount math.Int) (CandidateAddResult, error) {
	if addr.Empty() {
		return CandidateAddResult{}, ErrInvalidAddress.Wrap("candidate address is empty")
	}
	if weight.IsNil() || !weight.IsPositive() {
		return CandidateAddResult{}, ErrInvalidAmount.Wrapf("candidate vote weight must be positive, got %v", weight)
	}
	if amount.IsNil() {
		amount = math.ZeroInt()
	}
	if len(r.Entries) > MaxCandidates {
		return CandidateAddResult{}, ErrRegistryOverflow.Wrapf("registry holds %d entries, capacity is %d", len(r.Entries), MaxCandidates)
	}

	if i := r.Find(addr); i >= 0 {
		r.Entries[i].VoteCount = r.Entries[i].VoteCount.Add(weight)
		r.Entries[i].Amount = r.Entries[i].Amount.Add(amount)
		return CandidateAddResult{Outcome: CandidateIncremented, Entry: r.Entries[i]}, nil
	}

	entry := CandidateEntry{
		Address:   addr,
		VoteCount: weight,
		Amount:    amount,
		Insertion: r.NextInsertion,
	}

	if len(r.Entries) < MaxCandidates {
		r.NextInsertion++
		r.Entries = append(r.Entries, entry)
		return CandidateAddResult{Outcome: CandidateAdded, Entry: entry}, nil
	}

	weakest := r.weakest()
	if !weight.GT(r.Entries[weakest].VoteCount) {
		return CandidateAddResult{Outcome: CandidateLost, Entry: entry}, nil
	}

	evicted := r.Entries[weakest]
	r.NextInsertion++
	r.Entries[weakest] = entry
	return CandidateAddResult{Outcome: CandidateReplaced, Entry: entry, Evicted: &evicted}, nil
}

// RemoveVote takes weight (and amount) away from addr. An entry whose vote
// count drops to zero is deleted and the remaining entries are compacted. It
// returns false when addr is not a live candidate, which happens after the
// candidate was evicted or the registry was cleared by an evaluation.
// Removing more than the entry holds is ErrCandidateUnderflow.
func (r *CandidateRegistry) RemoveVote(addr sdk.AccAddress, weight, amount math.Int) (CandidateEntry, bool, error) {
	i := r.Find(addr)
	if i < 0 {
		return CandidateEntry{}, false, nil
	}
	return r.removeAt(i, weight, amount)
}

// RemoveEntryVote is RemoveVote restricted to the entry stored with the given
// insertion number. Insertion numbers are never reused, so a vote counted in
// an entry that was since evicted or cleared finds nothing to remove, even
// when the same address has been voted in again.
func (r *CandidateRegistry) RemoveEntryVote(addr sdk.AccAddress, insertion uint64, weight, amount math.Int) (CandidateEntry, bool, error) {
	i := r.Find(addr)
	if i < 0 || r.Entries[i].Insertion != insertion {
		return CandidateEntry{}, false, nil
	}
	return r.removeAt(i, weight, amount)
}

func (r *CandidateRegistry) removeAt(i int, weight, amount math.Int) (CandidateEntry, bool, error) {
	if amount.IsNil() {
		amount = math.ZeroInt()
	}
	e := r.Entries[i]
	if weight.IsNil() || weight.IsNegative() || weight.GT(e.VoteCount) {
		return CandidateEntry{}, false, ErrCandidateUnderflow.Wrapf("removing %v votes from %s which holds %s", weight, e.Address, e.VoteCount)
	}
	if amount.IsNegative() || amount.GT(e.Amount) {
		return CandidateEntry{}, false, ErrCandidateUnderflow.Wrapf("removing amount %s from %s which holds %s", amount, e.Address, e.Amount)
	}
	e.VoteCount = e.VoteCount.Sub(weight)
	e.Amount = e.Amount.Sub(amount)

	if e.VoteCount.IsZero() {
		r.Entries = append(r.Entries[:i], r.Entries[i+1:]...)
		return e, true, nil
	}
	r.Entries[i] = e
	return e, true, nil
}

// Leader returns the entry with the strictly highest vote count. Among equal
// counts the earliest inserted entry leads.
func (r CandidateRegistry) Leader() (CandidateEntry, bool) {
	if len(r.Entries) == 0 {
		return CandidateEntry{}, false
	}
	lead := 0
	for i := 1; i < len(r.Entries); i++ {
		e, l := r.Entries[i], r.Entries[lead]
		if e.VoteCount.GT(l.VoteCount) || (e.VoteCount.Equal(l.VoteCount) && e.Insertion < l.Insertion) {
			lead = i
		}
	}
	return r.Entries[lead], true
}

// weakest returns the slot to evict: the lowest vote count, and among equal
// counts the latest inserted entry, so earlier candidates survive ties.
func (r CandidateRegistry) weakest() int {
	weak := 0
	for i := 1; i < len(r.Entries); i++ {
		e, w := r.Entries[i], r.Entries[weak]
		if e.VoteCount.LT(w.VoteCount) || (e.VoteCount.Equal(w.VoteCount) && e.Insertion > w.Insertion) {
			weak = i
		}
	}
	return weak
}

// CandidateEvaluation is the outcome of evaluating a registry.
type CandidateEvaluation struct {
	Leader              CandidateEntry
	HasLeader           bool
	TotalVotes          math.Int
	TotalVotePercentage math.LegacyDec
	ThresholdPercent    uint64
	Passed              bool
}

// Evaluate picks the leader and checks whether its share of all candidate
// votes reaches thresholdPercent. The share comparison is exact.
func (r CandidateRegistry) Evaluate(thresholdPercent uint64) CandidateEvaluation {
	eval := CandidateEvaluation{
		TotalVotes:          r.TotalVotes(),
		TotalVotePercentage: math.LegacyZeroDec(),
		ThresholdPercent:    thresholdPercent,
	}
	leader, ok := r.Leader()
	if !ok || !eval.TotalVotes.IsPositive() {
		return eval
	}
	eval.Leader = leader
	eval.HasLeader = true
	eval.TotalVotePercentage = math.LegacyNewDecFromInt(leader.VoteCount).QuoInt(eval.TotalVotes).MulInt64(100)
	eval.Passed = leader.VoteCount.MulRaw(100).GTE(eval.TotalVotes.Mul(math.NewIntFromUint64(thresholdPercent)))
	return eval
}

// Clear removes every entry. The insertion counter keeps running.
func (r *CandidateRegistry) Clear() {
	r.Entries = []CandidateEntry{}
}
