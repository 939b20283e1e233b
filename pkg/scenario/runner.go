package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	storemetrics "cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/pkg/appconsts"
	"github.com/eglgov/egl-app/pkg/metrics"
	"github.com/eglgov/egl-app/pkg/tokenledger"
	"github.com/eglgov/egl-app/x/egl/keeper"
	"github.com/eglgov/egl-app/x/egl/types"
)

// Event is an emitted event with its attributes flattened.
type Event struct {
	Type       string            `json:"type" yaml:"type"`
	Attributes map[string]string `json:"attributes" yaml:"attributes"`
}

// StepResult records what one step did.
type StepResult struct {
	Index  int               `json:"index" yaml:"index"`
	Action string            `json:"action" yaml:"action"`
	Epoch  uint64            `json:"epoch" yaml:"epoch"`
	Error  string            `json:"error,omitempty" yaml:"error,omitempty"`
	Detail map[string]string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Events []Event           `json:"events,omitempty" yaml:"events,omitempty"`
}

// Report is the result of a run.
type Report struct {
	Name     string            `json:"name" yaml:"name"`
	Steps    []StepResult      `json:"steps" yaml:"steps"`
	State    types.GlobalState `json:"state" yaml:"-"`
	Balances map[string]string `json:"balances" yaml:"balances"`
}

// Option configures a Runner.
type Option func(*Runner)

// WithMetrics makes the runner publish the governance state after every
// step.
func WithMetrics(m *metrics.GovernanceMetrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithLogger sets the logger handed to the keeper.
func WithLogger(logger log.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// Runner executes a scenario on an in-memory store.
type Runner struct {
	sc      Scenario
	ctx     sdk.Context
	keeper  *keeper.Keeper
	ledger  *tokenledger.Ledger
	params  types.Params
	logger  log.Logger
	metrics *metrics.GovernanceMetrics

	names map[string]bool
}

// NewRunner initializes the module from gs, mints the module pool and funds
// the scenario accounts. Every account approves the module for its whole
// balance.
func NewRunner(sc Scenario, gs *types.GenesisState, opts ...Option) (*Runner, error) {
	r := &Runner{
		sc:     sc,
		logger: log.NewNopLogger(),
		names:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}

	eglKey := storetypes.NewKVStoreKey(types.StoreKey)
	ledgerKey := storetypes.NewKVStoreKey(tokenledger.StoreKey)

	cms := store.NewCommitMultiStore(dbm.NewMemDB(), r.logger, storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(eglKey, storetypes.StoreTypeIAVL, nil)
	cms.MountStoreWithDB(ledgerKey, storetypes.StoreTypeIAVL, nil)
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	r.ctx = sdk.NewContext(cms, tmproto.Header{Time: gs.Params.GenesisTime}, false, r.logger)
	r.ledger = tokenledger.NewLedger(runtime.NewKVStoreService(ledgerKey))
	r.keeper = keeper.NewKeeper(runtime.NewKVStoreService(eglKey), r.ledger)
	r.params = gs.Params

	if err := r.keeper.InitGenesis(r.ctx, gs); err != nil {
		return nil, err
	}

	pool, err := parseTokens(sc.ModulePool)
	if err != nil {
		return nil, err
	}
	if err := r.ledger.Mint(r.ctx, types.ModuleAddress, pool); err != nil {
		return nil, err
	}

	for name, balance := range sc.Accounts {
		amount, err := parseTokens(balance)
		if err != nil {
			return nil, err
		}
		if err := r.fund(name, amount); err != nil {
			return nil, fmt.Errorf("failed to fund %s: %w", name, err)
		}
	}
	if sc.Creator != "" {
		r.names[sc.Creator] = true
	}
	for _, seed := range sc.Seeds {
		r.names[seed] = true
	}

	r.observe()
	return r, nil
}

func (r *Runner) fund(name string, amount math.Int) error {
	addr := Address(name)
	r.names[name] = true
	if err := r.ledger.Mint(r.ctx, addr, amount); err != nil {
		return err
	}
	return r.ledger.Approve(r.ctx, addr, types.ModuleAddress, r.ledger.BalanceOf(r.ctx, addr))
}

// Keeper returns the keeper the runner drives.
func (r *Runner) Keeper() *keeper.Keeper { return r.keeper }

// Context returns the current context.
func (r *Runner) Context() sdk.Context { return r.ctx }

// Run executes every step in order. It stops at the first step whose outcome
// does not match its expectation and returns the report collected so far.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{Name: r.sc.Name}

	for i, step := range r.sc.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		r.ctx = r.ctx.WithEventManager(sdk.NewEventManager())
		detail, stepErr := r.runStep(step)

		res := StepResult{
			Index:  i,
			Action: step.Action,
			Detail: detail,
			Events: collectEvents(r.ctx.EventManager().Events()),
		}
		if state, err := r.keeper.GlobalState(r.ctx); err == nil {
			res.Epoch = state.CurrentEpoch
		}
		if stepErr != nil {
			res.Error = stepErr.Error()
		}
		report.Steps = append(report.Steps, res)
		r.observe()

		switch {
		case step.ExpectError == "" && stepErr != nil:
			return report, fmt.Errorf("step %d (%s): %w", i, step.Action, stepErr)
		case step.ExpectError != "" && stepErr == nil:
			return report, fmt.Errorf("step %d (%s): expected error %q", i, step.Action, step.ExpectError)
		case step.ExpectError != "" && !strings.Contains(stepErr.Error(), step.ExpectError):
			return report, fmt.Errorf("step %d (%s): expected error %q, got %q", i, step.Action, step.ExpectError, stepErr)
		}

		r.logger.Debug("scenario step", "index", i, "action", step.Action, "epoch", res.Epoch, "error", res.Error)
	}

	state, err := r.keeper.GlobalState(r.ctx)
	if err != nil {
		return report, err
	}
	report.State = state
	report.Balances = r.balances()
	return report, nil
}

func (r *Runner) runStep(step Step) (map[string]string, error) {
	switch step.Action {
	case ActionVote, ActionReVote:
		msg, err := r.voteMsg(step)
		if err != nil {
			return nil, err
		}
		var record types.VoterRecord
		if step.Action == ActionVote {
			record, err = r.keeper.Vote(r.ctx, msg)
		} else {
			record, err = r.keeper.ReVote(r.ctx, types.MsgReVote{MsgVote: msg})
		}
		if err != nil {
			return nil, err
		}
		return map[string]string{
			"tokens_locked": tokens(record.TokensLocked),
			"release_date":  record.ReleaseDate.Format(time.RFC3339),
			"vote_weight":   tokens(record.VoteWeight()),
		}, nil

	case ActionWithdraw:
		payout, err := r.keeper.Withdraw(r.ctx, types.MsgWithdraw{Voter: r.addr(step.Voter)})
		if err != nil {
			return nil, err
		}
		return map[string]string{"payout": tokens(payout)}, nil

	case ActionTally:
		n := step.Epochs
		if n == 0 {
			n = 1
		}
		var last types.TallyResult
		for i := uint64(0); i < n; i++ {
			state, err := r.keeper.GlobalState(r.ctx)
			if err != nil {
				return nil, err
			}
			if end := state.CurrentEpochEndDate(r.params.EpochLength); r.ctx.BlockTime().Before(end) {
				r.ctx = r.ctx.WithBlockTime(end)
			}
			last, err = r.keeper.TallyVotes(r.ctx)
			if err != nil {
				return nil, err
			}
			if r.metrics != nil {
				state, err = r.keeper.GlobalState(r.ctx)
				if err != nil {
					return nil, err
				}
				r.metrics.ObserveTally(last, state)
			}
		}
		return map[string]string{
			"epoch":         fmt.Sprint(last.Epoch),
			"threshold_met": fmt.Sprint(last.ThresholdMet),
			"grace_period":  fmt.Sprint(last.InGracePeriod),
			"desired_egl":   fmt.Sprint(last.DesiredEgl),
			"baseline_egl":  fmt.Sprint(last.BaselineEgl),
		}, nil

	case ActionAdvance:
		d := time.Duration(step.Epochs) * r.params.EpochLength
		if step.Duration != "" {
			parsed, err := time.ParseDuration(step.Duration)
			if err != nil {
				return nil, err
			}
			d += parsed
		}
		r.ctx = r.ctx.WithBlockTime(r.ctx.BlockTime().Add(d))
		return map[string]string{"block_time": r.ctx.BlockTime().UTC().Format(time.RFC3339)}, nil

	case ActionFundSeeds:
		seeds := make([]sdk.AccAddress, len(r.sc.Seeds))
		for i, name := range r.sc.Seeds {
			seeds[i] = r.addr(name)
		}
		caller := r.sc.Creator
		if step.Voter != "" {
			caller = step.Voter
		}
		return nil, r.keeper.FundSeedAccounts(r.ctx, r.addr(caller), seeds)

	case ActionIssueCreatorRewards:
		paid, err := r.keeper.IssueCreatorRewards(r.ctx)
		if err != nil {
			return nil, err
		}
		return map[string]string{"paid": tokens(paid)}, nil

	case ActionBlockReward:
		reward, err := r.keeper.CalculateBlockReward(r.ctx, step.GasLimit)
		if err != nil {
			return nil, err
		}
		return map[string]string{
			"percentage": reward.Percentage.String(),
			"amount":     tokens(reward.Amount),
		}, nil

	case ActionEvaluateDao, ActionEvaluateUpgrade:
		var (
			eval types.CandidateEvaluation
			err  error
		)
		if step.Action == ActionEvaluateDao {
			eval, err = r.keeper.EvaluateDaoVote(r.ctx)
		} else {
			eval, err = r.keeper.EvaluateUpgradeVote(r.ctx)
		}
		if err != nil {
			return nil, err
		}
		detail := map[string]string{"passed": fmt.Sprint(eval.Passed)}
		if eval.HasLeader {
			detail["leader"] = r.name(eval.Leader.Address)
		}
		return detail, nil
	}
	return nil, fmt.Errorf("unknown action %q", step.Action)
}

func (r *Runner) voteMsg(step Step) (types.MsgVote, error) {
	amount, err := parseTokens(step.Amount)
	if err != nil {
		return types.MsgVote{}, err
	}
	daoAmount, err := parseTokens(step.DaoAmount)
	if err != nil {
		return types.MsgVote{}, err
	}
	gasTarget := step.GasTarget
	if gasTarget == 0 {
		state, err := r.keeper.GlobalState(r.ctx)
		if err != nil {
			return types.MsgVote{}, err
		}
		gasTarget = state.BaselineEgl
	}
	return types.MsgVote{
		Voter:          r.addr(step.Voter),
		GasTarget:      gasTarget,
		Amount:         amount,
		LockupDuration: step.Lockup,
		DaoRecipient:   r.addr(step.DaoRecipient),
		DaoAmount:      daoAmount,
		UpgradeAddress: r.addr(step.UpgradeAddress),
	}, nil
}

// addr resolves a name and remembers it for the balance report.
func (r *Runner) addr(name string) sdk.AccAddress {
	if name != "" {
		r.names[name] = true
	}
	return Address(name)
}

func (r *Runner) name(addr sdk.AccAddress) string {
	for name := range r.names {
		if Address(name).Equals(addr) {
			return name
		}
	}
	return addr.String()
}

func (r *Runner) balances() map[string]string {
	out := map[string]string{"module": tokens(r.ledger.BalanceOf(r.ctx, types.ModuleAddress))}
	for name := range r.names {
		out[name] = tokens(r.ledger.BalanceOf(r.ctx, Address(name)))
	}
	return out
}

func (r *Runner) observe() {
	if r.metrics == nil {
		return
	}
	state, err := r.keeper.GlobalState(r.ctx)
	if err != nil {
		r.logger.Error("failed to read state for metrics", "error", err)
		return
	}
	r.metrics.ObserveState(state)
}

func collectEvents(events sdk.Events) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		attrs := make(map[string]string, len(e.Attributes))
		for _, attr := range e.Attributes {
			attrs[attr.Key] = attr.Value
		}
		out = append(out, Event{Type: e.Type, Attributes: attrs})
	}
	return out
}

func tokens(amount math.Int) string {
	if amount.IsNil() {
		return "0"
	}
	return appconsts.ToWholeTokens(amount).String()
}

// SortedKeys returns the keys of m in order.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
