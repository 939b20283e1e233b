// Package scenario describes and runs scripted sessions against the egl
// keeper: accounts are funded, votes are cast, time is moved forward and
// epochs are tallied on an in-memory store.
package scenario

import (
	"fmt"
	"os"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"gopkg.in/yaml.v2"

	"github.com/eglgov/egl-app/pkg/appconsts"
	"github.com/eglgov/egl-app/x/egl/types"
)

// Step actions.
const (
	ActionVote                = "vote"
	ActionReVote              = "revote"
	ActionWithdraw            = "withdraw"
	ActionTally               = "tally"
	ActionAdvance             = "advance"
	ActionFundSeeds           = "fund_seeds"
	ActionIssueCreatorRewards = "issue_creator_rewards"
	ActionBlockReward         = "block_reward"
	ActionEvaluateDao         = "evaluate_dao"
	ActionEvaluateUpgrade     = "evaluate_upgrade"
)

var knownActions = map[string]bool{
	ActionVote:                true,
	ActionReVote:              true,
	ActionWithdraw:            true,
	ActionTally:               true,
	ActionAdvance:             true,
	ActionFundSeeds:           true,
	ActionIssueCreatorRewards: true,
	ActionBlockReward:         true,
	ActionEvaluateDao:         true,
	ActionEvaluateUpgrade:     true,
}

// Scenario is a named list of steps. Token amounts are decimal strings of
// whole tokens and accounts are referred to by name.
type Scenario struct {
	Name        string            `yaml:"name"`
	GenesisTime string            `yaml:"genesis_time"`
	Circulation string            `yaml:"circulation"`
	ModulePool  string            `yaml:"module_pool"`
	Creator     string            `yaml:"creator"`
	Accounts    map[string]string `yaml:"accounts"`
	Seeds       []string          `yaml:"seeds"`
	Steps       []Step            `yaml:"steps"`
}

// Step is a single action. Only the fields used by the action need to be
// set. A non empty ExpectError makes the step pass only when it fails with
// an error containing that text.
type Step struct {
	Action         string `yaml:"action"`
	Voter          string `yaml:"voter,omitempty"`
	GasTarget      uint64 `yaml:"gas_target,omitempty"`
	Amount         string `yaml:"amount,omitempty"`
	Lockup         uint64 `yaml:"lockup,omitempty"`
	DaoRecipient   string `yaml:"dao_recipient,omitempty"`
	DaoAmount      string `yaml:"dao_amount,omitempty"`
	UpgradeAddress string `yaml:"upgrade_address,omitempty"`
	GasLimit       uint64 `yaml:"gas_limit,omitempty"`
	Duration       string `yaml:"duration,omitempty"`
	Epochs         uint64 `yaml:"epochs,omitempty"`
	ExpectError    string `yaml:"expect_error,omitempty"`
}

// Load reads a YAML scenario file.
func Load(path string) (Scenario, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	return Parse(bz)
}

// Parse decodes and validates a YAML scenario.
func Parse(bz []byte) (Scenario, error) {
	var sc Scenario
	if err := yaml.UnmarshalStrict(bz, &sc); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Validate checks the scenario without running it.
func (sc Scenario) Validate() error {
	if _, err := sc.genesisTime(); err != nil {
		return err
	}
	for name, amount := range map[string]string{"circulation": sc.Circulation, "module_pool": sc.ModulePool} {
		if _, err := parseTokens(amount); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	for name, amount := range sc.Accounts {
		if _, err := parseTokens(amount); err != nil {
			return fmt.Errorf("invalid balance of account %s: %w", name, err)
		}
	}
	for i, step := range sc.Steps {
		if !knownActions[step.Action] {
			return fmt.Errorf("step %d: unknown action %q", i, step.Action)
		}
		if step.Duration != "" {
			if _, err := time.ParseDuration(step.Duration); err != nil {
				return fmt.Errorf("step %d: invalid duration: %w", i, err)
			}
		}
	}
	return nil
}

// Address returns the address used for a named account.
func Address(name string) sdk.AccAddress {
	if name == "" {
		return nil
	}
	return authtypes.NewModuleAddress(name)
}

// Genesis returns the module genesis the scenario starts from.
func (sc Scenario) Genesis() (*types.GenesisState, error) {
	genesisTime, err := sc.genesisTime()
	if err != nil {
		return nil, err
	}
	circulation, err := parseTokens(sc.Circulation)
	if err != nil {
		return nil, err
	}

	gs := types.DefaultGenesis()
	gs.Params.GenesisTime = genesisTime
	gs.Params.CreatorAddress = Address(sc.Creator)
	gs.TokensInCirculation = circulation
	return gs, nil
}

func (sc Scenario) genesisTime() (time.Time, error) {
	if sc.GenesisTime == "" {
		return time.Unix(0, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, sc.GenesisTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid genesis time: %w", err)
	}
	return t.UTC(), nil
}

// parseTokens converts whole tokens into base units. An empty string is
// zero.
func parseTokens(amount string) (math.Int, error) {
	if amount == "" {
		return math.ZeroInt(), nil
	}
	tokens, err := appconsts.TokensFromDec(amount)
	if err != nil {
		return math.Int{}, err
	}
	if tokens.IsNegative() {
		return math.Int{}, fmt.Errorf("negative amount %s", amount)
	}
	return tokens, nil
}
