// Package params defines the tunable constants of the beacon chain state
// transition, gathered behind a single immutable configuration object the
// way the host project keeps fork parameters behind BeaconConfig.
package params

import "github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"

// BeaconChainConfig holds every tunable phase0 constant as a recognized
// override key. A fork never changes constants mid-fork; callers load a
// configuration once at process start via OverrideBeaconConfig.
type BeaconChainConfig struct {
	// Misc.
	MaxCommitteesPerSlot      uint64
	TargetCommitteeSize       uint64
	MaxValidatorsPerCommittee uint64
	MinPerEpochChurnLimit     uint64
	ChurnLimitQuotient        uint64
	ShuffleRoundCount         uint64
	MinGenesisActiveValidatorCount uint64
	MinGenesisTime                 uint64

	// Gwei values.
	MinDepositAmount          uint64
	MaxEffectiveBalance       uint64
	EjectionBalance           uint64
	EffectiveBalanceIncrement uint64

	// Initial values.
	GenesisForkVersion  [4]byte
	BLSWithdrawalPrefix byte

	// Time parameters.
	GenesisDelay                       uint64
	SecondsPerSlot                     uint64
	MinAttestationInclusionDelay       primitives.Slot
	SlotsPerEpoch                      primitives.Slot
	MinSeedLookahead                   primitives.Epoch
	MaxSeedLookahead                   primitives.Epoch
	EpochsPerEth1VotingPeriod          primitives.Epoch
	SlotsPerHistoricalRoot             primitives.Slot
	MinValidatorWithdrawabilityDelay   primitives.Epoch
	PersistentCommitteePeriod          primitives.Epoch
	MinEpochsToInactivityPenalty       primitives.Epoch
	SlotsPerEth1VotingPeriod           primitives.Slot

	// State list lengths.
	EpochsPerHistoricalVector primitives.Epoch
	EpochsPerSlashingsVector  primitives.Epoch
	HistoricalRootsLimit      uint64
	ValidatorRegistryLimit    uint64

	// Reward and penalty quotients.
	BaseRewardFactor            uint64
	WhistleblowerRewardQuotient uint64
	ProposerRewardQuotient      uint64
	InactivityPenaltyQuotient   uint64
	MinSlashingPenaltyQuotient  uint64

	// Max operations per block.
	MaxProposerSlashings uint64
	MaxAttesterSlashings uint64
	MaxAttestations      uint64
	MaxDeposits          uint64
	MaxVoluntaryExits    uint64

	// Signature domains.
	DomainBeaconProposer [4]byte
	DomainBeaconAttester [4]byte
	DomainRandao         [4]byte
	DomainDeposit        [4]byte
	DomainVoluntaryExit  [4]byte

	DepositContractTreeDepth uint64
	JustificationBitsLength  uint64

	FarFutureEpoch primitives.Epoch
	GenesisSlot    primitives.Slot
	GenesisEpoch   primitives.Epoch
}

// MainnetConfig returns the phase0 mainnet constants.
func MainnetConfig() *BeaconChainConfig {
	return &BeaconChainConfig{
		MaxCommitteesPerSlot:           64,
		TargetCommitteeSize:            128,
		MaxValidatorsPerCommittee:      2048,
		MinPerEpochChurnLimit:          4,
		ChurnLimitQuotient:             65536,
		ShuffleRoundCount:              90,
		MinGenesisActiveValidatorCount: 16384,
		MinGenesisTime:                 1578009600,

		MinDepositAmount:          1_000_000_000,
		MaxEffectiveBalance:       32_000_000_000,
		EjectionBalance:           16_000_000_000,
		EffectiveBalanceIncrement: 1_000_000_000,

		GenesisForkVersion:  [4]byte{0, 0, 0, 0},
		BLSWithdrawalPrefix: 0x00,

		GenesisDelay:                     86400,
		SecondsPerSlot:                   12,
		MinAttestationInclusionDelay:     1,
		SlotsPerEpoch:                    32,
		MinSeedLookahead:                 1,
		MaxSeedLookahead:                 4,
		EpochsPerEth1VotingPeriod:        64,
		SlotsPerHistoricalRoot:           8192,
		MinValidatorWithdrawabilityDelay: 256,
		PersistentCommitteePeriod:        2048,
		MinEpochsToInactivityPenalty:     4,
		SlotsPerEth1VotingPeriod:         1024,

		EpochsPerHistoricalVector: 65536,
		EpochsPerSlashingsVector:  8192,
		HistoricalRootsLimit:      1 << 24,
		ValidatorRegistryLimit:    1 << 40,

		BaseRewardFactor:            64,
		WhistleblowerRewardQuotient: 512,
		ProposerRewardQuotient:      8,
		InactivityPenaltyQuotient:   1 << 25,
		MinSlashingPenaltyQuotient:  32,

		MaxProposerSlashings: 16,
		MaxAttesterSlashings: 1,
		MaxAttestations:      128,
		MaxDeposits:          16,
		MaxVoluntaryExits:    16,

		DomainBeaconProposer: [4]byte{0x00, 0x00, 0x00, 0x00},
		DomainBeaconAttester: [4]byte{0x01, 0x00, 0x00, 0x00},
		DomainRandao:         [4]byte{0x02, 0x00, 0x00, 0x00},
		DomainDeposit:        [4]byte{0x03, 0x00, 0x00, 0x00},
		DomainVoluntaryExit:  [4]byte{0x04, 0x00, 0x00, 0x00},

		DepositContractTreeDepth: 32,
		JustificationBitsLength:  4,

		FarFutureEpoch: primitives.Epoch(1<<64 - 1),
		GenesisSlot:    0,
		GenesisEpoch:   0,
	}
}

var beaconConfig = MainnetConfig()

// BeaconConfig returns the process-wide active configuration.
func BeaconConfig() *BeaconChainConfig {
	return beaconConfig
}

// OverrideBeaconConfig replaces the process-wide configuration. Intended for
// use at process start (or in tests that exercise a minimal-config preset);
// never call this while a transition is in flight.
func OverrideBeaconConfig(cfg *BeaconChainConfig) {
	beaconConfig = cfg
}

// MinimalConfig returns a small-scale configuration convenient for tests,
// mirroring the "minimal" preset used by the consensus spec test suite.
func MinimalConfig() *BeaconChainConfig {
	cfg := MainnetConfig()
	cfg.MaxCommitteesPerSlot = 4
	cfg.TargetCommitteeSize = 4
	cfg.SlotsPerEpoch = 8
	cfg.SlotsPerHistoricalRoot = 64
	cfg.EpochsPerHistoricalVector = 64
	cfg.EpochsPerSlashingsVector = 64
	cfg.SlotsPerEth1VotingPeriod = 16
	cfg.MinGenesisActiveValidatorCount = 64
	cfg.ShuffleRoundCount = 10
	return cfg
}
