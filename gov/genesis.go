package gov

import (
	"github.com/meridian-protocol/meridian/lib"
	"github.com/meridian-protocol/meridian/lib/crypto"
)

/* genesis.go implements the initial import of the governance state from a genesis object */

// Genesis is the exported beginning state of the module
type Genesis struct {
	Address lib.HexBytes `json:"address"` // this module's own contract address on the host ledger
	Config  *Config      `json:"config"`  // the initial governance parameters
}

// NewFromGenesisFile() loads the genesis object from the configured data directory
// and imports it into a fresh store
func (s *StateMachine) NewFromGenesisFile() lib.ErrorI {
	genesis := new(Genesis)
	if err := lib.NewJSONFromFile(genesis, s.Config.DataDirPath, lib.GenesisFilePath); err != nil {
		return err
	}
	return s.ApplyGenesis(genesis)
}

// ApplyGenesis() validates the genesis object and writes the beginning state
func (s *StateMachine) ApplyGenesis(genesis *Genesis) lib.ErrorI {
	if err := s.ValidateGenesis(genesis); err != nil {
		return err
	}
	if err := s.SetConfig(genesis.Config); err != nil {
		return err
	}
	if err := s.SetGlobalState(&GlobalState{Address: genesis.Address}); err != nil {
		return err
	}
	s.log.Infof("applied genesis state, address: %s", genesis.Address.String())
	return nil
}

// ValidateGenesis() sanity checks the genesis object before any write happens
func (s *StateMachine) ValidateGenesis(genesis *Genesis) lib.ErrorI {
	if genesis == nil || genesis.Config == nil {
		return ErrInvalidGenesis("missing config")
	}
	if len(genesis.Address) != crypto.AddressSize {
		return ErrInvalidGenesis("invalid module address")
	}
	config := genesis.Config
	for _, addr := range []lib.HexBytes{config.Owner, config.StakingAsset, config.Treasury} {
		if len(addr) != crypto.AddressSize {
			return ErrInvalidGenesis("invalid config address")
		}
	}
	if !lib.ValidFraction(config.Quorum) || !lib.ValidFraction(config.Threshold) {
		return ErrInvalidGenesis("fraction out of range")
	}
	if config.VotingPeriod == 0 {
		return ErrInvalidGenesis("zero voting period")
	}
	return nil
}
