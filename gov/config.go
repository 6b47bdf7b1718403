package gov

import (
	"github.com/meridian-protocol/meridian/lib"
	"github.com/meridian-protocol/meridian/lib/crypto"
)

/* config.go implements the ConfigStore and GlobalState records and the UpdateConfig operation */

// GetConfig() reads the governance parameters; read on every call that needs them
func (s *StateMachine) GetConfig() (*Config, lib.ErrorI) {
	bz, err := s.Get(ConfigKey())
	if err != nil {
		return nil, err
	}
	config := new(Config)
	if err = lib.Unmarshal(bz, config); err != nil {
		return nil, err
	}
	return config, nil
}

// SetConfig() writes the governance parameters
func (s *StateMachine) SetConfig(config *Config) lib.ErrorI {
	return s.marshalAndSet(ConfigKey(), config)
}

// GetGlobalState() reads the aggregate accounting record
func (s *StateMachine) GetGlobalState() (*GlobalState, lib.ErrorI) {
	bz, err := s.Get(StateKey())
	if err != nil {
		return nil, err
	}
	state := new(GlobalState)
	if err = lib.Unmarshal(bz, state); err != nil {
		return nil, err
	}
	return state, nil
}

// SetGlobalState() writes the aggregate accounting record
func (s *StateMachine) SetGlobalState(state *GlobalState) lib.ErrorI {
	return s.marshalAndSet(StateKey(), state)
}

// UpdateConfig() partially updates the governance parameters. Authorized to the stored owner
// only, or to the module's own address: a passed poll whose execute data targets this module
// is dispatched back by the host as a self-call, which is how self-amending governance works.
func (s *StateMachine) UpdateConfig(caller crypto.AddressI, msg *MessageUpdateConfig) lib.ErrorI {
	config, err := s.GetConfig()
	if err != nil {
		return err
	}
	state, err := s.GetGlobalState()
	if err != nil {
		return err
	}
	if caller == nil {
		return ErrUnauthorized()
	}
	owner, self := crypto.NewAddressFromBytes(config.Owner), crypto.NewAddressFromBytes(state.Address)
	if !caller.Equals(owner) && !caller.Equals(self) {
		return ErrUnauthorized()
	}
	// each field is independently optional; omitted fields retain prior values
	if msg.Owner != nil {
		if len(msg.Owner) != crypto.AddressSize {
			return lib.ErrInvalidAddress()
		}
		config.Owner = msg.Owner
	}
	if msg.Treasury != nil {
		if len(msg.Treasury) != crypto.AddressSize {
			return lib.ErrInvalidAddress()
		}
		config.Treasury = msg.Treasury
	}
	if msg.Quorum != nil {
		if !lib.ValidFraction(*msg.Quorum) {
			return ErrInvalidFraction()
		}
		config.Quorum = *msg.Quorum
	}
	if msg.Threshold != nil {
		if !lib.ValidFraction(*msg.Threshold) {
			return ErrInvalidFraction()
		}
		config.Threshold = *msg.Threshold
	}
	if msg.VotingPeriod != nil {
		if *msg.VotingPeriod == 0 {
			return lib.ErrInvalidArgument()
		}
		config.VotingPeriod = *msg.VotingPeriod
	}
	if msg.ProposalDeposit != nil {
		config.ProposalDeposit = *msg.ProposalDeposit
	}
	s.log.Infof("action: update_config, caller: %s", caller.String())
	return s.SetConfig(config)
}
