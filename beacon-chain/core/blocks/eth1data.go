package blocks

import (
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
)

// ProcessEth1Data appends body's eth1 vote and, once a strict majority of
// the voting period agrees, adopts it as the state's canonical eth1_data.
func ProcessEth1Data(st *state.BeaconState, body *types.BeaconBlockBody) error {
	vote := body.Eth1Data
	st.Eth1DataVotes = append(st.Eth1DataVotes, vote)

	if st.Eth1Data.Equal(vote) {
		return nil
	}

	var count uint64
	for _, v := range st.Eth1DataVotes {
		if v.Equal(vote) {
			count++
		}
	}
	if count*2 > uint64(params.BeaconConfig().SlotsPerEth1VotingPeriod) {
		st.Eth1Data = vote
	}
	return nil
}
