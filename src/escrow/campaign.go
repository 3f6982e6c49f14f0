package escrow

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/maps"
)

type CampaignState uint8

const (
	CampaignNotStarted CampaignState = iota
	CampaignOpen
	CampaignApproved
	CampaignCancelled
)

func (self CampaignState) String() string {
	switch self {
	case CampaignNotStarted:
		return "not_started"
	case CampaignOpen:
		return "open"
	case CampaignApproved:
		return "approved"
	case CampaignCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(self))
	}
}

func (self CampaignState) MarshalText() ([]byte, error) {
	return []byte(self.String()), nil
}

func (self *CampaignState) UnmarshalText(text []byte) error {
	for s := CampaignNotStarted; s <= CampaignCancelled; s++ {
		if s.String() == string(text) {
			*self = s
			return nil
		}
	}
	return fmt.Errorf("unknown campaign state: %s", text)
}

type SupportRecord struct {
	// Collection units supported
	Amount uint64 `json:"amount"`

	// Payment asset held in escrow for this supporter
	Paid uint64 `json:"paid"`

	// Units already handed out after approval
	Claimed bool `json:"claimed"`
}

// Crowdfunding state of one collection
type campaign struct {
	State        CampaignState
	InitialAsk   uint64
	UnitPrice    uint64
	TotalSupport uint64

	// Creator took back units nobody supported
	CreatorClaimed bool

	// Creator acknowledged the payment made on approval
	CreatorClaimedBIA bool

	records map[common.Address]*SupportRecord
}

func newCampaign() *campaign {
	return &campaign{
		records: make(map[common.Address]*SupportRecord),
	}
}

func (self *campaign) clone() *campaign {
	out := *self
	out.records = make(map[common.Address]*SupportRecord, len(self.records))
	for k, v := range self.records {
		r := *v
		out.records[k] = &r
	}
	return &out
}

func (self *campaign) record(holder common.Address) *SupportRecord {
	r, ok := self.records[holder]
	if !ok {
		r = new(SupportRecord)
		self.records[holder] = r
	}
	return r
}

// Sum of all payments held for supporters
func (self *campaign) totalPaid() (sum uint64) {
	for _, r := range self.records {
		sum += r.Paid
	}
	return
}

func (self *campaign) supporters() []common.Address {
	out := maps.Keys(self.records)
	sortAddresses(out)
	return out
}
