package request

type SubmitOffer struct {
	Amount uint64 `json:"amount"`
	Price  uint64 `json:"price"`
	IsBid  bool   `json:"is_bid"`
}

type CancelOffer struct {
	IsBid bool `json:"is_bid"`
}

type Commercialize struct {
	Amount uint64 `json:"amount"`
	Price  uint64 `json:"price"`
	Cancel bool   `json:"cancel"`
}

type Support struct {
	Amount uint64 `json:"amount"`
}
