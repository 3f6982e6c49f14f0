package escrow

import (
	"github.com/ethereum/go-ethereum/common"
)

type Order struct {
	Holder common.Address `json:"holder"`
	Price  uint64         `json:"price"`
	Amount uint64         `json:"amount"`
	Active bool           `json:"active"`
}

// One side of the book. Slots are handed out in order and never reused,
// except when the worst order is evicted from a full book.
type book struct {
	isBid    bool
	capacity int
	slots    []Order
}

func newBook(isBid bool, capacity int) *book {
	return &book{
		isBid:    isBid,
		capacity: capacity,
		slots:    make([]Order, 0, capacity),
	}
}

func (self *book) clone() *book {
	out := &book{
		isBid:    self.isBid,
		capacity: self.capacity,
		slots:    make([]Order, len(self.slots), self.capacity),
	}
	copy(out.slots, self.slots)
	return out
}

func (self *book) isFull() bool {
	return len(self.slots) >= self.capacity
}

func (self *book) activeSlot(holder common.Address) int {
	for i := range self.slots {
		if self.slots[i].Active && self.slots[i].Holder == holder {
			return i
		}
	}
	return -1
}

// Would an order at this price trade with the resting order?
func (self *book) crosses(resting *Order, price uint64) bool {
	if self.isBid {
		// Resting bids take asks priced at or below them
		return resting.Price >= price
	}
	return resting.Price <= price
}

// Lowest bid or highest ask, ties go to the higher slot. -1 if nothing is active.
func (self *book) worst() int {
	worst := -1
	for i := range self.slots {
		o := &self.slots[i]
		if !o.Active {
			continue
		}
		if worst < 0 {
			worst = i
			continue
		}
		w := &self.slots[worst]
		if (self.isBid && o.Price <= w.Price) || (!self.isBid && o.Price >= w.Price) {
			worst = i
		}
	}
	return worst
}

// Places the order in the next free slot. When the book is full the order must beat the worst
// active one, which is returned so its collateral can be refunded.
func (self *book) insert(order Order) (slot int, evicted *Order, err error) {
	if !self.isFull() {
		self.slots = append(self.slots, order)
		return len(self.slots) - 1, nil, nil
	}

	slot = self.worst()
	if slot < 0 || !self.beats(order.Price, self.slots[slot].Price) {
		if self.isBid {
			return -1, nil, ErrBookFullPriceTooLow
		}
		return -1, nil, ErrBookFullPriceTooHigh
	}

	old := self.slots[slot]
	self.slots[slot] = order
	return slot, &old, nil
}

func (self *book) beats(price, worst uint64) bool {
	if self.isBid {
		return price > worst
	}
	return price < worst
}

func (self *book) at(slot int) (Order, error) {
	if slot < 0 || slot >= self.capacity {
		return Order{}, ErrOutOfRange
	}
	if slot >= len(self.slots) {
		// Never used
		return Order{}, nil
	}
	return self.slots[slot], nil
}

// Keeps active orders in slot order and frees the rest.
// Returns old slot -> new slot of every kept order.
func (self *book) compact() map[int]int {
	moved := make(map[int]int)
	kept := make([]Order, 0, self.capacity)
	for i, o := range self.slots {
		if !o.Active {
			continue
		}
		moved[i] = len(kept)
		kept = append(kept, o)
	}
	self.slots = kept
	return moved
}

func (self *book) activeCount() (n int) {
	for i := range self.slots {
		if self.slots[i].Active {
			n++
		}
	}
	return
}
