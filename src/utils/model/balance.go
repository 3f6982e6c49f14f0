package model

import "time"

const (
	TableBalance  = "balances"
	TableApproval = "approvals"
)

// Amount of one asset held by one address. Rows with zero amount may exist.
type Balance struct {
	Holder    string `gorm:"primaryKey"`
	Asset     int64  `gorm:"primaryKey"`
	Amount    int64
	UpdatedAt time.Time
}

func (Balance) TableName() string {
	return TableBalance
}

// Custody approval granted by Owner to Operator
type Approval struct {
	Owner     string `gorm:"primaryKey"`
	Operator  string `gorm:"primaryKey"`
	Approved  bool
	UpdatedAt time.Time
}

func (Approval) TableName() string {
	return TableApproval
}
