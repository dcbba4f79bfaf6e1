package models

// Status is the canonical lifecycle of a money-bearing record. Rows are
// created PENDING; SUCCESS, FAILED and REFUNDED are terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusSuccess  Status = "SUCCESS"
	StatusFailed   Status = "FAILED"
	StatusRefunded Status = "REFUNDED"
)

// IsTerminal reports whether no further status writes are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusRefunded
}

// Kind selects the ledger table a gateway transaction applies to.
type Kind string

const (
	KindClientPayment    Kind = "CLIENT_PAYMENT"
	KindWalletTopup      Kind = "WALLET_TOPUP"
	KindWalletWithdrawal Kind = "WALLET_WITHDRAWAL"
)

// Wallet transaction direction.
const (
	WalletTxCredit = "CREDIT"
	WalletTxDebit  = "DEBIT"
)
