package enum

// TransactionStatus represents the lifecycle state of a register transaction.
type TransactionStatus string

const (
	TransactionStatusSale     TransactionStatus = "sale"
	TransactionStatusTraining TransactionStatus = "training"
	TransactionStatusResale   TransactionStatus = "resale"
	TransactionStatusReturn   TransactionStatus = "return"
	TransactionStatusVoid     TransactionStatus = "void"
)

// IsValid reports whether the status is one of the known values.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusSale, TransactionStatusTraining, TransactionStatusResale,
		TransactionStatusReturn, TransactionStatusVoid:
		return true
	}
	return false
}

// Registrable reports whether a client may submit a new transaction with this
// status. Return and void are only ever set by the reconciler.
func (s TransactionStatus) Registrable() bool {
	return s == TransactionStatusSale || s == TransactionStatusTraining
}
