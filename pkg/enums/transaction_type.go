package enums

import "fmt"

// TransactionType classifies a movement of blood in or out of the bank.
type TransactionType string

const (
	TransactionTypeDonation    TransactionType = "donation"
	TransactionTypeTransfusion TransactionType = "transfusion"
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeDonation,
	TransactionTypeTransfusion,
	TransactionTypeTransferIn,
	TransactionTypeTransferOut,
}

func (t TransactionType) String() string {
	return string(t)
}

func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsInbound reports whether the transaction adds stock.
func (t TransactionType) IsInbound() bool {
	return t == TransactionTypeDonation || t == TransactionTypeTransferIn
}

func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
