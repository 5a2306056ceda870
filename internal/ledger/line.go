package ledger

import (
	apperrors "totality/internal/errors"
)

// LineType discriminates the three transaction line variants.
type LineType string

const (
	// LineTypeDraft is an uncategorized posting; the amount floats until
	// it is assigned to a bucket or another account.
	LineTypeDraft LineType = "draft"
	// LineTypeTransfer moves money to another account of the same
	// workspace, becoming a currency exchange when the currencies differ.
	LineTypeTransfer LineType = "transfer"
	// LineTypeExternal allocates against a budget bucket.
	LineTypeExternal LineType = "external"
)

// maxPayeeLen bounds the payee field, matching the API contract.
const maxPayeeLen = 250

// Line is one split of a transaction. Type selects the variant;
// OtherAccountID/OtherAmount are set for transfers and BucketID for
// external lines. Amount is in the primary account's minor units.
type Line struct {
	Type           LineType `json:"type"`
	Amount         int64    `json:"amount"`
	Payee          string   `json:"payee"`
	OtherAccountID string   `json:"otherAccountId,omitempty"`
	OtherAmount    *int64   `json:"otherAmount,omitempty"`
	BucketID       string   `json:"bucketId,omitempty"`
}

// Validate checks the variant-specific field requirements. It is the
// boundary check; the balance engine assumes lines passed to it are valid.
func (l Line) Validate() error {
	if len(l.Payee) > maxPayeeLen {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "payee exceeds maximum length")
	}

	switch l.Type {
	case LineTypeDraft:
		return nil
	case LineTypeTransfer:
		if l.OtherAccountID == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "transfer line requires otherAccountId")
		}
		return nil
	case LineTypeExternal:
		if l.BucketID == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "external line requires bucketId")
		}
		return nil
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown line type: "+string(l.Type))
	}
}

// Negated returns a copy of the line with the amount sign flipped. For
// transfer lines the other-amount magnitude is kept as is; AddExchange
// derives the second leg's sign from the primary amount, so negating the
// primary amount inverts both legs.
func (l Line) Negated() Line {
	out := l
	out.Amount = -l.Amount
	return out
}

// ApplyLine applies one line against the ledger on behalf of accountID,
// denominated in accountCurrency. otherCurrency is the counterpart
// account's currency and is only consulted for transfer lines; when it
// differs from accountCurrency the transfer is routed through AddExchange
// and the line must carry OtherAmount.
func (bal LedgerBalance) ApplyLine(accountID, accountCurrency string, line Line, otherCurrency string) error {
	switch line.Type {
	case LineTypeDraft:
		bal.AddDraft(accountID, accountCurrency, line.Amount)
		return nil

	case LineTypeExternal:
		bal.AddExternal(accountID, line.BucketID, accountCurrency, line.Amount)
		return nil

	case LineTypeTransfer:
		if otherCurrency == accountCurrency {
			bal.AddTransfer(accountID, line.OtherAccountID, accountCurrency, line.Amount)
			return nil
		}
		if line.OtherAmount == nil || *line.OtherAmount == 0 {
			return apperrors.ErrMissingExchangeAmount
		}
		other := *line.OtherAmount
		if other < 0 {
			other = -other
		}
		return bal.AddExchange(accountID, accountCurrency, line.OtherAccountID, otherCurrency, line.Amount, other)

	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown line type: "+string(line.Type))
	}
}

// ReverseLine undoes a previously applied line: the exact inverse of
// ApplyLine with the same arguments.
func (bal LedgerBalance) ReverseLine(accountID, accountCurrency string, line Line, otherCurrency string) error {
	return bal.ApplyLine(accountID, accountCurrency, line.Negated(), otherCurrency)
}
