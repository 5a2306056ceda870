// Package ledger implements the multi-currency balance engine. A
// LedgerBalance records, per currency, where every known unit of money
// currently sits: in accounts, in budget buckets, floating (posted but not
// yet categorized), or parked in the conversions slot that absorbs the
// residue of cross-currency exchanges.
//
// Every primitive moves an amount into one sink and the exact opposite
// amount into another, so the per-currency sum stays zero by construction.
// Verify re-checks that sum after each batch of mutations and is the gate
// before a snapshot may be persisted.
//
// All amounts are signed integers in minor units (already multiplied by
// 10^precision of their currency). No floating point anywhere.
package ledger

import (
	apperrors "totality/internal/errors"
)

// CurrencyBalance holds one currency's slice of the ledger.
type CurrencyBalance struct {
	Accounts    map[string]int64 `json:"accounts"`
	Buckets     map[string]int64 `json:"buckets"`
	Floating    int64            `json:"floating"`
	Conversions int64            `json:"conversions"`
}

// LedgerBalance maps a currency code to its CurrencyBalance. An absent
// currency is equivalent to one holding only zero entries.
type LedgerBalance map[string]*CurrencyBalance

// New returns an empty ledger balance.
func New() LedgerBalance {
	return LedgerBalance{}
}

// ensure returns the CurrencyBalance for currency, inserting the zero-value
// record if the currency has not been seen before.
func (bal LedgerBalance) ensure(currency string) *CurrencyBalance {
	cb, ok := bal[currency]
	if !ok {
		cb = &CurrencyBalance{
			Accounts: map[string]int64{},
			Buckets:  map[string]int64{},
		}
		bal[currency] = cb
	}
	if cb.Accounts == nil {
		cb.Accounts = map[string]int64{}
	}
	if cb.Buckets == nil {
		cb.Buckets = map[string]int64{}
	}
	return cb
}

func (bal LedgerBalance) addAccount(accountID, currency string, delta int64) {
	bal.ensure(currency).Accounts[accountID] += delta
}

func (bal LedgerBalance) addBucket(bucketID, currency string, delta int64) {
	bal.ensure(currency).Buckets[bucketID] += delta
}

func (bal LedgerBalance) addFloating(currency string, delta int64) {
	bal.ensure(currency).Floating += delta
}

func (bal LedgerBalance) addConversion(currency string, delta int64) {
	bal.ensure(currency).Conversions += delta
}

// AddDraft posts an uncategorized amount to an account. The money is
// recognized as sitting in the account with the offset held in floating.
func (bal LedgerBalance) AddDraft(accountID, currency string, amount int64) {
	bal.addAccount(accountID, currency, amount)
	bal.addFloating(currency, -amount)
}

// AddExternal allocates an amount between an account and a budget bucket in
// the account's currency.
func (bal LedgerBalance) AddExternal(accountID, bucketID, currency string, amount int64) {
	bal.addAccount(accountID, currency, amount)
	bal.addBucket(bucketID, currency, -amount)
}

// AddTransfer moves an amount between two accounts denominated in the same
// currency. Cross-currency moves must go through AddExchange.
func (bal LedgerBalance) AddTransfer(accountA, accountB, currency string, amount int64) {
	bal.addAccount(accountA, currency, amount)
	bal.addAccount(accountB, currency, -amount)
}

// AddExchange moves money between accounts in different currencies. The leg
// in currencyA carries amount; the leg in currencyB carries otherAmount with
// the opposite sign. Each leg is balanced within its own currency by the
// conversions slot.
//
// otherAmount is a positive magnitude; the sign is derived from amount. A
// zero amount is rejected rather than special-cased: the sign derivation is
// undefined at zero and a zero-amount exchange has no meaning.
func (bal LedgerBalance) AddExchange(accountA, currencyA, accountB, currencyB string, amount, otherAmount int64) error {
	if amount == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "exchange amount must be nonzero")
	}
	if otherAmount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "exchange other amount must be a positive magnitude")
	}

	bal.addAccount(accountA, currencyA, amount)
	bal.addConversion(currencyA, -amount)

	amountB := otherAmount
	if amount > 0 {
		amountB = -otherAmount
	}
	bal.addAccount(accountB, currencyB, amountB)
	bal.addConversion(currencyB, -amountB)

	return nil
}

// Verify checks the zero-sum invariant for every currency present in the
// ledger. A failure means a primitive was composed incorrectly or the stored
// snapshot is corrupt; the caller must abort whatever unit of work produced
// the ledger.
func (bal LedgerBalance) Verify() error {
	for currency, cb := range bal {
		var sum int64
		for _, v := range cb.Accounts {
			sum += v
		}
		for _, v := range cb.Buckets {
			sum += v
		}
		sum += cb.Floating + cb.Conversions
		if sum != 0 {
			return apperrors.WithMessage(apperrors.ErrUnbalancedLedger, currency+" is unbalanced")
		}
	}
	return nil
}

// Clone returns a deep copy. Mutations on the copy never touch the
// original, so a snapshot loaded from the store can serve as the base for a
// working copy per atomic operation.
func (bal LedgerBalance) Clone() LedgerBalance {
	out := make(LedgerBalance, len(bal))
	for currency, cb := range bal {
		cp := &CurrencyBalance{
			Accounts:    make(map[string]int64, len(cb.Accounts)),
			Buckets:     make(map[string]int64, len(cb.Buckets)),
			Floating:    cb.Floating,
			Conversions: cb.Conversions,
		}
		for k, v := range cb.Accounts {
			cp.Accounts[k] = v
		}
		for k, v := range cb.Buckets {
			cp.Buckets[k] = v
		}
		out[currency] = cp
	}
	return out
}

// AccountBalance returns the balance held by an account in the given
// currency, zero when the ledger has no entry for it.
func (bal LedgerBalance) AccountBalance(accountID, currency string) int64 {
	cb, ok := bal[currency]
	if !ok {
		return 0
	}
	return cb.Accounts[accountID]
}

// BucketBalance returns the balance held against a bucket in the given
// currency, zero when the ledger has no entry for it.
func (bal LedgerBalance) BucketBalance(bucketID, currency string) int64 {
	cb, ok := bal[currency]
	if !ok {
		return 0
	}
	return cb.Buckets[bucketID]
}
