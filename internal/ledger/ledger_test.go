package ledger

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	apperrors "totality/internal/errors"
)

func i64(v int64) *int64 { return &v }

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", code)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Errorf("expected error code %q, got %q (message: %s)", code, appErr.Code, appErr.Message)
	}
}

func TestAddDraft(t *testing.T) {
	t.Run("balances_within_currency", func(t *testing.T) {
		bal := New()
		bal.AddDraft("a1", "USD", 500)

		if got := bal.AccountBalance("a1", "USD"); got != 500 {
			t.Errorf("expected account balance 500, got %d", got)
		}
		if bal["USD"].Floating != -500 {
			t.Errorf("expected floating -500, got %d", bal["USD"].Floating)
		}
		assertNoError(t, bal.Verify())
	})

	t.Run("round_trip_restores_zero", func(t *testing.T) {
		bal := New()
		bal.AddDraft("a1", "USD", 500)
		assertNoError(t, bal.Verify())
		bal.AddDraft("a1", "USD", -500)
		assertNoError(t, bal.Verify())

		if got := bal.AccountBalance("a1", "USD"); got != 0 {
			t.Errorf("expected account balance 0 after round trip, got %d", got)
		}
		if bal["USD"].Floating != 0 {
			t.Errorf("expected floating 0 after round trip, got %d", bal["USD"].Floating)
		}
	})
}

func TestAddExternal(t *testing.T) {
	bal := New()
	bal.AddExternal("a1", "groceries", "EUR", -2500)

	if got := bal.AccountBalance("a1", "EUR"); got != -2500 {
		t.Errorf("expected account balance -2500, got %d", got)
	}
	if got := bal.BucketBalance("groceries", "EUR"); got != 2500 {
		t.Errorf("expected bucket balance 2500, got %d", got)
	}
	assertNoError(t, bal.Verify())
}

func TestAddTransfer(t *testing.T) {
	bal := New()
	bal.AddTransfer("a1", "a2", "USD", 1000)

	if got := bal.AccountBalance("a1", "USD"); got != 1000 {
		t.Errorf("expected a1 balance 1000, got %d", got)
	}
	if got := bal.AccountBalance("a2", "USD"); got != -1000 {
		t.Errorf("expected a2 balance -1000, got %d", got)
	}
	assertNoError(t, bal.Verify())
}

func TestAddExchange(t *testing.T) {
	t.Run("sign_convention", func(t *testing.T) {
		bal := New()
		assertNoError(t, bal.AddExchange("A", "USD", "B", "AUD", -1000, 1500))

		if got := bal.AccountBalance("A", "USD"); got != -1000 {
			t.Errorf("expected A/USD -1000, got %d", got)
		}
		if bal["USD"].Conversions != 1000 {
			t.Errorf("expected USD conversions 1000, got %d", bal["USD"].Conversions)
		}
		if got := bal.AccountBalance("B", "AUD"); got != 1500 {
			t.Errorf("expected B/AUD 1500, got %d", got)
		}
		if bal["AUD"].Conversions != -1500 {
			t.Errorf("expected AUD conversions -1500, got %d", bal["AUD"].Conversions)
		}
		assertNoError(t, bal.Verify())
	})

	t.Run("positive_amount_sends_other_leg_negative", func(t *testing.T) {
		bal := New()
		assertNoError(t, bal.AddExchange("A", "USD", "B", "AUD", 1000, 1500))

		if got := bal.AccountBalance("B", "AUD"); got != -1500 {
			t.Errorf("expected B/AUD -1500, got %d", got)
		}
		assertNoError(t, bal.Verify())
	})

	t.Run("zero_amount_rejected", func(t *testing.T) {
		bal := New()
		assertCode(t, bal.AddExchange("A", "USD", "B", "AUD", 0, 1500), "INVALID_INPUT")
		if len(bal) != 0 {
			t.Error("expected ledger untouched after rejected exchange")
		}
	})

	t.Run("non_positive_other_amount_rejected", func(t *testing.T) {
		bal := New()
		assertCode(t, bal.AddExchange("A", "USD", "B", "AUD", 100, 0), "INVALID_INPUT")
		assertCode(t, bal.AddExchange("A", "USD", "B", "AUD", 100, -5), "INVALID_INPUT")
	})
}

func TestVerify(t *testing.T) {
	t.Run("zero_sum_over_primitive_sequences", func(t *testing.T) {
		bal := New()
		bal.AddDraft("a1", "USD", 1234)
		bal.AddExternal("a1", "rent", "USD", -995)
		bal.AddTransfer("a1", "a2", "USD", 37)
		assertNoError(t, bal.AddExchange("a2", "USD", "a3", "JPY", -250, 37000))
		bal.AddDraft("a3", "JPY", -42)
		bal.AddExternal("a2", "salary", "EUR", 100000)
		assertNoError(t, bal.Verify())
	})

	t.Run("detects_drift", func(t *testing.T) {
		bal := New()
		bal.AddDraft("a1", "USD", 500)
		bal["USD"].Floating += 1 // simulate corruption
		assertCode(t, bal.Verify(), "UNBALANCED_LEDGER")
	})

	t.Run("explicit_zero_entries_equivalent_to_empty", func(t *testing.T) {
		bal := New()
		bal.AddDraft("a1", "USD", 500)
		bal.AddDraft("a1", "USD", -500)
		assertNoError(t, bal.Verify())
	})
}

func TestReverseLine(t *testing.T) {
	lines := []struct {
		name          string
		line          Line
		otherCurrency string
	}{
		{"draft", Line{Type: LineTypeDraft, Amount: 777, Payee: "acme"}, "USD"},
		{"external", Line{Type: LineTypeExternal, Amount: -1250, BucketID: "rent", Payee: "landlord"}, "USD"},
		{"transfer_same_currency", Line{Type: LineTypeTransfer, Amount: 300, OtherAccountID: "a2"}, "USD"},
		{"transfer_cross_currency", Line{Type: LineTypeTransfer, Amount: -1000, OtherAccountID: "a2", OtherAmount: i64(1500)}, "AUD"},
	}

	for _, tc := range lines {
		t.Run(tc.name, func(t *testing.T) {
			bal := New()
			bal.AddDraft("a1", "USD", 9000) // pre-existing state
			before := bal.Clone()

			assertNoError(t, bal.ApplyLine("a1", "USD", tc.line, tc.otherCurrency))
			assertNoError(t, bal.Verify())
			assertNoError(t, bal.ReverseLine("a1", "USD", tc.line, tc.otherCurrency))
			assertNoError(t, bal.Verify())

			// Reversal may leave explicit zero entries behind; compare every
			// sink value rather than map shape.
			for currency, cb := range bal {
				want := before[currency]
				if want == nil {
					want = &CurrencyBalance{Accounts: map[string]int64{}, Buckets: map[string]int64{}}
				}
				for id, v := range cb.Accounts {
					if v != want.Accounts[id] {
						t.Errorf("%s account %s: got %d, want %d", currency, id, v, want.Accounts[id])
					}
				}
				for id, v := range cb.Buckets {
					if v != want.Buckets[id] {
						t.Errorf("%s bucket %s: got %d, want %d", currency, id, v, want.Buckets[id])
					}
				}
				if cb.Floating != want.Floating {
					t.Errorf("%s floating: got %d, want %d", currency, cb.Floating, want.Floating)
				}
				if cb.Conversions != want.Conversions {
					t.Errorf("%s conversions: got %d, want %d", currency, cb.Conversions, want.Conversions)
				}
			}
		})
	}
}

func TestApplyLine(t *testing.T) {
	t.Run("transfer_dispatches_on_currency_equality", func(t *testing.T) {
		bal := New()
		line := Line{Type: LineTypeTransfer, Amount: 100, OtherAccountID: "a2", OtherAmount: i64(85)}

		// Same currency: plain transfer, otherAmount ignored, no conversions.
		assertNoError(t, bal.ApplyLine("a1", "USD", line, "USD"))
		if bal["USD"].Conversions != 0 {
			t.Errorf("expected no conversions on same-currency transfer, got %d", bal["USD"].Conversions)
		}
		if got := bal.AccountBalance("a2", "USD"); got != -100 {
			t.Errorf("expected a2 -100, got %d", got)
		}

		// Different currency: routed through the exchange path.
		bal2 := New()
		assertNoError(t, bal2.ApplyLine("a1", "USD", line, "EUR"))
		if bal2["USD"].Conversions != -100 {
			t.Errorf("expected USD conversions -100, got %d", bal2["USD"].Conversions)
		}
		if got := bal2.AccountBalance("a2", "EUR"); got != -85 {
			t.Errorf("expected a2/EUR -85, got %d", got)
		}
		assertNoError(t, bal2.Verify())
	})

	t.Run("missing_other_amount_on_cross_currency", func(t *testing.T) {
		bal := New()
		line := Line{Type: LineTypeTransfer, Amount: 100, OtherAccountID: "a2"}
		assertCode(t, bal.ApplyLine("a1", "USD", line, "EUR"), "MISSING_EXCHANGE_AMOUNT")

		zero := int64(0)
		line.OtherAmount = &zero
		assertCode(t, bal.ApplyLine("a1", "USD", line, "EUR"), "MISSING_EXCHANGE_AMOUNT")
	})

	t.Run("unknown_type_rejected", func(t *testing.T) {
		bal := New()
		assertCode(t, bal.ApplyLine("a1", "USD", Line{Type: "refund", Amount: 1}, "USD"), "INVALID_INPUT")
	})
}

func TestLineValidate(t *testing.T) {
	cases := []struct {
		name     string
		line     Line
		wantCode string
	}{
		{"draft_ok", Line{Type: LineTypeDraft, Amount: 10, Payee: "shop"}, ""},
		{"transfer_missing_account", Line{Type: LineTypeTransfer, Amount: 10}, "INVALID_INPUT"},
		{"transfer_ok", Line{Type: LineTypeTransfer, Amount: 10, OtherAccountID: "a2"}, ""},
		{"external_missing_bucket", Line{Type: LineTypeExternal, Amount: 10}, "INVALID_INPUT"},
		{"external_ok", Line{Type: LineTypeExternal, Amount: 10, BucketID: "b1"}, ""},
		{"unknown_type", Line{Type: "voucher", Amount: 10}, "INVALID_INPUT"},
		{"payee_too_long", Line{Type: LineTypeDraft, Amount: 1, Payee: strings.Repeat("x", maxPayeeLen+1)}, "INVALID_INPUT"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.line.Validate()
			if tc.wantCode == "" {
				assertNoError(t, err)
			} else {
				assertCode(t, err, tc.wantCode)
			}
		})
	}
}

func TestClone(t *testing.T) {
	bal := New()
	bal.AddDraft("a1", "USD", 500)
	bal.AddExternal("a1", "rent", "USD", -200)

	cp := bal.Clone()
	if !reflect.DeepEqual(bal, cp) {
		t.Fatal("expected clone to deep-equal original")
	}

	cp.AddDraft("a1", "USD", 100)
	if got := bal.AccountBalance("a1", "USD"); got != 300 {
		t.Errorf("expected original untouched at 300, got %d", got)
	}
	if got := cp.AccountBalance("a1", "USD"); got != 400 {
		t.Errorf("expected clone at 400, got %d", got)
	}
}
