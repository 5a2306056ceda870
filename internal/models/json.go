package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"totality/internal/ledger"
)

// jsonValue marshals v for a jsonb column.
func jsonValue(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// jsonScan unmarshals a jsonb column into dst, accepting the []byte and
// string representations drivers hand back.
func jsonScan(src any, dst any) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(s, dst)
	case string:
		return json.Unmarshal([]byte(s), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// LineList stores a transaction's splits as a jsonb array.
type LineList []ledger.Line

// Value implements driver.Valuer.
func (l LineList) Value() (driver.Value, error) { return jsonValue([]ledger.Line(l)) }

// Scan implements sql.Scanner.
func (l *LineList) Scan(src any) error { return jsonScan(src, (*[]ledger.Line)(l)) }

// MetaMap stores importer provenance as a jsonb string map.
type MetaMap map[string]string

// Value implements driver.Valuer.
func (m MetaMap) Value() (driver.Value, error) {
	if m == nil {
		m = MetaMap{}
	}
	return jsonValue(map[string]string(m))
}

// Scan implements sql.Scanner.
func (m *MetaMap) Scan(src any) error { return jsonScan(src, (*map[string]string)(m)) }

// LedgerSnapshot stores a full ledger balance as jsonb. It converts freely
// to and from ledger.LedgerBalance; the engine itself stays free of any
// persistence concern.
type LedgerSnapshot ledger.LedgerBalance

// Value implements driver.Valuer.
func (s LedgerSnapshot) Value() (driver.Value, error) {
	if s == nil {
		s = LedgerSnapshot{}
	}
	return jsonValue(ledger.LedgerBalance(s))
}

// Scan implements sql.Scanner.
func (s *LedgerSnapshot) Scan(src any) error {
	return jsonScan(src, (*ledger.LedgerBalance)(s))
}

// RawJSON stores a jsonb column this service carries forward without
// interpreting (the budget balance blob owned by the budgeting screens).
type RawJSON json.RawMessage

// Value implements driver.Valuer.
func (r RawJSON) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "{}", nil
	}
	return string(r), nil
}

// Scan implements sql.Scanner.
func (r *RawJSON) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		*r = append((*r)[:0], s...)
		return nil
	case string:
		*r = RawJSON(s)
		return nil
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// MarshalJSON passes the raw bytes through.
func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("{}"), nil
	}
	return r, nil
}

// UnmarshalJSON stores the raw bytes.
func (r *RawJSON) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}
