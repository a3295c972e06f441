package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

// OrderStateKey is the single state store key under which the current order is kept.
const OrderStateKey = "order"

// Order is an opaque JSON document. It is kept as raw bytes so that it is forwarded
// to and read back from the state store unchanged.
type Order json.RawMessage

// MarshalJSON returns the raw document.
func (o Order) MarshalJSON() ([]byte, error) {
	if len(o) == 0 {
		return []byte("null"), nil
	}

	return o, nil
}

// UnmarshalJSON stores a copy of data.
func (o *Order) UnmarshalJSON(data []byte) error {
	if o == nil {
		return errors.New("domain.Order: UnmarshalJSON on nil pointer")
	}

	*o = append((*o)[0:0], data...)
	return nil
}

// IsNull reports whether the order is absent or the JSON literal null.
func (o Order) IsNull() bool {
	trimmed := bytes.TrimSpace(o)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// ID returns the orderId field rendered as text. Strings are unquoted, numbers are kept
// as written. An empty string is returned when the field is missing or the order is not
// a JSON object.
func (o Order) ID() string {
	var fields struct {
		OrderID json.RawMessage `json:"orderId"`
	}

	if err := json.Unmarshal(o, &fields); err != nil || len(fields.OrderID) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(fields.OrderID, &s); err == nil {
		return s
	}

	if bytes.Equal(fields.OrderID, []byte("null")) {
		return ""
	}

	return string(fields.OrderID)
}

// StateEntry is a key/value pair accepted by the state store save API.
type StateEntry struct {
	Key   string `json:"key"`
	Value Order  `json:"value"`
}

// NewOrderState wraps order in the single-entry list persisted under OrderStateKey.
func NewOrderState(order Order) []StateEntry {
	return []StateEntry{{Key: OrderStateKey, Value: order}}
}
