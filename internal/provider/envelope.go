package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// resultEnvelope is the {"result": ...} wrapper some providers put around
// call results. Others return the bare value.
type resultEnvelope struct {
	Result json.RawMessage `json:"result"`
}

// Normalize unwraps the result envelope if present and returns the bare
// value either way. Stateless.
func Normalize(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '{' {
		var env resultEnvelope
		if err := json.Unmarshal(trimmed, &env); err == nil && env.Result != nil {
			return env.Result
		}
	}
	return trimmed
}

// DecodeChainID extracts a chain identifier from a normalized result.
// Providers return JSON strings ("0x1", "3") or bare numbers; both are
// accepted and reported as the string the provider sent.
func DecodeChainID(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return n.String(), nil
	}

	return "", fmt.Errorf("chain id is neither string nor number: %s", compact(trimmed))
}

// DecodeAccounts extracts an account list from a normalized result. A bare
// string is accepted as a one-element list; some enable() implementations
// return the address that way.
func DecodeAccounts(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var accounts []string
	if err := json.Unmarshal(trimmed, &accounts); err == nil {
		return accounts, nil
	}

	var single string
	if err := json.Unmarshal(trimmed, &single); err == nil {
		if single == "" {
			return nil, nil
		}
		return []string{single}, nil
	}

	return nil, fmt.Errorf("accounts result is neither list nor string: %s", compact(trimmed))
}

// compact truncates a raw value for error messages.
func compact(raw []byte) string {
	const max = 64
	if len(raw) > max {
		return strconv.Quote(string(raw[:max]) + "...")
	}
	return strconv.Quote(string(raw))
}
