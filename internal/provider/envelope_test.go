package provider

import (
	"encoding/json"
	"testing"
)

func TestNormalize_UnwrapsEnvelope(t *testing.T) {
	got := Normalize(json.RawMessage(`{"result":"0x1"}`))
	if string(got) != `"0x1"` {
		t.Errorf("Normalize() = %s, want %q", got, `"0x1"`)
	}
}

func TestNormalize_PassesBareValue(t *testing.T) {
	tests := []string{`"0x1"`, `3`, `["0xabc"]`, `true`}
	for _, in := range tests {
		got := Normalize(json.RawMessage(in))
		if string(got) != in {
			t.Errorf("Normalize(%s) = %s, want unchanged", in, got)
		}
	}
}

func TestNormalize_ObjectWithoutResult(t *testing.T) {
	in := `{"jsonrpc":"2.0","id":1}`
	got := Normalize(json.RawMessage(in))
	if string(got) != in {
		t.Errorf("Normalize(%s) = %s, want unchanged", in, got)
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize(nil); got != nil {
		t.Errorf("Normalize(nil) = %s, want nil", got)
	}
	if got := Normalize(json.RawMessage("  ")); got != nil {
		t.Errorf("Normalize(whitespace) = %s, want nil", got)
	}
}

func TestDecodeChainID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"hex string", `"0x1"`, "0x1", false},
		{"decimal string", `"3"`, "3", false},
		{"number", `56`, "56", false},
		{"null", `null`, "", false},
		{"empty", ``, "", false},
		{"object", `{"id":1}`, "", true},
		{"list", `[1]`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeChainID(json.RawMessage(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeChainID(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DecodeChainID(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeAccounts(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		wantErr bool
	}{
		{"list", `["0xABC","0xDEF"]`, []string{"0xABC", "0xDEF"}, false},
		{"empty list", `[]`, nil, false},
		{"bare string", `"0xABC"`, []string{"0xABC"}, false},
		{"empty string", `""`, nil, false},
		{"null", `null`, nil, false},
		{"number", `7`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAccounts(json.RawMessage(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeAccounts(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("DecodeAccounts(%s) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("DecodeAccounts(%s)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodeAccounts_EnvelopeThenDecode(t *testing.T) {
	accounts, err := DecodeAccounts(Normalize(json.RawMessage(`{"result":["0xABC"]}`)))
	if err != nil {
		t.Fatalf("DecodeAccounts() error = %v", err)
	}
	if len(accounts) != 1 || accounts[0] != "0xABC" {
		t.Errorf("accounts = %v, want [0xABC]", accounts)
	}
}
