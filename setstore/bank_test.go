package setstore

import "testing"

func TestBankRoundTrip(t *testing.T) {
	for v := 0; v < NumSlots; v++ {
		tok := FormatBank(v)
		got, err := ParseBank(tok)
		if err != nil {
			t.Fatalf("ParseBank(%q) error = %v", tok, err)
		}
		if got != v {
			t.Errorf("ParseBank(FormatBank(%d)) = %d", v, got)
		}
		if FormatBank(got) != tok {
			t.Errorf("FormatBank(ParseBank(%q)) = %q", tok, FormatBank(got))
		}
	}
}

func TestParseBank(t *testing.T) {
	tests := []struct {
		tok     string
		want    int
		wantErr bool
	}{
		{"A01", 0, false},
		{"A16", 15, false},
		{"B03", 18, false},
		{"H16", 127, false},
		{"c02", 33, false},
		{"A00", 0, true},
		{"A17", 0, true},
		{"I01", 0, true},
		{"A1", 0, true},
		{"---", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.tok, func(t *testing.T) {
			got, err := ParseBank(tt.tok)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBank(%q) error = %v, wantErr %v", tt.tok, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBank(%q) = %d, want %d", tt.tok, got, tt.want)
			}
		})
	}
}

func TestFormatBankPadsSlot(t *testing.T) {
	if got := FormatBank(2); got != "A03" {
		t.Errorf("FormatBank(2) = %q, want A03", got)
	}
	if got := FormatBank(128); got != "---" {
		t.Errorf("FormatBank(128) = %q, want ---", got)
	}
}
