package setstore

import (
	"fmt"

	"github.com/pkg/errors"
)

// Bank tokens address 8 banks (A-H) of 16 slots: A01..H16 <-> 0..127
const (
	NumBanks     = 8
	SlotsPerBank = 16
	NumSlots     = NumBanks * SlotsPerBank
)

// Bank namespaces carried by a segment
const (
	KeyMD  = "md"
	KeyMNM = "mnm"
	KeyTrk = "trk"
)

// ParseBank converts a bank token like "B03" to its slot value (18).
// Lowercase bank letters are accepted.
func ParseBank(tok string) (int, error) {
	if len(tok) != 3 {
		return 0, errors.Errorf("bank %q: want letter and two digits", tok)
	}
	letter := tok[0]
	if letter >= 'a' && letter <= 'h' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'H' {
		return 0, errors.Errorf("bank %q: letter out of range A-H", tok)
	}
	d1, d2 := tok[1], tok[2]
	if d1 < '0' || d1 > '9' || d2 < '0' || d2 > '9' {
		return 0, errors.Errorf("bank %q: slot is not numeric", tok)
	}
	slot := int(d1-'0')*10 + int(d2-'0')
	if slot < 1 || slot > SlotsPerBank {
		return 0, errors.Errorf("bank %q: slot out of range 01-16", tok)
	}
	return int(letter-'A')*SlotsPerBank + slot - 1, nil
}

// FormatBank is the inverse of ParseBank
func FormatBank(v int) string {
	if v < 0 || v >= NumSlots {
		return "---"
	}
	return fmt.Sprintf("%c%02d", 'A'+v/SlotsPerBank, v%SlotsPerBank+1)
}
