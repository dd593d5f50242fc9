package setstore

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// MaxBaseLen is the longest base name a set can have
const MaxBaseLen = 4

var filenameRe = regexp.MustCompile(`^([a-zA-Z]{1,4})(\d*)$`)

// ParseFilename splits "ab12.mset" into ("ab", 12). A file without a version
// suffix reports version -1. ok is false when name does not follow the
// set-file grammar.
func ParseFilename(name, ext string) (base string, version int, ok bool) {
	if !strings.HasSuffix(name, ext) {
		return "", 0, false
	}
	m := filenameRe.FindStringSubmatch(strings.TrimSuffix(name, ext))
	if m == nil {
		return "", 0, false
	}
	version = -1
	if m[2] != "" {
		v, err := strconv.Atoi(m[2])
		if err != nil {
			return "", 0, false
		}
		version = v
	}
	return strings.ToLower(m[1]), version, true
}

// FormatFilename builds "<base><version><ext>"; a negative version is omitted
func FormatFilename(base string, version int, ext string) string {
	if version < 0 {
		return base + ext
	}
	return base + strconv.Itoa(version) + ext
}

// SanitizeName lowercases name and keeps at most four letters
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
			if b.Len() == MaxBaseLen {
				break
			}
		}
	}
	return b.String()
}

// versionKey is the numeric suffix after base, -1 when absent.
// ok is false for anomalies (suffix too large to parse).
func versionKey(stem, base string) (int, bool) {
	rest := stem[len(base):]
	if rest == "" {
		return -1, true
	}
	v, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// uniqueBases collects lowercased base names from files
func uniqueBases(files []string, ext string) []string {
	seen := make(map[string]bool)
	var bases []string
	for _, f := range files {
		base, _, ok := ParseFilename(f, ext)
		if !ok || seen[base] {
			continue
		}
		seen[base] = true
		bases = append(bases, base)
	}
	sort.Strings(bases)
	return bases
}

// versionsOf filters files belonging to base and orders them by version
func versionsOf(files []string, base, ext string) []string {
	base = strings.ToLower(base)
	type entry struct {
		name    string
		version int
		ok      bool
	}
	var entries []entry
	for _, f := range files {
		if !strings.HasSuffix(f, ext) {
			continue
		}
		stem := strings.TrimSuffix(f, ext)
		if !strings.HasPrefix(strings.ToLower(stem), base) || !isDigits(stem[len(base):]) {
			continue
		}
		v, ok := versionKey(stem, base)
		entries = append(entries, entry{name: f, version: v, ok: ok})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ok != b.ok {
			return a.ok
		}
		if a.ok && a.version != b.version {
			return a.version < b.version
		}
		return a.name < b.name
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}
