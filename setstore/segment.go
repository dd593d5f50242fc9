package setstore

import "strings"

// Grammar of a set file:
//
//	file    = { clause ";" }
//	clause  = { key value }      whitespace separated
//
// Recognized keys are md, mnm (bank tokens) and trk (track name). Any other
// key/value pair is kept verbatim. A value cannot contain ';'.

// Segment is one clause that carries at least one recognized key
type Segment struct {
	Index  int    // position among segments
	Clause int    // position among all clauses of the file
	MD     string // bank token, "" if absent
	MNM    string
	Trk    string // explicit track name, "" if inherited
	Raw    string
}

// HasTrk reports whether the segment declares its own track
func (s Segment) HasTrk() bool { return s.Trk != "" }

// splitClauses splits file content into trimmed, non-empty clauses
func splitClauses(content string) []string {
	parts := strings.Split(content, ";")
	clauses := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			clauses = append(clauses, p)
		}
	}
	return clauses
}

// joinClauses is the canonical serialization: "a;\nb;\n"
func joinClauses(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return strings.Join(clauses, ";\n") + ";\n"
}

// clauseValue returns the value following key in clause
func clauseValue(clause, key string) (string, bool) {
	fields := strings.Fields(clause)
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == key {
			return fields[i+1], true
		}
	}
	return "", false
}

// setClauseValue replaces (or appends) key's value; an empty value removes
// the pair. Other tokens keep their order.
func setClauseValue(clause, key, value string) string {
	fields := strings.Fields(clause)
	out := make([]string, 0, len(fields)+2)
	found := false
	for i := 0; i < len(fields); i++ {
		if !found && fields[i] == key && i+1 < len(fields) {
			found = true
			if value != "" {
				out = append(out, key, value)
			}
			i++
			continue
		}
		out = append(out, fields[i])
	}
	if !found && value != "" {
		out = append(out, key, value)
	}
	return strings.Join(out, " ")
}

// parseSegments extracts the typed view from clauses
func parseSegments(clauses []string) []Segment {
	var segs []Segment
	for ci, c := range clauses {
		md, hasMD := clauseValue(c, KeyMD)
		mnm, hasMNM := clauseValue(c, KeyMNM)
		trk, hasTrk := clauseValue(c, KeyTrk)
		if !hasMD && !hasMNM && !hasTrk {
			continue
		}
		segs = append(segs, Segment{
			Index:  len(segs),
			Clause: ci,
			MD:     md,
			MNM:    mnm,
			Trk:    trk,
			Raw:    c,
		})
	}
	return segs
}
