package setstore

import (
	"bytes"
	"strings"
	"unicode"

	"embliss/debug"

	"github.com/pkg/errors"
)

// BankMapping records one remapped bank of a copied track
type BankMapping struct {
	Type   string `json:"type"` // KeyMD or KeyMNM
	Source string `json:"source"`
	Dest   string `json:"dest"`
}

// CopyPlan is a computed but not yet written track copy
type CopyPlan struct {
	Source   string
	Track    string
	Dest     string
	Clauses  []string // remapped clauses to append to Dest
	Mappings []BankMapping

	dest []byte // destination content the plan was computed against
}

// HasType reports whether any mapping is in namespace typ
func (p *CopyPlan) HasType(typ string) bool {
	for _, m := range p.Mappings {
		if m.Type == typ {
			return true
		}
	}
	return false
}

// usedBanks collects the slots referenced in one namespace
func usedBanks(segs []Segment, key string) [NumSlots]bool {
	var used [NumSlots]bool
	for _, s := range segs {
		tok := s.MD
		if key == KeyMNM {
			tok = s.MNM
		}
		if v, err := ParseBank(tok); err == nil {
			used[v] = true
		}
	}
	return used
}

// remapper hands out the lowest free slot per namespace, reusing the same
// destination for repeated source banks
type remapper struct {
	used     map[string]*[NumSlots]bool
	assigned map[string]map[int]int
	mappings []BankMapping
}

func newRemapper(dest []Segment) *remapper {
	md, mnm := usedBanks(dest, KeyMD), usedBanks(dest, KeyMNM)
	return &remapper{
		used:     map[string]*[NumSlots]bool{KeyMD: &md, KeyMNM: &mnm},
		assigned: map[string]map[int]int{KeyMD: {}, KeyMNM: {}},
	}
}

func (r *remapper) remap(key, tok string) (string, error) {
	src, err := ParseBank(tok)
	if err != nil {
		return tok, nil // not a bank token, copied unchanged
	}
	if dst, ok := r.assigned[key][src]; ok {
		return FormatBank(dst), nil
	}

	used := r.used[key]
	for v := 0; v < NumSlots; v++ {
		if used[v] {
			continue
		}
		used[v] = true
		r.assigned[key][src] = v
		r.mappings = append(r.mappings, BankMapping{Type: key, Source: tok, Dest: FormatBank(v)})
		return FormatBank(v), nil
	}
	return "", errors.Wrapf(ErrExhausted, "%s banks", key)
}

// PlanCopy computes the clauses and bank mappings for copying track from src
// into dest without writing anything
func (s *Store) PlanCopy(src, track, dest string) (*CopyPlan, error) {
	if src == dest {
		return nil, errors.Wrap(ErrSameFile, src)
	}
	if track == UnsetTrack {
		return nil, errors.Wrapf(ErrInvalidName, "track %q", UnsetTrack)
	}

	_, srcClauses, err := s.load(src)
	if err != nil {
		return nil, err
	}
	groups := buildGroups(parseSegments(srcClauses), len(srcClauses))
	gi := findGroup(groups, track)
	if gi < 0 {
		return nil, errors.Wrapf(ErrNotFound, "%s: track %q", src, track)
	}

	destData, destClauses, err := s.load(dest)
	if err != nil {
		return nil, err
	}

	r := newRemapper(parseSegments(destClauses))
	g := groups[gi]
	out := make([]string, 0, g.End-g.Start)
	for _, clause := range srcClauses[g.Start:g.End] {
		for _, key := range []string{KeyMD, KeyMNM} {
			tok, ok := clauseValue(clause, key)
			if !ok {
				continue
			}
			mapped, err := r.remap(key, tok)
			if err != nil {
				return nil, err
			}
			if mapped != tok {
				clause = setClauseValue(clause, key, mapped)
			}
		}
		out = append(out, clause)
	}

	return &CopyPlan{
		Source:   src,
		Track:    track,
		Dest:     dest,
		Clauses:  out,
		Mappings: r.mappings,
		dest:     destData,
	}, nil
}

// appendClauses adds clauses after existing content, terminating the last
// existing clause if needed. Existing bytes are kept as they are.
func appendClauses(existing []byte, clauses []string) []byte {
	var b bytes.Buffer
	trimmed := bytes.TrimRightFunc(existing, unicode.IsSpace)
	if len(trimmed) > 0 {
		b.Write(existing[:len(trimmed)])
		if !bytes.HasSuffix(trimmed, []byte(";")) {
			b.WriteByte(';')
		}
		b.WriteByte('\n')
	}
	b.WriteString(joinClauses(clauses))
	return b.Bytes()
}

// CommitCopy writes a plan. It fails with ErrChanged if the destination was
// modified after the plan was made.
func (s *Store) CommitCopy(plan *CopyPlan) error {
	data, err := s.read(plan.Dest)
	if err != nil {
		return err
	}
	if !bytes.Equal(data, plan.dest) {
		return errors.Wrap(ErrChanged, plan.Dest)
	}

	s.saveUndo(plan.Dest, data)
	if err := s.write(plan.Dest, appendClauses(data, plan.Clauses)); err != nil {
		return err
	}
	debug.Info("store", "copied %q %s -> %s (%d clauses, %d banks mapped)",
		plan.Track, plan.Source, plan.Dest, len(plan.Clauses), len(plan.Mappings))
	return nil
}

// CopyTrackToSet plans and commits a copy in one step
func (s *Store) CopyTrackToSet(src, track, dest string) ([]BankMapping, error) {
	plan, err := s.PlanCopy(src, track, dest)
	if err != nil {
		return nil, err
	}
	if err := s.CommitCopy(plan); err != nil {
		return nil, err
	}
	return plan.Mappings, nil
}

// Summary renders a plan for logs and the CLI
func (p *CopyPlan) Summary() string {
	var b strings.Builder
	for i, m := range p.Mappings {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(m.Type + " " + m.Source + "->" + m.Dest)
	}
	return b.String()
}
