package setstore

import (
	"embliss/debug"

	"github.com/pkg/errors"
)

func (s *Store) saveUndo(file string, data []byte) {
	s.mu.Lock()
	s.undo[file] = append([]byte(nil), data...)
	s.mu.Unlock()
}

func (s *Store) dropUndo(file string) {
	s.mu.Lock()
	delete(s.undo, file)
	s.mu.Unlock()
}

// HasUndo reports whether an undo snapshot exists for file
func (s *Store) HasUndo(file string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.undo[file]
	return ok
}

// Undo restores the snapshot taken before the last mutation of file and
// clears it
func (s *Store) Undo(file string) error {
	s.mu.Lock()
	data, ok := s.undo[file]
	s.mu.Unlock()
	if !ok {
		return errors.Wrap(ErrNoUndo, file)
	}

	if err := s.write(file, data); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.undo, file)
	s.mu.Unlock()

	debug.Info("store", "undo %s", file)
	return nil
}

// commit snapshots the old bytes and replaces file with clauses
func (s *Store) commit(file string, old []byte, clauses []string) error {
	s.saveUndo(file, old)
	return s.write(file, []byte(joinClauses(clauses)))
}

// UpdateSegmentTrack sets the trk of segment index. An empty name removes
// the trk pair so the segment inherits again.
func (s *Store) UpdateSegmentTrack(file string, index int, name string) error {
	clean := SanitizeName(name)
	if name != "" && clean == "" {
		return errors.Wrapf(ErrInvalidName, "track %q", name)
	}

	data, clauses, err := s.load(file)
	if err != nil {
		return err
	}
	segs := parseSegments(clauses)
	if index < 0 || index >= len(segs) {
		return errors.Wrapf(ErrOutOfRange, "%s: segment %d of %d", file, index, len(segs))
	}

	ci := segs[index].Clause
	clauses[ci] = setClauseValue(clauses[ci], KeyTrk, clean)

	if err := s.commit(file, data, clauses); err != nil {
		return err
	}
	debug.Info("store", "%s: segment %d trk=%q", file, index, clean)
	return nil
}

// MoveTrack moves the first group named source so it sits immediately
// before (or after) the first group named target
func (s *Store) MoveTrack(file, source, target string, after bool) error {
	if source == target {
		return errors.Wrap(ErrSameTrack, source)
	}
	// UNSET has no trk token: it merges into whatever precedes it
	if source == UnsetTrack || (target == UnsetTrack && !after) {
		return errors.Wrapf(ErrInvalidName, "track %q", UnsetTrack)
	}

	data, clauses, err := s.load(file)
	if err != nil {
		return err
	}
	groups := buildGroups(parseSegments(clauses), len(clauses))

	si := findGroup(groups, source)
	if si < 0 {
		return errors.Wrapf(ErrNotFound, "%s: track %q", file, source)
	}
	ti := findGroup(groups, target)
	if ti < 0 {
		return errors.Wrapf(ErrNotFound, "%s: track %q", file, target)
	}

	src, dst := groups[si], groups[ti]
	block := append([]string(nil), clauses[src.Start:src.End]...)

	rest := make([]string, 0, len(clauses)-len(block))
	rest = append(rest, clauses[:src.Start]...)
	rest = append(rest, clauses[src.End:]...)

	pos := dst.Start
	if after {
		pos = dst.End
	}
	if dst.Start >= src.End {
		pos -= len(block)
	}

	moved := make([]string, 0, len(clauses))
	moved = append(moved, rest[:pos]...)
	moved = append(moved, block...)
	moved = append(moved, rest[pos:]...)

	if err := s.commit(file, data, moved); err != nil {
		return err
	}
	where := "before"
	if after {
		where = "after"
	}
	debug.Info("store", "%s: moved %q %s %q", file, source, where, target)
	return nil
}

// DeleteTrack removes every group named track
func (s *Store) DeleteTrack(file, track string) error {
	data, clauses, err := s.load(file)
	if err != nil {
		return err
	}
	groups := buildGroups(parseSegments(clauses), len(clauses))

	drop := make([]bool, len(clauses))
	found := false
	for _, g := range groups {
		if g.Name != track {
			continue
		}
		found = true
		for i := g.Start; i < g.End; i++ {
			drop[i] = true
		}
	}
	if !found {
		return errors.Wrapf(ErrNotFound, "%s: track %q", file, track)
	}

	kept := make([]string, 0, len(clauses))
	for i, c := range clauses {
		if !drop[i] {
			kept = append(kept, c)
		}
	}

	if err := s.commit(file, data, kept); err != nil {
		return err
	}
	debug.Info("store", "%s: deleted track %q (%d clauses)", file, track, len(clauses)-len(kept))
	return nil
}
