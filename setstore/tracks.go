package setstore

// UnsetTrack names the group of segments before the first explicit trk
const UnsetTrack = "UNSET"

// TrackGroup is a maximal run of segments sharing an explicit or inherited
// track name
type TrackGroup struct {
	Name       string
	Occurrence int   // 1-based count of this name in file order
	Segments   []int // segment indices

	// clause span [Start, End) owned by the group, including unrecognized
	// clauses that follow its segments
	Start, End int
}

// buildGroups scans segments in order. A new group starts when a segment
// declares a trk different from the current group's name. Clauses before the
// first segment belong to the first group.
func buildGroups(segs []Segment, numClauses int) []TrackGroup {
	var groups []TrackGroup
	counts := make(map[string]int)

	for _, s := range segs {
		switch {
		case len(groups) == 0:
			name := UnsetTrack
			if s.HasTrk() {
				name = s.Trk
			}
			counts[name]++
			groups = append(groups, TrackGroup{Name: name, Occurrence: counts[name], Start: 0})
		case s.HasTrk() && s.Trk != groups[len(groups)-1].Name:
			groups[len(groups)-1].End = s.Clause
			counts[s.Trk]++
			groups = append(groups, TrackGroup{Name: s.Trk, Occurrence: counts[s.Trk], Start: s.Clause})
		}
		g := &groups[len(groups)-1]
		g.Segments = append(g.Segments, s.Index)
	}
	if len(groups) > 0 {
		groups[len(groups)-1].End = numClauses
	}
	return groups
}

// findGroup returns the index of the first group named name, or -1
func findGroup(groups []TrackGroup, name string) int {
	for i, g := range groups {
		if g.Name == name {
			return i
		}
	}
	return -1
}

// GroupOf returns the group containing segment index seg, or nil
func GroupOf(groups []TrackGroup, seg int) *TrackGroup {
	for i := range groups {
		for _, s := range groups[i].Segments {
			if s == seg {
				return &groups[i]
			}
		}
	}
	return nil
}

// TrackNames lists distinct group names in file order
func TrackNames(groups []TrackGroup) []string {
	seen := make(map[string]bool)
	var names []string
	for _, g := range groups {
		if !seen[g.Name] {
			seen[g.Name] = true
			names = append(names, g.Name)
		}
	}
	return names
}
