package screens

import (
	"fmt"

	"embliss/debug"
	"embliss/midi"
	"embliss/setstore"
)

// SegmentList browses the segments of one set
type SegmentList struct {
	base
	file     string
	idx      int
	segs     []setstore.Segment
	groups   []setstore.TrackGroup
	selected bool
}

// NewSegmentList opens file at segment idx
func NewSegmentList(env *Env, file string, idx int) *SegmentList {
	return &SegmentList{base: base{env: env}, file: file, idx: idx}
}

func (s *SegmentList) Name() string { return "segments" }

func (s *SegmentList) Activate() {
	s.base.Activate()
	if err := s.load(); err != nil {
		env, file := s.env, s.file
		debug.Error("screen", "load %s: %v", file, err)
		env.failure("Load Failed", err, env.goTo(func() Screen { return NewBrowser(env, file) }))
	}
}

func (s *SegmentList) load() error {
	segs, err := s.env.Store.Segments(s.file)
	if err != nil {
		return err
	}
	groups, err := s.env.Store.TrackGroups(s.file)
	if err != nil {
		return err
	}
	s.segs, s.groups = segs, groups
	s.idx = clamp(s.idx, len(segs))
	return nil
}

func (s *SegmentList) Render() (string, string) {
	if len(s.segs) == 0 {
		return s.env.stem(s.file), "No segments"
	}
	seg := s.segs[s.idx]
	line1 := fmt.Sprintf("%d/%d %s/%s", s.idx+1, len(s.segs), bankLabel(seg.MD), bankLabel(seg.MNM))
	if s.selected {
		return line1, "Sel P7:Ed P8:Mg"
	}
	return line1, "trk: " + s.trackLabel()
}

// trackLabel names the current segment's group, numbered when the name
// occurs in more than one group
func (s *SegmentList) trackLabel() string {
	g := setstore.GroupOf(s.groups, s.idx)
	if g == nil {
		return setstore.UnsetTrack
	}
	n := 0
	for _, other := range s.groups {
		if other.Name == g.Name {
			n++
		}
	}
	if n > 1 {
		return fmt.Sprintf("%s #%d", g.Name, g.Occurrence)
	}
	return g.Name
}

func (s *SegmentList) track() string {
	if g := setstore.GroupOf(s.groups, s.idx); g != nil {
		return g.Name
	}
	return setstore.UnsetTrack
}

func bankLabel(tok string) string {
	if tok == "" {
		return "---"
	}
	return tok
}

func (s *SegmentList) HandleInput(ev midi.Event) {
	env := s.env
	if step := ev.Step(); step != 0 {
		if len(s.segs) > 0 {
			s.idx = wrap(s.idx, step, len(s.segs))
			s.markDirty()
		}
		return
	}

	switch {
	case ev.IsPad(6) && len(s.segs) > 0:
		s.selected = !s.selected
		s.markDirty()
	case ev.IsPad(5) && s.selected:
		s.selected = false
		s.markDirty()
	case ev.IsPad(5):
		env.Nav.ChangeScreen(NewBrowser(env, s.file))
	case ev.IsPad(7) && s.selected:
		env.Nav.ChangeScreen(NewEditTrack(env, s.file, s.idx, s.segs[s.idx].Trk))
	case ev.IsPad(8) && s.selected:
		track := s.track()
		if track == setstore.UnsetTrack {
			env.message("No track", "Set trk first", nil)
			return
		}
		env.Nav.ChangeScreen(NewTrackManage(env, s.file, track, s.idx))
	}
}
