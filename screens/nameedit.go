package screens

import (
	"fmt"
	"strings"

	"embliss/debug"
	"embliss/midi"
	"embliss/setstore"

	"github.com/pkg/errors"
)

// Alphabet is the character set of the name editor. Blank is stripped on save.
const Alphabet = " abcdefghijklmnopqrstuvwxyz"

// ValueToChar quantizes a 0-127 control value onto Alphabet
func ValueToChar(v uint8) rune {
	n := len(Alphabet)
	idx := int(v) * n / 128
	if idx >= n {
		idx = n - 1
	}
	return rune(Alphabet[idx])
}

// ValueToVersion quantizes a 0-127 control value onto 0..maxVersion
func ValueToVersion(v uint8, maxVersion int) int {
	if maxVersion <= 0 {
		return 0
	}
	ver := int(v) * (maxVersion + 1) / 128
	if ver > maxVersion {
		ver = maxVersion
	}
	return ver
}

// nameEditor holds four character slots and an optional version
type nameEditor struct {
	chars      [setstore.MaxBaseLen]rune
	version    int
	useVersion bool
	maxVersion int
}

func newNameEditor(name string, version, maxVersion int) nameEditor {
	e := nameEditor{version: version, useVersion: version >= 0, maxVersion: maxVersion}
	if e.version < 0 {
		e.version = 0
	}
	for i := range e.chars {
		e.chars[i] = ' '
	}
	for i, r := range []rune(setstore.SanitizeName(name)) {
		e.chars[i] = r
	}
	return e
}

// apply updates a slot from slider 1-4 or knob 8; false if ev is unrelated
func (e *nameEditor) apply(ev midi.Event, versioned bool) bool {
	if ev.Kind != midi.Continuous {
		return false
	}
	switch {
	case ev.Control >= midi.Slider1 && ev.Control <= midi.Slider4:
		e.chars[ev.Control-midi.Slider1] = ValueToChar(ev.Value)
		return true
	case ev.Control == midi.Knob8 && versioned:
		e.version = ValueToVersion(ev.Value, e.maxVersion)
		e.useVersion = true
		return true
	}
	return false
}

// name is the sanitized base name, "" when all slots are blank
func (e *nameEditor) name() string {
	return setstore.SanitizeName(string(e.chars[:]))
}

// display shows the slots with blanks as '_'
func (e *nameEditor) display() string {
	s := strings.ReplaceAll(string(e.chars[:]), " ", "_")
	if e.useVersion {
		s += fmt.Sprintf("%02d", e.version)
	}
	return s
}

func (e *nameEditor) filename(ext string) string {
	v := -1
	if e.useVersion {
		v = e.version
	}
	return setstore.FormatFilename(e.name(), v, ext)
}

// editVariant is what differs between create, rename and track edit
type editVariant interface {
	name() string
	lines(ed *nameEditor) (string, string)
	versioned() bool
	handle(s *nameEditScreen, ev midi.Event)
}

// nameEditScreen is the shared editor screen
type nameEditScreen struct {
	base
	editor  nameEditor
	variant editVariant
}

func (s *nameEditScreen) Name() string { return s.variant.name() }

func (s *nameEditScreen) Render() (string, string) {
	return s.variant.lines(&s.editor)
}

func (s *nameEditScreen) HandleInput(ev midi.Event) {
	if s.editor.apply(ev, s.variant.versioned()) {
		s.markDirty()
		return
	}
	s.variant.handle(s, ev)
}

// NewCreate opens the editor for a new set
func NewCreate(env *Env) Screen {
	return &nameEditScreen{
		base:    base{env: env},
		editor:  newNameEditor("aaaa", 0, env.Store.MaxVersion()),
		variant: createVariant{},
	}
}

type createVariant struct{}

func (createVariant) name() string    { return "create" }
func (createVariant) versioned() bool { return true }

func (createVariant) lines(ed *nameEditor) (string, string) {
	return "New: " + ed.display(), "Input: S1-4, K8"
}

func (createVariant) handle(s *nameEditScreen, ev midi.Event) {
	env := s.env
	switch {
	case ev.IsPad(5):
		env.Nav.ChangeScreen(NewBrowser(env, ""))
	case ev.IsPad(6):
		if s.editor.name() == "" {
			env.failure("Create Failed", setstore.ErrInvalidName, nil)
			return
		}
		file := s.editor.filename(env.Store.Ext())
		if err := env.Store.Create(file); err != nil {
			debug.Error("screen", "create %s: %v", file, err)
			env.failure("Create Failed", err, nil)
			return
		}
		env.message("Created", env.stem(file), env.goTo(func() Screen { return NewBrowser(env, file) }))
	}
}

// NewRename opens the editor seeded with file's name
func NewRename(env *Env, file string) Screen {
	name, version, _ := setstore.ParseFilename(file, env.Store.Ext())
	return &nameEditScreen{
		base:    base{env: env},
		editor:  newNameEditor(name, version, env.Store.MaxVersion()),
		variant: renameVariant{file: file},
	}
}

type renameVariant struct {
	file string
}

func (renameVariant) name() string    { return "rename" }
func (renameVariant) versioned() bool { return true }

func (renameVariant) lines(ed *nameEditor) (string, string) {
	return "Ren: " + ed.display(), "K8:V P7:Sv P5:X"
}

func (v renameVariant) handle(s *nameEditScreen, ev midi.Event) {
	env := s.env
	switch {
	case ev.IsPad(5):
		env.Nav.ChangeScreen(NewBrowser(env, v.file))
	case ev.IsPad(7):
		if s.editor.name() == "" {
			env.failure("Rename Failed", setstore.ErrInvalidName, nil)
			return
		}
		file := s.editor.filename(env.Store.Ext())
		if file == v.file {
			env.message("No change.", env.stem(file), env.goTo(func() Screen { return NewBrowser(env, file) }))
			return
		}
		if err := env.Store.Rename(v.file, file); err != nil {
			debug.Error("screen", "rename %s: %v", v.file, err)
			env.failure("Rename Failed", err, nil)
			return
		}
		env.message("Renamed", env.stem(file), env.goTo(func() Screen { return NewBrowser(env, file) }))
	}
}

// NewEditTrack opens the editor on the explicit track name of segment idx
func NewEditTrack(env *Env, file string, idx int, track string) Screen {
	return &nameEditScreen{
		base:    base{env: env},
		editor:  newNameEditor(track, -1, 0),
		variant: trackVariant{file: file, idx: idx},
	}
}

type trackVariant struct {
	file string
	idx  int
}

func (trackVariant) name() string    { return "edittrack" }
func (trackVariant) versioned() bool { return false }

func (trackVariant) lines(ed *nameEditor) (string, string) {
	return "Edit Trk: " + ed.display(), "P4:Uns P7:Save"
}

func (v trackVariant) handle(s *nameEditScreen, ev midi.Event) {
	env := s.env
	back := env.goTo(func() Screen { return NewSegmentList(env, v.file, v.idx) })
	switch {
	case ev.IsPad(5):
		back()
	case ev.IsPad(4):
		v.save(s, "", "Track Unset", back)
	case ev.IsPad(7):
		name := s.editor.name()
		if name == "" {
			env.failure("Save Failed", errors.Wrap(setstore.ErrInvalidName, "empty track"), nil)
			return
		}
		v.save(s, name, "Track Saved", back)
	}
}

func (v trackVariant) save(s *nameEditScreen, name, done string, back func()) {
	env := s.env
	if err := env.Store.UpdateSegmentTrack(v.file, v.idx, name); err != nil {
		debug.Error("screen", "edit track %s[%d]: %v", v.file, v.idx, err)
		env.failure("Save Failed", err, nil)
		return
	}
	env.message(done, name, back)
}
