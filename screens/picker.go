package screens

import (
	"embliss/debug"
	"embliss/setstore"
)

type browseLevel int

const (
	levelBases browseLevel = iota
	levelVersions
)

// setPicker browses base names, then the versions of one base. Used by the
// set browser and the copy destination picker.
type setPicker struct {
	store *setstore.Store

	level    browseLevel
	bases    []string
	baseIdx  int
	versions []string
	verIdx   int
}

// reload rescans the directory and clamps both indices
func (p *setPicker) reload() {
	if _, err := p.store.ListFiles(); err != nil {
		debug.Error("screen", "list sets: %v", err)
	}
	p.bases = p.store.UniqueBaseNames()
	p.baseIdx = clamp(p.baseIdx, len(p.bases))

	if p.level == levelVersions {
		p.loadVersions()
		if len(p.versions) == 0 {
			p.level = levelBases
		}
	}
}

func (p *setPicker) loadVersions() {
	p.versions = nil
	if b := p.base(); b != "" {
		p.versions = p.store.VersionsForBase(b)
	}
	p.verIdx = clamp(p.verIdx, len(p.versions))
}

// target selects file, opening its base's version list
func (p *setPicker) target(file string) {
	base, _, ok := setstore.ParseFilename(file, p.store.Ext())
	if !ok {
		return
	}
	for i, b := range p.bases {
		if b != base {
			continue
		}
		p.baseIdx = i
		p.level = levelVersions
		p.loadVersions()
		for j, v := range p.versions {
			if v == file {
				p.verIdx = j
			}
		}
		return
	}
}

func (p *setPicker) scroll(step int) bool {
	switch p.level {
	case levelBases:
		if len(p.bases) == 0 {
			return false
		}
		p.baseIdx = wrap(p.baseIdx, step, len(p.bases))
	case levelVersions:
		if len(p.versions) == 0 {
			return false
		}
		p.verIdx = wrap(p.verIdx, step, len(p.versions))
	}
	return true
}

// open moves from the base list into the selected base's versions
func (p *setPicker) open() bool {
	if p.level != levelBases || p.base() == "" {
		return false
	}
	p.verIdx = 0
	p.level = levelVersions
	p.loadVersions()
	if len(p.versions) == 0 {
		p.level = levelBases
		return false
	}
	return true
}

// back returns to the base list; false if already there
func (p *setPicker) back() bool {
	if p.level == levelBases {
		return false
	}
	p.level = levelBases
	return true
}

func (p *setPicker) base() string {
	if p.baseIdx < 0 || p.baseIdx >= len(p.bases) {
		return ""
	}
	return p.bases[p.baseIdx]
}

func (p *setPicker) file() string {
	if p.level != levelVersions || p.verIdx < 0 || p.verIdx >= len(p.versions) {
		return ""
	}
	return p.versions[p.verIdx]
}

// clamp keeps idx inside [0, n), -1 when empty
func clamp(idx, n int) int {
	switch {
	case n == 0:
		return -1
	case idx < 0:
		return 0
	case idx >= n:
		return n - 1
	}
	return idx
}
