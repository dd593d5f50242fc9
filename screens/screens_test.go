package screens

import (
	"testing"

	"embliss/midi"
	"embliss/setstore"

	"github.com/pkg/errors"
)

func TestBrowserEmptyDir(t *testing.T) {
	h := newHarness(t, nil)
	h.env.Start()
	h.expect("No sets found", "Check sets dir")

	h.press(6)
	h.expectScreen("browser")
}

func TestBrowserActiveVersionAndBack(t *testing.T) {
	h := newHarness(t, map[string]string{"ab0.mset": "", "ab1.mset": "", "cd.mset": ""})
	h.env.Start()
	h.expect("1/2: ab", "P6:Open SP6:New")

	h.press(6)
	h.expect("1/2 ab0", "P1:OK P2:Segs")
	h.turn(-1)
	h.expect("2/2 ab1", "P1:OK P2:Segs")

	h.press(1)
	h.expect("Selected!", "ab1")
	h.settle()
	h.expect("2/2 ab1*", "Active P2:Segs")

	// first back clears the active mark, the second leaves the version list
	h.press(5)
	h.expect("2/2 ab1", "P1:OK P2:Segs")
	h.press(5)
	h.expect("1/2: ab", "P6:Open SP6:New")
}

func TestBrowserDeleteConfirm(t *testing.T) {
	h := newHarness(t, map[string]string{"ab0.mset": "x;\n", "ab1.mset": ""})
	h.env.Start()
	h.press(6)

	h.shiftPress(5)
	h.expect("1/2 ab0", "Del? P5=N P6=Y")

	// unanswered confirm lapses
	h.clock.advance(h.cfg.UI.ConfirmTimeout)
	h.env.Nav.Tick()
	h.expect("1/2 ab0", "P1:OK P2:Segs")

	h.shiftPress(5)
	h.press(5)
	h.expect("1/2 ab0", "P1:OK P2:Segs")
	if !h.env.Store.Exists("ab0.mset") {
		t.Fatal("declined delete removed the file")
	}

	h.shiftPress(5)
	h.press(6)
	h.expect("Deleted", "ab0")
	h.settle()
	h.expect("1/1 ab1", "P1:OK P2:Segs")
	if h.env.Store.Exists("ab0.mset") {
		t.Fatal("file still exists")
	}

	if err := h.env.Store.Undo("ab0.mset"); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if got := h.read("ab0.mset"); got != "x;\n" {
		t.Errorf("restored = %q", got)
	}
}

func TestBrowserIterate(t *testing.T) {
	h := newHarness(t, map[string]string{"ab0.mset": "md A01;\n", "ab1.mset": ""})
	h.env.Start()
	h.press(6)

	h.shiftPress(8)
	h.expect("Iterated", "ab2")
	h.settle()
	h.expect("3/3 ab2", "P1:OK P2:Segs")
	if got := h.read("ab2.mset"); got != "md A01;\n" {
		t.Errorf("ab2 = %q, want copy of ab0", got)
	}
}

func TestCreateScreen(t *testing.T) {
	h := newHarness(t, map[string]string{"ab1.mset": ""})
	h.env.Start()

	h.shiftPress(6)
	h.expectScreen("create")
	h.expect("New: aaaa00", "Input: S1-4, K8")

	// "ab" version 1 collides
	h.send(midi.CC(midi.Slider1, 5), midi.CC(midi.Slider2, 10),
		midi.CC(midi.Slider3, 0), midi.CC(midi.Slider4, 0), midi.CC(midi.Knob8, 2))
	h.expect("New: ab__01", "Input: S1-4, K8")
	h.press(6)
	h.expect("Create Failed", "Name exists")
	h.settle()
	h.expectScreen("create")

	h.send(midi.CC(midi.Slider1, 127), midi.CC(midi.Slider2, 0), midi.CC(midi.Knob8, 127))
	h.press(6)
	h.expect("Created", "z63")
	h.settle()
	h.expectScreen("browser")
	h.expect("1/1 z63", "P1:OK P2:Segs")
	if got := h.read("z63.mset"); got != h.env.Store.Template {
		t.Errorf("new set = %q, want template", got)
	}
}

func TestCreateScreenRejectsBlankName(t *testing.T) {
	h := newHarness(t, nil)
	h.env.Start()
	h.shiftPress(6)

	h.send(midi.CC(midi.Slider1, 0), midi.CC(midi.Slider2, 0), midi.CC(midi.Slider3, 0), midi.CC(midi.Slider4, 0))
	h.press(6)
	h.expect("Create Failed", "Name Empty")

	h.settle()
	h.press(5)
	h.expectScreen("browser")
}

func TestRenameScreen(t *testing.T) {
	h := newHarness(t, map[string]string{"ab0.mset": "md A01;\n", "ab1.mset": ""})
	h.env.Start()
	h.press(6)

	h.shiftPress(7)
	h.expect("Ren: ab__00", "K8:V P7:Sv P5:X")

	h.press(7)
	h.expect("No change.", "ab0")
	h.settle()
	h.expectScreen("browser")

	h.shiftPress(7)
	h.send(midi.CC(midi.Knob8, 2))
	h.press(7)
	h.expect("Rename Failed", "Name exists")
	h.settle()

	h.send(midi.CC(midi.Knob8, 127))
	h.press(7)
	h.expect("Renamed", "ab63")
	h.settle()
	h.expect("2/2 ab63", "P1:OK P2:Segs")
	if h.env.Store.Exists("ab0.mset") {
		t.Error("old file still exists")
	}
	if got := h.read("ab63.mset"); got != "md A01;\n" {
		t.Errorf("renamed content = %q", got)
	}
}

func TestSegmentListLabels(t *testing.T) {
	h := newHarness(t, map[string]string{
		"ab0.mset": "md A01 trk kick;\nmnm B02;\nmd A03 trk hat;\nmd A04 trk kick;\n",
	})
	h.env.Nav.ChangeScreen(NewSegmentList(h.env, "ab0.mset", 0))
	h.expect("1/4 A01/---", "trk: kick #1")

	h.turn(1)
	h.expect("2/4 ---/B02", "trk: kick #1")
	h.turn(2)
	h.expect("4/4 A04/---", "trk: kick #2")
	h.turn(1)
	h.expect("1/4 A01/---", "trk: kick #1")

	h.press(5)
	h.expectScreen("browser")
	h.expect("1/1 ab0", "P1:OK P2:Segs")
}

func TestSegmentListLoadFailure(t *testing.T) {
	h := newHarness(t, map[string]string{"ab0.mset": ""})
	h.env.Nav.ChangeScreen(NewSegmentList(h.env, "zz0.mset", 0))
	h.expect("Load Failed", "Not found")
	h.settle()
	h.expectScreen("browser")
}

func TestEditTrack(t *testing.T) {
	h := newHarness(t, map[string]string{"ab0.mset": "md A01 trk kick;\nmd A02;\n"})
	h.env.Nav.ChangeScreen(NewSegmentList(h.env, "ab0.mset", 0))

	h.turn(1)
	h.expect("2/2 A02/---", "trk: kick")
	h.press(6)
	h.expect("2/2 A02/---", "Sel P7:Ed P8:Mg")

	// inherited names are not seeded
	h.press(7)
	h.expect("Edit Trk: ____", "P4:Uns P7:Save")
	h.press(7)
	h.expect("Save Failed", "Name Empty")
	h.settle()

	h.send(midi.CC(midi.Slider1, 127))
	h.press(7)
	h.expect("Track Saved", "z")
	h.settle()
	h.expectScreen("segments")
	h.expect("2/2 A02/---", "trk: z")
	if got := h.read("ab0.mset"); got != "md A01 trk kick;\nmd A02 trk z;\n" {
		t.Fatalf("after save = %q", got)
	}

	h.press(6)
	h.press(7)
	h.expect("Edit Trk: z___", "P4:Uns P7:Save")
	h.press(4)
	h.settle()
	h.expect("2/2 A02/---", "trk: kick")
	if got := h.read("ab0.mset"); got != "md A01 trk kick;\nmd A02;\n" {
		t.Fatalf("after unset = %q", got)
	}
}

func TestSegmentListUnsetTrackCannotBeManaged(t *testing.T) {
	h := newHarness(t, map[string]string{"ab0.mset": "md A01;\n"})
	h.env.Nav.ChangeScreen(NewSegmentList(h.env, "ab0.mset", 0))
	h.expect("1/1 A01/---", "trk: UNSET")

	h.press(6)
	h.press(8)
	h.expect("No track", "Set trk first")
	h.settle()
	h.expectScreen("segments")
}

func TestTrackManageMoveAndUndo(t *testing.T) {
	const orig = "md A01 trk aa;\nmd A02 trk bb;\nmd A03 trk cc;\n"
	h := newHarness(t, map[string]string{"ab0.mset": orig})
	h.env.Nav.ChangeScreen(NewSegmentList(h.env, "ab0.mset", 0))
	h.press(6)
	h.press(8)
	h.expectScreen("trackmanage")
	h.expect("aa", "P1 bb P2")

	h.turn(1)
	h.expect("aa", "P1 cc P2")
	h.press(2)
	h.expect("Track Moved", "Success!")
	if got, want := h.read("ab0.mset"), "md A02 trk bb;\nmd A03 trk cc;\nmd A01 trk aa;\n"; got != want {
		t.Fatalf("after move = %q, want %q", got, want)
	}
	h.settle()
	h.expectScreen("segments")
	h.expect("1/3 A02/---", "trk: bb")

	h.env.Nav.ChangeScreen(NewTrackManage(h.env, "ab0.mset", "aa", 2))
	h.shiftPress(7)
	h.expect("Undo Successful", "")
	if got := h.read("ab0.mset"); got != orig {
		t.Fatalf("after undo = %q, want %q", got, orig)
	}

	h.settle()
	h.shiftPress(7)
	h.expect("Undo Failed", "No undo data")
}

func TestTrackManageDelete(t *testing.T) {
	h := newHarness(t, map[string]string{"ab0.mset": "md A01 trk aa;\nmd A02 trk bb;\n"})
	h.env.Nav.ChangeScreen(NewTrackManage(h.env, "ab0.mset", "aa", 0))

	h.shiftPress(5)
	h.expect("aa", "Del? P5=N P6=Y")
	h.press(5)
	h.expect("aa", "P1 bb P2")

	h.shiftPress(5)
	h.press(6)
	h.expect("Track Deleted", "aa")
	if got := h.read("ab0.mset"); got != "md A02 trk bb;\n" {
		t.Fatalf("after delete = %q", got)
	}
	h.settle()
	h.expectScreen("segments")
}

func TestTrackManageCopyReturnsHere(t *testing.T) {
	h := newHarness(t, map[string]string{
		"ab0.mset": "md A01 trk aa;\nmd A02 trk bb;\n",
		"cd0.mset": "md A01;\n",
	})
	h.env.Nav.ChangeScreen(NewTrackManage(h.env, "ab0.mset", "aa", 1))

	h.shiftPress(4)
	h.expectScreen("copytrack")
	h.press(5)
	h.press(5)
	h.expectScreen("trackmanage")
	h.expect("aa", "P1 bb P2")

	// completed copy also lands back on track manage
	h.shiftPress(4)
	h.press(5)
	h.turn(1)
	h.press(6)
	h.expect("Copy 'aa'", "To: cd0 P6:Y")
	h.press(6)
	h.expectScreen("preview")
	h.press(6)
	h.expect("Copy Complete!", "cd0")
	h.settle()
	h.expectScreen("trackmanage")
	h.press(5)
	h.expectScreen("segments")
	h.expect("2/2 A02/---", "trk: bb")
}

func TestTrackManageNoTargets(t *testing.T) {
	h := newHarness(t, map[string]string{"ab0.mset": "md A01;\nmd A02 trk aa;\n"})
	h.env.Nav.ChangeScreen(NewTrackManage(h.env, "ab0.mset", "aa", 1))
	h.expect("aa", "No other tracks")

	h.press(1)
	h.expect("No target", "")
	h.settle()
	h.press(5)
	h.expectScreen("segments")
	h.expect("2/2 A02/---", "trk: aa")
}

func TestCopyTrackWithScanAndPreview(t *testing.T) {
	h := newHarness(t, map[string]string{
		"src0.mset": "md A01 mnm A01 trk kick;\n",
		"dst0.mset": "md A01 mnm A01;\n",
	})
	scanner := &fakeScanner{}
	scanner.kits[1] = 7
	h.env.Scanner = scanner

	returnTo := func() Screen { return NewSegmentList(h.env, "src0.mset", 0) }
	h.env.Nav.ChangeScreen(NewCopyTrack(h.env, "src0.mset", "kick", returnTo))
	h.expect("Copy 'kick'", "To: src0 P6:Y")

	h.press(5)
	h.expect("Copy 'kick'", "To: src.. P6:Y")
	h.turn(1)
	h.expect("Copy 'kick'", "To: dst.. P6:Y")
	h.press(6)
	h.expect("Copy 'kick'", "To: dst0 P6:Y")

	h.press(6)
	h.expect("Conn MMIO>emb", "P5:C P6:Cont")
	h.press(6)
	h.expect("Load Dest on MnM", "P5:C P6:Scan")
	h.press(6)
	if scanner.calls != 1 {
		t.Fatalf("scanner called %d times", scanner.calls)
	}
	h.expect("Conn MMIO>c6", "P5:C P6:Cont")

	h.press(6)
	h.expectScreen("preview")
	h.expect("transfer md 1/1:", "A01->A02")
	h.turn(1)
	h.expect("transfer mnm 1/1", "A01->A02 k7")

	if got := h.read("dst0.mset"); got != "md A01 mnm A01;\n" {
		t.Fatalf("destination written before commit: %q", got)
	}
	h.press(6)
	h.expect("Copy Complete!", "dst0")
	if got, want := h.read("dst0.mset"), "md A01 mnm A01;\nmd A02 mnm A02 trk kick;\n"; got != want {
		t.Fatalf("dest = %q, want %q", got, want)
	}
	h.settle()
	h.expectScreen("segments")
}

func TestCopyTrackScanFailureAndCancel(t *testing.T) {
	h := newHarness(t, map[string]string{
		"src0.mset": "mnm A01 trk kick;\n",
		"dst0.mset": "mnm A01;\n",
	})
	scanner := &fakeScanner{err: midi.ErrScanTimeout}
	h.env.Scanner = scanner

	returnTo := func() Screen { return NewSegmentList(h.env, "src0.mset", 0) }
	h.env.Nav.ChangeScreen(NewCopyTrack(h.env, "src0.mset", "kick", returnTo))
	h.press(5)
	h.turn(1)
	h.press(6)
	h.press(6)
	h.press(6)
	h.press(6)
	h.expect("Scan Failed.", "P5:C P6:Retry")
	h.press(6)
	if scanner.calls != 2 {
		t.Errorf("scanner called %d times, want retry", scanner.calls)
	}

	h.press(5)
	h.expectScreen("segments")
	if got := h.read("dst0.mset"); got != "mnm A01;\n" {
		t.Errorf("cancelled copy wrote destination: %q", got)
	}
}

func TestCopyTrackWithoutBanks(t *testing.T) {
	h := newHarness(t, map[string]string{
		"src0.mset": "md --- trk kick;\n",
		"dst0.mset": "",
	})
	returnTo := func() Screen { return NewTrackManage(h.env, "src0.mset", "kick", 0) }
	h.env.Nav.ChangeScreen(NewCopyTrack(h.env, "src0.mset", "kick", returnTo))
	h.press(5)
	h.turn(1)
	h.press(6)
	h.press(6)
	h.expect("Track Copied", "No banks mapped")
	if got := h.read("dst0.mset"); got != "md --- trk kick;\n" {
		t.Errorf("dest = %q", got)
	}
	h.settle()
	h.expectScreen("trackmanage")
}

func TestPreviewCancelWritesNothing(t *testing.T) {
	h := newHarness(t, map[string]string{
		"src0.mset": "md B01 trk kick;\nmd B02;\n",
		"dst0.mset": "md A01;\n",
	})
	plan, err := h.env.Store.PlanCopy("src0.mset", "kick", "dst0.mset")
	if err != nil {
		t.Fatal(err)
	}
	h.env.Nav.ChangeScreen(NewPreview(h.env, plan, nil, func() Screen { return NewBrowser(h.env, "") }))
	h.expect("transfer md 1/2:", "B01->A02")
	h.turn(1)
	h.expect("transfer md 2/2:", "B02->A03")
	h.turn(1)
	h.expect("transfer md 1/2:", "B01->A02")

	h.press(5)
	h.expectScreen("browser")
	if got := h.read("dst0.mset"); got != "md A01;\n" {
		t.Errorf("dest = %q", got)
	}
}

func TestValueQuantization(t *testing.T) {
	chars := []struct {
		v    uint8
		want rune
	}{
		{0, ' '}, {4, ' '}, {5, 'a'}, {10, 'b'}, {64, 'm'}, {127, 'z'},
	}
	for _, tt := range chars {
		if got := ValueToChar(tt.v); got != tt.want {
			t.Errorf("ValueToChar(%d) = %q, want %q", tt.v, got, tt.want)
		}
	}

	versions := []struct {
		v    uint8
		max  int
		want int
	}{
		{0, 63, 0}, {2, 63, 1}, {64, 63, 32}, {127, 63, 63}, {127, 0, 0}, {127, 9, 9},
	}
	for _, tt := range versions {
		if got := ValueToVersion(tt.v, tt.max); got != tt.want {
			t.Errorf("ValueToVersion(%d, %d) = %d, want %d", tt.v, tt.max, got, tt.want)
		}
	}
}

func TestShortError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.Wrap(setstore.ErrNotFound, "x"), "Not found"},
		{errors.Wrap(setstore.ErrExists, "x"), "Name exists"},
		{errors.Wrap(setstore.ErrExhausted, "x"), "No free slot"},
		{setstore.ErrChanged, "Set changed"},
		{midi.ErrScanTimeout, "No response"},
		{errors.New("disk full"), "Save Error"},
	}
	for _, tt := range tests {
		if got := ShortError(tt.err); got != tt.want {
			t.Errorf("ShortError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
