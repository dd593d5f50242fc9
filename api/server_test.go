package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"embliss/setstore"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	files := map[string]string{
		"ab0.mset": "md A01 trk kick;\nmnm B02;\nmd A03 trk hat;\n",
		"ab1.mset": "",
		"cd.mset":  "md A01;\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return NewRouter(setstore.New(dir, ".mset", 63))
}

func get(t *testing.T, r *gin.Engine, path string, out any) int {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s: decode %q: %v", path, w.Body.String(), err)
		}
	}
	return w.Code
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	var body map[string]string
	if code := get(t, r, "/health", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "healthy" {
		t.Errorf("body = %v", body)
	}
}

func TestListSets(t *testing.T) {
	r := newTestRouter(t)

	var body struct {
		Sets []baseInfo `json:"sets"`
	}
	if code := get(t, r, "/api/v1/sets", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(body.Sets) != 2 {
		t.Fatalf("sets = %+v", body.Sets)
	}
	ab := body.Sets[0]
	if ab.Base != "ab" || len(ab.Versions) != 2 || ab.Versions[1].Version != 1 {
		t.Errorf("ab = %+v", ab)
	}
	if cd := body.Sets[1]; cd.Versions[0].Version != -1 {
		t.Errorf("cd = %+v", cd)
	}

	body.Sets = nil
	get(t, r, "/api/v1/sets?base=CD", &body)
	if len(body.Sets) != 1 || body.Sets[0].Base != "cd" {
		t.Errorf("filtered = %+v", body.Sets)
	}
}

func TestSegmentsAndTracks(t *testing.T) {
	r := newTestRouter(t)

	var segs struct {
		Segments []segmentInfo `json:"segments"`
	}
	if code := get(t, r, "/api/v1/sets/ab0.mset/segments", &segs); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(segs.Segments) != 3 {
		t.Fatalf("segments = %+v", segs.Segments)
	}
	if s := segs.Segments[1]; s.MNM != "B02" || s.Trk != "" || s.Track != "kick" {
		t.Errorf("segment 1 = %+v", s)
	}

	var tracks struct {
		Tracks []trackInfo `json:"tracks"`
		Names  []string    `json:"names"`
	}
	get(t, r, "/api/v1/sets/ab0.mset/tracks", &tracks)
	if len(tracks.Names) != 2 || tracks.Names[0] != "kick" || tracks.Names[1] != "hat" {
		t.Errorf("names = %v", tracks.Names)
	}
	if len(tracks.Tracks) != 2 || len(tracks.Tracks[0].Segments) != 2 {
		t.Errorf("tracks = %+v", tracks.Tracks)
	}
}

func TestCopyPlanDoesNotWrite(t *testing.T) {
	r := newTestRouter(t)

	var plan struct {
		Mappings []setstore.BankMapping `json:"mappings"`
	}
	code := get(t, r, "/api/v1/sets/ab0.mset/copy-plan?track=kick&dest=cd.mset", &plan)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	// kick spans md A01 and the inheriting mnm B02 segment
	if len(plan.Mappings) != 2 || plan.Mappings[0].Dest != "A02" || plan.Mappings[1].Dest != "A01" {
		t.Errorf("mappings = %+v", plan.Mappings)
	}

	var segs struct {
		Segments []segmentInfo `json:"segments"`
	}
	get(t, r, "/api/v1/sets/cd.mset/segments", &segs)
	if len(segs.Segments) != 1 {
		t.Errorf("destination changed: %+v", segs.Segments)
	}
}

func TestErrors(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/sets/zz9.mset/segments", http.StatusNotFound},
		{"/api/v1/sets/not-a-set.txt/tracks", http.StatusBadRequest},
		{"/api/v1/sets/ab0.mset/copy-plan?track=kick", http.StatusBadRequest},
		{"/api/v1/sets/ab0.mset/copy-plan?track=kick&dest=ab0.mset", http.StatusBadRequest},
		{"/api/v1/sets/ab0.mset/copy-plan?track=nope&dest=cd.mset", http.StatusNotFound},
		{"/api/v1/sets/ab0.mset/copy-plan?track=UNSET&dest=cd.mset", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var body map[string]string
			if code := get(t, r, tt.path, &body); code != tt.want {
				t.Errorf("status = %d, want %d (%v)", code, tt.want, body)
			}
			if body["error"] == "" {
				t.Error("no error message")
			}
		})
	}
}
