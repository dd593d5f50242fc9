// Package api serves a read-only view of the sets directory
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"embliss/debug"
	"embliss/setstore"
)

type versionInfo struct {
	File    string `json:"file"`
	Version int    `json:"version"` // -1 when unversioned
}

type baseInfo struct {
	Base     string        `json:"base"`
	Versions []versionInfo `json:"versions"`
}

type segmentInfo struct {
	Index int    `json:"index"`
	MD    string `json:"md,omitempty"`
	MNM   string `json:"mnm,omitempty"`
	Trk   string `json:"trk,omitempty"`
	Track string `json:"track"` // explicit or inherited
}

type trackInfo struct {
	Name       string `json:"name"`
	Occurrence int    `json:"occurrence"`
	Segments   []int  `json:"segments"`
}

type server struct {
	store *setstore.Store
}

// NewRouter builds the API routes over store
func NewRouter(store *setstore.Store) *gin.Engine {
	s := &server{store: store}

	r := gin.New()
	r.Use(gin.Recovery(), logRequests())

	r.GET("/health", healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/sets", s.listSets)
		v1.GET("/sets/:file/segments", s.segments)
		v1.GET("/sets/:file/tracks", s.tracks)
		v1.GET("/sets/:file/copy-plan", s.copyPlan)
	}
	return r
}

// Serve runs the API on addr until it fails
func Serve(addr string, store *setstore.Store) error {
	gin.SetMode(gin.ReleaseMode)
	debug.Info("api", "listening on %s (sets in %s)", addr, store.Dir())
	return NewRouter(store).Run(addr)
}

func logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		debug.Log("api", "%s %s %d %v", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start))
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "embliss",
	})
}

// listSets returns every base with its versions; ?base= narrows to one
func (s *server) listSets(c *gin.Context) {
	if _, err := s.store.ListFiles(); err != nil {
		fail(c, err)
		return
	}

	bases := s.store.UniqueBaseNames()
	if want := c.Query("base"); want != "" {
		bases = []string{setstore.SanitizeName(want)}
	}

	out := []baseInfo{}
	for _, b := range bases {
		info := baseInfo{Base: b, Versions: []versionInfo{}}
		for _, f := range s.store.VersionsForBase(b) {
			v := -1
			if _, ver, ok := setstore.ParseFilename(f, s.store.Ext()); ok {
				v = ver
			}
			info.Versions = append(info.Versions, versionInfo{File: f, Version: v})
		}
		if len(info.Versions) > 0 {
			out = append(out, info)
		}
	}
	c.JSON(http.StatusOK, gin.H{"dir": s.store.Dir(), "sets": out})
}

func (s *server) segments(c *gin.Context) {
	file, ok := s.file(c)
	if !ok {
		return
	}
	segs, err := s.store.Segments(file)
	if err != nil {
		fail(c, err)
		return
	}
	groups, err := s.store.TrackGroups(file)
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]segmentInfo, 0, len(segs))
	for _, seg := range segs {
		track := setstore.UnsetTrack
		if g := setstore.GroupOf(groups, seg.Index); g != nil {
			track = g.Name
		}
		out = append(out, segmentInfo{Index: seg.Index, MD: seg.MD, MNM: seg.MNM, Trk: seg.Trk, Track: track})
	}
	c.JSON(http.StatusOK, gin.H{"file": file, "segments": out})
}

func (s *server) tracks(c *gin.Context) {
	file, ok := s.file(c)
	if !ok {
		return
	}
	groups, err := s.store.TrackGroups(file)
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]trackInfo, 0, len(groups))
	for _, g := range groups {
		out = append(out, trackInfo{Name: g.Name, Occurrence: g.Occurrence, Segments: g.Segments})
	}
	c.JSON(http.StatusOK, gin.H{"file": file, "tracks": out, "names": setstore.TrackNames(groups)})
}

// copyPlan computes, without writing, the bank remap of copying ?track= into
// ?dest=
func (s *server) copyPlan(c *gin.Context) {
	file, ok := s.file(c)
	if !ok {
		return
	}
	track, dest := c.Query("track"), c.Query("dest")
	if track == "" || dest == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "track and dest are required"})
		return
	}

	plan, err := s.store.PlanCopy(file, track, dest)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"source":   plan.Source,
		"track":    plan.Track,
		"dest":     plan.Dest,
		"clauses":  plan.Clauses,
		"mappings": plan.Mappings,
	})
}

// file validates the :file parameter against the set-file grammar
func (s *server) file(c *gin.Context) (string, bool) {
	file := c.Param("file")
	if _, _, ok := setstore.ParseFilename(file, s.store.Ext()); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a set file: " + file})
		return "", false
	}
	return file, true
}

func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, setstore.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, setstore.ErrSameFile), errors.Is(err, setstore.ErrInvalidName):
		status = http.StatusBadRequest
	case errors.Is(err, setstore.ErrExhausted):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		debug.Error("api", "%s: %v", c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
