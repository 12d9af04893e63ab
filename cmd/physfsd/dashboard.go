package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"runtime/debug"
	"slices"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"github.com/go-physfs/physfs"
	"github.com/go-physfs/physfs/internal/diag"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

var startTime = time.Now()

type dashboard struct {
	version string
}

func newDashboard(version string) *dashboard {
	return &dashboard{version: version}
}

func (d *dashboard) mux() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", d.indexHandler)
	r.HandleFunc("/metrics.json", d.metricsHandler)
	r.HandleFunc("/gc", d.gcHandler)
	r.HandleFunc("/reset", d.resetHandler)

	return r
}

type dashboardData struct {
	Version       string
	Uptime        string
	SearchPath    []string
	OpenArchives  int64
	TotalOpened   int64
	TotalClosed   int64
	CacheHits     int64
	CacheMisses   int64
	CacheHitRatio string
	AvgMetadata   string
	AvgExtract    string
	ExtractSpeed  string
	ExtractBytes  string
	AllocBytes    string
	SysBytes      string
	NumGC         uint32
	Logs          []string
}

func (d *dashboard) collect() dashboardData {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	hits := diag.Metrics.CacheHits.Load()
	misses := diag.Metrics.CacheMisses.Load()

	lines := diag.Buffer.Lines()
	slices.Reverse(lines)

	return dashboardData{
		Version:       d.version,
		Uptime:        humanize.Time(startTime),
		SearchPath:    physfs.GetSearchPath(),
		OpenArchives:  diag.Metrics.OpenArchives.Load(),
		TotalOpened:   diag.Metrics.TotalOpened.Load(),
		TotalClosed:   diag.Metrics.TotalClosed.Load(),
		CacheHits:     hits,
		CacheMisses:   misses,
		CacheHitRatio: cacheHitRatio(hits, misses),
		AvgMetadata:   avgDuration(diag.Metrics.MetadataReadTime.Load(), diag.Metrics.MetadataReadCount.Load()),
		AvgExtract:    avgDuration(diag.Metrics.ExtractTime.Load(), diag.Metrics.ExtractCount.Load()),
		ExtractSpeed:  extractSpeed(),
		ExtractBytes:  humanize.IBytes(uint64(max(0, diag.Metrics.ExtractBytes.Load()))),
		AllocBytes:    humanize.IBytes(m.Alloc),
		SysBytes:      humanize.IBytes(m.Sys),
		NumGC:         m.NumGC,
		Logs:          lines,
	}
}

func (d *dashboard) indexHandler(w http.ResponseWriter, _ *http.Request) {
	if err := indexTemplate.Execute(w, d.collect()); err != nil {
		diag.Printf("HTTP template execution error: %v\n", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (d *dashboard) metricsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(d.collect()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (d *dashboard) gcHandler(w http.ResponseWriter, _ *http.Request) {
	runtime.GC()
	debug.FreeOSMemory()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	diag.Printf("GC forced via API, current heap: %s.\n", humanize.IBytes(m.Alloc))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "GC forced, current heap: %s.\n", humanize.IBytes(m.Alloc))
}

func (d *dashboard) resetHandler(w http.ResponseWriter, _ *http.Request) {
	diag.Metrics.TotalOpened.Store(0)
	diag.Metrics.TotalClosed.Store(0)
	diag.Metrics.CacheHits.Store(0)
	diag.Metrics.CacheMisses.Store(0)
	diag.Metrics.MetadataReadTime.Store(0)
	diag.Metrics.MetadataReadCount.Store(0)
	diag.Metrics.ExtractTime.Store(0)
	diag.Metrics.ExtractCount.Store(0)
	diag.Metrics.ExtractBytes.Store(0)

	diag.Println("Metrics reset via API.")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "Metrics reset.")
}

func cacheHitRatio(hits, misses int64) string {
	total := hits + misses
	if total == 0 {
		return "n/a"
	}

	return fmt.Sprintf("%.1f%%", 100*float64(hits)/float64(total))
}

func avgDuration(totalNanos, count int64) string {
	if count == 0 {
		return "0s"
	}

	return time.Duration(totalNanos / count).String()
}

func extractSpeed() string {
	bytes := diag.Metrics.ExtractBytes.Load()
	nanos := diag.Metrics.ExtractTime.Load()
	if nanos == 0 {
		return "0 B/s"
	}

	bps := float64(bytes) / (float64(nanos) / 1e9)

	return humanize.IBytes(uint64(max(0.0, bps))) + "/s"
}
