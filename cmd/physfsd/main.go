/*
physfsd is a standalone diagnostics dashboard for a running physfs-go
search path: mount it, then serve the metrics that internal/diag
accumulates (open archives, cache hit ratio, extract/metadata timings)
over HTTP.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-physfs/physfs"
	"github.com/go-physfs/physfs/internal/diag"
)

// Version is the program version (filled in from the build).
var Version string

func main() {
	var (
		addr   = flag.String("addr", ":8000", "dashboard listen address")
		mounts mountList
	)
	flag.Var(&mounts, "mount", "path to mount read-only (repeatable)")
	flag.Parse()

	if err := physfs.Init(os.Args[0]); err != nil {
		diag.Printf("init error: %v\n", err)
		os.Exit(1)
	}
	defer physfs.Deinit() //nolint:errcheck

	for _, m := range mounts {
		if err := physfs.Mount(m, "/", true); err != nil {
			diag.Printf("mount %q error: %v\n", m, err)
			os.Exit(1)
		}
	}

	diag.Printf("physfsd %s\n", Version)

	dash := newDashboard(Version)
	srv := &http.Server{Addr: *addr, Handler: dash.mux()}

	go func() {
		diag.Printf("serving dashboard on %s\n", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			diag.Printf("HTTP error: %v\n", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	diag.Println("Signal received, shutting down.")
	_ = srv.Shutdown(context.Background())
}

type mountList []string

func (m *mountList) String() string { return "" }

func (m *mountList) Set(v string) error {
	*m = append(*m, v)

	return nil
}
