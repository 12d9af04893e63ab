/*
physfsfuse mounts an entire physfs-go search path -- not a single archive --
as a read-only FUSE filesystem. Mount sources are given in search order on
the command line; physfs-go's own sandboxing and archive auto-detection
decide what shows up underneath the mountpoint.
*/
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"

	"github.com/go-physfs/physfs"
)

// Version is the program version (filled in from the build).
var Version string

func main() {
	flag.Usage = func() {
		log.Printf("usage: %s [mountpoint] [source...]\n", os.Args[0])
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 { //nolint:mnd
		flag.Usage()
		os.Exit(1)
	}
	mountpoint, sources := args[0], args[1:]

	log.Printf("physfsfuse %s\n", Version)

	if err := physfs.Init(os.Args[0]); err != nil {
		log.Fatalf("init error: %v", err)
	}
	defer physfs.Deinit() //nolint:errcheck

	for _, src := range sources {
		if err := physfs.Mount(src, "/", false); err != nil {
			log.Fatalf("mount %q: %v", src, err)
		}
	}

	c, err := fuse.Mount(mountpoint, fuse.ReadOnly(), fuse.FSName("physfsfuse"))
	if err != nil {
		log.Fatalf("fuse mount error: %v", err)
	}
	defer c.Close() //nolint:errcheck
	defer fuse.Unmount(mountpoint) //nolint:errcheck

	fsys := newPhysfsFS()
	defer fsys.handles.purgeAll()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := fs.Serve(c, fsys); err != nil {
			log.Printf("fs serve error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Println("signal received, unmounting")
		if err := fuse.Unmount(mountpoint); err != nil {
			log.Printf("unmount error: %v", err)
		}
	}()

	wg.Wait()
}
