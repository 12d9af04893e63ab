/*
mount.physfs - FUSE mount helper

This program is a helper for the mount/fstab mechanism, invoking
cmd/physfsfuse under the hood. It is normally located in /sbin or another
directory searched by mount(8) for filesystem helpers, and is not intended
to be invoked directly by end users.

Usage:

	mount.physfs source mountpoint [-o key[=value],key[=value],...]
*/
//nolint:mnd,err113
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	Version string

	allowedKeys = map[string]struct{}{
		"addr":        {},
		"allow-other": {},
		"verbose":     {},
	}
)

type mountHelper struct {
	Program    string
	Type       string
	Source     string
	Mountpoint string
	Options    map[string]string
	Setuid     string
}

func newMountHelper(args []string) (*mountHelper, error) {
	mh := &mountHelper{
		Program:    args[0],
		Source:     args[1],
		Type:       "physfs",
		Mountpoint: args[2],
		Options:    make(map[string]string),
	}

	if mh.Source == "" {
		return nil, errors.New("no source argument was given")
	}
	if mh.Mountpoint == "" {
		return nil, errors.New("no mountpoint argument was given")
	}

	if err := mh.parseOptions(args[3:]); err != nil {
		return nil, fmt.Errorf("failed to parse options: %w", err)
	}

	return mh, nil
}

func (mh *mountHelper) parseOptions(args []string) error {
	for _, arg := range args {
		if arg == "-v" || arg == "-o" {
			continue
		}

		for _, opt := range strings.Split(arg, ",") {
			if opt == "" {
				continue
			}
			opt = strings.ReplaceAll(opt, "_", "-")
			opt = strings.TrimPrefix(opt, "--")

			key, val, hasVal := strings.Cut(opt, "=")
			if !hasVal {
				if _, ok := allowedKeys[opt]; ok {
					mh.Options[opt] = ""
				}

				continue
			}

			if key == "setuid" {
				mh.Setuid = val
			} else if _, ok := allowedKeys[key]; ok {
				mh.Options[key] = val
			}
		}
	}

	return nil
}

func main() {
	if len(os.Args) < 3 { //nolint:mnd
		progName := filepath.Base(os.Args[0])
		fmt.Fprintf(os.Stderr, helpTextLong+"\n", progName, Version, progName, progName)
		os.Exit(1)
	}

	helper, err := newMountHelper(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := helper.execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
