package main

import (
	"fmt"
	"os/user"
	"strconv"
)

// resolveUser resolves a username or numeric UID to a UID/GID pair.
func resolveUser(spec string) (uid, gid uint32, err error) {
	var resolved *user.User

	if _, numErr := strconv.ParseUint(spec, 10, 32); numErr == nil {
		resolved, err = user.LookupId(spec)
	} else {
		resolved, err = user.Lookup(spec)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("lookup user %q failed: %w", spec, err)
	}

	uid64, err := strconv.ParseUint(resolved.Uid, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid uid %q: %w", resolved.Uid, err)
	}

	gid64, err := strconv.ParseUint(resolved.Gid, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid gid %q: %w", resolved.Gid, err)
	}

	return uint32(uid64), uint32(gid64), nil
}
