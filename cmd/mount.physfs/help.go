package main

const (
	helpTextLong = `%s (%s) - FUSE mount helper

This program is a helper for the mount/fstab mechanism.
It is normally located in /sbin or another directory
searched by mount(8) for filesystem helpers, and is
not intended to be invoked directly by end users.

Usage:
  %s source mountpoint [-o key[=value],key[=value],...]

For running the filesystem as another (e.g. unprivileged) user:
  %s source mountpoint -o setuid=USER[,key[=value],...]

Example (fstab entry):
  /mnt/games   /mnt/physfs   physfs   allow_other,addr=:8001   0  0

Additional mount options to control mount helper behavior itself:
  setuid=USER (as username or UID; overrides executing user)

The physfsfuse binary is looked up in $PATH, and the mount timeout
is fixed at 20 seconds.

Filesystem-specific options need to be adapted into this format:
  --addr :8001 => addr=:8001

Note that FUSE mount helper events are printed to standard error (stderr).`

	helpErrNotFound = `mount.physfs error: physfsfuse not found within $PATH dirs.
Perhaps you installed it into some non-standard directory?
Some operating systems also mangle the environment variable.
The binary is only looked up in $PATH; there is no option to name it.`

	helpErrMountTimeout = `mount.physfs error: mount did not appear within %d seconds.
This timeout is fixed; no mount option changes it.
A mount that takes this long usually indicates an error condition.`
)
