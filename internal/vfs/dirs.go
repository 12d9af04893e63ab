package vfs

// GetBaseDir returns the directory containing the running executable, as
// computed once at Init.
func (l *Library) GetBaseDir() string {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	return l.baseDir
}

// GetUserDir returns the current user's home directory, via the platform
// adapter.
func (l *Library) GetUserDir() string {
	dir, err := l.platform.UserDir()
	if err != nil {
		return ""
	}

	return dir
}

// GetPrefDir returns the per-user, per-application preferences directory
// for (org, app), creating it if necessary.
func (l *Library) GetPrefDir(org, app string) string {
	dir, err := l.platform.PrefDir(org, app)
	if err != nil {
		return ""
	}

	_ = l.platform.Mkdir(dir)

	return dir
}

// GetCDROMDirs lists currently mounted CD/DVD-ROM volumes, via the
// platform adapter.
func (l *Library) GetCDROMDirs() []string {
	dirs, err := l.platform.CDROMDirs()
	if err != nil {
		return nil
	}

	return dirs
}

// GetDirSeparator returns "/" unconditionally: physfs-go's public paths
// are always forward-slash notation regardless of host OS.
func (l *Library) GetDirSeparator() string {
	return "/"
}

// SetSaneConfig wires up a conventional setup in one call: write dir under
// GetPrefDir(org, app), base dir mounted read-only. archiveExt, if
// non-empty, additionally auto-mounts every same-extension archive found
// directly in the base directory.
func (l *Library) SetSaneConfig(org, app, archiveExt string, includeCdroms, archivesFirst bool) error {
	pref := l.GetPrefDir(org, app)
	if pref != "" {
		if err := l.SetWriteDir(pref); err != nil {
			return err
		}

		if err := l.Mount(nil, pref, "/", false); err != nil {
			return err
		}
	}

	base := l.GetBaseDir()
	if base != "" {
		if err := l.Mount(nil, base, "/", false); err != nil {
			return err
		}
	}

	if archiveExt != "" {
		entries, err := l.platform.ReadDir(base)
		if err == nil {
			for _, e := range entries {
				if e.IsDir || extensionOf(e.Name) != archiveExt {
					continue
				}

				_ = l.Mount(nil, base+"/"+e.Name, "/", archivesFirst)
			}
		}
	}

	if includeCdroms {
		for _, d := range l.GetCDROMDirs() {
			_ = l.Mount(nil, d, "/", false)
		}
	}

	return nil
}
