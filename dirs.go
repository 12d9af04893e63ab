package physfs

// GetBaseDir returns the directory containing the running executable.
func GetBaseDir() string { return defaultLibrary().l.GetBaseDir() }

func (lib *Library) GetBaseDir() string { return lib.l.GetBaseDir() }

// GetUserDir returns the current user's home directory.
func GetUserDir() string { return defaultLibrary().l.GetUserDir() }

func (lib *Library) GetUserDir() string { return lib.l.GetUserDir() }

// GetPrefDir returns (creating if necessary) the per-user, per-application
// preferences directory for (org, app).
func GetPrefDir(org, app string) string { return defaultLibrary().l.GetPrefDir(org, app) }

func (lib *Library) GetPrefDir(org, app string) string { return lib.l.GetPrefDir(org, app) }

// GetCDROMDirs lists currently mounted CD/DVD-ROM volumes.
func GetCDROMDirs() []string { return defaultLibrary().l.GetCDROMDirs() }

func (lib *Library) GetCDROMDirs() []string { return lib.l.GetCDROMDirs() }

// GetDirSeparator returns "/" -- physfs-go's virtual paths are always
// forward-slash notation regardless of host OS.
func GetDirSeparator() string { return defaultLibrary().l.GetDirSeparator() }

func (lib *Library) GetDirSeparator() string { return lib.l.GetDirSeparator() }
