package physfs

import "github.com/go-physfs/physfs/internal/archiver"

// ArchiveInfo describes one registered archiver, for SupportedArchiveTypes.
type ArchiveInfo struct {
	Extension   string
	Description string
	Author      string
	URL         string
}

// SupportedArchiveTypes lists every currently registered archiver.
func SupportedArchiveTypes() []ArchiveInfo {
	return archiveInfos(defaultLibrary().l.Registry().Supported())
}

func (lib *Library) SupportedArchiveTypes() []ArchiveInfo {
	return archiveInfos(lib.l.Registry().Supported())
}

func archiveInfos(descs []archiver.Descriptor) []ArchiveInfo {
	out := make([]ArchiveInfo, len(descs))
	for i, d := range descs {
		out[i] = ArchiveInfo{
			Extension:   d.Archiver.Extension(),
			Description: d.Archiver.Description(),
			Author:      d.Author,
			URL:         d.URL,
		}
	}

	return out
}

// RegisterArchiver adds a custom Archiver implementation, tried before
// every previously registered one (including the built-ins) for its
// extension.
func RegisterArchiver(a archiver.Archiver) {
	defaultLibrary().l.Registry().Register(archiver.Descriptor{Archiver: a, Author: "application"})
}

func (lib *Library) RegisterArchiver(a archiver.Archiver) {
	lib.l.Registry().Register(archiver.Descriptor{Archiver: a, Author: "application"})
}

// DeregisterArchiver removes the most recently registered archiver for ext,
// reporting whether one was found.
func DeregisterArchiver(ext string) bool {
	return defaultLibrary().l.Registry().Deregister(ext)
}

func (lib *Library) DeregisterArchiver(ext string) bool {
	return lib.l.Registry().Deregister(ext)
}
