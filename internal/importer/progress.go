package importer

// Phase is a stage of an import run.
type Phase string

const (
	PhaseScanning  Phase = "scanning"
	PhaseImporting Phase = "importing"
	PhaseCleaning  Phase = "cleaning"
	PhaseComplete  Phase = "complete"
)

// Progress is an advisory snapshot delivered to the caller's callback.
// It never gates correctness; a nil or slow callback changes nothing.
type Progress struct {
	Phase         Phase
	FilesFound    int
	FilesImported int
	FilesSkipped  int
}

// ProgressFunc receives phase transitions during an import.
type ProgressFunc func(Progress)

// PathMapping rewrites a download client's remote path prefix to the local
// mount point before any filesystem access.
type PathMapping struct {
	RemotePrefix string
	LocalPrefix  string
}

// ApplyMappings returns path with the first matching remote prefix
// replaced. No match returns path unchanged.
func ApplyMappings(path string, mappings []PathMapping) string {
	for _, m := range mappings {
		if m.RemotePrefix != "" && len(path) >= len(m.RemotePrefix) && path[:len(m.RemotePrefix)] == m.RemotePrefix {
			return m.LocalPrefix + path[len(m.RemotePrefix):]
		}
	}
	return path
}
