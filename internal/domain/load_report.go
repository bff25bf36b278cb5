package domain

// LoadState describes how the catalog was initialised at startup
type LoadState string

const (
	// LoadFresh means no snapshot existed yet
	LoadFresh LoadState = "fresh"
	// LoadEmpty means the snapshot existed but held no data
	LoadEmpty LoadState = "empty"
	// LoadRestored means records were read from the snapshot
	LoadRestored LoadState = "restored"
	// LoadDegraded means the snapshot was unusable and the catalog started empty
	LoadDegraded LoadState = "degraded"
)

// LoadReport summarises the startup load
type LoadReport struct {
	Path    string
	State   LoadState
	Count   int
	Warning string
}

// HasWarning returns true if loading fell back to an empty catalog
func (r LoadReport) HasWarning() bool {
	return r.Warning != ""
}
