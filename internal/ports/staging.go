package ports

// StagingStore holds the single transient host file between the preview
// and import steps. Implementations key the artifact by the initiating
// user identity, so concurrent stagings by the same user race on the
// same artifact.
type StagingStore interface {
	Save(content []byte) (string, error)
	Load() ([]byte, error)
	Exists() bool
	Delete() error
}
