package adapters

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"zabbix-host-import/internal/ports"
)

// StagingFileAdapter keeps the transient host file between the preview
// and import steps as a single file keyed by user identity. Concurrent
// stagings by the same user race on the same artifact; that limitation
// is inherited from the original single-file design.
type StagingFileAdapter struct {
	Dir     string
	UserKey string
}

func NewStagingFileAdapter(dir string, userKey string) StagingFileAdapter {
	if dir == "" {
		dir = os.TempDir()
	}
	return StagingFileAdapter{Dir: dir, UserKey: userKey}
}

func (a StagingFileAdapter) path() string {
	return filepath.Join(a.Dir, fmt.Sprintf("zbx-host-import.%s.csv", a.UserKey))
}

func (a StagingFileAdapter) Save(content []byte) (string, error) {
	if len(content) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no file content to stage")
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create staging directory").
			WithCause(err)
	}
	path := a.path()
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write staged host file").
			WithCause(err)
	}
	return path, nil
}

func (a StagingFileAdapter) Load() ([]byte, error) {
	content, err := os.ReadFile(a.path())
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("missing staged host file").
			WithCause(err)
	}
	return content, nil
}

func (a StagingFileAdapter) Exists() bool {
	info, err := os.Stat(a.path())
	return err == nil && !info.IsDir()
}

func (a StagingFileAdapter) Delete() error {
	err := os.Remove(a.path())
	if err != nil && !os.IsNotExist(err) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to delete staged host file").
			WithCause(err)
	}
	return nil
}

var _ ports.StagingStore = StagingFileAdapter{}
