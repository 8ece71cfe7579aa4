package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/strawket/strawket-go/pkg/manifest"
	"github.com/strawket/strawket-go/pkg/obs"
)

// ErrAuditFailed is returned when the audit finds errors.
var ErrAuditFailed = errors.New("audit found errors")

// RunAudit compares the compiled entities with a protocol manifest. An
// empty version audits against the latest manifest.
func RunAudit(version string, w io.Writer) error {
	var (
		m   *manifest.Manifest
		err error
	)
	if version == "" {
		m, err = manifest.LoadLatest()
	} else {
		m, err = manifest.Load(version)
	}
	if err != nil {
		return err
	}

	findings := manifest.Audit(m, obs.Registry, obs.FlagSets, obs.Enums)
	fmt.Fprintf(w, "Manifest %s: %d entities, %d flag sets, %d enums\n",
		m.Version, len(m.Entities), len(m.Flags), len(m.Enums))

	if len(findings) == 0 {
		fmt.Fprintln(w, "No drift.")
		return nil
	}
	for _, f := range findings {
		fmt.Fprintf(w, "  %s\n", f)
	}
	if manifest.HasErrors(findings) {
		return ErrAuditFailed
	}
	return nil
}
