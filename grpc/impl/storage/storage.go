// Package storage keeps the artifacts of each job: uploads, templates,
// metadata and rendered results.
package storage

import (
	"context"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/cardapio-project/cardapio/pkg/common"
)

// Kind names one artifact of a job. Artifacts are stored under
// <Dir>/<job id>_<Suffix>.<Ext>.
type Kind struct {
	Dir         string
	Suffix      string
	Ext         string
	ContentType string
}

var (
	KindUpload           = Kind{Dir: "uploads", Suffix: "source", Ext: "png", ContentType: "image/png"}
	KindAnalysis         = Kind{Dir: "metadata", Suffix: "analysis", Ext: "json", ContentType: "application/json"}
	KindTemplate         = Kind{Dir: "templates", Suffix: "template", Ext: "png", ContentType: "image/png"}
	KindTemplateMetadata = Kind{Dir: "metadata", Suffix: "metadata", Ext: "json", ContentType: "application/json"}
	KindResult           = Kind{Dir: "results", Suffix: "final", Ext: "png", ContentType: "image/png"}
)

// Dirs lists every directory an artifact can be stored in.
var Dirs = []string{"uploads", "metadata", "templates", "results"}

// Key is the slash-separated path of the artifact, relative to the store root.
func (k Kind) Key(jobID string) string {
	return path.Join(k.Dir, jobID+"_"+k.Suffix+"."+k.Ext)
}

// JobStore persists artifacts by job. Job ids are UUIDs; anything else is
// rejected with an InputError before touching the backend.
type JobStore interface {
	Put(ctx context.Context, jobID string, kind Kind, data []byte) error
	// Get returns an error of kind common.KindNotFound when the artifact does not exist.
	Get(ctx context.Context, jobID string, kind Kind) ([]byte, error)
	// Sweep deletes every artifact created before olderThan and returns how many were deleted.
	Sweep(ctx context.Context, olderThan time.Time) (int, error)
}

func validateJobID(jobID string) error {
	if _, err := uuid.Parse(jobID); err != nil {
		return common.InputError("job id must be a UUID", err)
	}
	return nil
}
