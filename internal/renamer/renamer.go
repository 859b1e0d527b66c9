// Package renamer post-processes a finished translation job: translated
// documents land in the container under their original names, and we move
// them under a recognizable prefix so clients can tell outputs from sources.
package renamer

import (
	"context"
	"strings"

	"lingobridge/internal/pkg/errors"
	"lingobridge/internal/pkg/logger"
	"lingobridge/internal/ports"
)

type Renamer struct {
	bs     ports.BlobStore
	prefix string
	log    *logger.Logger
}

func New(bs ports.BlobStore, prefix string, log *logger.Logger) *Renamer {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Renamer{bs: bs, prefix: prefix, log: log.WithComponent("renamer")}
}

// RenameOutputs copies every non-excluded blob to prefix+name, deletes the
// original, and returns the new names. Excluded blobs are the job's source
// documents; blobs already carrying the prefix are left alone so a re-run
// never double-renames.
func (r *Renamer) RenameOutputs(ctx context.Context, exclude []string) ([]string, error) {
	blobs, err := r.bs.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "renamer.list", "failed to list container")
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}

	var renamed []string
	for _, b := range blobs {
		if _, ok := excluded[b.Name]; ok {
			continue
		}
		if strings.HasPrefix(b.Name, r.prefix) {
			continue
		}

		newName := r.prefix + b.Name
		r.log.Debug("renaming output blob", "from", b.Name, "to", newName)

		if err := r.bs.Copy(ctx, b.Name, newName); err != nil {
			return renamed, errors.Wrap(err, "renamer.copy", "failed to copy output blob").
				WithField("blob", b.Name)
		}
		if err := r.bs.Delete(ctx, b.Name); err != nil {
			return renamed, errors.Wrap(err, "renamer.delete", "failed to delete original blob").
				WithField("blob", b.Name)
		}
		renamed = append(renamed, newName)
	}

	r.log.Info("outputs renamed", "count", len(renamed))
	return renamed, nil
}
