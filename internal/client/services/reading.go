package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/dmitrijs2005/artefacto/internal/client/repositories/metadata"
)

const (
	bookmarkPrefix = "bookmark:"
	readPrefix     = "read:"
)

// readingLog remembers bookmarks and read marks on this device. It
// survives logout. A nil repository keeps nothing.
type readingLog struct {
	repo metadata.Repository
}

func (r readingLog) marked(ctx context.Context, prefix string) (map[models.ID]bool, error) {
	out := map[models.ID]bool{}
	if r.repo == nil {
		return out, nil
	}

	entries, err := r.repo.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	for key := range entries {
		out[models.ID(strings.TrimPrefix(key, prefix))] = true
	}
	return out, nil
}

func (r readingLog) has(ctx context.Context, prefix string, id models.ID) (bool, error) {
	if r.repo == nil {
		return false, nil
	}
	v, err := r.repo.Get(ctx, prefix+id.String())
	return v != nil, err
}

func (r readingLog) set(ctx context.Context, prefix string, id models.ID, on bool) error {
	if r.repo == nil {
		return nil
	}
	if on {
		return r.repo.Set(ctx, prefix+id.String(), []byte("1"))
	}
	return r.repo.Delete(ctx, prefix+id.String())
}

// annotate fills the local reading state into artifacts.
func (r readingLog) annotate(ctx context.Context, artifacts []models.Artifact) error {
	bookmarks, err := r.marked(ctx, bookmarkPrefix)
	if err != nil {
		return err
	}
	read, err := r.marked(ctx, readPrefix)
	if err != nil {
		return err
	}
	for i := range artifacts {
		artifacts[i].Bookmarked = bookmarks[artifacts[i].ArtifactID]
		artifacts[i].Read = read[artifacts[i].ArtifactID]
	}
	return nil
}
