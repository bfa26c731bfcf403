package services

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/afero"

	"git.solsynth.dev/hypernet/tribune/pkg/internal/models"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/storage"
)

// NewAttachment stores the uploaded bytes under
// {creator_id}/{attachment_id}/{file_name} on the attachment filesystem and
// records the attachment. Uploading takes the User level regardless of any
// category.
func (m *Manager) NewAttachment(ctx context.Context, actorID models.Id, fileName string, content io.Reader) (models.Id, error) {
	var id models.Id
	err := m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		if err := requireThreshold(actor.Permission, models.PermissionForAttachmentUpload, "upload attachments"); err != nil {
			return err
		}

		// Base still yields "." for empty input and ".." for a bare parent
		// reference; either would collapse the directory layout when joined.
		name := filepath.Base(fileName)
		if name == "." || name == ".." || name == string(filepath.Separator) || name == "" {
			name = "file"
		}

		attachment := models.Attachment{
			ID:        models.NewId(),
			CreatorID: actor.ID,
			CreatedAt: time.Now().UTC(),
		}
		attachment.Path = filepath.Join(string(actor.ID), string(attachment.ID), name)

		if err := m.writeFile(attachment.Path, content); err != nil {
			return storageFailure(err, "writing attachment to the filesystem")
		}

		var err error
		id, err = s.CreateAttachment(ctx, attachment)
		if err != nil {
			// Drop the already-written bytes so the filesystem and the
			// store cannot disagree about what exists.
			_ = m.files.RemoveAll(filepath.Dir(attachment.Path))
			return storageFailure(err, "saving attachment in the store")
		}
		return nil
	})
	return id, err
}

func (m *Manager) writeFile(path string, content io.Reader) error {
	if err := m.files.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := m.files.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, content)
	return err
}

// GetAttachment resolves an attachment record. The bytes themselves are read
// straight off the filesystem via OpenAttachment.
func (m *Manager) GetAttachment(ctx context.Context, attachmentID models.Id) (*models.Attachment, error) {
	var attachment *models.Attachment
	err := m.gate.Read(func(r storage.Reader) error {
		a, err := r.AttachmentByID(ctx, attachmentID)
		if err != nil {
			return storageFailure(err, "reading attachment from the store")
		}
		attachment = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	if attachment == nil {
		return nil, notFound("invalid attachment id")
	}
	return attachment, nil
}

// OpenAttachment resolves the record and opens its file. The caller owns the
// returned handle.
func (m *Manager) OpenAttachment(ctx context.Context, attachmentID models.Id) (*models.Attachment, afero.File, error) {
	attachment, err := m.GetAttachment(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	f, err := m.files.Open(attachment.Path)
	if err != nil {
		return nil, nil, storageFailure(err, "reading attachment from the filesystem")
	}
	return attachment, f, nil
}

// SweepOrphanAttachments removes attachment directories that no stored record
// points at anymore. Directories younger than an hour are left alone so an
// upload racing the sweep never loses its bytes.
func (m *Manager) SweepOrphanAttachments(ctx context.Context) error {
	var known map[models.Id]bool
	err := m.gate.Read(func(r storage.Reader) error {
		all, err := r.AllAttachments(ctx)
		if err != nil {
			return storageFailure(err, "reading attachments from the store")
		}
		known = lo.SliceToMap(all, func(a models.Attachment) (models.Id, bool) {
			return a.ID, true
		})
		return nil
	})
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-time.Hour)
	removed := 0

	creators, err := afero.ReadDir(m.files, ".")
	if err != nil {
		return storageFailure(err, "scanning the attachment filesystem")
	}
	for _, creator := range creators {
		if !creator.IsDir() {
			continue
		}
		entries, err := afero.ReadDir(m.files, creator.Name())
		if err != nil {
			log.Warn().Err(err).Str("dir", creator.Name()).Msg("Unable to scan attachment directory, skipping...")
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || entry.ModTime().After(cutoff) {
				continue
			}
			id, err := models.ParseId(entry.Name())
			if err != nil {
				continue
			}
			if known[id] {
				continue
			}
			dir := filepath.Join(creator.Name(), entry.Name())
			if err := m.files.RemoveAll(dir); err != nil {
				log.Warn().Err(err).Str("dir", dir).Msg("Unable to remove orphan attachment directory, skipping...")
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Swept orphan attachment directories.")
	}
	return nil
}
