package api

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/services"
)

// mediaSlot describes one media pair on a record.
type mediaSlot struct {
	fileField  string
	kind       services.MediaKind
	folder     string
	urlField   string
	idField    string
	removeFlag string
}

type projectSlots struct {
	video     mediaSlot
	thumbnail mediaSlot
}

func newProjectSlots(folders services.Folders) projectSlots {
	return projectSlots{
		video: mediaSlot{
			fileField:  "video",
			kind:       services.MediaVideo,
			folder:     folders.ProjectVideos,
			urlField:   "cloudinaryVideoUrl",
			idField:    "cloudinaryVideoPublicId",
			removeFlag: "removeVideo",
		},
		thumbnail: mediaSlot{
			fileField:  "thumbnail",
			kind:       services.MediaImage,
			folder:     folders.ProjectThumbnails,
			urlField:   "cloudinaryThumbnailUrl",
			idField:    "cloudinaryThumbnailPublicId",
			removeFlag: "removeThumbnail",
		},
	}
}

func newSkillSlot(folders services.Folders) mediaSlot {
	return mediaSlot{
		fileField:  "image",
		kind:       services.MediaImage,
		folder:     folders.Skills,
		urlField:   "imageUrl",
		idField:    "imagePublicId",
		removeFlag: "removeImage",
	}
}

type mediaAction int

const (
	mediaKeep mediaAction = iota
	mediaClear
	mediaReplace
	mediaUpload
)

// mediaPlan is the decided change for one slot.
type mediaPlan struct {
	slot    mediaSlot
	action  mediaAction
	current models.MediaRef
	next    models.MediaRef
	file    *services.MediaUpload
	set     func(models.MediaRef)
}

// planMedia decides what happens to a slot. Precedence on update: removal,
// then a supplied pair, then a legacy file. A half pair is a field error.
func planMedia(slot mediaSlot, current models.MediaRef, in mediaInput, creating bool, set func(models.MediaRef)) (*mediaPlan, map[string]string) {
	plan := &mediaPlan{slot: slot, action: mediaKeep, current: current, next: current, set: set}

	if !creating && (in.Remove || (in.URL != nil && *in.URL == "")) {
		plan.action = mediaClear
		plan.next = models.MediaRef{}
		return plan, nil
	}

	ref := models.MediaRef{URL: deref(in.URL), PublicID: deref(in.PublicID)}
	if !ref.IsZero() {
		if !ref.Complete() {
			missing := slot.idField
			if ref.URL == "" {
				missing = slot.urlField
			}
			return nil, map[string]string{
				missing: fmt.Sprintf("%s and %s must be set together", slot.urlField, slot.idField),
			}
		}
		if !ref.Equal(current) {
			plan.action = mediaReplace
			plan.next = ref
		}
		return plan, nil
	}

	if in.File != nil {
		plan.action = mediaUpload
		plan.file = in.File
	}
	return plan, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// storedAsset identifies an asset for deletion.
type storedAsset struct {
	publicID string
	kind     services.MediaKind
}

type mediaSyncer struct {
	store  services.MediaStore
	logger zerolog.Logger
}

// upload runs the pending uploads and assigns every plan's next pair to its
// record. When an upload fails, the ones already made are removed.
func (s mediaSyncer) upload(ctx context.Context, plans []*mediaPlan) error {
	var done []storedAsset
	for _, plan := range plans {
		if plan.action != mediaUpload {
			continue
		}
		asset, err := s.store.Upload(ctx, *plan.file)
		recordMediaUpload(plan.slot.kind, err == nil)
		if err != nil {
			s.deleteAll(ctx, done, "discard partial upload")
			return err
		}
		plan.next = asset.Ref()
		done = append(done, storedAsset{publicID: asset.PublicID, kind: plan.slot.kind})
		s.logger.Info().
			Str("field", plan.slot.fileField).
			Str("publicId", asset.PublicID).
			Msg("Uploaded media")
	}

	for _, plan := range plans {
		plan.set(plan.next)
	}
	return nil
}

// replaced lists the stored assets the plans make obsolete. A new URL for
// the same public id is a re-upload in place, not a replacement.
func replaced(plans []*mediaPlan) []storedAsset {
	var out []storedAsset
	for _, plan := range plans {
		if plan.action == mediaKeep || plan.current.PublicID == "" {
			continue
		}
		if plan.next.PublicID == plan.current.PublicID {
			continue
		}
		out = append(out, storedAsset{publicID: plan.current.PublicID, kind: plan.slot.kind})
	}
	return out
}

// uploaded lists the assets created by the plans.
func uploaded(plans []*mediaPlan) []storedAsset {
	var out []storedAsset
	for _, plan := range plans {
		if plan.action == mediaUpload && plan.next.PublicID != "" {
			out = append(out, storedAsset{publicID: plan.next.PublicID, kind: plan.slot.kind})
		}
	}
	return out
}

// nonEmpty drops assets without a public id.
func nonEmpty(assets ...storedAsset) []storedAsset {
	out := assets[:0]
	for _, asset := range assets {
		if asset.publicID != "" {
			out = append(out, asset)
		}
	}
	return out
}

// deleteAll removes assets concurrently. Failures are logged and never returned.
func (s mediaSyncer) deleteAll(ctx context.Context, assets []storedAsset, reason string) {
	var g errgroup.Group
	for _, asset := range assets {
		asset := asset
		g.Go(func() error {
			res := s.store.Delete(ctx, asset.publicID, asset.kind)
			recordMediaDelete(asset.kind, res.OK)
			if !res.OK {
				s.logger.Warn().
					Str("publicId", asset.publicID).
					Str("kind", string(asset.kind)).
					Str("reason", res.Reason).
					Str("during", reason).
					Msg("Media delete failed, continuing")
				return nil
			}
			s.logger.Info().
				Str("publicId", asset.publicID).
				Str("during", reason).
				Msg("Deleted media")
			return nil
		})
	}
	_ = g.Wait()
}
