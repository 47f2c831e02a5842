package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	models "github.com/codingclub/content-service/models"
	utils "github.com/codingclub/content-service/utils"
)

const cleanupTimeout = 30 * time.Second

// stage uploads files with bounded concurrency. The returned references keep
// the order of files. On failure every asset that did upload is discarded
// before the error is returned.
func (p *Pipeline) stage(ctx context.Context, folder string, files []Attachment) ([]models.Image, error) {
	results := make([]models.Image, len(files))
	if len(files) == 0 {
		return results, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			img, err := p.upload(gctx, folder, file)
			if err != nil {
				return err
			}
			img.Caption = file.Caption
			results[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var uploaded []models.Image
		for _, img := range results {
			if img.PublicID != "" {
				uploaded = append(uploaded, img)
			}
		}
		p.discard(ctx, uploaded)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, utils.BadGateway("image upload failed", err)
	}
	return results, nil
}

func (p *Pipeline) upload(ctx context.Context, folder string, file Attachment) (models.Image, error) {
	if err := ctx.Err(); err != nil {
		return models.Image{}, err
	}
	r, err := file.Open()
	if err != nil {
		return models.Image{}, fmt.Errorf("open %s: %w", file.Filename, err)
	}
	defer r.Close()

	return p.media.Upload(ctx, folder, file.Filename, r)
}

// discard deletes staged assets that never became referenced by a stored
// document. It runs even when the request context is already cancelled;
// failures are logged and, when configured, mailed to operators.
func (p *Pipeline) discard(ctx context.Context, images []models.Image) {
	if len(images) == 0 {
		return
	}
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	logger := p.log(ctx)
	var orphaned []string
	for _, img := range images {
		if err := p.media.Delete(cleanupCtx, img.PublicID); err != nil {
			logger.Error("staged image cleanup failed", "public_id", img.PublicID, "error", err)
			orphaned = append(orphaned, img.PublicID)
			continue
		}
		logger.Info("discarded staged image", "public_id", img.PublicID)
	}

	if len(orphaned) > 0 && p.alerter != nil {
		body := "<p>These media assets could not be deleted and are no longer referenced:</p><ul><li>" +
			strings.Join(orphaned, "</li><li>") + "</li></ul>"
		if err := p.alerter.Alert(cleanupCtx, "Orphaned media assets", body); err != nil {
			logger.Error("orphaned media alert failed", "error", err)
		}
	}
}

// deleteImages removes stored references from the media store one by one and
// stops at the first failure.
func (p *Pipeline) deleteImages(ctx context.Context, images []models.Image) error {
	for _, img := range images {
		publicID := img.PublicID
		if publicID == "" {
			derived, err := utils.PublicIDFromURL(img.URL)
			if err != nil {
				return utils.Internal("image reference has no deletable id", err)
			}
			publicID = derived
		}
		if err := p.media.Delete(ctx, publicID); err != nil {
			return utils.BadGateway("failed to delete image", err)
		}
	}
	return nil
}
