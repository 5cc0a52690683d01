package mock

import (
	"context"

	"github.com/fwojciec/prospector"
)

var _ prospector.RunService = (*RunService)(nil)

// RunService is a mock implementation of prospector.RunService.
type RunService struct {
	CreateRunFn    func(ctx context.Context, email, description, url string) (string, error)
	UpdateStatusFn func(ctx context.Context, runID string, status prospector.RunStatus, results, errs string) error
	FindRunByIDFn  func(ctx context.Context, runID string) (*prospector.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, email, description, url string) (string, error) {
	return s.CreateRunFn(ctx, email, description, url)
}

func (s *RunService) UpdateStatus(ctx context.Context, runID string, status prospector.RunStatus, results, errs string) error {
	if s.UpdateStatusFn == nil {
		return nil
	}
	return s.UpdateStatusFn(ctx, runID, status, results, errs)
}

func (s *RunService) FindRunByID(ctx context.Context, runID string) (*prospector.Run, error) {
	return s.FindRunByIDFn(ctx, runID)
}

var _ prospector.BlobStore = (*BlobStore)(nil)

// BlobStore is a mock implementation of prospector.BlobStore.
type BlobStore struct {
	UploadFn func(ctx context.Context, localPath string) (string, error)
}

func (b *BlobStore) Upload(ctx context.Context, localPath string) (string, error) {
	return b.UploadFn(ctx, localPath)
}

var _ prospector.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of prospector.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, report *prospector.Report) (string, error)
}

func (r *Renderer) Render(ctx context.Context, report *prospector.Report) (string, error) {
	return r.RenderFn(ctx, report)
}

var _ prospector.Notifier = (*Notifier)(nil)

// Notifier is a mock implementation of prospector.Notifier.
type Notifier struct {
	NotifyFn func(ctx context.Context, result *prospector.RunResult) error
}

func (n *Notifier) Notify(ctx context.Context, result *prospector.RunResult) error {
	if n.NotifyFn == nil {
		return nil
	}
	return n.NotifyFn(ctx, result)
}
