package jobs

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/typeset/pkg/pagination"
	"github.com/JaimeStill/typeset/pkg/storage"
)

// System defines the public contract for render-job operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Job], error)

	Find(ctx context.Context, id uuid.UUID) (*Job, error)
	Render(ctx context.Context, cmd RenderCommand) (*Job, error)
	RenderBatch(ctx context.Context, cmds []RenderCommand) ([]BatchResult, error)
	Download(ctx context.Context, id uuid.UUID) (*Job, *storage.DownloadResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
