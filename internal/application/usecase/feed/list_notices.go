package feed

import (
	"context"

	"github.com/backoffice/statement/internal/application/adapter"
	"github.com/backoffice/statement/internal/domain/entity"
)

// DefaultNoticeLimit is used when no limit is requested.
const DefaultNoticeLimit = 20

// ListNoticesInput represents the input for listing notices.
type ListNoticesInput struct {
	Limit int
}

// ListNoticesOutput represents the recent notices.
type ListNoticesOutput struct {
	Notices []*entity.Notice
}

// ListNoticesUseCase handles reading the notice inbox.
type ListNoticesUseCase struct {
	inbox adapter.NoticeInbox
}

// NewListNoticesUseCase creates a new ListNoticesUseCase instance.
func NewListNoticesUseCase(inbox adapter.NoticeInbox) *ListNoticesUseCase {
	return &ListNoticesUseCase{
		inbox: inbox,
	}
}

// Execute returns the most recent notices, newest first.
func (uc *ListNoticesUseCase) Execute(ctx context.Context, input ListNoticesInput) (*ListNoticesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultNoticeLimit
	}
	return &ListNoticesOutput{
		Notices: uc.inbox.Recent(ctx, limit),
	}, nil
}
