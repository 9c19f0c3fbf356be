package usecase

import "context"

type SearchUC interface {
	SearchSimilar(ctx context.Context, req *SearchReq) (*SearchRes, error)
	GetFilterOptions(ctx context.Context) (*FilterOptions, error)
}

type IngestUC interface {
	IngestItem(ctx context.Context, req *IngestItemReq) (*OutboxEvent, error)
}
