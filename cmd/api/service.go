package main

import (
	"context"
	"io"

	"github.com/pixelforge/stampd/internal/model"
)

type TaskAPIService interface {
	Create(context.Context, *model.TaskCreateData) (*model.Task, error)
	Get(ctx context.Context, id string) (*model.Task, error)
	GetList(ctx context.Context, req *model.ListRequest) ([]model.Task, error)
	LoadResult(ctx context.Context, id string, page int) (io.ReadCloser, string, error)
	Delete(ctx context.Context, id string) error
	ReviveOrphans(ctx context.Context, limit int)
}
