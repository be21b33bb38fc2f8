package transport

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/pixelforge/stampd/internal/model"
)

type mockTaskService struct {
	createFn     func(ctx context.Context, d *model.TaskCreateData) (*model.Task, error)
	getFn        func(ctx context.Context, id string) (*model.Task, error)
	getListFn    func(ctx context.Context, req *model.ListRequest) ([]model.Task, error)
	loadResultFn func(ctx context.Context, id string, page int) (io.ReadCloser, string, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (m *mockTaskService) Create(ctx context.Context, d *model.TaskCreateData) (*model.Task, error) {
	return m.createFn(ctx, d)
}

func (m *mockTaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	return m.getFn(ctx, id)
}

func (m *mockTaskService) GetList(ctx context.Context, req *model.ListRequest) ([]model.Task, error) {
	return m.getListFn(ctx, req)
}

func (m *mockTaskService) LoadResult(ctx context.Context, id string, page int) (io.ReadCloser, string, error) {
	return m.loadResultFn(ctx, id, page)
}

func (m *mockTaskService) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func init() {
	gin.SetMode(gin.TestMode)
}
