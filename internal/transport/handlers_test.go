package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/ginext"

	"github.com/pixelforge/stampd/internal/model"
)

func TestTaskHandler_Ping(t *testing.T) {
	r := gin.New()
	h := NewTaskHandler(nil)

	r.GET("/ping", func(c *gin.Context) {
		h.SimplePinger((*ginext.Context)(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "pong", body["message"])
}

func newMultipartRequest(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := w.CreateFormFile(name, name+".jpg")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/tasks", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestTaskHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		req        *http.Request
		mock       *mockTaskService
		wantStatus int
	}{
		{
			name: "success resize",
			req: newMultipartRequest(t,
				map[string]string{"operation": string(model.OpResize), "x_axis": "100"},
				map[string][]byte{"file": []byte("img")},
			),
			mock: &mockTaskService{
				createFn: func(ctx context.Context, d *model.TaskCreateData) (*model.Task, error) {
					require.NotNil(t, d.OrigFile)
					require.NotNil(t, d.Params.X)
					require.Equal(t, 100, *d.Params.X)
					return &model.Task{UID: uuid.New()}, nil
				},
			},
			wantStatus: 201,
		},
		{
			name: "success text watermark params",
			req: newMultipartRequest(t,
				map[string]string{
					"operation": string(model.OpWaterMarkText),
					"text":      "DRAFT",
					"position":  "center",
					"opacity":   "0.5",
					"font_size": "48",
					"fill":      "#ff0000",
				},
				map[string][]byte{"file": []byte("img")},
			),
			mock: &mockTaskService{
				createFn: func(ctx context.Context, d *model.TaskCreateData) (*model.Task, error) {
					require.Equal(t, "DRAFT", d.Params.Text)
					require.Equal(t, "center", d.Params.Position)
					require.Equal(t, 48, d.Params.FontSize)
					require.Equal(t, "#ff0000", d.Params.Fill)
					require.NotNil(t, d.Params.Opacity)
					require.InDelta(t, 0.5, *d.Params.Opacity, 1e-9)
					return &model.Task{UID: uuid.New()}, nil
				},
			},
			wantStatus: 201,
		},
		{
			name: "success image watermark with overlay file",
			req: newMultipartRequest(t,
				map[string]string{"operation": string(model.OpWaterMark), "scale": "0.25"},
				map[string][]byte{"file": []byte("img"), "watermark": []byte("wm")},
			),
			mock: &mockTaskService{
				createFn: func(ctx context.Context, d *model.TaskCreateData) (*model.Task, error) {
					require.NotNil(t, d.WMImg)
					require.NotNil(t, d.Params.Scale)
					return &model.Task{UID: uuid.New()}, nil
				},
			},
			wantStatus: 201,
		},
		{
			name: "missing file",
			req: newMultipartRequest(t,
				map[string]string{"operation": string(model.OpResize)},
				nil,
			),
			mock:       &mockTaskService{},
			wantStatus: 400,
		},
		{
			name: "garbage opacity rejected before service call",
			req: newMultipartRequest(t,
				map[string]string{"operation": string(model.OpWaterMarkText), "opacity": "semi"},
				map[string][]byte{"file": []byte("img")},
			),
			mock:       &mockTaskService{},
			wantStatus: 400,
		},
		{
			name: "service validation error",
			req: newMultipartRequest(t,
				map[string]string{"operation": "bad-op"},
				map[string][]byte{"file": []byte("img")},
			),
			mock: &mockTaskService{
				createFn: func(ctx context.Context, d *model.TaskCreateData) (*model.Task, error) {
					return nil, model.ErrIncorrectOp
				},
			},
			wantStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			h := NewTaskHandler(tt.mock)

			r.POST("/tasks", func(c *gin.Context) {
				h.Create((*ginext.Context)(c))
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, tt.req)

			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestTaskHandler_GetAllTasks(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		mock       *mockTaskService
		wantStatus int
	}{
		{
			name:  "success",
			query: "?page=1&limit=10",
			mock: &mockTaskService{
				getListFn: func(ctx context.Context, req *model.ListRequest) ([]model.Task, error) {
					return []model.Task{{}}, nil
				},
			},
			wantStatus: 200,
		},
		{
			name:       "bad query",
			query:      "?page=abc",
			mock:       &mockTaskService{},
			wantStatus: 400,
		},
		{
			name:  "service error",
			query: "",
			mock: &mockTaskService{
				getListFn: func(ctx context.Context, req *model.ListRequest) ([]model.Task, error) {
					return nil, model.ErrCommon500
				},
			},
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			h := NewTaskHandler(tt.mock)

			r.GET("/tasks", func(c *gin.Context) {
				h.GetAllTasks((*ginext.Context)(c))
			})

			req := httptest.NewRequest(http.MethodGet, "/tasks"+tt.query, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)
			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestTaskHandler_GetTask(t *testing.T) {
	tests := []struct {
		name       string
		mock       *mockTaskService
		wantStatus int
	}{
		{
			name: "success",
			mock: &mockTaskService{
				getFn: func(ctx context.Context, id string) (*model.Task, error) {
					require.Equal(t, "123", id)
					return &model.Task{UID: uuid.New(), Status: model.StatusDone}, nil
				},
			},
			wantStatus: 200,
		},
		{
			name: "not found",
			mock: &mockTaskService{
				getFn: func(ctx context.Context, id string) (*model.Task, error) {
					return nil, model.ErrTaskNotFound
				},
			},
			wantStatus: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			h := NewTaskHandler(tt.mock)

			r.GET("/tasks/:id", func(c *gin.Context) {
				h.GetTask((*ginext.Context)(c))
			})

			req := httptest.NewRequest(http.MethodGet, "/tasks/123", nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)
			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestTaskHandler_LoadResult(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		mock       *mockTaskService
		wantStatus int
		wantBody   string
	}{
		{
			name:   "success",
			target: "/tasks/123/result",
			mock: &mockTaskService{
				loadResultFn: func(ctx context.Context, id string, page int) (io.ReadCloser, string, error) {
					require.Equal(t, 0, page)
					return io.NopCloser(bytes.NewReader([]byte("ok"))), "image/jpeg", nil
				},
			},
			wantStatus: 200,
			wantBody:   "ok",
		},
		{
			name:   "page query forwarded",
			target: "/tasks/123/result?page=2",
			mock: &mockTaskService{
				loadResultFn: func(ctx context.Context, id string, page int) (io.ReadCloser, string, error) {
					require.Equal(t, 2, page)
					return io.NopCloser(bytes.NewReader([]byte("page2"))), "image/jpeg", nil
				},
			},
			wantStatus: 200,
			wantBody:   "page2",
		},
		{
			name:   "not ready",
			target: "/tasks/123/result",
			mock: &mockTaskService{
				loadResultFn: func(ctx context.Context, id string, page int) (io.ReadCloser, string, error) {
					return nil, "", model.ErrResultNotReady
				},
			},
			wantStatus: 404,
		},
		{
			name:   "page out of range",
			target: "/tasks/123/result?page=9",
			mock: &mockTaskService{
				loadResultFn: func(ctx context.Context, id string, page int) (io.ReadCloser, string, error) {
					return nil, "", model.ErrPageOutOfRange
				},
			},
			wantStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			h := NewTaskHandler(tt.mock)

			r.GET("/tasks/:id/result", func(c *gin.Context) {
				h.LoadResult((*ginext.Context)(c))
			})

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				require.Equal(t, tt.wantBody, w.Body.String())
				require.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestTaskHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		mock       *mockTaskService
		wantStatus int
	}{
		{
			name: "success",
			mock: &mockTaskService{
				deleteFn: func(ctx context.Context, id string) error {
					return nil
				},
			},
			wantStatus: 204,
		},
		{
			name: "not found",
			mock: &mockTaskService{
				deleteFn: func(ctx context.Context, id string) error {
					return model.ErrTaskNotFound
				},
			},
			wantStatus: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			h := NewTaskHandler(tt.mock)

			r.DELETE("/tasks/:id", func(c *gin.Context) {
				h.Delete((*ginext.Context)(c))
			})

			req := httptest.NewRequest(http.MethodDelete, "/tasks/123", nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)
			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
