// Package transport provides methods for processing requests from endpoints
package transport

import (
	"context"
	"io"
	"log"
	"strconv"

	"github.com/pixelforge/stampd/internal/model"
	"github.com/wb-go/wbf/ginext"
)

type TaskHandler struct {
	service TaskService
}

type TaskService interface {
	Create(ctx context.Context, newTask *model.TaskCreateData) (*model.Task, error)
	Get(ctx context.Context, id string) (*model.Task, error)                      // статус и метаданные задачи
	GetList(ctx context.Context, req *model.ListRequest) ([]model.Task, error)    // получить список
	LoadResult(ctx context.Context, id string, page int) (io.ReadCloser, string, error) // прям скачать результат, для pdf - постранично
	Delete(ctx context.Context, id string) error                                  // удалить как в базе, так и в minio
}

func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{
		service: svc,
	}
}

func (h TaskHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

func (h TaskHandler) Create(ctx *ginext.Context) {
	operation := ctx.PostForm("operation")

	// парсинг параметров операции
	params, err := parseTaskParams(ctx)
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}

	// парсинг исходника
	var fileSize int64
	origFile, origHeader, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.JSON(400, map[string]string{"error": "file is required"})
		return
	}
	defer closeFileFlow(origFile)
	origCType := origHeader.Header.Get("Content-Type")
	fileSize = origHeader.Size
	// парсинг ватермарка если есть
	var wmCType string
	var wmSize int64
	wmFile, wmHeader, err := ctx.Request.FormFile("watermark")
	if err != nil {
		// watermark опционален
		wmFile = nil
	} else {
		wmCType = wmHeader.Header.Get("Content-Type")
		wmSize = wmHeader.Size
		defer closeFileFlow(wmFile)
	}

	// собираем все в структуру
	var newTaskRaw model.TaskCreateData
	newTaskRaw.Operation = operation
	newTaskRaw.Params = params
	newTaskRaw.OrigFile = origFile
	newTaskRaw.OrigContentType = origCType
	newTaskRaw.OrigFileSize = fileSize
	newTaskRaw.WMImg = wmFile
	newTaskRaw.WMContentType = wmCType
	newTaskRaw.WMImgSize = wmSize

	// передаем в сервис
	res, err := h.service.Create(ctx.Request.Context(), &newTaskRaw)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(201, res)
}

func (h TaskHandler) GetAllTasks(ctx *ginext.Context) {
	var req model.ListRequest

	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(400, map[string]string{"error": "failed to parse query-params"})
		return
	}

	res, err := h.service.GetList(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h TaskHandler) GetTask(ctx *ginext.Context) {
	id := ctx.Param("id")

	res, err := h.service.Get(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h TaskHandler) LoadResult(ctx *ginext.Context) {
	id := ctx.Param("id")

	// номер страницы актуален для pdf-задач, для картинок игнорируется
	var page int
	if pageStr := ctx.Request.URL.Query().Get("page"); pageStr != "" {
		page, _ = strconv.Atoi(pageStr)
	}

	res, cType, err := h.service.LoadResult(ctx.Request.Context(), id, page)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}
	defer closeFileFlow(res)

	ctx.Writer.Header().Set("Content-Type", cType)
	ctx.Writer.WriteHeader(200)
	if n, err := io.Copy(ctx.Writer, res); err != nil {
		log.Printf("Failed to write response at byte %d for file id %q: %v", n, id, err)
	}
}

func (h TaskHandler) Delete(ctx *ginext.Context) {
	id := ctx.Param("id")
	if err := h.service.Delete(ctx.Request.Context(), id); err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.Status(204)
}
