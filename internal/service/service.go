// Package service provides business-logic for the app
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/retry"

	"github.com/pixelforge/stampd/internal/metrics"
	"github.com/pixelforge/stampd/internal/model"
	"github.com/pixelforge/stampd/internal/mwlogger"
	"github.com/pixelforge/stampd/internal/repository"
)

type TaskService struct {
	repo         repository.TaskRepo
	publisher    TaskPublisher
	storage      FileStorage
	pdf          PDFInspector
	srcKeyPrefix string
	wmKeyPrefix  string
}

func NewTaskService(cfg *config.Config, taskRep repository.TaskRepo, pub TaskPublisher, strg FileStorage, pdf PDFInspector) *TaskService {
	s := &TaskService{
		repo:         taskRep,
		publisher:    pub,
		storage:      strg,
		pdf:          pdf,
		srcKeyPrefix: "src/",
		wmKeyPrefix:  "wm/",
	}
	if cfg != nil {
		if v := cfg.GetString("SRC_KEY_PREFIX"); v != "" {
			s.srcKeyPrefix = v
		}
		if v := cfg.GetString("WM_KEY_PREFIX"); v != "" {
			s.wmKeyPrefix = v
		}
	}
	return s
}

// TaskPublisher - контракт для работы с очередью
type TaskPublisher interface {
	SendWithRetry(ctx context.Context, strategy retry.Strategy, key []byte, v []byte) error
}

// FileStorage - контракт для работы с хранилищем
type FileStorage interface {
	Delete(ctx context.Context, uid string) error
	Get(ctx context.Context, key string) (output io.ReadCloser, ctype string, err error)
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
}

// PDFInspector - контракт структурной проверки pdf при загрузке
type PDFInspector interface {
	PageCount(rs io.ReadSeeker) (int, error)
}

// Стратегия ретрая отправки в очередь - можно потом вынести значения в конфиг/env
var retryStrategy = retry.Strategy{
	Attempts: 5,
	Delay:    3 * time.Second,
	Backoff:  1.5,
}

func (c TaskService) Create(ctx context.Context, taskData *model.TaskCreateData) (*model.Task, error) {
	logger := mwlogger.LoggerFromContext(ctx)
	newTask := &model.Task{}

	// Валидируем операцию и параметры
	if err := validateNormalizeTaskInfo(taskData, newTask); err != nil {
		return nil, err
	}

	// для pdf считаем страницы - заодно это структурная проверка файла
	if newTask.SourceKind == model.SourcePDF {
		n, err := c.pdf.PageCount(taskData.OrigFile)
		if err != nil {
			logger.Error().Err(err).Msg("Uploaded pdf failed structural check")
			return nil, model.ErrCorruptedPDF
		}
		newTask.PageCount = n

		if _, err := taskData.OrigFile.Seek(0, io.SeekStart); err != nil {
			logger.Error().Err(err).Msg("Failed to rewind pdf upload")
			return nil, model.ErrCommon500
		}
	}

	// генерируем UUID
	newTask.UID = uuid.New()

	// кладем в хранилище сорсник
	newTask.SourceKey = c.srcKeyPrefix + newTask.UID.String() + model.GetSourceFileExt[taskData.OrigContentType]

	if err := c.storage.Put(ctx, newTask.SourceKey, taskData.OrigFileSize, taskData.OrigContentType, taskData.OrigFile); err != nil {
		logger.Error().Err(err).Msg("Failed to save source file in Storage")
		return nil, model.ErrCommon500
	}

	// кладем в хранилище ватермарк - если надо по типу операции
	if newTask.Operation == model.OpWaterMark {
		newTask.WatermarkKey = c.wmKeyPrefix + newTask.UID.String() + model.GetSourceFileExt[taskData.WMContentType]

		if err := c.storage.Put(ctx, newTask.WatermarkKey, taskData.WMImgSize, taskData.WMContentType, taskData.WMImg); err != nil {
			logger.Error().Err(err).Msg("Failed to save watermark in Storage")
			return nil, model.ErrCommon500
		}
	}

	// ставим статус и таймстамп
	newTask.Status = model.StatusCreated
	now := time.Now().UTC()
	newTask.CreatedAt = &now

	// шлем в базу
	if err := c.repo.Create(ctx, newTask); err != nil {
		logger.Error().Err(err).Msg("Failed to create task in DB")
		return nil, model.ErrCommon500
	}

	// кладем в очередь задач(в кафку)
	if err := c.publisher.SendWithRetry(ctx, retryStrategy, []byte(newTask.UID.String()), nil); err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to publish task %q to task-queue", newTask.UID))
		return nil, model.ErrCommon500
	}

	metrics.TasksCreated.WithLabelValues(string(newTask.Operation)).Inc()
	return newTask, nil
}

func (c TaskService) GetList(ctx context.Context, req *model.ListRequest) ([]model.Task, error) {
	logger := mwlogger.LoggerFromContext(ctx)
	validateQueryParams(req)

	res, err := c.repo.GetList(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch all tasks list from DB")
		return nil, model.ErrCommon500
	}

	return res, nil
}

func (c TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	logger := mwlogger.LoggerFromContext(ctx)
	if err := uuid.Validate(id); err != nil {
		return nil, model.ErrIncorrectID
	}

	res, err := c.repo.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, model.ErrTaskNotFound // 404
		default:
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch task %q from DB", id))
			return nil, model.ErrCommon500
		}
	}

	return res, nil
}

// LoadResult streams one result object. Page is 1-based; 0 means the first
// page, anything past the produced results is out of range.
func (c TaskService) LoadResult(ctx context.Context, id string, page int) (io.ReadCloser, string, error) {
	logger := mwlogger.LoggerFromContext(ctx)
	if err := uuid.Validate(id); err != nil {
		return nil, "", model.ErrIncorrectID
	}

	res, err := c.repo.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, "", model.ErrTaskNotFound // 404
		default:
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch task %q from DB", id))
			return nil, "", model.ErrCommon500
		}
	}
	if res.Status != model.StatusDone {
		return nil, "", model.ErrResultNotReady
	}

	if page == 0 {
		page = 1
	}
	if page < 1 || page > len(res.ResultKeys) {
		return nil, "", model.ErrPageOutOfRange
	}

	// достаем из хранилища
	data, cType, err := c.storage.Get(ctx, res.ResultKeys[page-1])
	if err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch result %q page %d from Storage", id, page))
		return nil, "", model.ErrCommon500
	}
	return data, cType, nil
}

func (c TaskService) Delete(ctx context.Context, id string) error {
	logger := mwlogger.LoggerFromContext(ctx)
	if err := uuid.Validate(id); err != nil {
		return model.ErrIncorrectID
	}

	// читаем из базы
	res, err := c.repo.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return model.ErrTaskNotFound // 404
		default:
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch task %q from DB", id))
			return model.ErrCommon500
		}
	}

	// удаляем из базы
	if err := c.repo.Delete(ctx, id); err != nil {
		logger.Error().Err(err).Msg("Failed to delete task from DB")
		return model.ErrCommon500
	}

	// удаляем из хранилища сорсник, результаты и ватермарк(если они есть)
	if err := c.storage.Delete(ctx, res.SourceKey); err != nil {
		logger.Error().Err(err).Msg("Failed to delete source file from Storage")
		return model.ErrCommon500
	}
	for _, key := range res.ResultKeys {
		if err := c.storage.Delete(ctx, key); err != nil {
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to delete result %q from Storage", key))
			return model.ErrCommon500
		}
	}
	if res.Operation == model.OpWaterMark {
		if err := c.storage.Delete(ctx, res.WatermarkKey); err != nil {
			logger.Error().Err(err).Msg("Failed to delete watermark from Storage")
			return model.ErrCommon500
		}
	}

	return nil
}

func (c TaskService) UpdateStatus(ctx context.Context, id string, newStat model.Status) error {
	if err := uuid.Validate(id); err != nil {
		return model.ErrIncorrectID
	}

	logger := mwlogger.LoggerFromContext(ctx)

	if err := c.repo.UpdateStatus(ctx, id, newStat); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return model.ErrTaskNotFound // 404
		default:
			logger.Error().Err(err).Msg("Failed to update task status in DB")
			return model.ErrCommon500 // 500
		}
	}

	return nil
}

func (c TaskService) SaveResult(ctx context.Context, input *model.Task) error {
	logger := mwlogger.LoggerFromContext(ctx)
	t := time.Now().UTC()
	input.UpdatedAt = &t
	if err := c.repo.SaveResult(ctx, input); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return model.ErrTaskNotFound // 404
		default:
			logger.Error().Err(err).Msg("Failed to save task result in DB")
			return model.ErrCommon500 // 500
		}
	}

	return nil
}

func (c TaskService) ReviveOrphans(ctx context.Context, limit int) {
	logger := mwlogger.LoggerFromContext(ctx)

	orphans, err := c.repo.FetchOrphans(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load orphans from DB")
		return
	}

	for _, v := range orphans {
		if err := c.publisher.SendWithRetry(ctx, retryStrategy, []byte(v), nil); err != nil {
			logger.Error().Err(err).Msg("Failed to publish orphan to queue")
		}
	}
}
