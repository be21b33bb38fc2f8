// Package worker contains methods for worker to init at start, and to process tasks
package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	kafkago "github.com/segmentio/kafka-go"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
	"golang.org/x/image/font"

	"github.com/pixelforge/stampd/internal/fontkit"
	"github.com/pixelforge/stampd/internal/imageproc"
	"github.com/pixelforge/stampd/internal/metrics"
	"github.com/pixelforge/stampd/internal/model"
	"github.com/pixelforge/stampd/internal/pdfrender"
	"github.com/pixelforge/stampd/internal/service"
	"github.com/pixelforge/stampd/internal/stamp"
)

// NoopPublisher - ЗАГЛУШКА, функциональность настоящего паблишера в очередь не нужна в рамках работы воркера
type NoopPublisher struct{}

func (NoopPublisher) SendWithRetry(ctx context.Context, strategy retry.Strategy, key []byte, v []byte) error {
	return nil
}

type TaskWorkerService interface { // дублируется из cmd/worker - может вынести такие структуры/контракты в отдельный пакет(не model)?
	UpdateStatus(ctx context.Context, id string, newStat model.Status) error
	SaveResult(ctx context.Context, res *model.Task) error
	Get(ctx context.Context, id string) (*model.Task, error)
}

// PageRenderer turns a pdf stream into raster pages, one image per page.
type PageRenderer interface {
	RenderPages(ctx context.Context, pdf io.Reader) ([]pdfrender.Page, error)
}

type Worker struct {
	storage      service.FileStorage
	service      TaskWorkerService
	rasterizer   PageRenderer
	fonts        fontkit.Source
	queue        <-chan kafkago.Message
	consumer     *wbfkafka.Consumer
	resultPrefix string
}

func NewWorkerInstance(strg service.FileStorage, svc TaskWorkerService, rast PageRenderer, fonts fontkit.Source, q <-chan kafkago.Message, cons *wbfkafka.Consumer, resPr string) *Worker {
	return &Worker{storage: strg, service: svc, rasterizer: rast, fonts: fonts, queue: q, consumer: cons, resultPrefix: resPr}
}

func (w *Worker) StartWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-w.queue:
			if !ok {
				log.Println("Queue channel closed, stopping worker...")
				return
			}
			id := string(msg.Key)
			if err := w.initProcessor(ctx, id); err != nil && !errors.Is(err, model.ErrTaskNotFound) {
				log.Printf("Task %s failed: %v", id, err)
				continue
			}
			if err := w.consumer.Commit(ctx, msg); err != nil {
				log.Printf("Failed to commit queue-message: %v", err)
			}
		}
	}
}

func (w *Worker) initProcessor(ctx context.Context, id string) error {
	// считать из базы задачу
	task, err := w.service.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("Worker failed to fetch task info %q from DB: %w", id, err)
	}
	// проверить статус
	switch task.Status {
	case model.StatusDone:
		return nil
	case model.StatusInProgress:
		return fmt.Errorf("already in progress")
	}

	// на всякий случай проверить поле с результатами
	if len(task.ResultKeys) > 0 && strings.Contains(task.ResultKeys[0], w.resultPrefix) {
		if err := w.service.UpdateStatus(ctx, id, model.StatusDone); err != nil {
			return fmt.Errorf("failed to update status of already-done task in DB: %w", err)
		}
		return nil
	}

	// обновить статус
	if err := w.service.UpdateStatus(ctx, id, model.StatusInProgress); err != nil {
		return fmt.Errorf("failed to update status of task %q to `in_progress` in DB: %w", id, err)
	}

	// выполняем саму операцию
	start := time.Now()
	var pErr error
	if task.SourceKind == model.SourcePDF {
		pErr = w.processPDFTask(ctx, task)
	} else {
		pErr = w.processImageTask(ctx, task)
	}
	if pErr != nil {
		metrics.TasksProcessed.WithLabelValues(string(task.Operation), string(model.StatusFailed)).Inc()
		if uErr := w.service.UpdateStatus(ctx, id, model.StatusFailed); uErr != nil {
			return fmt.Errorf("failed to set status of task %q to `failed` in DB: %w \nAFTER\n error while processing task: %w", id, uErr, pErr)
		}
		return fmt.Errorf("failed to process task %q: %w", id, pErr)
	}

	metrics.TasksProcessed.WithLabelValues(string(task.Operation), string(model.StatusDone)).Inc()
	metrics.TaskDuration.Observe(time.Since(start).Seconds())
	return nil
}

func (w *Worker) processImageTask(ctx context.Context, task *model.Task) error {
	// достать из storage исходник
	base, _, err := w.storage.Get(ctx, task.SourceKey)
	if err != nil {
		return fmt.Errorf("worker failed to fetch base-image from storage: %w", err)
	}
	defer closeFileFlow(base)

	// ватермарк-картинка нужна только для одной операции
	wmImg, err := w.fetchOverlay(ctx, task)
	if err != nil {
		return err
	}

	// определить формат выходного файла из cType исходника
	pBase, format, err := validateImgFormat(base, false)
	if err != nil {
		return fmt.Errorf("worker failed to validate base-image format: %w", err)
	}

	opts := imageproc.EncodeOptions(task.Params.QualityOr(model.DefaultQuality))

	// выполнить операцию
	var result io.Reader
	var size int64
	switch task.Operation {
	case model.OpResize:
		result, size, err = imageproc.Resizer(pBase, axis(task.Params.X), axis(task.Params.Y), format, opts...)
		if err != nil {
			return fmt.Errorf("worker failed to resize image: %w", err)
		}
	case model.OpThumbNail:
		result, size, err = imageproc.Thumbnailer(pBase, axis(task.Params.X), axis(task.Params.Y), format, opts...)
		if err != nil {
			return fmt.Errorf("worker failed to generate thumbnail from image: %w", err)
		}
	case model.OpCompress:
		result, size, err = imageproc.Compressor(pBase, task.Params.MaxSize, format, opts...)
		if err != nil {
			return fmt.Errorf("worker failed to compress image: %w", err)
		}
	case model.OpWaterMark, model.OpWaterMarkText, model.OpWaterMarkTile:
		wmark, err := w.buildWatermark(task, wmImg)
		if err != nil {
			return fmt.Errorf("worker failed to build watermark: %w", err)
		}
		var applied stamp.Result
		result, size, applied, err = imageproc.Watermarker(pBase, wmark, format, opts...)
		if err != nil {
			return fmt.Errorf("worker failed to apply wm on image: %w", err)
		}
		if applied == stamp.SkippedNoOp {
			task.ErrMsg = append(task.ErrMsg, "watermark skipped: nothing to draw")
		}
	default:
		return model.ErrIncorrectOp
	}

	// положить результат в сторедж если ошибок нет на предыдущем этапе
	resCType := model.GetCType[format]
	resKey := w.resultPrefix + task.UID.String() + model.GetSourceFileExt[resCType]
	if err := w.storage.Put(ctx, resKey, size, resCType, result); err != nil {
		return fmt.Errorf("worker failed to put result image to storage: %w", err)
	}

	task.Status = model.StatusDone
	task.ResultKeys = model.StringSlice{resKey}

	// обновить запись в БД
	if err := w.service.SaveResult(ctx, task); err != nil {
		return fmt.Errorf("worker failed to save result to DB: %w", err)
	}
	return nil
}

func (w *Worker) processPDFTask(ctx context.Context, task *model.Task) error {
	// достать из storage исходник
	base, _, err := w.storage.Get(ctx, task.SourceKey)
	if err != nil {
		return fmt.Errorf("worker failed to fetch base-pdf from storage: %w", err)
	}
	defer closeFileFlow(base)

	wmImg, err := w.fetchOverlay(ctx, task)
	if err != nil {
		return err
	}

	// растеризуем постранично через внешний сервис
	pages, err := w.rasterizer.RenderPages(ctx, base)
	if err != nil {
		return fmt.Errorf("worker failed to rasterize pdf: %w", err)
	}
	metrics.PagesRendered.Add(float64(len(pages)))

	quality := task.Params.QualityOr(model.DefaultQuality)
	keys := make(model.StringSlice, 0, len(pages))
	var skipped bool

	for _, page := range pages {
		out, res, err := w.transformPage(task, page.Image, wmImg)
		if err != nil {
			return fmt.Errorf("worker failed to process pdf page %d: %w", page.Number, err)
		}
		if res == stamp.SkippedNoOp {
			skipped = true
		}

		result, size, err := imageproc.EncodeJPEG(out, quality)
		if err != nil {
			return fmt.Errorf("worker failed to encode pdf page %d: %w", page.Number, err)
		}

		key := w.pageKey(task, page.Number, len(pages))
		if err := w.storage.Put(ctx, key, size, model.JPEG, result); err != nil {
			return fmt.Errorf("worker failed to put result page %d to storage: %w", page.Number, err)
		}
		keys = append(keys, key)
	}

	if skipped {
		task.ErrMsg = append(task.ErrMsg, "watermark skipped: nothing to draw")
	}

	task.Status = model.StatusDone
	task.ResultKeys = keys

	// обновить запись в БД
	if err := w.service.SaveResult(ctx, task); err != nil {
		return fmt.Errorf("worker failed to save result to DB: %w", err)
	}
	return nil
}

// transformPage applies the task operation to a single rasterized page.
func (w *Worker) transformPage(task *model.Task, img image.Image, wmImg image.Image) (image.Image, stamp.Result, error) {
	switch task.Operation {
	case model.OpResize:
		return imageproc.ResizeImage(img, axis(task.Params.X), axis(task.Params.Y)), stamp.Applied, nil
	case model.OpThumbNail:
		return imageproc.ThumbnailImage(img, axis(task.Params.X), axis(task.Params.Y)), stamp.Applied, nil
	case model.OpCompress:
		return imageproc.CompressImage(img, task.Params.MaxSize), stamp.Applied, nil
	case model.OpWaterMark, model.OpWaterMarkText, model.OpWaterMarkTile:
		wmark, err := w.buildWatermark(task, wmImg)
		if err != nil {
			return nil, stamp.SkippedNoOp, fmt.Errorf("worker failed to build watermark: %w", err)
		}
		return imageproc.WatermarkImage(img, wmark)
	default:
		return nil, stamp.SkippedNoOp, model.ErrIncorrectOp
	}
}

// fetchOverlay loads and decodes the watermark image for OpWaterMark tasks.
// Other operations do not need it.
func (w *Worker) fetchOverlay(ctx context.Context, task *model.Task) (image.Image, error) {
	if task.Operation != model.OpWaterMark {
		return nil, nil
	}

	wm, _, err := w.storage.Get(ctx, task.WatermarkKey)
	if err != nil {
		return nil, fmt.Errorf("worker failed to fetch wm-image from storage: %w", err)
	}
	defer closeFileFlow(wm)

	// свалидировать формат ватермарка
	pWm, _, err := validateImgFormat(wm, true)
	if err != nil {
		return nil, fmt.Errorf("worker failed to validate wm-image format: %w", err)
	}

	wmImg, err := imaging.Decode(pWm)
	if err != nil {
		return nil, fmt.Errorf("worker failed to decode wm-image: %w", err)
	}
	return wmImg, nil
}

// buildWatermark assembles the overlay described by the task params.
func (w *Worker) buildWatermark(task *model.Task, wmImg image.Image) (stamp.Watermark, error) {
	p := task.Params

	switch task.Operation {
	case model.OpWaterMark:
		return stamp.ImageStamp{
			Source:   wmImg,
			Position: stamp.Position(p.PositionOr(model.DefaultPosition)),
			Scale:    p.ScaleOr(model.DefaultScale),
			Opacity:  p.OpacityOr(model.DefaultOpacity),
		}, nil
	case model.OpWaterMarkText:
		face, fill, err := w.textAssets(p)
		if err != nil {
			return nil, err
		}
		return stamp.TextSingle{
			Text:     p.Text,
			Position: stamp.Position(p.PositionOr(model.DefaultPosition)),
			Face:     face,
			Fill:     fill,
			Opacity:  p.OpacityOr(model.DefaultOpacity),
		}, nil
	case model.OpWaterMarkTile:
		face, fill, err := w.textAssets(p)
		if err != nil {
			return nil, err
		}
		return stamp.TextTiled{
			Text:    p.Text,
			Face:    face,
			Fill:    fill,
			Opacity: p.OpacityOr(model.DefaultOpacity),
			Angle:   p.AngleOr(model.DefaultAngle),
			Spacing: p.SpacingOr(model.DefaultSpacing),
		}, nil
	default:
		return nil, model.ErrIncorrectOp
	}
}

func (w *Worker) textAssets(p model.TaskParams) (font.Face, *stamp.RGB, error) {
	face, err := w.fonts.Face(float64(p.FontSizeOr(model.DefaultFontSize)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build font face: %w", err)
	}
	fill, err := stamp.ParseFill(p.Fill)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse fill color: %w", err)
	}
	return face, fill, nil
}

// pageKey names result objects; multi-page results carry the page number.
func (w *Worker) pageKey(task *model.Task, page, total int) string {
	ext := model.GetSourceFileExt[model.JPEG]
	if total > 1 {
		return fmt.Sprintf("%s%s_page_%d%s", w.resultPrefix, task.UID, page, ext)
	}
	return w.resultPrefix + task.UID.String() + ext
}

func axis(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func validateImgFormat(r io.ReadCloser, wm bool) (io.Reader, imaging.Format, error) {
	if r == nil {
		return nil, -1, errors.New("nil-reader provided")
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, -1, err
	}

	_, f, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, -1, err
	}

	format, err := imaging.FormatFromExtension(f)
	if err != nil {
		return nil, -1, err
	}

	if wm && format != imaging.PNG {
		return nil, -1, model.ErrUnsupportedWMFormat
	}

	switch format {
	case imaging.PNG, imaging.JPEG, imaging.GIF:
	default:
		return nil, -1, model.ErrUnsupportedFormat
	}

	return bytes.NewReader(data), format, nil
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}

	if err := res.Close(); err != nil {
		log.Println("Worker failed to close fileflow:", err)
	}
}
