package service

import (
	"fmt"
	"strings"

	"github.com/pixelforge/stampd/internal/model"
	"github.com/pixelforge/stampd/internal/stamp"
)

func validateQueryParams(req *model.ListRequest) {
	// Обрабатываем пустые значения, присваиваем дефолты если надо
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 30
	}
	if req.Sort == "" {
		req.Sort = model.ByCreated
	}
	if req.Order == "" {
		req.Order = model.OrderDESC
	}

	// Валидируем непустое поле типа сортировки
	req.Sort = strings.ToLower(req.Sort)
	req.Sort = strings.TrimSpace(req.Sort)
	switch {
	case strings.Contains(req.Sort, model.ByUUID):
		req.Sort = "task_uid"
	case strings.Contains(req.Sort, model.ByCreated):
		req.Sort = "created_at"
	default:
		req.Sort = "created_at" // по дефолту ставим сортировку по времени создания
	}

	// Валидируем непустой порядок
	req.Order = strings.ToLower(req.Order)
	req.Order = strings.TrimSpace(req.Order)
	switch {
	case strings.Contains(req.Order, model.OrderASC):
		req.Order = "ASC"
	case strings.Contains(req.Order, model.OrderDESC):
		req.Order = "DESC"
	default:
		req.Order = "DESC" // по дефолту ставим сортировку "новое-выше"
	}
}

func validateNormalizeTaskInfo(raw *model.TaskCreateData, clean *model.Task) error {
	// корректно ли указана операция
	clean.Operation = model.Operation(raw.Operation)
	if !model.OperationsMap[clean.Operation] {
		return model.ErrIncorrectOp
	}

	// корректен ли исходник
	if raw.OrigFile == nil || raw.OrigFileSize <= 0 || !model.InSourceTypeMap[raw.OrigContentType] {
		return model.ErrEmptySource
	}

	clean.SourceKind = model.SourcePDF
	if model.InImageTypeMap[raw.OrigContentType] {
		clean.SourceKind = model.SourceImage
	}

	// файл ватермарка нужен только для операции watermark, и только png
	if clean.Operation == model.OpWaterMark && (raw.WMImg == nil || raw.WMImgSize <= 0 || raw.WMContentType != model.PNG) {
		return model.ErrEmptyWMark
	}

	clean.Params = raw.Params

	return validateNormalizeParams(clean)
}

func validateNormalizeParams(input *model.Task) error {
	p := &input.Params

	// качество кодирования применимо к любой операции
	if p.Quality == 0 {
		p.Quality = model.DefaultQuality
	}
	if p.Quality < 1 || p.Quality > 100 {
		return model.ErrIncorrectQuality
	}

	switch input.Operation { // проверка согласно самой операции
	case model.OpResize: // допустимо что одно значение нулевое/нуловое
		if (p.X == nil || 0 >= *p.X) &&
			(p.Y == nil || 0 >= *p.Y) {
			return model.ErrIncorrectAxis
		}
	case model.OpThumbNail: // результат должен быть x==y
		if err := normalizeAxisThumbnail(input); err != nil {
			return err
		}
	case model.OpCompress:
		if p.MaxSize < 0 {
			return model.ErrIncorrectAxis
		}
	case model.OpWaterMark:
		if err := normalizePlacement(p); err != nil {
			return err
		}
		if err := normalizeOpacity(p); err != nil {
			return err
		}
		if err := normalizeScale(p); err != nil {
			return err
		}
	case model.OpWaterMarkText:
		if err := normalizeText(p); err != nil {
			return err
		}
		if err := normalizePlacement(p); err != nil {
			return err
		}
		if err := normalizeOpacity(p); err != nil {
			return err
		}
	case model.OpWaterMarkTile:
		if err := normalizeText(p); err != nil {
			return err
		}
		if err := normalizeOpacity(p); err != nil {
			return err
		}
		if err := normalizeSpacing(p); err != nil {
			return err
		}
		if p.Angle == nil {
			v := model.DefaultAngle
			p.Angle = &v
		}
	}
	return nil
}

func normalizeAxisThumbnail(input *model.Task) error {
	p := &input.Params
	x, y := 0, 0
	if p.X != nil {
		x = *p.X
	}
	if p.Y != nil {
		y = *p.Y
	}

	switch {
	case x <= 0 && y <= 0: // кейс: обе оси - нули
		return model.ErrIncorrectAxis
	case x <= 0: // кейс: одна из осей равна нулю - берем значение другой
		x = y
		input.ErrMsg = append(input.ErrMsg, fmt.Sprintf("X-axis incorrect value: using Y-axis value %d for generating thumbnail", y))
	case y <= 0:
		y = x
		input.ErrMsg = append(input.ErrMsg, fmt.Sprintf("Y-axis incorrect value: using X-axis value %d for generating thumbnail", x))
	}

	// кейс: неодинаковые значения - берем меньшее
	if x != y {
		smaller := min(x, y)
		input.ErrMsg = append(input.ErrMsg, fmt.Sprintf("Axis values must be equal for thumbnail: using smaller value %d", smaller))
		x, y = smaller, smaller
	}

	p.X, p.Y = &x, &y
	return nil
}

func normalizeText(p *model.TaskParams) error {
	p.Text = strings.TrimSpace(p.Text)
	if p.Text == "" {
		return model.ErrEmptyText
	}

	if p.FontSize < 0 {
		return model.ErrIncorrectQuery
	}
	if p.FontSize == 0 {
		p.FontSize = model.DefaultFontSize
	}

	if _, err := stamp.ParseFill(p.Fill); err != nil {
		return model.ErrIncorrectFill
	}
	return nil
}

func normalizePlacement(p *model.TaskParams) error {
	if p.Position == "" {
		p.Position = model.DefaultPosition
	}
	if !stamp.Position(p.Position).Known() {
		return model.ErrIncorrectPosition
	}
	return nil
}

func normalizeOpacity(p *model.TaskParams) error {
	if p.Opacity == nil {
		v := model.DefaultOpacity
		p.Opacity = &v
	}
	if *p.Opacity < 0 || *p.Opacity > 1 {
		return model.ErrIncorrectFraction
	}
	return nil
}

func normalizeScale(p *model.TaskParams) error {
	if p.Scale == nil {
		v := model.DefaultScale
		p.Scale = &v
	}
	if *p.Scale <= 0 || *p.Scale > 1 {
		return model.ErrIncorrectFraction
	}
	return nil
}

func normalizeSpacing(p *model.TaskParams) error {
	if p.Spacing == nil {
		v := model.DefaultSpacing
		p.Spacing = &v
	}
	if *p.Spacing <= 0 {
		return model.ErrIncorrectFraction
	}
	return nil
}
