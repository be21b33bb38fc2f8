package transport

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/pixelforge/stampd/internal/model"
	"github.com/wb-go/wbf/ginext"
)

func errorCodeDefiner(err error) int {
	switch {
	case errors.Is(err, model.ErrCommon500):
		return 500
	case errors.Is(err, model.ErrTaskNotFound),
		errors.Is(err, model.ErrResultNotReady):
		return 404
	case errors.Is(err, model.ErrIncorrectQuery),
		errors.Is(err, model.ErrIncorrectID),
		errors.Is(err, model.ErrIncorrectOp),
		errors.Is(err, model.ErrEmptySource),
		errors.Is(err, model.ErrEmptyWMark),
		errors.Is(err, model.ErrEmptyText),
		errors.Is(err, model.ErrIncorrectAxis),
		errors.Is(err, model.ErrIncorrectStatus),
		errors.Is(err, model.ErrIncorrectPosition),
		errors.Is(err, model.ErrIncorrectFraction),
		errors.Is(err, model.ErrIncorrectFill),
		errors.Is(err, model.ErrIncorrectQuality),
		errors.Is(err, model.ErrCorruptedPDF),
		errors.Is(err, model.ErrPageOutOfRange),
		errors.Is(err, model.ErrUnsupportedWMFormat),
		errors.Is(err, model.ErrUnsupportedFormat):
		return 400
	default:
		return 500
	}
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		log.Println("Handler failed to close fileflow:", err)
	}
}

// parseTaskParams reads operation parameters from the multipart form.
// Integer fields follow the "best effort" rule: garbage becomes zero and the
// service layer decides whether zero is acceptable. Float fields are rejected
// outright because zero is a meaningful opacity/scale value.
func parseTaskParams(ctx *ginext.Context) (model.TaskParams, error) {
	var p model.TaskParams

	// конвертация осей в int если они есть
	if s := ctx.PostForm("x_axis"); s != "" {
		val, _ := strconv.Atoi(s)
		p.X = &val
	}
	if s := ctx.PostForm("y_axis"); s != "" {
		val, _ := strconv.Atoi(s)
		p.Y = &val
	}
	if s := ctx.PostForm("max_size"); s != "" {
		p.MaxSize, _ = strconv.Atoi(s)
	}
	if s := ctx.PostForm("quality"); s != "" {
		p.Quality, _ = strconv.Atoi(s)
	}
	if s := ctx.PostForm("font_size"); s != "" {
		p.FontSize, _ = strconv.Atoi(s)
	}

	p.Text = ctx.PostForm("text")
	p.Position = ctx.PostForm("position")
	p.Fill = ctx.PostForm("fill")

	var err error
	if p.Opacity, err = formFloat(ctx, "opacity"); err != nil {
		return p, err
	}
	if p.Angle, err = formFloat(ctx, "angle"); err != nil {
		return p, err
	}
	if p.Spacing, err = formFloat(ctx, "spacing"); err != nil {
		return p, err
	}
	if p.Scale, err = formFloat(ctx, "scale"); err != nil {
		return p, err
	}

	return p, nil
}

func formFloat(ctx *ginext.Context, name string) (*float64, error) {
	s := ctx.PostForm(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &v, nil
}
