package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Processing defaults applied when a task omits the corresponding knob.
const (
	DefaultPosition = "bottom-right"
	DefaultOpacity  = 0.8
	DefaultAngle    = 45.0
	DefaultSpacing  = 1.5
	DefaultScale    = 0.2
	DefaultFontSize = 36
	DefaultQuality  = 85
)

// TaskParams carries the per-operation knobs; stored as one JSONB column.
// Fraction fields are pointers so an explicit zero survives the trip through
// the queue and the database.
type TaskParams struct {
	X        *int     `json:"x,omitempty"`
	Y        *int     `json:"y,omitempty"`
	MaxSize  int      `json:"max_size,omitempty"`
	Quality  int      `json:"quality,omitempty"`
	Text     string   `json:"text,omitempty"`
	Position string   `json:"position,omitempty"`
	FontSize int      `json:"font_size,omitempty"`
	Fill     string   `json:"fill,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`
	Angle    *float64 `json:"angle,omitempty"`
	Spacing  *float64 `json:"spacing,omitempty"`
	Scale    *float64 `json:"scale,omitempty"`
}

func (p TaskParams) OpacityOr(def float64) float64 {
	if p.Opacity == nil {
		return def
	}
	return *p.Opacity
}

func (p TaskParams) AngleOr(def float64) float64 {
	if p.Angle == nil {
		return def
	}
	return *p.Angle
}

func (p TaskParams) SpacingOr(def float64) float64 {
	if p.Spacing == nil {
		return def
	}
	return *p.Spacing
}

func (p TaskParams) ScaleOr(def float64) float64 {
	if p.Scale == nil {
		return def
	}
	return *p.Scale
}

func (p TaskParams) QualityOr(def int) int {
	if p.Quality <= 0 {
		return def
	}
	return p.Quality
}

func (p TaskParams) FontSizeOr(def int) int {
	if p.FontSize <= 0 {
		return def
	}
	return p.FontSize
}

func (p TaskParams) PositionOr(def string) string {
	if p.Position == "" {
		return def
	}
	return p.Position
}

func (p *TaskParams) Scan(value any) error {
	if value == nil {
		*p = TaskParams{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("invalid type for TaskParams")
	}

	if err := json.Unmarshal(b, p); err != nil {
		return fmt.Errorf("failed to unmarshal JSONB to TaskParams: %w", err)
	}
	return nil
}

func (p TaskParams) Value() (driver.Value, error) {
	res, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TaskParams to JSONB: %w", err)
	}

	return res, nil
}
