// Package model provides data-structs for internal app-usage
package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

type (
	Status     string
	Operation  string
	SourceKind string
)

const (
	StatusCreated    Status = "created"
	StatusInProgress Status = "in_progress"
	StatusFailed     Status = "failed"
	StatusDone       Status = "done"
)

var StatusMap = map[Status]bool{
	StatusCreated:    true,
	StatusInProgress: true,
	StatusFailed:     true,
	StatusDone:       true,
}

const (
	OpResize        Operation = "resize"
	OpThumbNail     Operation = "thumbnail"
	OpCompress      Operation = "compress"
	OpWaterMark     Operation = "watermark"
	OpWaterMarkText Operation = "watermark_text"
	OpWaterMarkTile Operation = "watermark_text_tiled"
)

var OperationsMap = map[Operation]bool{
	OpResize:        true,
	OpThumbNail:     true,
	OpCompress:      true,
	OpWaterMark:     true,
	OpWaterMarkText: true,
	OpWaterMarkTile: true,
}

// WatermarkOpsMap lists the operations that stamp something onto the source.
var WatermarkOpsMap = map[Operation]bool{
	OpWaterMark:     true,
	OpWaterMarkText: true,
	OpWaterMarkTile: true,
}

const (
	SourceImage SourceKind = "image"
	SourcePDF   SourceKind = "pdf"
)

//---------------------

// Task is one processing request through its whole lifecycle.
type Task struct {
	UID          uuid.UUID   `json:"uid"`
	SourceKey    string      `json:"-"`
	WatermarkKey string      `json:"-"`
	ResultKeys   StringSlice `json:"-"`
	SourceKind   SourceKind  `json:"source_kind"`
	Operation    Operation   `json:"operation"`
	Params       TaskParams  `json:"params"`
	PageCount    int         `json:"page_count,omitempty"`
	Status       Status      `json:"status,omitempty"`
	ErrMsg       StringSlice `json:"error,omitempty"`
	CreatedAt    *time.Time  `json:"created_at,omitempty"`
	UpdatedAt    *time.Time  `json:"updated_at,omitempty"`
}

//-------------------

type ListRequest struct {
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
	Sort  string `form:"sort"`
	Order string `form:"order"`
}

const (
	ByUUID    = "uid"
	ByCreated = "created"
	OrderASC  = "ascend"
	OrderDESC = "descend"
)

// TaskCreateData carries a parsed multipart upload into the service layer.
type TaskCreateData struct {
	Operation       string
	Params          TaskParams
	OrigFile        multipart.File
	OrigContentType string
	OrigFileSize    int64
	WMImg           multipart.File
	WMContentType   string
	WMImgSize       int64
}

// ------------------

var (
	ErrCommon500           error = errors.New("something went wrong. Try again later")     // 500
	ErrIncorrectQuery      error = errors.New("incorrect query parameters")                // 400
	ErrIncorrectID         error = errors.New("incorrect task UUID")                       // 400
	ErrTaskNotFound        error = errors.New("specified task UUID doesn't exist")         // 404
	ErrResultNotReady      error = errors.New("requested task is not processed yet")       // 404
	ErrIncorrectOp         error = errors.New("operation is not supported")                // 400
	ErrEmptySource         error = errors.New("empty/incorrect source file provided")      // 400
	ErrEmptyWMark          error = errors.New("empty/incorrect watermark provided")        // 400
	ErrIncorrectAxis       error = errors.New("incorrect axis values provided")            // 400
	ErrIncorrectStatus     error = errors.New("incorrect status provided")                 // 400
	ErrUnsupportedWMFormat error = errors.New("unsupported watermark-image format")        // 400
	ErrUnsupportedFormat   error = errors.New("unsupported base image format")             // 400
	ErrEmptyText           error = errors.New("watermark text is empty")                   // 400
	ErrIncorrectPosition   error = errors.New("unknown watermark position")                // 400
	ErrIncorrectFraction   error = errors.New("opacity/spacing/scale value is out of range") // 400
	ErrIncorrectFill       error = errors.New("fill color must be #rgb or #rrggbb hex")    // 400
	ErrIncorrectQuality    error = errors.New("jpeg quality must be within 1..100")        // 400
	ErrCorruptedPDF        error = errors.New("provided file is not a well-formed pdf")    // 400
	ErrPageOutOfRange      error = errors.New("requested page is out of range")            // 400
)

//--------------------

const (
	JPEG = "image/jpeg"
	PNG  = "image/png"
	GIF  = "image/gif"
	PDF  = "application/pdf"
)

var GetSourceFileExt = map[string]string{
	JPEG: ".jpg",
	PNG:  ".png",
	GIF:  ".gif",
	PDF:  ".pdf",
}

var InImageTypeMap = map[string]bool{
	JPEG: true,
	PNG:  true,
	GIF:  true,
}

var InSourceTypeMap = map[string]bool{
	JPEG: true,
	PNG:  true,
	GIF:  true,
	PDF:  true,
}

var GetCType = map[imaging.Format]string{
	imaging.JPEG: JPEG,
	imaging.GIF:  GIF,
	imaging.PNG:  PNG,
}

//--------------------

type StringSlice []string

func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = []string{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("invalid type for StringSlice")
	}

	if err := json.Unmarshal(b, s); err != nil {
		return fmt.Errorf("failed to unmarshal JSONB to []StringSlice: %w", err)
	}
	return nil
}

func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 || s == nil {
		return []byte(`[]`), nil
	}
	res, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal []StringSlice to JSONB: %w", err)
	}

	return res, nil
}
