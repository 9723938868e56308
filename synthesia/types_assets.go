package synthesia

import "io"

// Asset is an uploaded media file that can be referenced from a video input.
type Asset struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
}

// UploadAssetRequest uploads raw media bytes.
// When ContentType is empty it is detected from the first bytes of Body.
type UploadAssetRequest struct {
	Body        io.Reader `json:"-" validate:"required"`
	ContentType string    `json:"-"`
	Title       string    `json:"-"`
}
