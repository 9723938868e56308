package synthesia

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gabriel-vasile/mimetype"

	"github.com/petal-labs/reel/core"
	"github.com/petal-labs/reel/internal/normalize"
)

const assetsPath = "/assets"

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

// Assets groups the asset upload endpoint. Obtain it with Client.Assets.
type Assets struct {
	client *Client
}

// Upload sends raw media bytes to the upload host.
func (a *Assets) Upload(ctx context.Context, req *UploadAssetRequest) core.Result[*Asset] {
	if err := validateRequest(req); err != nil {
		return core.Err[*Asset](err)
	}

	body := req.Body
	contentType := req.ContentType
	if contentType == "" {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(req.Body, head)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return core.Err[*Asset](normalize.ValidationError("reading asset: "+err.Error(), nil))
		}
		head = head[:n]
		contentType = mimetype.Detect(head).String()
		body = io.MultiReader(bytes.NewReader(head), req.Body)
	}

	query := url.Values{}
	if req.Title != "" {
		query.Set("title", req.Title)
	}
	return Do[*Asset](ctx, a.client, "assets.upload", Request{
		Method:  http.MethodPost,
		Path:    assetsPath,
		RawBody: body,
		Query:   query,
		Headers: http.Header{"Content-Type": []string{contentType}},
		Upload:  true,
	})
}
