package synthesia

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/petal-labs/reel/core"
)

// videosPath is the API endpoint for videos.
const videosPath = "/videos"

// Videos groups the video endpoints. Obtain it with Client.Videos.
type Videos struct {
	client *Client
}

// Create starts rendering a new video.
func (v *Videos) Create(ctx context.Context, req *CreateVideoRequest) core.Result[*Video] {
	if err := validateRequest(req); err != nil {
		return core.Err[*Video](err)
	}
	return Do[*Video](ctx, v.client, "videos.create", Request{
		Method: http.MethodPost,
		Path:   videosPath,
		Body:   req,
	})
}

// CreateFromTemplate starts rendering a video from a template.
// Visibility defaults to private.
func (v *Videos) CreateFromTemplate(ctx context.Context, req *CreateFromTemplateRequest) core.Result[*Video] {
	if err := validateRequest(req); err != nil {
		return core.Err[*Video](err)
	}
	body := *req
	if body.Visibility == "" {
		body.Visibility = VisibilityPrivate
	}
	return Do[*Video](ctx, v.client, "videos.create_from_template", Request{
		Method: http.MethodPost,
		Path:   videosPath + "/fromTemplate",
		Body:   &body,
	})
}

// List returns one page of videos. req may be nil.
func (v *Videos) List(ctx context.Context, req *ListVideosRequest) core.Result[*VideoList] {
	query := url.Values{}
	if req != nil {
		if err := validateRequest(req); err != nil {
			return core.Err[*VideoList](err)
		}
		if req.Limit > 0 {
			query.Set("limit", strconv.Itoa(req.Limit))
		}
		if req.Offset > 0 {
			query.Set("offset", strconv.Itoa(req.Offset))
		}
		for _, s := range req.Source {
			query.Add("source", s)
		}
	}
	return Do[*VideoList](ctx, v.client, "videos.list", Request{
		Method: http.MethodGet,
		Path:   videosPath,
		Query:  query,
	})
}

// Get returns a video by ID.
func (v *Videos) Get(ctx context.Context, id string) core.Result[*Video] {
	if err := requireID("videoId", id); err != nil {
		return core.Err[*Video](err)
	}
	return Do[*Video](ctx, v.client, "videos.get", Request{
		Method: http.MethodGet,
		Path:   videosPath + "/" + url.PathEscape(id),
	})
}

// Update changes the metadata of a video.
func (v *Videos) Update(ctx context.Context, id string, req *UpdateVideoRequest) core.Result[*Video] {
	if err := requireID("videoId", id); err != nil {
		return core.Err[*Video](err)
	}
	if err := validateRequest(req); err != nil {
		return core.Err[*Video](err)
	}
	return Do[*Video](ctx, v.client, "videos.update", Request{
		Method: http.MethodPatch,
		Path:   videosPath + "/" + url.PathEscape(id),
		Body:   req,
	})
}

// Delete deletes a video.
func (v *Videos) Delete(ctx context.Context, id string) core.Result[DeleteResult] {
	if err := requireID("videoId", id); err != nil {
		return core.Err[DeleteResult](err)
	}
	res := Do[DeleteResult](ctx, v.client, "videos.delete", Request{
		Method: http.MethodDelete,
		Path:   videosPath + "/" + url.PathEscape(id),
	})
	return withDeletedID(res, id)
}

// WaitForCompletion polls the video until it is complete or failed.
// A failed video is returned as a value; check its Status.
func (v *Videos) WaitForCompletion(ctx context.Context, id string, cfg core.PollConfig) (*Video, error) {
	return core.Poll[*Video](ctx, v.Get, id, cfg)
}

// requireID rejects empty path identifiers before they produce a request to the collection URL.
func requireID(field, id string) *core.APIError {
	if id == "" {
		return validationFailure(field, "is required")
	}
	return nil
}

// withDeletedID fills in the ID of a delete whose response had no body.
func withDeletedID(res core.Result[DeleteResult], id string) core.Result[DeleteResult] {
	return core.MapResult(res, func(d DeleteResult) DeleteResult {
		if d.ID == "" {
			d.ID = id
		}
		return d
	})
}
