package synthesia

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/petal-labs/reel/core"
)

const templatesPath = "/templates"

// Templates groups the template endpoints. Obtain it with Client.Templates.
type Templates struct {
	client *Client
}

// List returns one page of templates. req may be nil.
func (t *Templates) List(ctx context.Context, req *ListTemplatesRequest) core.Result[*TemplateList] {
	query := url.Values{}
	if req != nil {
		if err := validateRequest(req); err != nil {
			return core.Err[*TemplateList](err)
		}
		if req.Limit > 0 {
			query.Set("limit", strconv.Itoa(req.Limit))
		}
		if req.Offset > 0 {
			query.Set("offset", strconv.Itoa(req.Offset))
		}
	}
	return Do[*TemplateList](ctx, t.client, "templates.list", Request{
		Method: http.MethodGet,
		Path:   templatesPath,
		Query:  query,
	})
}

// Get returns a template by ID.
func (t *Templates) Get(ctx context.Context, id string) core.Result[*Template] {
	if err := requireID("templateId", id); err != nil {
		return core.Err[*Template](err)
	}
	return Do[*Template](ctx, t.client, "templates.get", Request{
		Method: http.MethodGet,
		Path:   templatesPath + "/" + url.PathEscape(id),
	})
}
