package synthesia

// Template is a reusable video layout with named variables.
type Template struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	Variables     []TemplateVariable `json:"variables,omitempty"`
	CreatedAt     int64              `json:"createdAt,omitempty"`
	LastUpdatedAt int64              `json:"lastUpdatedAt,omitempty"`
}

// TemplateVariable is a placeholder filled by CreateFromTemplateRequest.TemplateData.
type TemplateVariable struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type,omitempty"`
}

// TemplateList is one page of templates.
type TemplateList struct {
	Templates  []Template `json:"templates"`
	NextOffset *int       `json:"nextOffset,omitempty"`
}

// ListTemplatesRequest pages through templates.
type ListTemplatesRequest struct {
	Limit  int `validate:"gte=0,lte=100"`
	Offset int `validate:"gte=0"`
}
