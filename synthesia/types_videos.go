package synthesia

// Visibility controls who can watch a video through its share link.
type Visibility string

// Visibility values.
const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// AspectRatio values accepted by CreateVideoRequest.
const (
	AspectRatio16x9 = "16:9"
	AspectRatio9x16 = "9:16"
	AspectRatio1x1  = "1:1"
	AspectRatio4x5  = "4:5"
	AspectRatio5x4  = "5:4"
)

// Video is a rendered or rendering video.
type Video struct {
	ID            string       `json:"id"`
	Title         string       `json:"title,omitempty"`
	Description   string       `json:"description,omitempty"`
	Visibility    Visibility   `json:"visibility,omitempty"`
	Status        string       `json:"status"`
	Download      string       `json:"download,omitempty"`
	Duration      string       `json:"duration,omitempty"`
	CreatedAt     int64        `json:"createdAt,omitempty"`
	LastUpdatedAt int64        `json:"lastUpdatedAt,omitempty"`
	CallbackID    string       `json:"callbackId,omitempty"`
	Thumbnail     *Thumbnail   `json:"thumbnail,omitempty"`
	CTASettings   *CTASettings `json:"ctaSettings,omitempty"`
}

// GetStatus returns the video status. It lets *Video be polled with core.Poll.
func (v *Video) GetStatus() string {
	if v == nil {
		return ""
	}
	return v.Status
}

// Thumbnail holds the preview image links of a completed video.
type Thumbnail struct {
	Image string `json:"image,omitempty"`
	GIF   string `json:"gif,omitempty"`
}

// CTASettings configures the call to action button shown at the end of a video.
type CTASettings struct {
	Label string `json:"label" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

// AvatarSettings tunes how the avatar is placed in a scene.
type AvatarSettings struct {
	HorizontalAlign string  `json:"horizontalAlign,omitempty" validate:"omitempty,oneof=left center right"`
	Scale           float64 `json:"scale,omitempty" validate:"omitempty,gt=0,lte=2"`
	Style           string  `json:"style,omitempty" validate:"omitempty,oneof=rectangular circular"`
	SeamlessLoop    bool    `json:"seamless,omitempty"`
}

// VideoInput is one scene of a video.
type VideoInput struct {
	ScriptText     string          `json:"scriptText,omitempty" validate:"required_without=ScriptAudio"`
	ScriptAudio    string          `json:"scriptAudio,omitempty" validate:"omitempty,url"`
	ScriptLanguage string          `json:"scriptLanguage,omitempty"`
	Avatar         string          `json:"avatar" validate:"required"`
	Background     string          `json:"background,omitempty"`
	AvatarSettings *AvatarSettings `json:"avatarSettings,omitempty"`
}

// CreateVideoRequest creates a video from scratch.
type CreateVideoRequest struct {
	Test        bool         `json:"test"`
	Title       string       `json:"title,omitempty" validate:"omitempty,max=255"`
	Description string       `json:"description,omitempty"`
	Visibility  Visibility   `json:"visibility,omitempty" validate:"omitempty,oneof=private public"`
	AspectRatio string       `json:"aspectRatio,omitempty" validate:"omitempty,oneof=16:9 9:16 1:1 4:5 5:4"`
	Input       []VideoInput `json:"input" validate:"required,min=1,dive"`
	CallbackID  string       `json:"callbackId,omitempty"`
	CTASettings *CTASettings `json:"ctaSettings,omitempty"`
	Soundtrack  string       `json:"soundtrack,omitempty"`
}

// UpdateVideoRequest changes video metadata. Nil fields are left untouched.
type UpdateVideoRequest struct {
	Title       *string      `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string      `json:"description,omitempty"`
	Visibility  *Visibility  `json:"visibility,omitempty" validate:"omitempty,oneof=private public"`
	CTASettings *CTASettings `json:"ctaSettings,omitempty"`
}

// ListVideosRequest pages through the account's videos.
type ListVideosRequest struct {
	Limit  int      `json:"limit,omitempty" validate:"gte=0,lte=100"`
	Offset int      `json:"offset,omitempty" validate:"gte=0"`
	Source []string `json:"source,omitempty"`
}

// VideoList is one page of videos.
type VideoList struct {
	Videos     []Video `json:"videos"`
	NextOffset *int    `json:"nextOffset,omitempty"`
}

// CreateFromTemplateRequest creates a video by filling in a template.
type CreateFromTemplateRequest struct {
	TemplateID   string            `json:"templateId" validate:"required"`
	TemplateData map[string]string `json:"templateData,omitempty"`
	Test         bool              `json:"test"`
	Title        string            `json:"title,omitempty" validate:"omitempty,max=255"`
	Description  string            `json:"description,omitempty"`
	Visibility   Visibility        `json:"visibility,omitempty" validate:"omitempty,oneof=private public"`
	CallbackID   string            `json:"callbackId,omitempty"`
	CTASettings  *CTASettings      `json:"ctaSettings,omitempty"`
}

// DeleteResult reports a deleted resource.
type DeleteResult struct {
	ID string `json:"id"`
}
