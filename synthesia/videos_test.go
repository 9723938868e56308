package synthesia

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petal-labs/reel/core"
)

func failOnRequest(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}
}

func TestVideosCreate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["test"])
		assert.Equal(t, "Launch", body["title"])
		if input, ok := body["input"].([]any); assert.True(t, ok) && assert.Len(t, input, 1) {
			scene := input[0].(map[string]any)
			assert.Equal(t, "Welcome aboard.", scene["scriptText"])
			assert.Equal(t, "anna_costume1_cameraA", scene["avatar"])
		}

		writeJSON(t, w, http.StatusCreated, map[string]any{
			"id":        "7b3f1a2e",
			"status":    "in_progress",
			"title":     "Launch",
			"createdAt": 1767225600,
		})
	})

	res := c.Videos().Create(context.Background(), &CreateVideoRequest{
		Test:  true,
		Title: "Launch",
		Input: []VideoInput{{ScriptText: "Welcome aboard.", Avatar: "anna_costume1_cameraA", Background: "off_white"}},
	})

	video, err := res.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "7b3f1a2e", video.ID)
	assert.Equal(t, core.StatusInProgress, video.Status)
	assert.Equal(t, int64(1767225600), video.CreatedAt)
}

func TestVideosCreateValidation(t *testing.T) {
	c := newTestClient(t, failOnRequest(t))

	tests := []struct {
		name      string
		req       *CreateVideoRequest
		wantField string
	}{
		{"nil request", nil, ""},
		{"no input", &CreateVideoRequest{Title: "x"}, "input"},
		{"empty input", &CreateVideoRequest{Input: []VideoInput{}}, "input"},
		{"missing avatar", &CreateVideoRequest{Input: []VideoInput{{ScriptText: "hi"}}}, "input[0].avatar"},
		{"missing script", &CreateVideoRequest{Input: []VideoInput{{Avatar: "a"}}}, "input[0].scriptText"},
		{"bad visibility", &CreateVideoRequest{Visibility: "friends", Input: []VideoInput{{ScriptText: "hi", Avatar: "a"}}}, "visibility"},
		{"bad aspect ratio", &CreateVideoRequest{AspectRatio: "21:9", Input: []VideoInput{{ScriptText: "hi", Avatar: "a"}}}, "aspectRatio"},
		{"bad cta url", &CreateVideoRequest{
			CTASettings: &CTASettings{Label: "Buy", URL: "not a url"},
			Input:       []VideoInput{{ScriptText: "hi", Avatar: "a"}},
		}, "ctaSettings.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Videos().Create(context.Background(), tt.req)

			require.False(t, res.IsOk())
			apiErr := res.Error()
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, "validation_error", apiErr.Code)
			assert.ErrorIs(t, apiErr, core.ErrValidation)
			assert.True(t, core.IsValidationError(apiErr))

			if tt.wantField != "" {
				var details map[string]string
				require.True(t, apiErr.DecodeDetails(&details))
				assert.Contains(t, details, tt.wantField)
			}
		})
	}
}

func TestVideosCreateFromTemplateDefaultsToPrivate(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos/fromTemplate", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, http.StatusCreated, Video{ID: "v2", Status: core.StatusInProgress})
	})

	req := &CreateFromTemplateRequest{
		TemplateID:   "tpl-1",
		TemplateData: map[string]string{"name": "Ada"},
	}
	res := c.Videos().CreateFromTemplate(context.Background(), req)

	require.True(t, res.IsOk(), "error: %v", res.Error())
	assert.Equal(t, "private", body["visibility"])
	assert.Equal(t, "tpl-1", body["templateId"])
	assert.Equal(t, map[string]any{"name": "Ada"}, body["templateData"])
	assert.Empty(t, req.Visibility, "caller request must not be mutated")
}

func TestVideosCreateFromTemplateKeepsVisibility(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, http.StatusCreated, Video{ID: "v2"})
	})

	c.Videos().CreateFromTemplate(context.Background(), &CreateFromTemplateRequest{
		TemplateID: "tpl-1",
		Visibility: VisibilityPublic,
	})

	assert.Equal(t, "public", body["visibility"])
}

func TestVideosCreateFromTemplateRequiresTemplateID(t *testing.T) {
	c := newTestClient(t, failOnRequest(t))

	res := c.Videos().CreateFromTemplate(context.Background(), &CreateFromTemplateRequest{})

	require.False(t, res.IsOk())
	var details map[string]string
	require.True(t, res.Error().DecodeDetails(&details))
	assert.Equal(t, "is required", details["templateId"])
}

func TestVideosList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "40", r.URL.Query().Get("offset"))
		assert.Equal(t, []string{"workspace", "my_videos"}, r.URL.Query()["source"])
		w.Write([]byte(`{"videos":[{"id":"a","status":"complete"},{"id":"b","status":"failed"}],"nextOffset":60}`))
	})

	res := c.Videos().List(context.Background(), &ListVideosRequest{
		Limit:  20,
		Offset: 40,
		Source: []string{"workspace", "my_videos"},
	})

	list, err := res.Unwrap()
	require.NoError(t, err)
	require.Len(t, list.Videos, 2)
	assert.True(t, core.IsFailed(list.Videos[1].Status))
	require.NotNil(t, list.NextOffset)
	assert.Equal(t, 60, *list.NextOffset)
}

func TestVideosListNilRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"videos":[]}`))
	})

	res := c.Videos().List(context.Background(), nil)

	require.True(t, res.IsOk())
	assert.Nil(t, res.Value().NextOffset)
}

func TestVideosListRejectsLimit(t *testing.T) {
	c := newTestClient(t, failOnRequest(t))

	res := c.Videos().List(context.Background(), &ListVideosRequest{Limit: 500})

	require.False(t, res.IsOk())
	assert.True(t, core.IsValidationError(res.Error()))
}

func TestVideosGetEscapesID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos/a%2Fb", r.URL.EscapedPath())
		writeJSON(t, w, http.StatusOK, Video{ID: "a/b", Status: core.StatusComplete})
	})

	res := c.Videos().Get(context.Background(), "a/b")

	require.True(t, res.IsOk())
}

func TestVideosGetEmptyID(t *testing.T) {
	c := newTestClient(t, failOnRequest(t))

	res := c.Videos().Get(context.Background(), "")

	require.False(t, res.IsOk())
	assert.ErrorIs(t, res.Error(), core.ErrValidation)
}

func TestVideosUpdate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/videos/v1", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"title": "Renamed", "visibility": "public"}, body)

		writeJSON(t, w, http.StatusOK, Video{ID: "v1", Title: "Renamed", Visibility: VisibilityPublic})
	})

	title := "Renamed"
	visibility := VisibilityPublic
	res := c.Videos().Update(context.Background(), "v1", &UpdateVideoRequest{Title: &title, Visibility: &visibility})

	video, err := res.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "Renamed", video.Title)
}

func TestVideosDeleteNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	res := c.Videos().Delete(context.Background(), "v1")

	require.True(t, res.IsOk(), "error: %v", res.Error())
	assert.Equal(t, "v1", res.Value().ID)
}

func TestVideosDeleteNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "not found"})
	})

	res := c.Videos().Delete(context.Background(), "gone")

	require.False(t, res.IsOk())
	assert.True(t, core.IsNotFound(res.Error()))
	assert.Empty(t, res.Value().ID)
}

func TestVideosWaitForCompletion(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		status := core.StatusInProgress
		if calls.Add(1) == 3 {
			status = core.StatusComplete
		}
		writeJSON(t, w, http.StatusOK, Video{ID: "v1", Status: status, Download: "https://cdn/v1.mp4"})
	})

	var updates []string
	var sleeps int
	video, err := c.Videos().WaitForCompletion(context.Background(), "v1", core.PollConfig{
		MaxAttempts:    5,
		Interval:       time.Minute,
		OnStatusUpdate: func(s string) { updates = append(updates, s) },
		Sleep: func(ctx context.Context, d time.Duration) error {
			assert.Equal(t, time.Minute, d)
			sleeps++
			return nil
		},
	})

	require.NoError(t, err)
	assert.Equal(t, core.StatusComplete, video.Status)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 2, sleeps)
	assert.Equal(t, []string{core.StatusInProgress, core.StatusInProgress}, updates)
}

func TestVideosWaitForCompletionReturnsFailedVideo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, Video{ID: "v1", Status: core.StatusFailed})
	})

	video, err := c.Videos().WaitForCompletion(context.Background(), "v1", core.PollConfig{})

	require.NoError(t, err)
	assert.True(t, core.IsFailed(video.Status))
}

func TestVideosWaitForCompletionPropagatesError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "bad key"})
	})

	_, err := c.Videos().WaitForCompletion(context.Background(), "v1", core.PollConfig{})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestVideosWaitForCompletionEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := c.Videos().WaitForCompletion(context.Background(), "v1", core.PollConfig{})

	assert.ErrorIs(t, err, core.ErrEmptyResponse)
}
