package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/Poper173/Kilamix/internal/api"
	"github.com/Poper173/Kilamix/internal/upload"
)

func videoJSON(id int) string {
	return fmt.Sprintf(`{"id":%d,"title":"v%d","likes_count":0,"views_count":0,"is_liked":false}`, id, id)
}

func videoPage(ids ...int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = videoJSON(id)
	}
	return `{"success":true,"data":[` + strings.Join(parts, ",") + `]}`
}

func TestAllVideosStopsOnShortPage(t *testing.T) {
	var pages []string
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		switch page {
		case "1":
			// A full page of per_page items: caller must fetch the next one.
			ids := make([]int, DefaultVideoPageSize)
			for i := range ids {
				ids[i] = i + 1
			}
			fmt.Fprint(w, videoPage(ids...))
		case "2":
			// Short page: listing ends here.
			fmt.Fprint(w, videoPage(11, 12))
		default:
			t.Fatalf("unexpected page request %q", page)
		}
	}))

	videos, err := gw.AllVideos(context.Background())
	if err != nil {
		t.Fatalf("all videos: %v", err)
	}
	if len(videos) != DefaultVideoPageSize+2 {
		t.Fatalf("got %d videos", len(videos))
	}
	if len(pages) != 2 {
		t.Fatalf("expected exactly 2 page requests, got %v", pages)
	}
}

func TestAllVideosHonorsServerLastPage(t *testing.T) {
	var requests int
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// A full page, but meta says this is the final one. The heuristic
		// alone would fetch page 2; meta must win.
		ids := make([]int, DefaultVideoPageSize)
		for i := range ids {
			ids[i] = i + 1
		}
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = videoJSON(id)
		}
		fmt.Fprintf(w, `{"message":"ok","data":[%s],"meta":{"current_page":1,"last_page":1,"total":%d}}`,
			strings.Join(parts, ","), len(ids))
	}))

	videos, err := gw.AllVideos(context.Background())
	if err != nil {
		t.Fatalf("all videos: %v", err)
	}
	if len(videos) != DefaultVideoPageSize {
		t.Fatalf("got %d videos", len(videos))
	}
	if requests != 1 {
		t.Fatalf("meta.last_page should prevent further fetches, got %d requests", requests)
	}
}

func TestLikeRequiresSession(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unauthenticated like must not reach the server")
	}))

	_, err := gw.Like(context.Background(), 7)
	if !errors.Is(err, api.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestLikeReturnsAuthoritativeCounts(t *testing.T) {
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/videos/7/like" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"data":{"liked":true,"likes_count":42}}`))
	}))
	loginSession(t, store, "user")

	result, err := gw.Like(context.Background(), 7)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if !result.Liked || result.LikesCount != 42 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestUploadValidationPreventsRequest(t *testing.T) {
	var requests int
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"success":true,"data":` + videoJSON(1) + `}`))
	}))
	loginSession(t, store, "creator")
	ctx := context.Background()

	tests := []struct {
		name  string
		draft VideoDraft
	}{
		{
			name:  "missing title",
			draft: VideoDraft{Video: &stubSource{name: "a.mp4", size: 2 << 20}},
		},
		{
			name:  "missing video file",
			draft: VideoDraft{Title: "x"},
		},
		{
			name:  "zero byte file",
			draft: VideoDraft{Title: "x", Video: &stubSource{name: "a.mp4", size: 0}},
		},
		{
			name:  "over the ceiling",
			draft: VideoDraft{Title: "x", Video: &stubSource{name: "a.mp4", size: 500<<20 + 1}},
		},
		{
			name:  "unsupported extension",
			draft: VideoDraft{Title: "x", Video: &stubSource{name: "a.txt", size: 2 << 20}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gw.Upload(ctx, tt.draft)
			var verr *upload.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
		})
	}
	if requests != 0 {
		t.Fatalf("validation failures must not reach the server, saw %d requests", requests)
	}
}

func TestUploadSendsMultipart(t *testing.T) {
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/videos" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("server could not parse multipart form: %v", err)
		}
		if got := r.FormValue("title"); got != "launch" {
			t.Fatalf("title = %q", got)
		}
		if got := r.FormValue("category_id"); got != "3" {
			t.Fatalf("category_id = %q", got)
		}
		file, header, err := r.FormFile("video")
		if err != nil {
			t.Fatalf("video part: %v", err)
		}
		file.Close()
		if header.Filename != "clip.mp4" {
			t.Fatalf("video filename = %q", header.Filename)
		}
		w.Write([]byte(`{"success":true,"data":` + videoJSON(99) + `}`))
	}))
	loginSession(t, store, "creator")

	content := strings.Repeat("x", 2048)
	video, err := gw.Upload(context.Background(), VideoDraft{
		Title:      "launch",
		CategoryID: 3,
		Video:      &stubSource{name: "clip.mp4", size: int64(len(content)), content: content},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if video.ID != 99 {
		t.Fatalf("unexpected video %+v", video)
	}
}

func TestUploadSurfacesFieldErrors(t *testing.T) {
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Validation failed",
			"errors": map[string][]string{
				"category_id": {"The selected category is invalid."},
			},
		})
	}))
	loginSession(t, store, "creator")

	content := strings.Repeat("x", 2048)
	_, err := gw.Upload(context.Background(), VideoDraft{
		Title:      "launch",
		CategoryID: 999,
		Video:      &stubSource{name: "clip.mp4", size: int64(len(content)), content: content},
	})

	var serr *api.StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if want := "category_id: The selected category is invalid."; serr.Error() != want {
		t.Fatalf("message = %q want %q", serr.Error(), want)
	}
}

func TestDeleteVideoAcceptsBareSuccess(t *testing.T) {
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/videos/5" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	loginSession(t, store, "creator")

	if err := gw.DeleteVideo(context.Background(), 5); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestUpdateVideo(t *testing.T) {
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/videos/5" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body VideoUpdate
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Title != "renamed" || body.CategoryID != 2 {
			t.Fatalf("unexpected body %+v", body)
		}
		w.Write([]byte(`{"success":true,"data":` + videoJSON(5) + `}`))
	}))
	loginSession(t, store, "creator")

	if _, err := gw.UpdateVideo(context.Background(), 5, VideoUpdate{Title: "renamed", CategoryID: 2}); err != nil {
		t.Fatalf("update: %v", err)
	}
}
