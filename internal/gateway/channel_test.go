package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Poper173/Kilamix/internal/upload"
)

const channelBody = `{"success":true,"data":{"id":1,"name":"Ana's Channel","channel_description":"clips","total_views":120,"total_subscribers":7,"videos_count":4}}`

func TestChannelFetchAndCache(t *testing.T) {
	var requests int
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/api/creator/channel" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(channelBody))
	}))
	loginSession(t, store, "creator")
	ctx := context.Background()

	channel, err := gw.Channel(ctx)
	if err != nil {
		t.Fatalf("channel: %v", err)
	}
	if channel.Name != "Ana's Channel" || channel.VideosCount != 4 {
		t.Fatalf("unexpected channel %+v", channel)
	}
	if channel.Avatar != nil || channel.Banner != nil {
		t.Fatalf("absent optionals must stay absent, got %+v", channel)
	}

	if _, err := gw.Channel(ctx); err != nil {
		t.Fatalf("cached channel: %v", err)
	}
	if requests != 1 {
		t.Fatalf("expected cached second read, got %d requests", requests)
	}
}

func TestUpdateChannelMultipart(t *testing.T) {
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/creator/channel" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("name"); got != "New Name" {
			t.Fatalf("name = %q", got)
		}
		if _, _, err := r.FormFile("avatar"); err != nil {
			t.Fatalf("avatar part: %v", err)
		}
		w.Write([]byte(channelBody))
	}))
	loginSession(t, store, "creator")

	_, err := gw.UpdateChannel(context.Background(), ChannelUpdate{
		Name:        "New Name",
		Description: "clips",
		Avatar:      &stubSource{name: "me.png", size: 512, content: "pngbytes"},
	})
	if err != nil {
		t.Fatalf("update channel: %v", err)
	}
}

func TestUpdateChannelValidatesAvatar(t *testing.T) {
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid avatar must not reach the server")
	}))
	loginSession(t, store, "creator")

	_, err := gw.UpdateChannel(context.Background(), ChannelUpdate{
		Name:   "New Name",
		Avatar: &stubSource{name: "me.exe", size: 512},
	})
	var verr *upload.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
}

func TestUpdateChannelRefreshesCache(t *testing.T) {
	var channelGets int
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			channelGets++
		}
		if r.Method == http.MethodPut {
			r.ParseMultipartForm(8 << 20)
		}
		w.Write([]byte(channelBody))
	}))
	loginSession(t, store, "creator")
	ctx := context.Background()

	if _, err := gw.UpdateChannel(ctx, ChannelUpdate{Name: "New Name"}); err != nil {
		t.Fatalf("update channel: %v", err)
	}
	// The update response primes the cache; no GET needed afterwards.
	if _, err := gw.Channel(ctx); err != nil {
		t.Fatalf("channel: %v", err)
	}
	if channelGets != 0 {
		t.Fatalf("expected cache primed by update, saw %d GETs", channelGets)
	}
}
