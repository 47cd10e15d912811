package state

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Poper173/Kilamix/internal/models"
	"github.com/Poper173/Kilamix/internal/optimistic"
)

type stubLiker struct {
	calls int
	fn    func(ctx context.Context, id int64) (models.LikeResult, error)
}

func (s *stubLiker) Like(ctx context.Context, id int64) (models.LikeResult, error) {
	s.calls++
	if s.fn == nil {
		return models.LikeResult{}, nil
	}
	return s.fn(ctx, id)
}

func seedVideos(l *VideoList) {
	l.Replace([]models.Video{
		{ID: 1, Title: "first", LikesCount: 5, IsLiked: false},
		{ID: 2, Title: "second", LikesCount: 9, IsLiked: true},
	})
}

func TestToggleLikeFlipsBeforeResponse(t *testing.T) {
	liker := &stubLiker{}
	list := NewVideoList(liker)
	seedVideos(list)

	liker.fn = func(ctx context.Context, id int64) (models.LikeResult, error) {
		// The local flip must already be visible when the request goes out.
		v, ok := list.Video(id)
		if !ok {
			t.Fatal("video vanished from view")
		}
		if !v.IsLiked || v.LikesCount != 6 {
			t.Fatalf("view not flipped before request: %+v", v)
		}
		return models.LikeResult{Liked: true, LikesCount: 6}, nil
	}

	if err := list.ToggleLike(context.Background(), 1); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if liker.calls != 1 {
		t.Fatalf("expected 1 like call, got %d", liker.calls)
	}
	v, _ := list.Video(1)
	if !v.IsLiked || v.LikesCount != 6 {
		t.Fatalf("final state %+v", v)
	}
}

func TestToggleLikeAppliesServerCounts(t *testing.T) {
	liker := &stubLiker{fn: func(ctx context.Context, id int64) (models.LikeResult, error) {
		// Other viewers liked in the meantime: count is far from local+1.
		return models.LikeResult{Liked: true, LikesCount: 42}, nil
	}}
	list := NewVideoList(liker)
	seedVideos(list)

	if err := list.ToggleLike(context.Background(), 1); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	v, _ := list.Video(1)
	if !v.IsLiked || v.LikesCount != 42 {
		t.Fatalf("server count must win, got %+v", v)
	}
}

func TestToggleLikeRollsBackOnFailure(t *testing.T) {
	liker := &stubLiker{fn: func(ctx context.Context, id int64) (models.LikeResult, error) {
		return models.LikeResult{}, errors.New("network down")
	}}
	list := NewVideoList(liker)
	seedVideos(list)
	before, _ := list.Video(2)

	if err := list.ToggleLike(context.Background(), 2); err == nil {
		t.Fatal("expected error")
	}
	after, _ := list.Video(2)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("rollback must restore the snapshot: before %+v after %+v", before, after)
	}
}

func TestToggleLikeUnlikeDecrements(t *testing.T) {
	liker := &stubLiker{}
	list := NewVideoList(liker)
	seedVideos(list)

	liker.fn = func(ctx context.Context, id int64) (models.LikeResult, error) {
		v, _ := list.Video(id)
		if v.IsLiked || v.LikesCount != 8 {
			return models.LikeResult{}, errors.New("view not decremented before request")
		}
		return models.LikeResult{Liked: false, LikesCount: 8}, nil
	}

	if err := list.ToggleLike(context.Background(), 2); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	v, _ := list.Video(2)
	if v.IsLiked || v.LikesCount != 8 {
		t.Fatalf("final state %+v", v)
	}
}

func TestToggleLikeRefusesWhilePending(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	liker := &stubLiker{fn: func(ctx context.Context, id int64) (models.LikeResult, error) {
		close(entered)
		<-release
		return models.LikeResult{Liked: true, LikesCount: 6}, nil
	}}
	list := NewVideoList(liker)
	seedVideos(list)

	done := make(chan error, 1)
	go func() { done <- list.ToggleLike(context.Background(), 1) }()
	<-entered

	if !list.LikePending(1) {
		t.Fatal("expected pending like")
	}
	if err := list.ToggleLike(context.Background(), 1); !errors.Is(err, optimistic.ErrPending) {
		t.Fatalf("expected ErrPending, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if list.LikePending(1) {
		t.Fatal("pending flag must clear after resolution")
	}
}

func TestToggleLikeIndependentVideos(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	liker := &stubLiker{fn: func(ctx context.Context, id int64) (models.LikeResult, error) {
		if id == 1 {
			close(entered)
			<-release
		}
		return models.LikeResult{Liked: true, LikesCount: 1}, nil
	}}
	list := NewVideoList(liker)
	seedVideos(list)

	done := make(chan error, 1)
	go func() { done <- list.ToggleLike(context.Background(), 1) }()
	<-entered

	// A pending toggle on one video must not block another video.
	if err := list.ToggleLike(context.Background(), 2); err != nil {
		t.Fatalf("second video toggle: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first toggle: %v", err)
	}
}

func TestToggleLikeAfterCloseIsRefused(t *testing.T) {
	liker := &stubLiker{}
	list := NewVideoList(liker)
	seedVideos(list)
	list.Close()

	if err := list.ToggleLike(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if liker.calls != 0 {
		t.Fatalf("closed view must not issue requests, saw %d", liker.calls)
	}
}

func TestLateResponseAfterCloseIsDropped(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	liker := &stubLiker{fn: func(ctx context.Context, id int64) (models.LikeResult, error) {
		close(entered)
		<-release
		return models.LikeResult{Liked: true, LikesCount: 999}, nil
	}}
	list := NewVideoList(liker)
	seedVideos(list)

	done := make(chan error, 1)
	go func() { done <- list.ToggleLike(context.Background(), 1) }()
	<-entered

	flipped, _ := list.Video(1)
	list.Close()
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("toggle: %v", err)
	}

	// The response arrived after teardown: the view must not change.
	after, _ := list.Video(1)
	if !reflect.DeepEqual(flipped, after) {
		t.Fatalf("late response mutated a closed view: %+v -> %+v", flipped, after)
	}
}

func TestToggleLikeUnknownVideo(t *testing.T) {
	list := NewVideoList(&stubLiker{})
	seedVideos(list)

	if err := list.ToggleLike(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
