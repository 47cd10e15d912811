package state

import (
	"context"
	"sync"

	"github.com/Poper173/Kilamix/internal/models"
	"github.com/Poper173/Kilamix/internal/optimistic"
)

// VideoList is a view over a fetched video collection supporting optimistic
// like toggles. It is safe for concurrent use.
type VideoList struct {
	likes LikeService

	mu     sync.Mutex
	videos []models.Video
	muts   *optimistic.Mutator[int64, models.Video]
	closed bool
}

// NewVideoList returns an empty view backed by the given like service.
func NewVideoList(likes LikeService) *VideoList {
	return &VideoList{
		likes: likes,
		muts:  optimistic.New[int64, models.Video](),
	}
}

// Replace swaps the view contents for a freshly fetched collection.
func (l *VideoList) Replace(videos []models.Video) {
	l.mu.Lock()
	l.videos = append(l.videos[:0:0], videos...)
	l.mu.Unlock()
}

// Videos returns a copy of the current view.
func (l *VideoList) Videos() []models.Video {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append(l.videos[:0:0], l.videos...)
}

// Video returns the current view entry for id.
func (l *VideoList) Video(id int64) (models.Video, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.find(id)
	if !ok {
		return models.Video{}, false
	}
	return l.videos[i], true
}

// find returns the slice index for id. Caller holds l.mu.
func (l *VideoList) find(id int64) (int, bool) {
	for i := range l.videos {
		if l.videos[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// ToggleLike flips the like state locally, sends the toggle, and reconciles
// the entry with the server's response. The local flip is visible before the
// request is made; the server's liked flag and count always win on success,
// and the pre-toggle snapshot is restored on any failure. A second toggle on
// the same video while one is in flight fails with optimistic.ErrPending.
func (l *VideoList) ToggleLike(ctx context.Context, id int64) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	i, ok := l.find(id)
	if !ok {
		l.mu.Unlock()
		return ErrNotFound
	}
	snapshot := l.videos[i]
	if err := l.muts.Begin(id, optimistic.KindLike, snapshot); err != nil {
		l.mu.Unlock()
		return err
	}

	v := &l.videos[i]
	v.IsLiked = !v.IsLiked
	if v.IsLiked {
		v.LikesCount++
	} else if v.LikesCount > 0 {
		v.LikesCount--
	}
	l.mu.Unlock()

	result, err := l.likes.Like(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		snap, pending := l.muts.Rollback(id, optimistic.KindLike)
		if pending && !l.closed {
			if i, ok := l.find(id); ok {
				l.videos[i] = snap
			}
		}
		return err
	}

	l.muts.Commit(id, optimistic.KindLike)
	if l.closed {
		return nil
	}
	if i, ok := l.find(id); ok {
		l.videos[i].IsLiked = result.Liked
		l.videos[i].LikesCount = result.LikesCount
	}
	return nil
}

// LikePending reports whether a like toggle is in flight for id.
func (l *VideoList) LikePending(id int64) bool {
	return l.muts.Pending(id, optimistic.KindLike)
}

// Close tears the view down. Mutations still in flight resolve without
// touching the view.
func (l *VideoList) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}
