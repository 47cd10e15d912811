package models

// Role values returned by the backend for authenticated accounts.
const (
	RoleUser    = "user"
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

// ValidRole reports whether the backend recognises the provided role name.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleCreator, RoleAdmin:
		return true
	}
	return false
}

// Video is a single published video as returned by the listing and detail
// endpoints. Optional wire fields stay nil when the backend omits them.
type Video struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	VideoFileURL *string   `json:"video_file_url,omitempty"`
	VideoURL     *string   `json:"video_url,omitempty"`
	LikesCount   int       `json:"likes_count"`
	ViewsCount   int       `json:"views_count"`
	Duration     int64     `json:"duration,omitempty"`
	IsLiked      bool      `json:"is_liked"`
	User         *Creator  `json:"user,omitempty"`
	Category     *Category `json:"category,omitempty"`
	CreatedAt    *string   `json:"created_at,omitempty"`
}

// Creator is the owning account attached to a video.
type Creator struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
}

// Category is an optional video category reference.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LikeResult carries the authoritative like state returned by
// POST videos/{id}/like.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// AdminUser is an account row from the admin user listing.
type AdminUser struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// Channel is a creator's channel profile; replaced wholesale on update.
type Channel struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Description      *string `json:"channel_description,omitempty"`
	Avatar           *string `json:"avatar,omitempty"`
	Banner           *string `json:"channel_banner,omitempty"`
	TotalViews       int     `json:"total_views"`
	TotalSubscribers int     `json:"total_subscribers"`
	VideosCount      int     `json:"videos_count"`
}

// AuthUser is the account payload nested in login/register responses.
type AuthUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthData groups the bearer credential and account returned by login
// and register.
type AuthData struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

// AdminStats is the dashboard summary from GET admin/stats.
type AdminStats struct {
	TotalUsers    int `json:"total_users"`
	ActiveUsers   int `json:"active_users"`
	InactiveUsers int `json:"inactive_users"`
	TotalVideos   int `json:"total_videos"`
	TotalViews    int `json:"total_views"`
}
