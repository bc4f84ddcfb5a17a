package model

import "time"

// Clip is a pointer into an externally hosted video: no media is ever
// produced, only the video ID and a start/end offset pair. ShareID is the
// sole identifier exposed to anonymous viewers.
type Clip struct {
	ID               int       `db:"id" json:"id"`
	VideoID          string    `db:"video_id" json:"videoId"`
	VideoTitle       string    `db:"video_title" json:"videoTitle"`
	ClipTitle        string    `db:"clip_title" json:"clipTitle"`
	StartTime        int       `db:"start_time" json:"startTime"`
	EndTime          int       `db:"end_time" json:"endTime"`
	IncludeSubtitles bool      `db:"include_subtitles" json:"includeSubtitles"`
	ShareID          string    `db:"share_id" json:"shareId"`
	UserID           int       `db:"user_id" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}
