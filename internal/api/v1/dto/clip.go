package dto

import "time"

// ClipCreateDTO is the request body for clip creation. The schema is the
// single validation step for the endpoint; the service re-checks only the
// range invariant.
type ClipCreateDTO struct {
	VideoID          string `json:"videoId" validate:"required,len=11"`
	VideoTitle       string `json:"videoTitle" validate:"required"`
	ClipTitle        string `json:"clipTitle"`
	StartTime        int    `json:"startTime" validate:"min=0"`
	EndTime          int    `json:"endTime" validate:"required,gtfield=StartTime"`
	IncludeSubtitles *bool  `json:"includeSubtitles,omitempty"`
}

// ClipResponseDTO is returned in API responses. It carries no
// owner-identifying information beyond what is stored on the clip.
type ClipResponseDTO struct {
	ID               int       `json:"id"`
	VideoID          string    `json:"videoId"`
	VideoTitle       string    `json:"videoTitle"`
	ClipTitle        string    `json:"clipTitle"`
	StartTime        int       `json:"startTime"`
	EndTime          int       `json:"endTime"`
	IncludeSubtitles bool      `json:"includeSubtitles"`
	ShareID          string    `json:"shareId"`
	CreatedAt        time.Time `json:"createdAt"`
}
