package models

import "time"

// MediaFile is an uploaded file stored in MongoDB. Posts and profiles only
// keep the returned name/URL reference, never the bytes.
type MediaFile struct {
	Name        string    `json:"name" bson:"name"`
	ContentType string    `json:"content_type" bson:"content_type"`
	Size        int64     `json:"size" bson:"size"`
	Data        []byte    `json:"-" bson:"data"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
