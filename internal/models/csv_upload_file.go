package models

import "time"

// CsvUploadFile is a transient staging record for an uploaded CSV.
// FileName is the path of the stored file relative to the media directory.
// The record and its backing file are removed once the rows have been
// ingested, whether or not any of them were accepted.
type CsvUploadFile struct {
	ID         uint      `gorm:"primaryKey"`
	FileName   string    `gorm:"size:255;not null"`
	UploadedOn time.Time `gorm:"autoCreateTime"`
}
