// Package library manages the persisted media catalog: root folders,
// artists, albums, tracks, shows, episodes, authors, books, and the file
// records tying them to disk.
package library

import (
	"time"
)

// MediaType is the kind of media a root folder holds. Each root folder is
// dedicated to exactly one media type.
type MediaType string

const (
	MediaTypeMusic  MediaType = "music"
	MediaTypeMovies MediaType = "movies"
	MediaTypeTV     MediaType = "tv"
	MediaTypeBooks  MediaType = "books"
)

// ScanStatus tracks the state of a root folder scan.
type ScanStatus string

const (
	ScanIdle      ScanStatus = "idle"
	ScanScanning  ScanStatus = "scanning"
	ScanCompleted ScanStatus = "completed"
	ScanFailed    ScanStatus = "failed"
)

// RootFolder is a filesystem root dedicated to one media type.
type RootFolder struct {
	ID            int64
	Path          string
	MediaType     MediaType
	Accessible    bool
	ScanStatus    ScanStatus
	LastScannedAt *time.Time
}

// Artist is the top-level container for music.
type Artist struct {
	ID            int64
	RootFolderID  int64
	Name          string
	MusicBrainzID *string
	NeedsReview   bool
	AddedAt       time.Time
}

// Album is a unit of music release belonging to one artist.
type Album struct {
	ID             int64
	ArtistID       int64
	Title          string
	Year           int
	ReleaseGroupID *string
	Monitored      bool
	NeedsReview    bool
	AddedAt        time.Time
}

// Track is a unit of file-bearing music content.
type Track struct {
	ID          int64
	AlbumID     int64
	DiscNumber  int
	TrackNumber int
	Title       string
	HasFile     bool
}

// Show is a TV series.
type Show struct {
	ID           int64
	RootFolderID int64
	Title        string
	Year         int
	TVDBID       *string
	NeedsReview  bool
	AddedAt      time.Time
}

// Season is a cached aggregate over a show's episodes. Episode counts are
// recomputed from the episodes table after scans, never maintained
// incrementally.
type Season struct {
	ID           int64
	ShowID       int64
	SeasonNumber int
	EpisodeCount int
}

// Episode is a unit of file-bearing TV content.
type Episode struct {
	ID            int64
	ShowID        int64
	SeasonNumber  int
	EpisodeNumber int
	Title         string
	HasFile       bool
}

// Movie is a single-file video item.
type Movie struct {
	ID           int64
	RootFolderID int64
	Title        string
	Year         int
	TMDBID       *string
	NeedsReview  bool
	HasFile      bool
	AddedAt      time.Time
}

// Author is the top-level container for books.
type Author struct {
	ID            int64
	RootFolderID  int64
	Name          string
	OpenLibraryID *string
	NeedsReview   bool
	AddedAt       time.Time
}

// Book is a unit of book release belonging to one author.
type Book struct {
	ID            int64
	AuthorID      int64
	Title         string
	Year          int
	OpenLibraryID *string
	Monitored     bool
	NeedsReview   bool
	HasFile       bool
	AddedAt       time.Time
}

// MediaInfo is the format-specific blob stored alongside each file record.
type MediaInfo struct {
	Codec      string
	Bitrate    int
	SampleRate int
	Channels   int
	BitDepth   int
}

// MediaFile is one file on disk. Exactly one of TrackID/EpisodeID/MovieID/
// BookID is set. RelativePath is relative to the owning root folder; absolute
// paths are never stored.
type MediaFile struct {
	ID           int64
	RootFolderID int64
	TrackID      *int64
	EpisodeID    *int64
	MovieID      *int64
	BookID       *int64
	RelativePath string
	SizeBytes    int64
	Quality      string
	MediaInfo    MediaInfo
	DateAdded    time.Time
}
