package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/match"
	"github.com/vmunix/shelfarr/internal/mediaparse"
	"github.com/vmunix/shelfarr/internal/naming"
	"github.com/vmunix/shelfarr/internal/quality"
)

// importAlbum imports a download targeting a known album.
func (i *Importer) importAlbum(ctx context.Context, albumID int64, srcRoot string) (*Result, error) {
	album, err := i.library.GetAlbum(albumID)
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	root, err := i.albumRootFolder(album)
	if err != nil {
		return nil, err
	}
	return i.importAlbumFiles(ctx, album, root, srcRoot)
}

func (i *Importer) albumRootFolder(album *library.Album) (*library.RootFolder, error) {
	artist, err := i.library.GetArtist(album.ArtistID)
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	root, err := i.library.GetRootFolder(artist.RootFolderID)
	if err != nil {
		return nil, fmt.Errorf("get root folder: %w", err)
	}
	return root, nil
}

// importAlbumFiles discovers audio files under srcRoot and reconciles each
// against the album's tracks. Per-file failures accumulate; the batch keeps
// going.
func (i *Importer) importAlbumFiles(ctx context.Context, album *library.Album, root *library.RootFolder, srcRoot string) (*Result, error) {
	artist, err := i.library.GetArtist(album.ArtistID)
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}

	files, err := Discover(srcRoot, audioExtensions, DefaultSkipDir(library.MediaTypeMusic))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPathInaccessible, srcRoot, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no audio files under %s", ErrNoFilesFound, srcRoot)
	}
	i.report(Progress{Phase: PhaseScanning, FilesFound: len(files)})

	result := &Result{}
	for _, f := range files {
		imported, err := i.importTrackFile(f, artist, album, root)
		switch {
		case err != nil:
			result.FilesSkipped++
			result.addError("%s: %v", filepath.Base(f), err)
			i.log.Warn("track import failed", "file", f, "error", err)
		case imported:
			result.FilesImported++
		default:
			result.FilesSkipped++
		}
		i.report(Progress{Phase: PhaseImporting, FilesFound: len(files),
			FilesImported: result.FilesImported, FilesSkipped: result.FilesSkipped})
	}

	return result, nil
}

// importTrackFile reconciles one audio file: identify the track, move the
// file into place, record it. Returns whether a file was actually imported;
// an already-imported, unchanged file is a no-op.
func (i *Importer) importTrackFile(path string, artist *library.Artist, album *library.Album, root *library.RootFolder) (bool, error) {
	tags, err := i.prober.ReadTags(path)
	if err != nil {
		// Probe failure degrades to filename-only signals.
		i.log.Debug("tag probe failed", "file", path, "error", err)
		tags = nil
	}
	sig := mediaparse.Parse(path)

	id := match.FileIdentity{ParsedNumber: sig.TrackNumber, ParsedDisc: sig.DiscNumber}
	title := sig.Title
	if tags != nil {
		id.Number = tags.Track
		id.Disc = tags.Disc
		if tags.Title != "" {
			title = tags.Title
		}
	}
	id.Title = title

	track, err := i.resolveTrack(id, title, path, album)
	if err != nil {
		return false, err
	}

	signals := quality.AudioSignals{}
	if tags != nil {
		signals = quality.AudioSignals{
			Codec:      tags.Codec,
			Bitrate:    tags.Bitrate,
			SampleRate: tags.SampleRate,
			BitDepth:   tags.BitDepth,
			Channels:   tags.Channels,
		}
	}
	if signals.Codec == "" {
		signals.Codec = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	label := quality.ClassifyAudio(signals)

	relPath := naming.TrackPath(artist.Name, album.Title, album.Year,
		track.DiscNumber, track.TrackNumber, track.Title, filepath.Ext(path))
	destAbs := filepath.Join(root.Path, relPath)
	if err := ValidatePath(destAbs, root.Path); err != nil {
		return false, err
	}

	srcInfo, err := statPath(path)
	if err != nil {
		return false, fmt.Errorf("stat source: %w", err)
	}

	existing, err := i.library.GetFileByTrack(track.ID)
	if err != nil {
		return false, fmt.Errorf("get file record: %w", err)
	}
	if existing != nil && existing.RelativePath == relPath && existing.SizeBytes == srcInfo.Size() {
		// Unchanged and already recorded, nothing to do.
		return false, nil
	}

	size := srcInfo.Size()
	if destAbs != path {
		if size, err = MoveFile(path, destAbs); err != nil {
			return false, err
		}
	}

	info := library.MediaInfo{}
	if tags != nil {
		info = library.MediaInfo{
			Codec:      tags.Codec,
			Bitrate:    tags.Bitrate,
			SampleRate: tags.SampleRate,
			Channels:   tags.Channels,
			BitDepth:   tags.BitDepth,
		}
	}

	file := &library.MediaFile{
		RootFolderID: root.ID,
		TrackID:      &track.ID,
		RelativePath: relPath,
		SizeBytes:    size,
		Quality:      label,
		MediaInfo:    info,
	}
	if err := i.library.UpsertFile(file); err != nil {
		return false, fmt.Errorf("record file: %w", err)
	}
	if err := i.library.SetTrackHasFile(track.ID, true); err != nil {
		return false, fmt.Errorf("set has_file: %w", err)
	}

	return true, nil
}

// resolveTrack runs the matcher chain against the album's tracks and
// creates a track row on the fly when nothing matches but a number is
// known.
func (i *Importer) resolveTrack(id match.FileIdentity, title, path string, album *library.Album) (*library.Track, error) {
	tracks, err := i.library.ListTracks(album.ID)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}

	cands := make([]match.Candidate, len(tracks))
	for n, t := range tracks {
		cands[n] = match.Candidate{ID: t.ID, Disc: t.DiscNumber, Number: t.TrackNumber, Title: t.Title}
	}

	if c, strategy := match.First(id, cands, match.DefaultChain()...); c != nil {
		i.log.Debug("track matched", "file", path, "track_id", c.ID, "strategy", strategy)
		for _, t := range tracks {
			if t.ID == c.ID {
				return t, nil
			}
		}
	}

	num, disc := id.Number, id.Disc
	if num == 0 {
		num, disc = id.ParsedNumber, id.ParsedDisc
	}
	if num == 0 {
		return nil, fmt.Errorf("%w: cannot identify track", ErrNoMatch)
	}
	if disc == 0 {
		disc = 1
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	track := &library.Track{AlbumID: album.ID, DiscNumber: disc, TrackNumber: num, Title: title}
	if err := i.library.AddTrack(track); err != nil {
		if errors.Is(err, library.ErrDuplicate) {
			// Lost a race with a concurrent scan; re-read the winner.
			return i.findTrackByNumber(album.ID, disc, num)
		}
		return nil, fmt.Errorf("create track: %w", err)
	}
	i.log.Info("created track", "album_id", album.ID, "disc", disc, "track", num, "title", title)
	return track, nil
}

func (i *Importer) findTrackByNumber(albumID int64, disc, num int) (*library.Track, error) {
	tracks, err := i.library.ListTracks(albumID)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	for _, t := range tracks {
		d := t.DiscNumber
		if d == 0 {
			d = 1
		}
		if d == disc && t.TrackNumber == num {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: track %d-%d vanished", ErrNoMatch, disc, num)
}

// inferAlbum identifies the target album for a path import: embedded tags
// first, then the "Artist - Album (Year)" folder convention.
func (i *Importer) inferAlbum(path string, root *library.RootFolder) (*library.Album, error) {
	files, err := Discover(path, audioExtensions, DefaultSkipDir(library.MediaTypeMusic))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPathInaccessible, path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no audio files under %s", ErrNoFilesFound, path)
	}

	var artistName, albumTitle string
	var year int
	if tags, err := i.prober.ReadTags(files[0]); err == nil && tags != nil {
		artistName = tags.AlbumArtist
		if artistName == "" {
			artistName = tags.Artist
		}
		albumTitle = tags.Album
		year = tags.Year
	}
	if artistName == "" || albumTitle == "" {
		if a, al, y, ok := mediaparse.ParseAlbumFolder(files[0]); ok {
			if artistName == "" {
				artistName = a
			}
			if albumTitle == "" {
				albumTitle = al
			}
			if year == 0 {
				year = y
			}
		}
	}
	if artistName == "" || albumTitle == "" {
		return nil, fmt.Errorf("%w: cannot infer artist/album for %s (no tags, folder is not \"Artist - Album (Year)\")", ErrNoMatch, path)
	}

	artist, err := i.findArtist(root.ID, artistName)
	if err != nil {
		return nil, err
	}
	return i.findAlbum(artist.ID, albumTitle, year)
}

// findArtist looks up an artist by exact name, then by normalized title.
// Multiple normalized matches are ambiguous and resolve to no match.
func (i *Importer) findArtist(rootFolderID int64, name string) (*library.Artist, error) {
	artist, err := i.library.GetArtistByName(rootFolderID, name)
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	if artist != nil {
		return artist, nil
	}

	all, err := i.library.ListArtists(rootFolderID)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	want := match.NormalizeTitle(name)
	var found *library.Artist
	for _, a := range all {
		if match.NormalizeTitle(a.Name) == want {
			if found != nil {
				return nil, fmt.Errorf("%w: artist %q is ambiguous", ErrNoMatch, name)
			}
			found = a
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: artist %q", ErrNoMatch, name)
	}
	return found, nil
}

func (i *Importer) findAlbum(artistID int64, title string, year int) (*library.Album, error) {
	album, err := i.library.GetAlbumByTitle(artistID, title, year)
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	if album != nil {
		return album, nil
	}

	all, err := i.library.ListAlbums(artistID)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	want := match.NormalizeTitle(title)
	var found *library.Album
	for _, a := range all {
		if match.NormalizeTitle(a.Title) != want {
			continue
		}
		if year != 0 && a.Year != 0 && a.Year != year {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: album %q is ambiguous", ErrNoMatch, title)
		}
		found = a
	}
	if found == nil {
		return nil, fmt.Errorf("%w: album %q", ErrNoMatch, title)
	}
	return found, nil
}
