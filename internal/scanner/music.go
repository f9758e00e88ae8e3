package scanner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmunix/shelfarr/internal/importer"
	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/match"
	"github.com/vmunix/shelfarr/internal/mediaparse"
	"github.com/vmunix/shelfarr/internal/metadata"
	"github.com/vmunix/shelfarr/internal/quality"
)

// musicGroup collects the files claiming the same artist/album identity.
type musicGroup struct {
	artist string
	album  string
	year   int
	files  []string
}

func (s *Scanner) scanMusic(ctx context.Context, root *library.RootFolder) (*Result, error) {
	files, err := walkFiles(s.lister, root.Path, importer.ExtensionsFor(library.MediaTypeMusic))
	if err != nil {
		return nil, err
	}

	result := &Result{FilesSeen: len(files)}

	// Group before touching the database so the same album parsed slightly
	// differently across files still lands on one entity.
	groups := make(map[string]*musicGroup)
	var order []string
	for _, f := range files {
		artist, album, year := s.identifyAlbum(f)
		key := match.NormalizeTitle(artist) + "|" + match.GroupKey(album, year)
		g, ok := groups[key]
		if !ok {
			g = &musicGroup{artist: artist, album: album, year: year}
			groups[key] = g
			order = append(order, key)
		}
		g.files = append(g.files, f)
	}

	for _, key := range order {
		g := groups[key]
		album, err := s.resolveAlbum(ctx, root, g)
		if err != nil {
			result.addError("%s - %s: %v", g.artist, g.album, err)
			continue
		}
		for _, f := range g.files {
			if err := s.scanTrackFile(root, album, f, result); err != nil {
				result.addError("%s: %v", filepath.Base(f), err)
			}
		}
	}

	if err := s.library.SyncHasFile(); err != nil {
		return nil, fmt.Errorf("sync has_file: %w", err)
	}
	return result, nil
}

// identifyAlbum extracts the grouping identity for one file: embedded tags
// first, the folder convention second, last-resort placeholders third.
func (s *Scanner) identifyAlbum(path string) (artist, album string, year int) {
	if tags, err := s.prober.ReadTags(path); err == nil && tags != nil {
		artist = tags.AlbumArtist
		if artist == "" {
			artist = tags.Artist
		}
		album = tags.Album
		year = tags.Year
	}
	if artist == "" || album == "" {
		if a, al, y, ok := mediaparse.ParseAlbumFolder(path); ok {
			if artist == "" {
				artist = a
			}
			if album == "" {
				album = al
			}
			if year == 0 {
				year = y
			}
		}
	}
	if album == "" {
		album = filepath.Base(filepath.Dir(path))
	}
	if artist == "" {
		artist = "Unknown Artist"
	}
	return artist, album, year
}

// resolveAlbum finds or creates the album for a group: exact lookup, then
// normalized, then the metadata provider, then a needs-review placeholder.
// A scan never fails on unrecognized content.
func (s *Scanner) resolveAlbum(ctx context.Context, root *library.RootFolder, g *musicGroup) (*library.Album, error) {
	artist, err := s.findArtist(root.ID, g.artist)
	if err != nil {
		return nil, err
	}

	if artist != nil {
		album, err := s.findAlbum(artist.ID, g.album, g.year)
		if err != nil {
			return nil, err
		}
		if album != nil {
			return album, nil
		}
	}

	if rec := s.lookupRelease(ctx, g); rec != nil {
		return s.createAlbumFromRecord(root, artist, rec)
	}

	if artist == nil {
		artist = &library.Artist{RootFolderID: root.ID, Name: g.artist, NeedsReview: true}
		if err := s.library.AddArtist(artist); err != nil {
			return nil, fmt.Errorf("create artist: %w", err)
		}
	}
	album := &library.Album{ArtistID: artist.ID, Title: g.album, Year: g.year, NeedsReview: true}
	if err := s.library.AddAlbum(album); err != nil {
		return nil, fmt.Errorf("create album: %w", err)
	}
	s.log.Info("created needs-review album", "artist", g.artist, "album", g.album, "year", g.year)
	return album, nil
}

func (s *Scanner) findArtist(rootFolderID int64, name string) (*library.Artist, error) {
	artist, err := s.library.GetArtistByName(rootFolderID, name)
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	if artist != nil {
		return artist, nil
	}

	all, err := s.library.ListArtists(rootFolderID)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	want := match.NormalizeTitle(name)
	for _, a := range all {
		if match.NormalizeTitle(a.Name) == want {
			return a, nil
		}
	}
	return nil, nil
}

func (s *Scanner) findAlbum(artistID int64, title string, year int) (*library.Album, error) {
	album, err := s.library.GetAlbumByTitle(artistID, title, year)
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	if album != nil {
		return album, nil
	}

	all, err := s.library.ListAlbums(artistID)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	want := match.NormalizeTitle(title)
	for _, a := range all {
		if match.NormalizeTitle(a.Title) != want {
			continue
		}
		if year != 0 && a.Year != 0 && a.Year != year {
			continue
		}
		return a, nil
	}
	return nil, nil
}

// lookupRelease asks the music provider for the group's release and keeps
// only a candidate whose artist agrees with what was parsed.
func (s *Scanner) lookupRelease(ctx context.Context, g *musicGroup) *metadata.Record {
	for _, c := range s.search(ctx, library.MediaTypeMusic, g.album, g.year) {
		if match.NormalizeTitle(c.Artist) == match.NormalizeTitle(g.artist) {
			return s.details(ctx, library.MediaTypeMusic, c.ExternalID)
		}
	}
	return nil
}

// createAlbumFromRecord materializes a provider release: the artist when
// missing, the album, and its track listing, all in one transaction so a
// failed track insert never leaves a half-built album behind.
func (s *Scanner) createAlbumFromRecord(root *library.RootFolder, artist *library.Artist, rec *metadata.Record) (*library.Album, error) {
	tx, err := s.library.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if artist == nil {
		artist = &library.Artist{RootFolderID: root.ID, Name: rec.Artist}
		if err := tx.AddArtist(artist); err != nil {
			return nil, fmt.Errorf("create artist: %w", err)
		}
	}

	album := &library.Album{ArtistID: artist.ID, Title: rec.Title, Year: rec.Year, ReleaseGroupID: &rec.ExternalID}
	if err := tx.AddAlbum(album); err != nil {
		return nil, fmt.Errorf("create album: %w", err)
	}

	for _, tr := range rec.Tracks {
		disc := tr.DiscNumber
		if disc == 0 {
			disc = 1
		}
		track := &library.Track{AlbumID: album.ID, DiscNumber: disc, TrackNumber: tr.TrackNumber, Title: tr.Title}
		if err := tx.AddTrack(track); err != nil && !errors.Is(err, library.ErrDuplicate) {
			return nil, fmt.Errorf("create track: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.log.Info("created album from provider", "artist", artist.Name, "album", rec.Title, "external_id", rec.ExternalID)
	return album, nil
}

// scanTrackFile reconciles one audio file against the album's tracks,
// creating a track row when nothing matches.
func (s *Scanner) scanTrackFile(root *library.RootFolder, album *library.Album, path string, result *Result) error {
	tags, err := s.prober.ReadTags(path)
	if err != nil {
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

	track, err := s.resolveTrack(id, title, path, album)
	if err != nil {
		return err
	}

	signals := quality.AudioSignals{}
	info := library.MediaInfo{}
	if tags != nil {
		signals = quality.AudioSignals{
			Codec:      tags.Codec,
			Bitrate:    tags.Bitrate,
			SampleRate: tags.SampleRate,
			BitDepth:   tags.BitDepth,
			Channels:   tags.Channels,
		}
		info = library.MediaInfo{
			Codec:      tags.Codec,
			Bitrate:    tags.Bitrate,
			SampleRate: tags.SampleRate,
			Channels:   tags.Channels,
			BitDepth:   tags.BitDepth,
		}
	}
	if signals.Codec == "" {
		signals.Codec = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	file := &library.MediaFile{
		TrackID:   &track.ID,
		Quality:   quality.ClassifyAudio(signals),
		MediaInfo: info,
	}
	return s.reconcileFile(root, path, file, result)
}

func (s *Scanner) resolveTrack(id match.FileIdentity, title, path string, album *library.Album) (*library.Track, error) {
	tracks, err := s.library.ListTracks(album.ID)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}

	cands := make([]match.Candidate, len(tracks))
	for n, t := range tracks {
		cands[n] = match.Candidate{ID: t.ID, Disc: t.DiscNumber, Number: t.TrackNumber, Title: t.Title}
	}
	if c, _ := match.First(id, cands, match.DefaultChain()...); c != nil {
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
		return nil, fmt.Errorf("cannot identify track for %s", filepath.Base(path))
	}
	if disc == 0 {
		disc = 1
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	track := &library.Track{AlbumID: album.ID, DiscNumber: disc, TrackNumber: num, Title: title}
	if err := s.library.AddTrack(track); err != nil {
		if errors.Is(err, library.ErrDuplicate) {
			tracks, lerr := s.library.ListTracks(album.ID)
			if lerr != nil {
				return nil, fmt.Errorf("list tracks: %w", lerr)
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
		}
		return nil, fmt.Errorf("create track: %w", err)
	}
	return track, nil
}
