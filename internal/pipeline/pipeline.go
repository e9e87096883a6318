package pipeline

import (
	"context"
	"log/slog"

	"plexrr/internal/identity"
	"plexrr/internal/logging"
	"plexrr/internal/media"
	"plexrr/internal/reconcile"
	"plexrr/internal/services"
	"plexrr/internal/services/radarr"
	"plexrr/internal/services/sonarr"
)

// LibraryClient is the media-server surface the pipeline needs.
type LibraryClient interface {
	ListMovies(ctx context.Context) ([]media.RawRecord, error)
	ListShows(ctx context.Context) ([]media.RawRecord, error)
	ListEpisodes(ctx context.Context, showKey string) ([]media.Episode, error)
	ListWatchlist(ctx context.Context) ([]media.WatchlistEntry, error)
	DeleteItem(ctx context.Context, ratingKey string) error
}

// MovieManager is the movie-manager surface the pipeline needs.
type MovieManager interface {
	ListMovies(ctx context.Context) ([]media.RawRecord, error)
	LookupMovie(ctx context.Context, term string) ([]radarr.MovieCandidate, error)
	AddMovie(ctx context.Context, req radarr.AddMovieRequest) error
	DeleteMovie(ctx context.Context, id string, deleteFiles bool) error
	ListMovieFiles(ctx context.Context, movieID string) ([]media.FileVersion, error)
	DeleteMovieFile(ctx context.Context, fileID string) error
	RootFolders(ctx context.Context) ([]radarr.RootFolder, error)
}

// ShowManager is the show-manager surface the pipeline needs.
type ShowManager interface {
	ListSeries(ctx context.Context) ([]media.RawRecord, error)
	LookupSeries(ctx context.Context, term string) ([]sonarr.SeriesCandidate, error)
	AddSeries(ctx context.Context, req sonarr.AddSeriesRequest) error
	DeleteSeries(ctx context.Context, id string, deleteFiles bool) error
	RequestEpisode(ctx context.Context, seriesID string, season, number int) error
	RootFolders(ctx context.Context) ([]sonarr.RootFolder, error)
}

// Options tunes pipeline behaviour.
type Options struct {
	// DegradedOK lets a run proceed when a source fails; the failure is
	// recorded in the snapshot instead of aborting the run.
	DegradedOK bool
	Logger     *slog.Logger
}

// Pipeline wires the source clients into reconciliation runs.
type Pipeline struct {
	library    LibraryClient
	movies     MovieManager
	shows      ShowManager
	degradedOK bool
	logger     *slog.Logger
}

// New constructs a Pipeline. The show manager may be nil when Sonarr is
// not configured; show operations then fail with a configuration error.
func New(library LibraryClient, movies MovieManager, shows ShowManager, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		library:    library,
		movies:     movies,
		shows:      shows,
		degradedOK: opts.DegradedOK,
		logger:     logger.With(logging.FieldComponent, "pipeline"),
	}
}

// Snapshot is the raw fetch result for one run.
type Snapshot struct {
	Records   []media.RawRecord
	Watchlist []media.WatchlistEntry
	// SourceErrors records per-source fetch failures tolerated under
	// degraded mode, keyed by source name.
	SourceErrors map[string]error
}

// Degraded reports whether any source failed during the fetch.
func (s *Snapshot) Degraded() bool { return len(s.SourceErrors) > 0 }

type fetchResult struct {
	source    string
	records   []media.RawRecord
	watchlist []media.WatchlistEntry
	err       error
}

// Fetch pulls the library, the matching manager, and the watchlist
// concurrently and assembles a Snapshot. A configuration error always
// aborts; other source failures abort unless degraded mode is on.
func (p *Pipeline) Fetch(ctx context.Context, mediaType media.Type) (*Snapshot, error) {
	if mediaType == media.TypeShow && p.shows == nil {
		return nil, services.Wrap(services.ErrConfiguration, "sonarr", "fetch", "sonarr is not enabled", nil)
	}

	results := make(chan fetchResult, 3)

	go func() {
		var records []media.RawRecord
		var err error
		if mediaType == media.TypeShow {
			records, err = p.library.ListShows(ctx)
		} else {
			records, err = p.library.ListMovies(ctx)
		}
		results <- fetchResult{source: "plex", records: records, err: err}
	}()

	go func() {
		var records []media.RawRecord
		var err error
		if mediaType == media.TypeShow {
			records, err = p.shows.ListSeries(ctx)
			results <- fetchResult{source: "sonarr", records: records, err: err}
			return
		}
		records, err = p.movies.ListMovies(ctx)
		results <- fetchResult{source: "radarr", records: records, err: err}
	}()

	go func() {
		entries, err := p.library.ListWatchlist(ctx)
		results <- fetchResult{source: "watchlist", watchlist: entries, err: err}
	}()

	snapshot := &Snapshot{SourceErrors: make(map[string]error)}
	for i := 0; i < 3; i++ {
		result := <-results
		if result.err != nil {
			if services.IsFatal(result.err) {
				return nil, result.err
			}
			snapshot.SourceErrors[result.source] = result.err
			continue
		}
		snapshot.Records = append(snapshot.Records, result.records...)
		for _, entry := range result.watchlist {
			if entry.Type == mediaType {
				snapshot.Watchlist = append(snapshot.Watchlist, entry)
			}
		}
	}

	if len(snapshot.SourceErrors) > 0 {
		for source, err := range snapshot.SourceErrors {
			p.logger.Warn("source fetch failed", logging.FieldSource, source, "error", err)
		}
		if !p.degradedOK {
			for _, err := range snapshot.SourceErrors {
				return nil, err
			}
		}
	}
	return snapshot, nil
}

// Result is the reconciled output of one run.
type Result struct {
	Entities []media.Entity
	Dropped  []identity.Dropped
	// SourceErrors is carried over from the snapshot for the summary.
	SourceErrors map[string]error
}

// Reconcile resolves identities and merges the snapshot into entities.
func (p *Pipeline) Reconcile(snapshot *Snapshot) Result {
	resolution := identity.Resolve(snapshot.Records)
	entities := reconcile.Merge(resolution, snapshot.Watchlist)
	if len(resolution.Dropped) > 0 {
		p.logger.Warn("records dropped during identity resolution", "count", len(resolution.Dropped))
	}
	return Result{
		Entities:     entities,
		Dropped:      resolution.Dropped,
		SourceErrors: snapshot.SourceErrors,
	}
}

// Run fetches and reconciles in one step.
func (p *Pipeline) Run(ctx context.Context, mediaType media.Type) (Result, error) {
	snapshot, err := p.Fetch(ctx, mediaType)
	if err != nil {
		return Result{}, err
	}
	return p.Reconcile(snapshot), nil
}
