package pipeline

import (
	"context"
	"fmt"

	"plexrr/internal/identity"
	"plexrr/internal/media"
	"plexrr/internal/plan"
	"plexrr/internal/services"
	"plexrr/internal/services/radarr"
	"plexrr/internal/services/sonarr"
)

// ActionError pairs a failed action with its cause.
type ActionError struct {
	Action plan.Action
	Err    error
}

// ExecuteResult reports what happened when a plan ran against the
// backends.
type ExecuteResult struct {
	Completed []plan.Action
	Failed    []ActionError
}

// Execute runs every action in the plan against the backends. Failures
// are collected per action; one bad record never aborts the rest.
func (p *Pipeline) Execute(ctx context.Context, pl plan.Plan) ExecuteResult {
	var result ExecuteResult
	var seriesIndex map[string]string

	for _, action := range pl.Actions {
		var err error
		switch action.Kind {
		case plan.KindAddToManager:
			err = p.executeAdd(ctx, action)
		case plan.KindDeleteRecord:
			err = p.executeDeleteRecord(ctx, action)
		case plan.KindDeleteFile:
			err = p.movies.DeleteMovieFile(ctx, action.TargetID)
		case plan.KindDeleteEpisode:
			err = p.library.DeleteItem(ctx, action.TargetID)
		case plan.KindRequestEpisode:
			if seriesIndex == nil {
				seriesIndex, err = p.seriesByTitle(ctx)
			}
			if err == nil {
				err = p.executeRequestEpisode(ctx, action, seriesIndex)
			}
		default:
			err = fmt.Errorf("unknown action kind %q", action.Kind)
		}

		if err != nil {
			p.logger.Warn("action failed", "action", action.Description, "error", err)
			result.Failed = append(result.Failed, ActionError{Action: action, Err: err})
			continue
		}
		p.logger.Info("action complete", "action", action.Description)
		result.Completed = append(result.Completed, action)
	}
	return result
}

func (p *Pipeline) executeAdd(ctx context.Context, action plan.Action) error {
	if action.Source == media.SourceSonarr {
		return p.addSeries(ctx, action)
	}
	return p.addMovie(ctx, action)
}

func (p *Pipeline) addMovie(ctx context.Context, action plan.Action) error {
	candidates, err := p.movies.LookupMovie(ctx, action.Title)
	if err != nil {
		return err
	}
	candidate, ok := pickMovieCandidate(candidates, action.Title, action.Year)
	if !ok {
		return services.Wrap(services.ErrNotFound, "radarr", "add movie",
			fmt.Sprintf("no lookup match for %q (%d)", action.Title, action.Year), nil)
	}

	rootFolder := action.RootFolder
	if rootFolder == "" {
		folders, err := p.movies.RootFolders(ctx)
		if err != nil {
			return err
		}
		if len(folders) == 0 {
			return services.Wrap(services.ErrConfiguration, "radarr", "add movie", "no root folders configured", nil)
		}
		rootFolder = folders[0].Path
	}

	return p.movies.AddMovie(ctx, radarr.AddMovieRequest{
		Title:            candidate.Title,
		Year:             candidate.Year,
		TmdbID:           candidate.TmdbID,
		QualityProfileID: int64(action.QualityProfileID),
		RootFolderPath:   rootFolder,
		SearchNow:        true,
	})
}

func (p *Pipeline) addSeries(ctx context.Context, action plan.Action) error {
	if p.shows == nil {
		return services.Wrap(services.ErrConfiguration, "sonarr", "add series", "sonarr is not enabled", nil)
	}
	candidates, err := p.shows.LookupSeries(ctx, action.Title)
	if err != nil {
		return err
	}
	candidate, ok := pickSeriesCandidate(candidates, action.Title, action.Year)
	if !ok {
		return services.Wrap(services.ErrNotFound, "sonarr", "add series",
			fmt.Sprintf("no lookup match for %q (%d)", action.Title, action.Year), nil)
	}

	rootFolder := action.RootFolder
	if rootFolder == "" {
		folders, err := p.shows.RootFolders(ctx)
		if err != nil {
			return err
		}
		if len(folders) == 0 {
			return services.Wrap(services.ErrConfiguration, "sonarr", "add series", "no root folders configured", nil)
		}
		rootFolder = folders[0].Path
	}

	return p.shows.AddSeries(ctx, sonarr.AddSeriesRequest{
		Title:            candidate.Title,
		Year:             candidate.Year,
		TvdbID:           candidate.TvdbID,
		QualityProfileID: int64(action.QualityProfileID),
		RootFolderPath:   rootFolder,
		SearchNow:        true,
	})
}

func (p *Pipeline) executeDeleteRecord(ctx context.Context, action plan.Action) error {
	switch action.Source {
	case media.SourceRadarr:
		return p.movies.DeleteMovie(ctx, action.TargetID, action.DeleteFiles)
	case media.SourceSonarr:
		if p.shows == nil {
			return services.Wrap(services.ErrConfiguration, "sonarr", "delete series", "sonarr is not enabled", nil)
		}
		return p.shows.DeleteSeries(ctx, action.TargetID, action.DeleteFiles)
	case media.SourcePlex:
		return p.library.DeleteItem(ctx, action.TargetID)
	default:
		return fmt.Errorf("unknown source %q", action.Source)
	}
}

// executeRequestEpisode resolves the library show to its manager record
// by normalized title; the planner only knows the library-side key.
func (p *Pipeline) executeRequestEpisode(ctx context.Context, action plan.Action, seriesIndex map[string]string) error {
	seriesID, ok := seriesIndex[identity.NormalizeTitle(action.ShowTitle)]
	if !ok {
		return services.Wrap(services.ErrNotFound, "sonarr", "request episode",
			fmt.Sprintf("show %q is not tracked", action.ShowTitle), nil)
	}
	return p.shows.RequestEpisode(ctx, seriesID, action.Season, action.Episode)
}

func (p *Pipeline) seriesByTitle(ctx context.Context) (map[string]string, error) {
	if p.shows == nil {
		return nil, services.Wrap(services.ErrConfiguration, "sonarr", "request episode", "sonarr is not enabled", nil)
	}
	records, err := p.shows.ListSeries(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(records))
	for _, record := range records {
		index[identity.NormalizeTitle(record.Title)] = record.ExternalID
	}
	return index, nil
}

func pickMovieCandidate(candidates []radarr.MovieCandidate, title string, year int) (radarr.MovieCandidate, bool) {
	normalized := identity.NormalizeTitle(title)
	var fallback radarr.MovieCandidate
	var haveFallback bool
	for _, candidate := range candidates {
		if identity.NormalizeTitle(candidate.Title) != normalized {
			continue
		}
		if year == 0 || candidate.Year == year {
			return candidate, true
		}
		if !haveFallback {
			fallback, haveFallback = candidate, true
		}
	}
	return fallback, haveFallback
}

func pickSeriesCandidate(candidates []sonarr.SeriesCandidate, title string, year int) (sonarr.SeriesCandidate, bool) {
	normalized := identity.NormalizeTitle(title)
	var fallback sonarr.SeriesCandidate
	var haveFallback bool
	for _, candidate := range candidates {
		if identity.NormalizeTitle(candidate.Title) != normalized {
			continue
		}
		if year == 0 || candidate.Year == year {
			return candidate, true
		}
		if !haveFallback {
			fallback, haveFallback = candidate, true
		}
	}
	return fallback, haveFallback
}
