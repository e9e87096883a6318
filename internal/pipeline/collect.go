package pipeline

import (
	"context"

	"plexrr/internal/identity"
	"plexrr/internal/media"
	"plexrr/internal/plan"
	"plexrr/internal/services"
)

// DuplicateGroups finds manager movie records holding more than one
// file version, the input to the clean planner.
func (p *Pipeline) DuplicateGroups(ctx context.Context) ([]plan.DuplicateGroup, error) {
	movies, err := p.movies.ListMovies(ctx)
	if err != nil {
		return nil, err
	}

	var groups []plan.DuplicateGroup
	for _, movie := range movies {
		if movie.ExternalID == "" {
			continue
		}
		files, err := p.movies.ListMovieFiles(ctx, movie.ExternalID)
		if err != nil {
			return nil, err
		}
		if len(files) < 2 {
			continue
		}
		groups = append(groups, plan.DuplicateGroup{
			Title:     movie.Title,
			ManagerID: movie.ExternalID,
			Files:     files,
		})
	}
	return groups, nil
}

// Episodes collects library episodes across shows, restricted to a
// single show when showKey is set. The input to the episode planners.
func (p *Pipeline) Episodes(ctx context.Context, showKey string) ([]media.Episode, error) {
	shows, err := p.library.ListShows(ctx)
	if err != nil {
		return nil, err
	}

	var episodes []media.Episode
	for _, show := range shows {
		if showKey != "" && show.ExternalID != showKey {
			continue
		}
		items, err := p.library.ListEpisodes(ctx, show.ExternalID)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, items...)
	}
	return episodes, nil
}

// ShowKeyByTitle resolves a show title to its library key using the
// same normalization the merge step uses.
func (p *Pipeline) ShowKeyByTitle(ctx context.Context, title string) (string, error) {
	shows, err := p.library.ListShows(ctx)
	if err != nil {
		return "", err
	}

	want := identity.NormalizeTitle(title)
	for _, show := range shows {
		if identity.NormalizeTitle(show.Title) == want {
			return show.ExternalID, nil
		}
	}
	return "", services.Wrap(services.ErrNotFound, "plex", "resolve-show",
		"no library show matches "+title, nil)
}
