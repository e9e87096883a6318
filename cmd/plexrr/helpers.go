package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"plexrr/internal/filter"
	"plexrr/internal/media"
	"plexrr/internal/pipeline"
	"plexrr/internal/plan"
)

// filterFlags holds the filter options shared by the listing and
// deletion commands.
type filterFlags struct {
	hasSize      bool
	noSize       bool
	availability string
	status       string
	onWatchlist  bool
	offWatchlist bool
	minAgeDays   int
	tag          string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.hasSize, "has-size", false, "Only entities with a media file")
	cmd.Flags().BoolVar(&f.noSize, "no-size", false, "Only entities without a media file")
	cmd.Flags().StringVar(&f.availability, "availability", "", "Filter by availability (plex, radarr, sonarr, both, none)")
	cmd.Flags().StringVar(&f.status, "status", "", "Filter by watch status (watched, in_progress, not_watched)")
	cmd.Flags().BoolVar(&f.onWatchlist, "watchlist", false, "Only entities on the watchlist")
	cmd.Flags().BoolVar(&f.offWatchlist, "no-watchlist", false, "Only entities not on the watchlist")
	cmd.Flags().IntVar(&f.minAgeDays, "min-age-days", 0, "Only entities whose last activity is at least this many days old")
	cmd.Flags().StringVar(&f.tag, "tag", "", "Filter by manager tag")
}

func (f *filterFlags) spec(mediaType media.Type) (filter.Spec, error) {
	spec := filter.Spec{
		MinAgeDays: f.minAgeDays,
		Tag:        f.tag,
		MediaType:  mediaType,
	}

	switch {
	case f.hasSize && f.noSize:
		return spec, fmt.Errorf("--has-size and --no-size are mutually exclusive")
	case f.hasSize:
		spec.HasSize = filter.BoolPtr(true)
	case f.noSize:
		spec.HasSize = filter.BoolPtr(false)
	}

	switch {
	case f.onWatchlist && f.offWatchlist:
		return spec, fmt.Errorf("--watchlist and --no-watchlist are mutually exclusive")
	case f.onWatchlist:
		spec.Watchlist = filter.BoolPtr(true)
	case f.offWatchlist:
		spec.Watchlist = filter.BoolPtr(false)
	}

	if f.availability != "" {
		availability, ok := media.ParseAvailability(f.availability)
		if !ok {
			return spec, fmt.Errorf("unknown availability %q", f.availability)
		}
		spec.Availability = &availability
	}

	if f.status != "" {
		status, ok := media.ParseWatchStatus(f.status)
		if !ok {
			return spec, fmt.Errorf("unknown watch status %q", f.status)
		}
		spec.Status = &status
	}

	return spec, nil
}

func parseSortFlag(value string) (filter.SortKey, error) {
	key, ok := filter.ParseSortKey(value)
	if !ok {
		return key, fmt.Errorf("unknown sort key %q (use title or date)", value)
	}
	return key, nil
}

// entityView is the JSON projection of one reconciled entity.
type entityView struct {
	Title         string            `json:"title"`
	Year          int               `json:"year,omitempty"`
	Availability  string            `json:"availability"`
	SizeBytes     int64             `json:"size_bytes,omitempty"`
	Size          string            `json:"size"`
	Status        string            `json:"status"`
	LastActivity  string            `json:"last_activity,omitempty"`
	OnWatchlist   bool              `json:"on_watchlist"`
	Tags          []string          `json:"tags,omitempty"`
	SourceIDs     map[string]string `json:"source_ids,omitempty"`
	EpisodeCount  int               `json:"episode_count,omitempty"`
	SeasonCount   int               `json:"season_count,omitempty"`
}

func entityViews(entities []media.Entity) []entityView {
	views := make([]entityView, 0, len(entities))
	for _, entity := range entities {
		view := entityView{
			Title:        entity.Title,
			Year:         entity.Year,
			Availability: entity.Availability.Label(entity.Type),
			SizeBytes:    entity.FileSizeBytes,
			Size:         media.FormatSize(entity.FileSizeBytes),
			Status:       entity.WatchStatus.String(),
			OnWatchlist:  entity.OnWatchlist,
			Tags:         entity.SortedTags(),
			EpisodeCount: entity.EpisodeCount,
			SeasonCount:  entity.SeasonCount,
		}
		if !entity.LastActivityAt.IsZero() {
			view.LastActivity = entity.LastActivityAt.Format(time.RFC3339)
		}
		if len(entity.SourceIDs) > 0 {
			view.SourceIDs = make(map[string]string, len(entity.SourceIDs))
			for source, id := range entity.SourceIDs {
				view.SourceIDs[string(source)] = id
			}
		}
		views = append(views, view)
	}
	return views
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatYear(year int) string {
	if year == 0 {
		return "N/A"
	}
	return strconv.Itoa(year)
}

// printRunSummary reports degraded sources, dropped records, and
// skipped items after the primary command output.
func printRunSummary(out io.Writer, result pipeline.Result, skipped []plan.Skipped) {
	if len(result.SourceErrors) > 0 {
		sources := make([]string, 0, len(result.SourceErrors))
		for source := range result.SourceErrors {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		for _, source := range sources {
			fmt.Fprintf(out, "warning: %s unavailable: %v\n", source, result.SourceErrors[source])
		}
	}
	if len(result.Dropped) > 0 {
		fmt.Fprintf(out, "warning: %d record(s) dropped:\n", len(result.Dropped))
		for _, dropped := range result.Dropped {
			fmt.Fprintf(out, "  - %s %s: %s\n", dropped.Source, dropped.ExternalID, dropped.Reason)
		}
	}
	printSkipped(out, skipped)
}

func printSkipped(out io.Writer, skipped []plan.Skipped) {
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintf(out, "%d item(s) skipped:\n", len(skipped))
	for _, item := range skipped {
		fmt.Fprintf(out, "  - %s: %s\n", item.Title, item.Reason)
	}
}

// printExecuteResult reports what ran and what failed.
func printExecuteResult(out io.Writer, result pipeline.ExecuteResult) {
	fmt.Fprintf(out, "%d action(s) completed", len(result.Completed))
	if len(result.Failed) > 0 {
		fmt.Fprintf(out, ", %d failed", len(result.Failed))
	}
	fmt.Fprintln(out)
	for _, failure := range result.Failed {
		fmt.Fprintf(out, "  failed: %s: %v\n", failure.Action.Description, failure.Err)
	}
}

// printPlan lists proposed actions without executing them.
func printPlan(out io.Writer, p plan.Plan, execute bool) {
	if p.Empty() {
		fmt.Fprintln(out, "Nothing to do")
		return
	}
	if !execute {
		fmt.Fprintf(out, "Planned actions (%d), pass --execute to apply:\n", len(p.Actions))
	} else {
		fmt.Fprintf(out, "Executing %d action(s):\n", len(p.Actions))
	}
	for _, action := range p.Actions {
		fmt.Fprintf(out, "  - %s\n", action.Description)
	}
}
