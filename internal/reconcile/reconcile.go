package reconcile

import (
	"log/slog"
	"sort"

	"relink/internal/logging"
	"relink/internal/media"
)

// Conflict records desired entries that were excluded because two different
// identities claimed the same library path. Conflicting entries are never
// resolved by overwriting; both sides sit out until the inputs change.
type Conflict struct {
	LibraryPath string
	SourcePaths []string
}

// Changeset is the diff between the desired link set and the observed one.
type Changeset struct {
	Create []media.LinkEntry
	Remove []media.LinkEntry
	Relink []media.LinkEntry
	// Unchanged counts observed links that already match the desired set.
	Unchanged int
	Conflicts []Conflict
}

// Empty reports whether applying the changeset would touch the filesystem.
func (c *Changeset) Empty() bool {
	return len(c.Create) == 0 && len(c.Remove) == 0 && len(c.Relink) == 0
}

// Reconciler computes the changeset that brings the library tree in line
// with the resolved torrent files.
type Reconciler struct {
	roots         map[media.Category]string
	separateAnime bool
	logger        *slog.Logger
}

func New(roots map[media.Category]string, separateAnime bool, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		roots:         roots,
		separateAnime: separateAnime,
		logger:        logging.NewComponentLogger(logger, "reconcile"),
	}
}

// Reconcile diffs the observed library links against the desired set built
// from resolved files. Unresolved files contribute nothing; their existing
// links, if any, survive only when some resolved file still claims them.
func (r *Reconciler) Reconcile(observed []media.LinkEntry, files []*media.File) *Changeset {
	desired, conflicts := r.desiredSet(files)

	observedByPath := make(map[string]media.LinkEntry, len(observed))
	for _, link := range observed {
		observedByPath[link.LibraryPath] = link
	}

	cs := &Changeset{Conflicts: conflicts}
	// Conflicted paths are frozen entirely: an existing link at a conflicted
	// path stays in place rather than being removed out from under the
	// unresolved claimants.
	for _, c := range conflicts {
		delete(observedByPath, c.LibraryPath)
	}
	for _, want := range desired {
		have, ok := observedByPath[want.LibraryPath]
		switch {
		case !ok:
			cs.Create = append(cs.Create, want)
		case have.TargetPath != want.TargetPath:
			cs.Relink = append(cs.Relink, want)
		default:
			cs.Unchanged++
		}
		delete(observedByPath, want.LibraryPath)
	}
	for _, have := range observedByPath {
		cs.Remove = append(cs.Remove, have)
	}

	sortEntries(cs.Create)
	sortEntries(cs.Remove)
	sortEntries(cs.Relink)
	sort.Slice(cs.Conflicts, func(i, j int) bool { return cs.Conflicts[i].LibraryPath < cs.Conflicts[j].LibraryPath })

	r.logger.Info("changeset computed",
		logging.Int("create", len(cs.Create)),
		logging.Int("remove", len(cs.Remove)),
		logging.Int("relink", len(cs.Relink)),
		logging.Int("unchanged", cs.Unchanged),
		logging.Int("conflicts", len(cs.Conflicts)))
	return cs
}

type claim struct {
	file     *media.File
	category media.Category
}

// desiredSet builds the desired link entries from resolved files, applying
// same-identity version suffixes and excluding cross-identity collisions.
func (r *Reconciler) desiredSet(files []*media.File) ([]media.LinkEntry, []Conflict) {
	claimsByPath := make(map[string][]claim)

	for _, f := range files {
		if !f.Resolved() {
			continue
		}
		id := *f.Identity
		category := media.CategoryFor(id.Kind, id.Anime, r.separateAnime)
		root, ok := r.roots[category]
		if !ok {
			r.logger.Warn("no root configured for category",
				logging.String("category", string(category)),
				logging.String("source", f.SourcePath))
			continue
		}
		season, episode := f.Season, f.Episode
		if episode > 0 && season == 0 {
			season = 1
		}
		path := media.LibraryPath(root, id, season, episode, f.SourcePath)
		claimsByPath[path] = append(claimsByPath[path], claim{file: f, category: category})
	}

	var desired []media.LinkEntry
	var conflicts []Conflict
	for path, claims := range claimsByPath {
		if len(claims) == 1 {
			desired = append(desired, media.LinkEntry{
				LibraryPath: path,
				TargetPath:  claims[0].file.SourcePath,
				Category:    claims[0].category,
			})
			continue
		}

		sort.Slice(claims, func(i, j int) bool { return claims[i].file.SourcePath < claims[j].file.SourcePath })

		if !sameIdentity(claims[0].file, claims[1:]) {
			sources := make([]string, 0, len(claims))
			for _, c := range claims {
				sources = append(sources, c.file.SourcePath)
			}
			conflicts = append(conflicts, Conflict{LibraryPath: path, SourcePaths: sources})
			continue
		}

		// Same identity, same destination: alternate versions of one
		// release keep deterministic " - vN" suffixes by source order.
		for i, c := range claims {
			entryPath := path
			if i > 0 {
				entryPath = media.VersionedPath(path, i+1)
			}
			desired = append(desired, media.LinkEntry{
				LibraryPath: entryPath,
				TargetPath:  c.file.SourcePath,
				Category:    c.category,
			})
		}
	}
	return desired, conflicts
}

func sameIdentity(first *media.File, rest []claim) bool {
	for _, c := range rest {
		if c.file.Identity.TMDBID != first.Identity.TMDBID || c.file.Identity.Kind != first.Identity.Kind {
			return false
		}
	}
	return true
}

func sortEntries(entries []media.LinkEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].LibraryPath < entries[j].LibraryPath })
}
