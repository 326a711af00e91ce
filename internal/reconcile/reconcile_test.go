package reconcile

import (
	"testing"

	"relink/internal/logging"
	"relink/internal/media"
)

var testRoots = map[media.Category]string{
	media.CategoryMovies:      "/library/movies",
	media.CategoryShows:       "/library/shows",
	media.CategoryAnimeMovies: "/library/anime_movies",
	media.CategoryAnimeShows:  "/library/anime_shows",
}

func newTestReconciler() *Reconciler {
	return New(testRoots, true, logging.NewNop())
}

func movieFile(source string, id media.Identity) *media.File {
	return &media.File{SourcePath: source, Identity: &id}
}

func episodeFile(source string, id media.Identity, season, episode int) *media.File {
	return &media.File{SourcePath: source, Identity: &id, Season: season, Episode: episode}
}

func TestReconcileCreatesMissingLinks(t *testing.T) {
	matrix := media.Identity{TMDBID: 603, Title: "The Matrix", Year: 1999, Kind: media.KindMovie}

	cs := newTestReconciler().Reconcile(nil, []*media.File{
		movieFile("/torrents/matrix/matrix.mkv", matrix),
	})

	if len(cs.Create) != 1 || len(cs.Remove) != 0 || len(cs.Relink) != 0 {
		t.Fatalf("changeset = %+v", cs)
	}
	want := "/library/movies/The Matrix (1999) {tmdb-603}/The Matrix (1999) {tmdb-603}.mkv"
	if cs.Create[0].LibraryPath != want {
		t.Fatalf("LibraryPath = %q, want %q", cs.Create[0].LibraryPath, want)
	}
	if cs.Create[0].TargetPath != "/torrents/matrix/matrix.mkv" {
		t.Fatalf("TargetPath = %q", cs.Create[0].TargetPath)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	matrix := media.Identity{TMDBID: 603, Title: "The Matrix", Year: 1999, Kind: media.KindMovie}
	files := []*media.File{movieFile("/torrents/matrix/matrix.mkv", matrix)}

	first := newTestReconciler().Reconcile(nil, files)
	if len(first.Create) != 1 {
		t.Fatalf("expected one create, got %+v", first)
	}

	// Feeding the created links back as the observed set yields no work.
	second := newTestReconciler().Reconcile(first.Create, files)
	if !second.Empty() {
		t.Fatalf("expected empty changeset, got %+v", second)
	}
	if second.Unchanged != 1 {
		t.Fatalf("Unchanged = %d, want 1", second.Unchanged)
	}
}

func TestReconcileRelinksChangedTarget(t *testing.T) {
	matrix := media.Identity{TMDBID: 603, Title: "The Matrix", Year: 1999, Kind: media.KindMovie}
	path := "/library/movies/The Matrix (1999) {tmdb-603}/The Matrix (1999) {tmdb-603}.mkv"
	observed := []media.LinkEntry{
		{LibraryPath: path, TargetPath: "/torrents/old/matrix.mkv", Category: media.CategoryMovies},
	}

	cs := newTestReconciler().Reconcile(observed, []*media.File{
		movieFile("/torrents/new/matrix.mkv", matrix),
	})

	if len(cs.Relink) != 1 || len(cs.Create) != 0 || len(cs.Remove) != 0 {
		t.Fatalf("changeset = %+v", cs)
	}
	if cs.Relink[0].TargetPath != "/torrents/new/matrix.mkv" {
		t.Fatalf("Relink target = %q", cs.Relink[0].TargetPath)
	}
}

func TestReconcileRemovesStaleLinks(t *testing.T) {
	observed := []media.LinkEntry{
		{LibraryPath: "/library/movies/Gone (2010) {tmdb-1}/Gone (2010) {tmdb-1}.mkv",
			TargetPath: "/torrents/gone/gone.mkv", Category: media.CategoryMovies},
	}

	cs := newTestReconciler().Reconcile(observed, nil)

	if len(cs.Remove) != 1 {
		t.Fatalf("changeset = %+v", cs)
	}
	if cs.Remove[0].LibraryPath != observed[0].LibraryPath {
		t.Fatalf("Remove path = %q", cs.Remove[0].LibraryPath)
	}
}

func TestReconcileExcludesCrossIdentityCollisions(t *testing.T) {
	// Movie and TV ids live in separate TMDB namespaces, so two different
	// identities can format to the same library path. Neither side may win
	// by overwrite; both sit out as a conflict.
	cs := New(map[media.Category]string{
		media.CategoryMovies: "/library/all",
		media.CategoryShows:  "/library/all",
	}, false, logging.NewNop()).Reconcile(nil, []*media.File{
		movieFile("/torrents/one/twin.mkv", media.Identity{TMDBID: 7, Title: "Twin", Year: 2020, Kind: media.KindMovie}),
		movieFile("/torrents/two/twin.mkv", media.Identity{TMDBID: 7, Title: "Twin", Year: 2020, Kind: media.KindShow}),
	})

	if len(cs.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %+v", cs)
	}
	if len(cs.Create) != 0 {
		t.Fatalf("conflicting entries must be excluded, got %+v", cs.Create)
	}
	if got := len(cs.Conflicts[0].SourcePaths); got != 2 {
		t.Fatalf("conflict sources = %d, want 2", got)
	}
}

func TestReconcileLeavesObservedLinkAtConflictedPath(t *testing.T) {
	r := New(map[media.Category]string{
		media.CategoryMovies: "/library/all",
		media.CategoryShows:  "/library/all",
	}, false, logging.NewNop())
	path := "/library/all/Twin (2020) {tmdb-7}/Twin (2020) {tmdb-7}.mkv"
	observed := []media.LinkEntry{
		{LibraryPath: path, TargetPath: "/torrents/one/twin.mkv", Category: media.CategoryMovies},
	}

	cs := r.Reconcile(observed, []*media.File{
		movieFile("/torrents/one/twin.mkv", media.Identity{TMDBID: 7, Title: "Twin", Year: 2020, Kind: media.KindMovie}),
		movieFile("/torrents/two/twin.mkv", media.Identity{TMDBID: 7, Title: "Twin", Year: 2020, Kind: media.KindShow}),
	})

	if len(cs.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %+v", cs)
	}
	// The existing link stays put until the conflict is resolved.
	if len(cs.Remove) != 0 {
		t.Fatalf("conflicted path must not be removed, got %+v", cs.Remove)
	}
	if len(cs.Create) != 0 || len(cs.Relink) != 0 {
		t.Fatalf("changeset = %+v", cs)
	}
}

func TestReconcileVersionsSameIdentityDuplicates(t *testing.T) {
	matrix := media.Identity{TMDBID: 603, Title: "The Matrix", Year: 1999, Kind: media.KindMovie}

	cs := newTestReconciler().Reconcile(nil, []*media.File{
		movieFile("/torrents/remux/matrix.mkv", matrix),
		movieFile("/torrents/webdl/matrix.mkv", matrix),
	})

	if len(cs.Create) != 2 {
		t.Fatalf("expected 2 creates, got %+v", cs)
	}
	if len(cs.Conflicts) != 0 {
		t.Fatalf("same identity must not conflict, got %+v", cs.Conflicts)
	}
	base := "/library/movies/The Matrix (1999) {tmdb-603}/The Matrix (1999) {tmdb-603}.mkv"
	versioned := "/library/movies/The Matrix (1999) {tmdb-603}/The Matrix (1999) {tmdb-603} - v2.mkv"
	// Entries sort by library path, which puts the " - v2" suffix first.
	if cs.Create[0].LibraryPath != versioned || cs.Create[1].LibraryPath != base {
		t.Fatalf("paths = %q, %q", cs.Create[0].LibraryPath, cs.Create[1].LibraryPath)
	}
	// Source order decides who keeps the unsuffixed name.
	if cs.Create[1].TargetPath != "/torrents/remux/matrix.mkv" {
		t.Fatalf("base target = %q", cs.Create[1].TargetPath)
	}
	if cs.Create[0].TargetPath != "/torrents/webdl/matrix.mkv" {
		t.Fatalf("versioned target = %q", cs.Create[0].TargetPath)
	}
}

func TestReconcileRoutesAnimeCategories(t *testing.T) {
	frieren := media.Identity{TMDBID: 209867, Title: "Frieren", Year: 2023, Kind: media.KindShow, Anime: true}

	cs := newTestReconciler().Reconcile(nil, []*media.File{
		episodeFile("/torrents/frieren/ep01.mkv", frieren, 1, 1),
	})

	if len(cs.Create) != 1 {
		t.Fatalf("changeset = %+v", cs)
	}
	if cs.Create[0].Category != media.CategoryAnimeShows {
		t.Fatalf("Category = %q, want anime_shows", cs.Create[0].Category)
	}
	want := "/library/anime_shows/Frieren (2023) {tmdb-209867}/Frieren (2023) - s01e01.mkv"
	if cs.Create[0].LibraryPath != want {
		t.Fatalf("LibraryPath = %q, want %q", cs.Create[0].LibraryPath, want)
	}
}

func TestReconcileAnimeFoldsIntoPlainCategoriesWhenDisabled(t *testing.T) {
	frieren := media.Identity{TMDBID: 209867, Title: "Frieren", Year: 2023, Kind: media.KindShow, Anime: true}
	r := New(testRoots, false, logging.NewNop())

	cs := r.Reconcile(nil, []*media.File{episodeFile("/torrents/frieren/ep01.mkv", frieren, 1, 1)})

	if len(cs.Create) != 1 || cs.Create[0].Category != media.CategoryShows {
		t.Fatalf("changeset = %+v", cs)
	}
}

func TestReconcileDefaultsEpisodeSeasonToOne(t *testing.T) {
	frieren := media.Identity{TMDBID: 209867, Title: "Frieren", Year: 2023, Kind: media.KindShow, Anime: true}

	cs := newTestReconciler().Reconcile(nil, []*media.File{
		episodeFile("/torrents/frieren/ep05.mkv", frieren, 0, 5),
	})

	want := "/library/anime_shows/Frieren (2023) {tmdb-209867}/Frieren (2023) - s01e05.mkv"
	if len(cs.Create) != 1 || cs.Create[0].LibraryPath != want {
		t.Fatalf("changeset = %+v", cs)
	}
}

func TestReconcileSkipsUnresolvedFiles(t *testing.T) {
	cs := newTestReconciler().Reconcile(nil, []*media.File{
		{SourcePath: "/torrents/mystery/mystery.mkv", Candidate: media.Candidate{Title: "Mystery"}},
	})
	if !cs.Empty() || len(cs.Conflicts) != 0 {
		t.Fatalf("unresolved files must contribute nothing, got %+v", cs)
	}
}
