package media

import (
	"fmt"
	"path/filepath"

	"relink/internal/textutil"
)

// FileName is the library filename for a file resolved to id. Movies repeat
// the identity directory name; episodes use "Title (Year) - sNNeNN".
// ext includes the leading dot, as returned by filepath.Ext.
func FileName(id Identity, season, episode int, ext string) string {
	if episode > 0 {
		return textutil.SanitizeFileName(fmt.Sprintf("%s (%d) - s%02de%02d", id.Title, id.Year, season, episode)) + ext
	}
	return id.DirName() + ext
}

// LibraryPath builds the full desired link path for a resolved file:
// <categoryRoot>/<identity dir>/<file name>.
func LibraryPath(categoryRoot string, id Identity, season, episode int, sourcePath string) string {
	ext := filepath.Ext(sourcePath)
	return filepath.Join(categoryRoot, id.DirName(), FileName(id, season, episode, ext))
}

// VersionedPath appends a " - vN" marker before the extension, used when two
// files of the same identity collide on the same library path.
func VersionedPath(path string, version int) string {
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	return fmt.Sprintf("%s - v%d%s", base, version, ext)
}
