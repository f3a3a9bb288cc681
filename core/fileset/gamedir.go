package fileset

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	// SteamAppID is Steam's id for Crusader Kings III.
	SteamAppID = "1158310"

	// signatureFile is present in every game directory.
	signatureFile = "events/witch_events.txt"

	steamLinux = ".local/share/Steam/steamapps"
	steamMac   = "Library/Application Support/Steam/steamapps"
	gameSubdir = "steamapps/common/Crusader Kings III/game"
)

// ErrGameNotFound means no game directory could be located.
var ErrGameNotFound = errors.New("cannot find the game directory; set it with --game or game.path")

// IsGameDir reports whether dir looks like the game's content directory.
func IsGameDir(dir string) bool {
	st, err := os.Stat(filepath.Join(dir, filepath.FromSlash(signatureFile)))
	return err == nil && !st.IsDir()
}

// FindGameDir resolves the game directory. An explicit dir is accepted
// as-is or with `game` appended; without one, the Steam libraries of the
// current user are searched.
func FindGameDir(explicit string) (string, error) {
	if explicit != "" {
		if IsGameDir(explicit) {
			return explicit, nil
		}
		if sub := filepath.Join(explicit, "game"); IsGameDir(sub) {
			return sub, nil
		}
		return "", ErrGameNotFound
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", ErrGameNotFound
	}
	for _, steamapps := range []string{filepath.Join(home, steamLinux), filepath.Join(home, steamMac)} {
		libs, err := steamLibraries(filepath.Join(steamapps, "libraryfolders.vdf"))
		if err != nil {
			continue
		}
		for _, lib := range libs {
			if dir := filepath.Join(lib, filepath.FromSlash(gameSubdir)); IsGameDir(dir) {
				return dir, nil
			}
		}
	}
	return "", ErrGameNotFound
}

// steamLibraries returns the library paths in libraryfolders.vdf that
// list the game among their apps.
func steamLibraries(vdf string) ([]string, error) {
	f, err := os.Open(vdf)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var libs []string
	var current string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := quoted(sc.Text())
		if len(fields) != 2 {
			continue
		}
		key, value := fields[0], fields[1]
		switch {
		case key == "path":
			current = strings.ReplaceAll(value, `\\`, `\`)
		case key == SteamAppID && current != "":
			libs = append(libs, current)
		}
	}
	return libs, sc.Err()
}

// quoted returns the double-quoted strings on a vdf line.
func quoted(line string) []string {
	var out []string
	for {
		start := strings.IndexByte(line, '"')
		if start < 0 {
			return out
		}
		end := strings.IndexByte(line[start+1:], '"')
		if end < 0 {
			return out
		}
		out = append(out, line[start+1:start+1+end])
		line = line[start+end+2:]
	}
}
