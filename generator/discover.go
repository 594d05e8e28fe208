package generator

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"goa.design/contractgen/contract"
)

// Discover returns the paths of the regular files in dir whose base name
// matches glob, sorted. A missing dir yields no paths.
func Discover(fs billy.Filesystem, dir, glob string) ([]string, error) {
	infos, err := fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var paths []string
	for _, info := range infos {
		if !info.Mode().IsRegular() {
			continue
		}
		ok, err := filepath.Match(glob, info.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			paths = append(paths, fs.Join(dir, info.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// FilterByAbbr returns the paths whose contract declares the module
// abbreviation abbr. The declared abbreviation is compared, not the file
// name, after trimming spaces and ignoring case. Contracts that cannot be
// read or parsed are skipped and reported as *ContractError values.
func FilterByAbbr(fs billy.Filesystem, paths []string, abbr string) ([]string, []error) {
	want := normalizeAbbr(abbr)
	var (
		selected []string
		skipped  []error
	)
	for _, path := range paths {
		raw, err := util.ReadFile(fs, path)
		if err != nil {
			skipped = append(skipped, &ContractError{Path: path, Stage: StageRead, Err: err})
			continue
		}
		c, _, err := contract.LoadBytes(path, raw)
		if err != nil {
			skipped = append(skipped, &ContractError{Path: path, Stage: StageParse, Err: err})
			continue
		}
		if normalizeAbbr(c.ModuleAbbr) == want {
			selected = append(selected, path)
		}
	}
	return selected, skipped
}

func normalizeAbbr(abbr string) string {
	return strings.ToUpper(strings.TrimSpace(abbr))
}
