package iodatasets

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gnames/gnfmt"
	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/gnames/gnnorm/pkg/config"
	"github.com/gnames/gnnorm/pkg/datasets"
	"github.com/gnames/gnsys"
)

type fetcher struct {
	home string
	reg  *datasets.Config
}

// NewFetcher creates a Fetcher for registered datasets. Directories are
// used in place, zip archives are extracted into the archive cache.
func NewFetcher(cfg *config.Config, reg *datasets.Config) gnnorm.Fetcher {
	return &fetcher{home: cfg.HomeDir, reg: reg}
}

func (f *fetcher) Fetch(ctx context.Context, key string) (string, error) {
	d, ok := f.reg.Get(key)
	if !ok {
		return "", NotFoundError(key)
	}
	loc := f.expand(d.Location)

	info, err := os.Stat(loc)
	if err != nil {
		return "", FetchError(key, loc, err)
	}
	if d.IsZip() {
		return f.unzip(ctx, key, loc)
	}
	if !info.IsDir() {
		return "", FetchError(key, loc, errors.New("not a directory"))
	}
	return loc, nil
}

func (f *fetcher) expand(loc string) string {
	if loc == "~" {
		return f.home
	}
	if rest, ok := strings.CutPrefix(loc, "~/"); ok {
		return filepath.Join(f.home, rest)
	}
	return loc
}

// unzip extracts an archive into a clean archive directory and returns
// the directory holding the archive files.
func (f *fetcher) unzip(ctx context.Context, key, path string) (string, error) {
	start := time.Now()
	dir := config.ArchiveDir(f.home, key)
	if err := gnsys.MakeDir(dir); err != nil {
		return "", UnzipError(key, path, err)
	}
	if err := gnsys.CleanDir(dir); err != nil {
		return "", UnzipError(key, path, err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", UnzipError(key, path, err)
	}
	defer zr.Close()

	for _, zf := range zr.File {
		if err = ctx.Err(); err != nil {
			return "", err
		}
		if err = extract(dir, zf); err != nil {
			return "", UnzipError(key, path, err)
		}
	}

	root, err := archiveRoot(dir)
	if err != nil {
		return "", UnzipError(key, path, err)
	}
	slog.Info("Archive extracted",
		"dataset_key", key,
		"files", len(zr.File),
		"dir", root,
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return root, nil
}

func extract(dir string, zf *zip.File) error {
	target := filepath.Join(dir, zf.Name)
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) {
		return errors.New("illegal file path " + zf.Name)
	}
	if zf.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	r, err := zf.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// archiveRoot descends into the only subdirectory of dir, archives are
// often zipped together with their enclosing directory.
func archiveRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var subdirs []string
	var files int
	for _, e := range entries {
		if e.Name() == "__MACOSX" {
			continue
		}
		if e.IsDir() {
			subdirs = append(subdirs, e.Name())
			continue
		}
		files++
	}
	if files == 0 && len(subdirs) == 1 {
		return filepath.Join(dir, subdirs[0]), nil
	}
	return dir, nil
}
