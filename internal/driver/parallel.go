package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"seqgen/internal/buildpipeline"
	"seqgen/internal/diag"
	"seqgen/internal/source"
	"seqgen/internal/trace"
)

// CollectFiles разворачивает список путей в список шаблонов: файлы берутся
// как есть, директории обходятся рекурсивно по расширению ext. Файлы из
// одной директории сортируются для детерминированного порядка; порядок
// аргументов сохраняется, повторы убираются.
func CollectFiles(paths []string, ext string) ([]string, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	seen := make(map[string]struct{}, len(paths))
	var files []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if _, dup := seen[clean]; dup {
			return
		}
		seen[clean] = struct{}{}
		files = append(files, clean)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			// Отсутствующий файл даст IO-диагностику при загрузке.
			add(root)
			continue
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ext) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}
	return files, nil
}

// ExpandPaths expands every template reachable from paths in parallel.
// Results follow the order of CollectFiles. A file that cannot be loaded
// yields a result with an IO diagnostic; the returned error is reserved for
// walk failures and cancellation.
func ExpandPaths(ctx context.Context, paths []string, opts Options) (*source.FileSet, []ExpandResult, error) {
	ctx, runSpan := trace.Start(ctx, trace.ScopeDriver, "expand")

	files, err := CollectFiles(paths, opts.extension())
	if err != nil {
		runSpan.End("collect failed")
		return nil, nil, err
	}

	fileSet := source.NewFileSet()
	if len(files) == 0 {
		runSpan.End("no files")
		return fileSet, nil, nil
	}

	// Предзагрузка последовательно: FileSet не потокобезопасен на запись.
	stopLoad := opts.Timer.Start("load")
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error, len(files))
	for i, path := range files {
		buildpipeline.Emit(opts.Progress, buildpipeline.Event{
			File:   path,
			Stage:  buildpipeline.StageLoad,
			Status: buildpipeline.StatusQueued,
		})
		fileID, loadErr := fileSet.Load(path)
		if loadErr != nil {
			// Пустой virtual-файл, чтобы IO-диагностика указывала на путь.
			fileID = fileSet.AddVirtual(path, nil)
			loadErrors[i] = loadErr
		}
		fileIDs[i] = fileID
	}
	stopLoad(fmt.Sprintf("%d files", len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]ExpandResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i := range files {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}

			if loadErr, failed := loadErrors[i]; failed {
				results[i] = loadFailure(fileSet.Get(fileIDs[i]), loadErr, opts)
				return nil
			}

			results[i] = *expandLoaded(gctx, fileSet.Get(fileIDs[i]), opts)
			return nil
		})
	}

	err = g.Wait()
	failed := 0
	for i := range results {
		if !results[i].OK() {
			failed++
		}
	}
	runSpan.
		Attr("files", strconv.Itoa(len(files))).
		Attr("failed", strconv.Itoa(failed)).
		End("")
	return fileSet, results, err
}

func loadFailure(file *source.File, loadErr error, opts Options) ExpandResult {
	bag := diag.NewBag(opts.MaxDiagnostics)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: file.ID},
		"failed to load file: "+loadErr.Error()))
	buildpipeline.Emit(opts.Progress, buildpipeline.Event{
		File:   file.Path,
		Stage:  buildpipeline.StageLoad,
		Status: buildpipeline.StatusError,
		Err:    loadErr,
	})
	return ExpandResult{Path: file.Path, FileID: file.ID, Bag: bag}
}
