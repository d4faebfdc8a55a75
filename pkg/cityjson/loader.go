package cityjson

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/beetlebugorg/cityjson/pkg/coordconv"
	"github.com/pkg/errors"
)

// LoadedModel is a model together with the file it came from.
type LoadedModel struct {
	Path  string
	Model *Model
}

// ModelSet is a collection of models loaded from several files, such as the
// tiles of a larger city model.
type ModelSet struct {
	Models []*LoadedModel
}

// LoadFile reads and parses one CityJSON file.
func LoadFile(path string, p Parser) (*Model, error) {
	return LoadFileWithOptions(path, p, DefaultParseOptions())
}

// LoadFileWithOptions reads and parses one CityJSON file with custom options.
func LoadFileWithOptions(path string, p Parser, opts ParseOptions) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read CityJSON file '%s'", path)
	}
	model, err := p.ParseWithOptions(data, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "can't parse CityJSON file '%s'", path)
	}
	return model, nil
}

// LoadOptions controls parallel loading behavior and error handling.
type LoadOptions struct {
	// Parallel enables concurrent loading.
	// When true, files are parsed by multiple worker goroutines.
	Parallel bool

	// Workers specifies the number of parallel loader goroutines.
	// If 0, defaults to runtime.NumCPU().
	Workers int

	// SkipErrors causes loading to continue when individual files fail.
	// When false, the first error stops loading and is returned immediately.
	SkipErrors bool

	// Parse is applied to every file. UseAsRelativeCenter is ignored since
	// concurrent parses would race on the shared converter; call
	// ModelSet.PublishRelativeCenter after loading instead.
	Parse ParseOptions

	// Progress is an optional callback called after each file is processed.
	Progress func(loaded, total int)

	// ErrorLog is an optional writer for detailed error reporting.
	ErrorLog io.Writer
}

// DefaultLoadOptions returns load options with sensible defaults.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
		Parse:      DefaultParseOptions(),
	}
}

// LoadFiles loads several CityJSON files, in parallel unless disabled.
//
// Every file gets its own parser. Models are returned in the order of paths;
// failed files are skipped when SkipErrors is set and their errors returned.
//
// Example:
//
//	set, errs := cityjson.LoadFiles(paths, cityjson.LoadOptions{
//	    Parallel:   true,
//	    SkipErrors: true,
//	    Parse:      cityjson.DefaultParseOptions(),
//	    Progress: func(loaded, total int) {
//	        fmt.Printf("\rLoading: %d/%d", loaded, total)
//	    },
//	})
func LoadFiles(paths []string, opts LoadOptions) (*ModelSet, []error) {
	if len(paths) == 0 {
		return &ModelSet{Models: []*LoadedModel{}}, nil
	}

	parseOpts := opts.Parse
	parseOpts.UseAsRelativeCenter = false

	if !opts.Parallel {
		return loadFilesSerial(paths, parseOpts, opts)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	type loadResult struct {
		index int
		model *Model
		err   error
	}

	jobs := make(chan int, len(paths))
	results := make(chan loadResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				model, err := LoadFileWithOptions(paths[index], NewParser(), parseOpts)
				results <- loadResult{index: index, model: model, err: err}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	models := make(map[int]*Model)
	var errs []error
	loaded := 0
	failed := false

	for result := range results {
		loaded++
		if opts.Progress != nil {
			opts.Progress(loaded, len(paths))
		}
		if failed {
			// Drain remaining results so workers can exit
			continue
		}

		if result.err != nil {
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error loading CityJSON: %v\n", result.err)
			}
			if opts.SkipErrors {
				errs = append(errs, result.err)
				continue
			}
			failed = true
			errs = []error{result.err}
			continue
		}
		models[result.index] = result.model
	}

	if failed {
		return nil, errs
	}

	set := &ModelSet{Models: make([]*LoadedModel, 0, len(models))}
	for i, path := range paths {
		if model, ok := models[i]; ok {
			set.Models = append(set.Models, &LoadedModel{Path: path, Model: model})
		}
	}
	return set, errs
}

// loadFilesSerial loads files one at a time (fallback when Parallel=false).
func loadFilesSerial(paths []string, parseOpts ParseOptions, opts LoadOptions) (*ModelSet, []error) {
	set := &ModelSet{Models: make([]*LoadedModel, 0, len(paths))}
	var errs []error
	p := NewParser()

	for i, path := range paths {
		model, err := LoadFileWithOptions(path, p, parseOpts)
		if opts.Progress != nil {
			opts.Progress(i+1, len(paths))
		}
		if err != nil {
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error loading CityJSON: %v\n", err)
			}
			if opts.SkipErrors {
				errs = append(errs, err)
				continue
			}
			return nil, []error{err}
		}
		set.Models = append(set.Models, &LoadedModel{Path: path, Model: model})
	}

	return set, errs
}

// Extent returns the union of all model extents. ok is false when no model has one.
func (s *ModelSet) Extent() (box Box, ok bool) {
	for _, lm := range s.Models {
		b, has := lm.Model.Extent()
		if !has {
			continue
		}
		if !ok {
			box, ok = b, true
			continue
		}
		box = box.Extend(b.Min).Extend(b.Max)
	}
	return box, ok
}

// ObjectCount returns the total number of city objects over all models.
func (s *ModelSet) ObjectCount() int {
	n := 0
	for _, lm := range s.Models {
		n += lm.Model.ObjectCount()
	}
	return n
}

// ObjectsInBounds queries every model and concatenates the results in model order.
func (s *ModelSet) ObjectsInBounds(box Box) []*CityObject {
	result := make([]*CityObject, 0)
	for _, lm := range s.Models {
		result = append(result, lm.Model.ObjectsInBounds(box)...)
	}
	return result
}

// PublishRelativeCenter sets conv's relative center to the center of the union
// extent. Every model must be in RD; it reports whether the center was published.
func (s *ModelSet) PublishRelativeCenter(conv *coordconv.Converter) bool {
	for _, lm := range s.Models {
		if lm.Model.CoordinateSystem() != CoordinateSystemRD {
			return false
		}
	}
	box, ok := s.Extent()
	if !ok {
		return false
	}
	center := box.Center()
	conv.SetRelativeCenter(center.X, center.Y, center.Z)
	return true
}
