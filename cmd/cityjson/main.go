// Command cityjson inspects, queries and converts CityJSON files.
//
// Usage:
//
//	cityjson [-config file.yaml] info <file>...
//	cityjson [-config file.yaml] export [-out file] [-pretty] <file>
//	cityjson [-config file.yaml] geojson [-out file] [-wgs84] [-types Building,...] <file>
//	cityjson [-config file.yaml] query -bbox minx,miny,minz,maxx,maxy,maxz <file>...
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/beetlebugorg/cityjson/internal/logger"
	"github.com/beetlebugorg/cityjson/pkg/cityjson"
	"github.com/beetlebugorg/cityjson/pkg/coordconv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

var configPath = flag.String("config", "", "YAML file with relative_center, validate_geometry, skip_errors and workers")

func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()

	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "info":
		err = runInfo(cfg, l, args, os.Stdout)
	case "export":
		err = runExport(cfg, l, args)
	case "geojson":
		err = runGeoJSON(cfg, l, args)
	case "query":
		err = runQuery(cfg, l, args, os.Stdout)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		l.Error(cmd+"_error", "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: cityjson [-config file] <info|export|geojson|query> [flags] <file>...\n")
	flag.PrintDefaults()
}

func parseOptions(cfg config, l *slog.Logger) cityjson.ParseOptions {
	opts := cityjson.DefaultParseOptions()
	opts.ValidateGeometry = cfg.ValidateGeometry
	opts.Logger = l
	return opts
}

func loadAll(cfg config, l *slog.Logger, paths []string) (*cityjson.ModelSet, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input files")
	}
	opts := cityjson.DefaultLoadOptions()
	opts.Workers = cfg.Workers
	opts.SkipErrors = cfg.SkipErrors
	opts.Parse = parseOptions(cfg, l)

	set, errs := cityjson.LoadFiles(paths, opts)
	for _, err := range errs {
		l.Warn("load_error", "err", err)
	}
	if set == nil {
		return nil, errs[0]
	}
	return set, nil
}

func loadOne(cfg config, l *slog.Logger, path string) (*cityjson.Model, error) {
	return cityjson.LoadFileWithOptions(path, cityjson.NewParser(), parseOptions(cfg, l))
}

func runInfo(cfg config, l *slog.Logger, args []string, w io.Writer) error {
	set, err := loadAll(cfg, l, args)
	if err != nil {
		return err
	}

	for _, lm := range set.Models {
		m := lm.Model
		fmt.Fprintf(w, "%s\n", lm.Path)
		fmt.Fprintf(w, "  version:           %s\n", m.Version())
		fmt.Fprintf(w, "  reference system:  %s\n", m.CoordinateSystem())
		fmt.Fprintf(w, "  vertices:          %d\n", len(m.Vertices()))
		fmt.Fprintf(w, "  city objects:      %d (%d roots)\n", m.ObjectCount(), len(m.Roots()))
		for _, tc := range typeCounts(m) {
			fmt.Fprintf(w, "    %-24s %d\n", tc.name, tc.count)
		}
		if box, ok := m.Extent(); ok {
			fmt.Fprintf(w, "  extent:            %v - %v\n", box.Min, box.Max)
		}
		if keys := m.ExtensionKeys(); len(keys) > 0 {
			fmt.Fprintf(w, "  extension nodes:   %s\n", strings.Join(keys, ", "))
		}
		for _, warning := range m.Warnings() {
			fmt.Fprintf(w, "  warning:           %s\n", warning.Message)
		}
	}

	if cfg.RelativeCenter {
		conv := coordconv.NewDefaultConverter()
		if set.PublishRelativeCenter(conv) {
			center := conv.RelativeCenter()
			wgs := coordconv.RDToWGS84(coordconv.Vector3RD{X: center.X, Y: center.Y})
			fmt.Fprintf(w, "relative center:     %.3f, %.3f (%s)\n", center.X, center.Y, wgs)
		} else {
			l.Info("relative_center_skipped", "reason", "not every model is RD with an extent")
		}
	}
	return nil
}

type typeCount struct {
	name  string
	count int
}

func typeCounts(m *cityjson.Model) []typeCount {
	counts := make(map[string]int)
	for _, obj := range m.CityObjects() {
		counts[obj.Type()]++
	}
	out := make([]typeCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, typeCount{name: name, count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func runExport(cfg config, l *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "Output file (default stdout)")
	pretty := fs.Bool("pretty", false, "Indent the output")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("export takes exactly one input file")
	}

	m, err := loadOne(cfg, l, fs.Arg(0))
	if err != nil {
		return err
	}
	opts := cityjson.ExportOptions{}
	if *pretty {
		opts.Indent = "  "
	}
	data, err := m.Export(opts)
	if err != nil {
		return errors.Wrap(err, "can't export")
	}
	return writeOutput(*out, data)
}

func runGeoJSON(cfg config, l *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("geojson", flag.ExitOnError)
	out := fs.String("out", "", "Output file (default stdout)")
	wgs84 := fs.Bool("wgs84", true, "Convert RD footprints to longitude/latitude")
	types := fs.String("types", "", "City object types to export (separated by commas)")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("geojson takes exactly one input file")
	}

	m, err := loadOne(cfg, l, fs.Arg(0))
	if err != nil {
		return err
	}
	opts := cityjson.GeoJSONOptions{ToWGS84: *wgs84}
	if *types != "" {
		opts.ObjectTypes = strings.Split(*types, ",")
	}
	data, err := m.FootprintsGeoJSON(opts)
	if err != nil {
		return err
	}
	return writeOutput(*out, data)
}

func runQuery(cfg config, l *slog.Logger, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	bbox := fs.String("bbox", "", "Query box: minx,miny,minz,maxx,maxy,maxz")
	_ = fs.Parse(args)

	box, err := parseBBox(*bbox)
	if err != nil {
		return err
	}
	set, err := loadAll(cfg, l, fs.Args())
	if err != nil {
		return err
	}
	for _, lm := range set.Models {
		for _, obj := range lm.Model.ObjectsInBounds(box) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", lm.Path, obj.ID(), obj.Type())
		}
	}
	return nil
}

// parseBBox parses six comma separated numbers; min and max may be given in any order
func parseBBox(s string) (cityjson.Box, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return cityjson.Box{}, errors.Errorf("bbox needs 6 numbers, got '%s'", s)
	}
	var v [6]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return cityjson.Box{}, errors.Wrapf(err, "bad bbox value '%s'", p)
		}
		v[i] = f
	}
	a := cityjson.Vector3{X: v[0], Y: v[1], Z: v[2]}
	b := cityjson.Vector3{X: v[3], Y: v[4], Z: v[5]}
	return cityjson.Box{Min: a.Min(b), Max: a.Max(b)}, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "can't write '%s'", path)
	}
	return nil
}
