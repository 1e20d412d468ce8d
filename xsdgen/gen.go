package xsdgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Generate processes each schema file (plus its transitive includes and
// imports) into one generated Go source file under cfg.Output, and returns
// the paths written. Input files are independent and processed concurrently.
func Generate(cfg Config, files ...string) ([]string, error) {
	cfg = cfg.withDefaults()
	if len(files) == 0 {
		return nil, fmt.Errorf("no schema files given")
	}
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	outputs := make([]string, len(files))
	var g errgroup.Group
	g.SetLimit(4)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			out, err := generateOne(cfg, file)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// DebugModel loads and flattens one schema without emitting source, for
// diagnostic dumps.
func DebugModel(cfg Config, file string) (any, error) {
	cfg = cfg.withDefaults()
	s, _, err := loadSchema(cfg, file, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return flatten(cfg, s)
}

func generateOne(cfg Config, file string) (string, error) {
	s, sources, err := loadSchema(cfg, file, map[string]bool{})
	if err != nil {
		return "", err
	}

	model, err := flatten(cfg, s)
	if err != nil {
		return "", err
	}
	cfg.log().WithFields(map[string]any{
		"schema": file,
		"types":  len(model.Types),
		"enums":  len(model.Enums),
	}).Info("schema flattened")

	src, err := emit(model, sources)
	if err != nil {
		return "", fmt.Errorf("emit %s: %w", file, err)
	}

	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if mapped, ok := cfg.FileNames[s.TargetNamespace]; ok {
		base = strings.TrimSuffix(mapped, ".go")
	}
	out := filepath.Join(cfg.Output, base+".go")
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	cfg.log().WithField("file", out).Info("generated")
	return out, nil
}

// loadSchema parses a schema file and folds in its includes and imports,
// depth first. The visited set keys on absolute paths so include cycles
// terminate. The returned source list holds the base names of every file
// that contributed, in load order.
func loadSchema(cfg Config, path string, visited map[string]bool) (*schemaDoc, []string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve schema path %s: %w", path, err)
	}
	if visited[abs] {
		return nil, nil, nil
	}
	visited[abs] = true

	cfg.log().WithField("schema", path).Debug("parsing schema")
	s, locations, err := parseSchemaFile(path)
	if err != nil {
		return nil, nil, err
	}
	sources := []string{filepath.Base(path)}
	for _, loc := range locations {
		sub, subSources, err := loadSchema(cfg, loc, visited)
		if err != nil {
			return nil, nil, err
		}
		if sub != nil {
			s.merge(sub)
			sources = append(sources, subSources...)
		}
	}
	return s, sources, nil
}
