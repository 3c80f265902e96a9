// Package file implements the dataset repositories: GeoJSON and CSV loaders
// with a deterministic synthetic fallback when input files are absent, plus an
// fsnotify watcher that invalidates loaded data when files change on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/turtacn/jalak-hijau/internal/config"
	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/monitoring"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// geoJSONFeature mirrors one entry of a GeoJSON FeatureCollection. The
// geometry is kept raw and handed to the geometry layer for parsing.
type geoJSONFeature struct {
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type geoJSONFeatureCollection struct {
	Features []geoJSONFeature `json:"features"`
}

// GeoLoader loads protected areas and concessions from GeoJSON files, falling
// back to the synthetic generator when either file is missing. The parsed
// dataset is cached until Invalidate is called.
type GeoLoader struct {
	cfg     *config.DataConfig
	logger  logger.Logger
	metrics *monitoring.Metrics

	mu     sync.Mutex
	cached *repository.GeoDataset
}

var _ repository.GeoDataRepository = (*GeoLoader)(nil)

// NewGeoLoader creates a GeoLoader.
func NewGeoLoader(cfg *config.DataConfig, log logger.Logger, metrics *monitoring.Metrics) *GeoLoader {
	return &GeoLoader{
		cfg:     cfg,
		logger:  log.WithComponent("geo-loader"),
		metrics: metrics,
	}
}

// Load returns the geospatial dataset, reading files on first use.
func (l *GeoLoader) Load(ctx context.Context) (*repository.GeoDataset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached != nil {
		return l.cached, nil
	}

	forestPath := filepath.Join(l.cfg.Dir, l.cfg.ForestFile)
	concessionPath := filepath.Join(l.cfg.Dir, l.cfg.ConcessionFile)

	if !fileExists(forestPath) || !fileExists(concessionPath) {
		l.logger.Warn(ctx, "geospatial files missing, generating synthetic dataset", logger.Fields{
			"forest_file":     forestPath,
			"concession_file": concessionPath,
		})
		ds := syntheticGeoDataset(l.cfg.SyntheticSeed)
		if l.metrics != nil {
			l.metrics.RecordDatasetReload("geo", "synthetic")
		}
		l.cached = ds
		return ds, nil
	}

	areas, err := l.loadProtectedAreas(forestPath)
	if err != nil {
		return nil, err
	}
	concessions, err := l.loadConcessions(concessionPath)
	if err != nil {
		return nil, err
	}

	ds := &repository.GeoDataset{
		ProtectedAreas: areas,
		Concessions:    concessions,
		Version:        fileVersion(forestPath, concessionPath),
	}
	if l.metrics != nil {
		l.metrics.RecordDatasetReload("geo", "file")
	}
	l.logger.Info(ctx, "geospatial dataset loaded", logger.Fields{
		"protected_areas": len(areas),
		"concessions":     len(concessions),
		"version":         ds.Version,
	})
	l.cached = ds
	return ds, nil
}

// Invalidate drops the cached dataset so the next Load re-reads the files.
func (l *GeoLoader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

func (l *GeoLoader) loadProtectedAreas(path string) ([]models.ProtectedArea, error) {
	features, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	areas := make([]models.ProtectedArea, 0, len(features))
	for i, f := range features {
		g, err := models.GeometryFromGeoJSON(f.Geometry)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeGeometry,
				fmt.Sprintf("invalid geometry in %s feature %d", filepath.Base(path), i))
		}
		lat, lon := g.Centroid()
		areas = append(areas, models.ProtectedArea{
			ID:        propString(f.Properties, "id", fmt.Sprintf("forest-%d", i)),
			Name:      propString(f.Properties, "name", fmt.Sprintf("Protected Area %d", i)),
			Region:    propString(f.Properties, "region", ""),
			Geometry:  g,
			Status:    propString(f.Properties, "status", "protected"),
			AreaHa:    models.AreaHectares(g.Area()),
			CenterLat: lat,
			CenterLon: lon,
		})
	}
	return areas, nil
}

func (l *GeoLoader) loadConcessions(path string) ([]models.Concession, error) {
	features, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	concessions := make([]models.Concession, 0, len(features))
	for i, f := range features {
		g, err := models.GeometryFromGeoJSON(f.Geometry)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeGeometry,
				fmt.Sprintf("invalid geometry in %s feature %d", filepath.Base(path), i))
		}
		lat, lon := g.Centroid()
		concessions = append(concessions, models.Concession{
			Company:      propString(f.Properties, "company", fmt.Sprintf("Company %d", i)),
			Region:       propString(f.Properties, "region", ""),
			Geometry:     g,
			PermitStatus: propString(f.Properties, "permit_status", "unknown"),
			AreaHa:       models.AreaHectares(g.Area()),
			CenterLat:    lat,
			CenterLon:    lon,
		})
	}
	return concessions, nil
}

func readFeatureCollection(path string) ([]geoJSONFeature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to read "+path)
	}
	var fc geoJSONFeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidArgument, "malformed GeoJSON in "+path)
	}
	return fc.Features, nil
}

func propString(props map[string]interface{}, key, fallback string) string {
	if v, ok := props[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// fileVersion derives a cache key from file sizes and mtimes. Good enough to
// detect edits between loads; not a content hash.
func fileVersion(paths ...string) string {
	v := ""
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			v += "?;"
			continue
		}
		v += fmt.Sprintf("%d-%d;", info.Size(), info.ModTime().UnixNano())
	}
	return v
}
