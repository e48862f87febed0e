package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/repository"
)

// Heatmap intensity constants. Trash weight is flat; clean-zone weight scales
// with area size, capped so one stadium-sized cleanup cannot blank a district.
const (
	TrashIntensity    = 1.0
	CleanZoneSizeCap  = 1000.0
	CleanZoneMaxDepth = 0.5
)

// CleanZoneIntensity returns the (negative) heat contribution of an approved
// area of the given size in square meters.
func CleanZoneIntensity(areaSize float64) float64 {
	if areaSize < 0 {
		areaSize = 0
	}
	if areaSize > CleanZoneSizeCap {
		areaSize = CleanZoneSizeCap
	}
	return -(areaSize / CleanZoneSizeCap) * CleanZoneMaxDepth
}

// HeatmapService assembles the litter-density snapshot: every unresolved
// report as a positive point, every active green zone as a negative one.
type HeatmapService struct {
	reports *repository.ReportRepo
	areas   *repository.AreaRepo
	cache   *CacheService
}

func NewHeatmapService(reports *repository.ReportRepo, areas *repository.AreaRepo, cache *CacheService) *HeatmapService {
	return &HeatmapService{reports: reports, areas: areas, cache: cache}
}

// Snapshot serves the density map, cache-aside. On a miss it rebuilds from
// the database and repopulates the cache.
func (s *HeatmapService) Snapshot(ctx context.Context) (*model.HeatmapResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.GetHeatmap(ctx)
		if err != nil {
			log.Printf("cache: heatmap read error: %v", err)
		} else if cached != nil {
			var resp model.HeatmapResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return &resp, nil
			} else {
				log.Printf("cache: heatmap decode error: %v", err)
			}
		}
	}
	return s.Rebuild(ctx)
}

// Rebuild recomputes the snapshot from the database and stores it in the
// cache. The heatmap worker calls this on submission-change notifications.
func (s *HeatmapService) Rebuild(ctx context.Context) (*model.HeatmapResponse, error) {
	locations, err := s.reports.ActiveLocations(ctx)
	if err != nil {
		return nil, err
	}
	areas, err := s.areas.ActiveCentroids(ctx)
	if err != nil {
		return nil, err
	}

	resp := &model.HeatmapResponse{
		TrashPoints: make([]model.HeatPoint, 0, len(locations)),
		CleanAreas:  make([]model.HeatPoint, 0, len(areas)),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, loc := range locations {
		resp.TrashPoints = append(resp.TrashPoints, model.HeatPoint{
			Lat: loc.Lat, Lng: loc.Lng, Intensity: TrashIntensity,
		})
	}
	for _, a := range areas {
		resp.CleanAreas = append(resp.CleanAreas, model.HeatPoint{
			Lat:       a.CenterLocation.Lat,
			Lng:       a.CenterLocation.Lng,
			Intensity: CleanZoneIntensity(a.AreaSize),
		})
	}

	if s.cache != nil {
		if err := s.cache.SetHeatmap(ctx, resp); err != nil {
			log.Printf("cache: heatmap write error: %v", err)
		}
	}
	return resp, nil
}
