package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/conflict"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

// CheckConflicts reports temporal and spatial collisions for a proposed
// window without mutating anything. location may be nil.
func CheckConflicts(ctx context.Context, detector *conflict.Detector, logger *zap.Logger, window model.TimeWindow, location *model.GeoPoint) (*conflict.Set, error) {
	logger.Debug("Checking conflicts",
		zap.Time("start", window.Start),
		zap.Time("end", window.End),
		zap.Bool("with_location", location != nil))

	set, err := detector.Find(ctx, window, location, "")
	if err != nil {
		return nil, err
	}

	logger.Debug("Conflict check complete",
		zap.Int("temporal", len(set.Temporal)),
		zap.Int("spatial", len(set.Spatial)))
	return set, nil
}
