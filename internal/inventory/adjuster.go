// Package inventory computes and applies per-line-item stock and sold-count
// adjustments under two unit systems: weight-priced goods move in kilograms,
// everything else in discrete units.
package inventory

import (
	"context"
	"errors"

	"cosysta-be/internal/logger"
	"cosysta-be/internal/metrics"
	"cosysta-be/internal/product"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const gramsPerKilogram = 1000

// Adjustment is the net inventory effect of one line item: a (negative)
// stock delta and a (positive) sold delta, in the product's stock unit.
type Adjustment struct {
	StockDelta float64
	SoldDelta  float64
}

// Inverse returns the adjustment that undoes this one (order cancellation).
func (a Adjustment) Inverse() Adjustment {
	return Adjustment{StockDelta: -a.StockDelta, SoldDelta: -a.SoldDelta}
}

// Compute derives the adjustment for one purchased line item.
//
// Weight-priced goods: the client either declares an explicit gram amount
// per purchased unit (weightGrams) or submits a bare kilogram count, in
// which case each unit counts as exactly 1 kg. Stock and sold both move by
// totalGrams/1000 kilograms.
//
// Discrete goods: stock and sold move by the requested unit count.
func Compute(policy product.UnitPolicy, quantity int32, weightGrams *float64) Adjustment {
	if policy == product.UnitPerWeight {
		totalGrams := float64(quantity) * gramsPerKilogram
		if weightGrams != nil {
			totalGrams = *weightGrams * float64(quantity)
		}
		kg := totalGrams / gramsPerKilogram
		return Adjustment{StockDelta: -kg, SoldDelta: kg}
	}

	q := float64(quantity)
	return Adjustment{StockDelta: -q, SoldDelta: q}
}

// Line is one order line item from the adjuster's point of view. UnitPolicy
// is the policy snapshotted at order time so a later cancellation inverts
// the exact same arithmetic.
type Line struct {
	ProductID   uuid.UUID
	UnitPolicy  product.UnitPolicy
	Quantity    int32
	WeightGrams *float64
}

// Store is the single primitive the adjuster needs: an atomic combined
// stock/sold write that clamps stock at zero.
type Store interface {
	ApplyAdjustment(ctx context.Context, id uuid.UUID, stockDelta, soldDelta float64) (float64, error)
}

type Adjuster struct {
	store Store
}

func NewAdjuster(store Store) *Adjuster {
	return &Adjuster{store: store}
}

// Apply walks the lines in order and applies each adjustment independently.
// A product that vanished between checkout and fulfillment is skipped, not
// fatal: earlier lines stay applied and later lines still run. Returns the
// number of skipped lines.
func (a *Adjuster) Apply(ctx context.Context, lines []Line) int {
	return a.apply(ctx, lines, false)
}

// Revert undoes the adjustments of the given lines, restoring stock and
// rolling back sold counts. Same per-line leniency as Apply.
func (a *Adjuster) Revert(ctx context.Context, lines []Line) int {
	return a.apply(ctx, lines, true)
}

func (a *Adjuster) apply(ctx context.Context, lines []Line, invert bool) int {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "inventory"),
		zap.Bool("invert", invert),
	)

	skipped := 0
	for i, line := range lines {
		adj := Compute(line.UnitPolicy, line.Quantity, line.WeightGrams)
		if invert {
			adj = adj.Inverse()
		}

		newStock, err := a.store.ApplyAdjustment(ctx, line.ProductID, adj.StockDelta, adj.SoldDelta)
		if err != nil {
			skipped++
			metrics.AdjustmentsSkipped.Inc()
			if errors.Is(err, product.ErrProductNotFound) {
				log.Warn("product vanished before adjustment, skipping line",
					zap.Int("index", i),
					zap.String("product_id", line.ProductID.String()),
				)
			} else {
				log.Error("inventory adjustment failed, skipping line",
					zap.Int("index", i),
					zap.String("product_id", line.ProductID.String()),
					zap.Error(err),
				)
			}
			continue
		}

		if !invert && newStock == 0 && adj.StockDelta < 0 {
			metrics.StockClamped.Inc()
			log.Warn("stock drained to zero, demand beyond stock is clamped",
				zap.String("product_id", line.ProductID.String()),
				zap.Float64("stock_delta", adj.StockDelta),
			)
		}
	}

	return skipped
}
