package cache

import (
	"strconv"

	"github.com/google/uuid"
)

// BlockPos identifies a block in a world.
type BlockPos struct {
	World uuid.UUID
	X     int
	Y     int
	Z     int
}

// CacheKey implements Key.
func (p BlockPos) CacheKey() string {
	buf := make([]byte, 0, 36+3*12)
	buf = append(buf, p.World.String()...)
	buf = append(buf, '/')
	buf = strconv.AppendInt(buf, int64(p.X), 10)
	buf = append(buf, '/')
	buf = strconv.AppendInt(buf, int64(p.Y), 10)
	buf = append(buf, '/')
	buf = strconv.AppendInt(buf, int64(p.Z), 10)
	return string(buf)
}

// Column returns the position with Y dropped, for movement that only counts
// horizontal steps.
func (p BlockPos) Column() BlockPos {
	return BlockPos{World: p.World, X: p.X, Z: p.Z}
}

// HolderKey keys per-holder state.
type HolderKey uuid.UUID

// CacheKey implements Key.
func (h HolderKey) CacheKey() string { return uuid.UUID(h).String() }
