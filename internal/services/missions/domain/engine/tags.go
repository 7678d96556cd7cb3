package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/missionkit/internal/services/missions/domain/record"
)

// DefaultTargetSplitter joins targets in presentation tags.
const DefaultTargetSplitter = ", "

// Tags returns presentation placeholders for rec: uuid, type, targets,
// progress, requirement, percentage, config_id, completed, expires_in and
// time_left.
func (e *Engine) Tags(rec record.Record, splitter string) map[string]string {
	if splitter == "" {
		splitter = DefaultTargetSplitter
	}
	tags := map[string]string{
		"uuid":        rec.ID().String(),
		"type":        "Unknown",
		"targets":     "None",
		"progress":    strconv.Itoa(rec.Progress()),
		"requirement": strconv.Itoa(rec.Requirement()),
		"percentage":  strconv.Itoa(rec.Percent()),
		"config_id":   rec.ConfigID(),
		"completed":   strconv.FormatBool(rec.Completed()),
		"expires_in":  "",
		"time_left":   "",
	}
	if def, ok := e.defs.Load().Get(rec.ConfigID()); ok {
		tags["type"] = def.Type.ID()
		tags["targets"] = strings.Join(def.Targets, splitter)
	}
	if rec.Expires() {
		remaining := rec.Remaining(e.now())
		tags["expires_in"] = remaining.Truncate(time.Second).String()
		tags["time_left"] = FormatRemaining(remaining)
	}
	return tags
}

// FormatRemaining renders time left the way mission timers display it:
// "EXPIRED", "HHh MMm" past an hour, otherwise "MMm SSs".
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "EXPIRED"
	}
	seconds := int64(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	if hours > 0 {
		return fmt.Sprintf("%02dh %02dm", hours, minutes%60)
	}
	return fmt.Sprintf("%02dm %02ds", minutes, seconds%60)
}
