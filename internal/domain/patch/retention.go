package patch

import (
	"time"

	"planche-service/internal/domain/entity"
)

// Prune drops, in place, every command issued more than maxAge before now.
// Survivors keep their relative order; pruning again with the same now changes nothing.
func Prune(cmds []entity.UpdateCommand, maxAge time.Duration, now time.Time) []entity.UpdateCommand {
	kept := cmds[:0]
	for _, cmd := range cmds {
		if IsStale(cmd, maxAge, now) {
			continue
		}
		kept = append(kept, cmd)
	}
	clear(cmds[len(kept):])
	return kept
}

// IsStale reports whether cmd is older than maxAge at now
func IsStale(cmd entity.UpdateCommand, maxAge time.Duration, now time.Time) bool {
	return now.Sub(cmd.IssuedAt) > maxAge
}

// Since returns a copy of the commands issued strictly after t
func Since(cmds []entity.UpdateCommand, t time.Time) []entity.UpdateCommand {
	out := make([]entity.UpdateCommand, 0, len(cmds))
	for _, cmd := range cmds {
		if cmd.IssuedAt.After(t) {
			out = append(out, cmd)
		}
	}
	return out
}
