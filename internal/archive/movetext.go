package archive

import (
	"fmt"
	"strings"
)

// MoveText numbers a square-pair move list by full move:
// "1. e2e4 e7e5 2. g1f3".
func MoveText(moves []string) string {
	var b strings.Builder
	for i := 0; i < len(moves); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d. %s", i/2+1, strings.TrimSpace(moves[i]))
		if i+1 < len(moves) {
			b.WriteByte(' ')
			b.WriteString(strings.TrimSpace(moves[i+1]))
		}
	}
	return b.String()
}
