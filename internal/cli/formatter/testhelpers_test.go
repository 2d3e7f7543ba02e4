package formatter

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

func stripped(s string) string {
	return ansi.Strip(s)
}

func countBlocks(s string) int {
	return strings.Count(s, filledBlock) + strings.Count(s, emptyBlock)
}
