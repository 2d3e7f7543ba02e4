package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/ledger"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBudgetBar renders spend against budget like [████░░░░] 45%.
// The bar turns yellow at the near-budget ratio and red once the budget is
// spent. Ratios above 1 fill the bar but keep their true percentage.
func RenderBudgetBar(ratio float64, width int) string {
	if width < 2 {
		width = 2
	}
	fill := ratio
	if fill < 0 {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}

	filled := int(fill * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case ratio >= ledger.RedSpentRatio:
		style = StyleRed
	case ratio >= ledger.YellowSpentRatio:
		style = StyleYellow
	}

	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), ratio*100)
}
