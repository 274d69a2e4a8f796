package orders

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"gorm.io/gorm"
)

var orderNumberPattern = regexp.MustCompile(`^(.+?)(\d+)$`)

// NumberGenerator produces sequential human-readable order numbers. The
// sequence derives from the most recent order on record, so the unique
// constraint on order_number is what actually enforces no duplicates under
// concurrent creation. Callers retry on conflict.
type NumberGenerator struct {
	prefix string
	start  int
	repo   Repository
}

// NewNumberGenerator builds a generator with the configured prefix and
// starting value.
func NewNumberGenerator(repo Repository, prefix string, start int) *NumberGenerator {
	if prefix == "" {
		prefix = "SS-"
	}
	if start <= 0 {
		start = 10001
	}
	return &NumberGenerator{prefix: prefix, start: start, repo: repo}
}

// Next returns the order number following the most recently created order.
// With no prior orders, or a last order number that does not parse, it falls
// back to the configured starting value.
func (g *NumberGenerator) Next(ctx context.Context) (string, error) {
	last, err := g.repo.FindLastOrder(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return g.format(g.start), nil
		}
		return "", err
	}

	n, ok := g.parse(last.OrderNumber)
	if !ok {
		return g.format(g.start), nil
	}
	return g.format(n + 1), nil
}

func (g *NumberGenerator) format(n int) string {
	return fmt.Sprintf("%s%d", g.prefix, n)
}

func (g *NumberGenerator) parse(orderNumber string) (int, bool) {
	match := orderNumberPattern.FindStringSubmatch(orderNumber)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, false
	}
	return n, true
}
