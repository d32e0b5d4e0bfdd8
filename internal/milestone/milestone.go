// Package milestone maps a habit's cumulative check-in count to a growth
// tier. The band table is fixed; the function is total over all non-negative
// counts.
package milestone

// NextInfinite marks the final band, which has no next threshold.
const NextInfinite = -1

// Milestone is the derived tier for a check-in count.
type Milestone struct {
	Level           int
	Name            string
	ProgressPercent int
	NextThreshold   int // NextInfinite for the final band
	Color           string
}

type band struct {
	level int
	name  string
	min   int
	next  int // NextInfinite for the open-ended band
	color string
}

var bands = []band{
	{0, "seed", 0, 10, "#CDA283"},
	{1, "sprout", 10, 25, "#b3c458"},
	{2, "seedling", 25, 50, "#83c769"},
	{3, "sapling", 50, 100, "#4b914e"},
	{4, "tree", 100, 200, "#357e56"},
	{5, "forest", 200, 500, "#24613f"},
	{6, "world tree", 500, NextInfinite, "#278378"},
}

// For returns the milestone for a cumulative check-in count. Negative counts
// clamp to zero.
func For(count int) Milestone {
	if count < 0 {
		count = 0
	}

	current := bands[0]
	for i := len(bands) - 1; i >= 0; i-- {
		if count >= bands[i].min {
			current = bands[i]
			break
		}
	}

	progress := 100
	if current.next != NextInfinite {
		span := current.next - current.min
		progress = (count - current.min) * 100 / span
		// round half up like the reference table
		if rem := (count - current.min) * 100 % span; rem*2 >= span {
			progress++
		}
		if progress > 100 {
			progress = 100
		}
	}

	return Milestone{
		Level:           current.level,
		Name:            current.name,
		ProgressPercent: progress,
		NextThreshold:   current.next,
		Color:           current.color,
	}
}
