package scoring

import "github.com/lichiahui/lifelog/internal/models"

// TaskScore sums quadrant weights over tasks in [from, to]. Earned counts
// completed tasks only; possible counts every task in range and serves as the
// denominator of the completion-quality ratio.
func TaskScore(tasks []models.Task, from, to string) (earned, possible int) {
	for _, t := range tasks {
		if t.Date < from || t.Date > to {
			continue
		}
		w := t.Quadrant.Weight()
		possible += w
		if t.Completed {
			earned += w
		}
	}
	return earned, possible
}

// QuadrantCounts tallies completed tasks in [from, to] per quadrant.
func QuadrantCounts(tasks []models.Task, from, to string) map[models.Quadrant]int {
	counts := make(map[models.Quadrant]int, 4)
	for _, t := range tasks {
		if t.Date < from || t.Date > to || !t.Completed {
			continue
		}
		counts[t.Quadrant]++
	}
	return counts
}

// OpenImportantTasks counts uncompleted A/B-quadrant tasks in [from, to].
func OpenImportantTasks(tasks []models.Task, from, to string) int {
	n := 0
	for _, t := range tasks {
		if t.Date < from || t.Date > to || t.Completed {
			continue
		}
		if t.Quadrant == models.QuadrantA || t.Quadrant == models.QuadrantB {
			n++
		}
	}
	return n
}
