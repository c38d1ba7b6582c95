package compare

import "math"

// solveAssignment finds the minimum-cost one-to-one assignment over a
// rectangular cost matrix using the Kuhn-Munkres shortest-augmenting-path
// formulation. Returns, for each row, the assigned column index, or -1 for
// rows left unassigned (only possible when rows > cols). Ties resolve by
// row/column index order, which does not affect aggregate counts.
func solveAssignment(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	m := len(cost[0])
	if m == 0 {
		out := make([]int, n)
		for i := range out {
			out[i] = -1
		}
		return out
	}

	// The core solver requires rows <= cols; transpose when necessary and
	// invert the mapping afterward.
	if n > m {
		t := make([][]float64, m)
		for j := 0; j < m; j++ {
			t[j] = make([]float64, n)
			for i := 0; i < n; i++ {
				t[j][i] = cost[i][j]
			}
		}
		colToRow := solveRect(t, m, n)
		out := make([]int, n)
		for i := range out {
			out[i] = -1
		}
		for col, row := range colToRow {
			if row >= 0 {
				out[row] = col
			}
		}
		return out
	}

	return solveRect(cost, n, m)
}

// solveRect runs the potentials-based Kuhn-Munkres algorithm on an n x m
// matrix with n <= m. Indices are 1-based internally; column 0 is the
// virtual source.
func solveRect(cost [][]float64, n, m int) []int {
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	match := make([]int, m+1) // match[j] = row assigned to column j (0 = none)
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		for {
			used[j0] = true
			i0 := match[j0]
			delta := math.Inf(1)
			j1 := 0

			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= m; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if match[j0] == 0 {
				break
			}
		}

		// Walk the augmenting path back to the source.
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}

	rowToCol := make([]int, n)
	for i := range rowToCol {
		rowToCol[i] = -1
	}
	for j := 1; j <= m; j++ {
		if match[j] > 0 {
			rowToCol[match[j]-1] = j - 1
		}
	}
	return rowToCol
}
