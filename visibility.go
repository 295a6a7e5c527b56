package unitworld

import (
	"sync/atomic"

	"github.com/akmonengine/unitworld/pose"
)

// Matrix is a dense row-major {0, 1} matrix. Cell (i, j) is 1 when the straight motion from
// pose i of the first set to pose j of the second one is valid.
type Matrix struct {
	Rows int
	Cols int
	Data []int8
}

func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]int8, rows*cols)}
}

func (m *Matrix) At(i, j int) int8 {
	return m.Data[i*m.Cols+j]
}

func (m *Matrix) Set(i, j int, v int8) {
	m.Data[i*m.Cols+j] = v
}

func (m *Matrix) setValid(i, j int, valid bool) {
	if valid {
		m.Set(i, j, 1)
	} else {
		m.Set(i, j, 0)
	}
}

// Row returns row i, sharing the matrix storage.
func (m *Matrix) Row(i int) []int8 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

func (m *Matrix) IsSymmetric() bool {
	if m.Rows != m.Cols {
		return false
	}
	for i := 0; i < m.Rows; i++ {
		for j := i + 1; j < m.Cols; j++ {
			if m.At(i, j) != m.At(j, i) {
				return false
			}
		}
	}
	return true
}

// CountValid returns the number of cells set to 1.
func (m *Matrix) CountValid() int {
	n := 0
	for _, v := range m.Data {
		n += int(v)
	}
	return n
}

// PosesToUnit returns the poses in the unit frame. The input slice is never modified.
func (w *UnitWorld) PosesToUnit(poses []pose.StateVector, areUnit bool) []pose.StateVector {
	out := make([]pose.StateVector, len(poses))
	if areUnit {
		copy(out, poses)
		return out
	}

	parallelFor(w.workers, len(poses), func(i int) {
		out[i] = w.TranslateToUnitState(poses[i])
	})
	return out
}

// CalculateVisibilityMatrix tests every unordered pair of poses. The result is symmetric
// with a zero diagonal.
func (w *UnitWorld) CalculateVisibilityMatrix(poses []pose.StateVector, areUnit bool, verifyMagnitude float64) *Matrix {
	qs := w.PosesToUnit(poses, areUnit)
	n := len(qs)
	m := NewMatrix(n, n)

	// row i owns the cells (i, j) and (j, i) for j > i
	dispatch(w.workers, n, func(_, i int) {
		for j := i + 1; j < n; j++ {
			valid := w.IsValidTransition(qs[i], qs[j], verifyMagnitude)
			m.setValid(i, j, valid)
			m.setValid(j, i, valid)
		}
	})

	w.Events.emit(MatrixDoneEvent{Rows: n, Cols: n, Valid: m.CountValid()})
	return m
}

// CalculateVisibilityMatrix2 tests every pose of a against every pose of b.
// Progress is reported by the first worker through the logger and PROGRESS listeners.
func (w *UnitWorld) CalculateVisibilityMatrix2(a []pose.StateVector, aUnit bool, b []pose.StateVector, bUnit bool, verifyMagnitude float64) *Matrix {
	qa := w.PosesToUnit(a, aUnit)
	qb := w.PosesToUnit(b, bUnit)
	m := NewMatrix(len(qa), len(qb))

	var progress atomic.Int64
	dispatch(w.workers, len(qa), func(worker, i int) {
		for j := range qb {
			m.setValid(i, j, w.IsValidTransition(qa[i], qb[j], verifyMagnitude))
		}

		done := progress.Add(1)
		if worker == 0 {
			w.logger.Infow("visibility progress", "done", done, "total", len(qa))
			w.Events.emit(ProgressEvent{Done: int(done), Total: len(qa)})
		}
	})

	w.Events.emit(MatrixDoneEvent{Rows: m.Rows, Cols: m.Cols, Valid: m.CountValid()})
	return m
}
