package unitworld

import (
	"github.com/akmonengine/unitworld/pose"
	"github.com/pkg/errors"
)

// Block is one tile of a bipartite visibility matrix: rows [RowStart, RowEnd) of the first
// pose set against columns [ColStart, ColEnd) of the second.
type Block struct {
	Index    int
	RowStart int
	RowEnd   int
	ColStart int
	ColEnd   int
}

func (b Block) Rows() int {
	return b.RowEnd - b.RowStart
}

func (b Block) Cols() int {
	return b.ColEnd - b.ColStart
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// BlockRanges splits an m x n matrix into tasks and returns task index with the task count.
// A positive blockSize cuts square tiles of that size, read row by row. A negative one cuts
// bands of |blockSize| full rows.
func BlockRanges(m, n, blockSize, index int) (Block, int, error) {
	if blockSize == 0 {
		return Block{}, 0, errors.New("block size must not be zero")
	}
	if m < 0 || n < 0 {
		return Block{}, 0, errors.Errorf("invalid matrix size %dx%d", m, n)
	}

	var block Block
	var total int
	if blockSize > 0 {
		colBlocks := ceilDiv(n, blockSize)
		total = ceilDiv(m, blockSize) * colBlocks
		if index < 0 || index >= total {
			return Block{}, total, errors.Errorf("block index %d out of range [0, %d)", index, total)
		}

		row, col := index/colBlocks, index%colBlocks
		block = Block{
			RowStart: row * blockSize,
			RowEnd:   min((row+1)*blockSize, m),
			ColStart: col * blockSize,
			ColEnd:   min((col+1)*blockSize, n),
		}
	} else {
		rows := -blockSize
		total = ceilDiv(m, rows)
		if n == 0 {
			total = 0
		}
		if index < 0 || index >= total {
			return Block{}, total, errors.Errorf("block index %d out of range [0, %d)", index, total)
		}

		block = Block{
			RowStart: index * rows,
			RowEnd:   min((index+1)*rows, m),
			ColStart: 0,
			ColEnd:   n,
		}
	}
	block.Index = index

	return block, total, nil
}

// VisibilityBlock computes the tile block of the bipartite matrix of a against b.
func (w *UnitWorld) VisibilityBlock(a []pose.StateVector, aUnit bool, b []pose.StateVector, bUnit bool, verifyMagnitude float64, block Block) (*Matrix, error) {
	if block.RowStart < 0 || block.RowEnd > len(a) || block.RowStart > block.RowEnd ||
		block.ColStart < 0 || block.ColEnd > len(b) || block.ColStart > block.ColEnd {
		return nil, errors.Errorf("block %+v does not fit a %dx%d matrix", block, len(a), len(b))
	}

	rows := a[block.RowStart:block.RowEnd]
	cols := b[block.ColStart:block.ColEnd]
	return w.CalculateVisibilityMatrix2(rows, aUnit, cols, bUnit, verifyMagnitude), nil
}
