// Package compressor packs dense integer tables whose entries are mostly a single empty value, such as the
// table that maps a pair of non-terminals to the left-hand sides of the binary rules deriving that pair.
package compressor

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type OriginalTable struct {
	entries  []int
	rowCount int
	colCount int
}

func NewOriginalTable(entries []int, colCount int) (*OriginalTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &OriginalTable{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

func (t *OriginalTable) row(r int) []int {
	return t.entries[r*t.colCount : (r+1)*t.colCount]
}

type Compressor interface {
	Compress(orig *OriginalTable) error
	Lookup(row, col int) (int, error)
	OriginalTableSize() (int, int)

	// Size returns the number of integers the compressed form holds.
	Size() int
}

var (
	_ Compressor = &UniqueEntriesTable{}
	_ Compressor = &RowDisplacementTable{}
)

func checkRange(row, col, rowCount, colCount int) error {
	if row < 0 || row >= rowCount || col < 0 || col >= colCount {
		return fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return nil
}

// UniqueEntriesTable stores each distinct row once and maps every original row to its distinct row.
type UniqueEntriesTable struct {
	UniqueEntries    []int
	RowNums          []int
	OriginalRowCount int
	OriginalColCount int
}

func NewUniqueEntriesTable() *UniqueEntriesTable {
	return &UniqueEntriesTable{}
}

func (tab *UniqueEntriesTable) Lookup(row, col int) (int, error) {
	if err := checkRange(row, col, tab.OriginalRowCount, tab.OriginalColCount); err != nil {
		return 0, err
	}
	return tab.UniqueEntries[tab.RowNums[row]*tab.OriginalColCount+col], nil
}

func (tab *UniqueEntriesTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

func (tab *UniqueEntriesTable) Size() int {
	return len(tab.UniqueEntries) + len(tab.RowNums)
}

func (tab *UniqueEntriesTable) Compress(orig *OriginalTable) error {
	var uniqueEntries []int
	rowNums := make([]int, orig.rowCount)
	key2RowNum := map[string]int{}
	for r := 0; r < orig.rowCount; r++ {
		row := orig.row(r)
		key := rowKey(row)
		rowNum, ok := key2RowNum[key]
		if !ok {
			rowNum = len(key2RowNum)
			key2RowNum[key] = rowNum
			uniqueEntries = append(uniqueEntries, row...)
		}
		rowNums[r] = rowNum
	}

	tab.UniqueEntries = uniqueEntries
	tab.RowNums = rowNums
	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount

	return nil
}

func rowKey(row []int) string {
	var b strings.Builder
	for _, v := range row {
		b.WriteString(strconv.Itoa(v))
		b.WriteByte(',')
	}
	return b.String()
}

const ForbiddenValue = -1

// RowDisplacementTable overlays the rows on one shared array, shifting each row until its non-empty
// entries land on free slots. Bounds records which row owns a slot.
type RowDisplacementTable struct {
	OriginalRowCount int
	OriginalColCount int
	EmptyValue       int
	Entries          []int
	Bounds           []int
	RowDisplacement  []int
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if err := checkRange(row, col, tab.OriginalRowCount, tab.OriginalColCount); err != nil {
		return tab.EmptyValue, err
	}
	d := tab.RowDisplacement[row]
	if d+col >= len(tab.Bounds) || tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

func (tab *RowDisplacementTable) Size() int {
	return len(tab.Entries) + len(tab.Bounds) + len(tab.RowDisplacement)
}

type rowInfo struct {
	rowNum      int
	nonEmptyCol []int
}

func (tab *RowDisplacementTable) Compress(orig *OriginalTable) error {
	infos := make([]*rowInfo, 0, orig.rowCount)
	for r := 0; r < orig.rowCount; r++ {
		info := &rowInfo{
			rowNum: r,
		}
		for c, v := range orig.row(r) {
			if v != tab.EmptyValue {
				info.nonEmptyCol = append(info.nonEmptyCol, c)
			}
		}
		infos = append(infos, info)
	}
	// Placing dense rows first leaves the gaps that sparse rows can fill.
	sort.SliceStable(infos, func(i, j int) bool {
		return len(infos[i].nonEmptyCol) > len(infos[j].nonEmptyCol)
	})

	size := len(orig.entries)
	entries := make([]int, size)
	bounds := make([]int, size)
	for i := 0; i < size; i++ {
		entries[i] = tab.EmptyValue
		bounds[i] = ForbiddenValue
	}
	rowDisplacement := make([]int, orig.rowCount)
	bottom := 0
	for _, info := range infos {
		if len(info.nonEmptyCol) == 0 {
			continue
		}
		d := 0
		for !fits(bounds, d, info.nonEmptyCol) {
			d++
		}
		rowDisplacement[info.rowNum] = d
		for _, c := range info.nonEmptyCol {
			entries[d+c] = orig.entries[info.rowNum*orig.colCount+c]
			bounds[d+c] = info.rowNum
		}
		if d+orig.colCount > bottom {
			bottom = d + orig.colCount
		}
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries[:bottom]
	tab.Bounds = bounds[:bottom]
	tab.RowDisplacement = rowDisplacement

	return nil
}

func fits(bounds []int, d int, cols []int) bool {
	for _, c := range cols {
		if bounds[d+c] != ForbiddenValue {
			return false
		}
	}
	return true
}

// Smallest compresses the table with every compressor and returns the one with the smallest footprint.
// Ties are won by the earlier compressor.
func Smallest(orig *OriginalTable, comps ...Compressor) (Compressor, error) {
	if len(comps) == 0 {
		return nil, fmt.Errorf("no compressor was passed")
	}
	var best Compressor
	for _, comp := range comps {
		err := comp.Compress(orig)
		if err != nil {
			return nil, err
		}
		if best == nil || comp.Size() < best.Size() {
			best = comp
		}
	}
	return best, nil
}
