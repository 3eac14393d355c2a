package cache

import (
	"github.com/ppopth/coded-caching/field"
	"github.com/ppopth/coded-caching/fragment"
	"github.com/ppopth/coded-caching/generator"
)

// snapshot is the reduced basis of all stored fragments of one size. Row i
// of matrix is the brief of contents[ids[i]] over the columns in colToTag.
type snapshot struct {
	generation uint64
	size       int
	matrix     *generator.Matrix // nil when no fragment of this size is stored
	tagToCol   map[fragment.Tag]int
	colToTag   []fragment.Tag
	ids        []string
}

// Basis is a read-only view of the basis a cache uses for one fragment size
type Basis struct {
	Size       int
	Generation uint64
	Tags       []fragment.Tag // column order
	IDs        []string       // ids of the stored fragments forming the rows
	Rank       int
	Standard   bool
	Ops        []string // operations that reduced the rows to standard form
}

// snapshotFor returns the basis for size, rebuilding it if an entry of that
// size changed since it was built. The caller holds the mutex.
func (c *FragmentCache) snapshotFor(size int) *snapshot {
	gen := c.generations[size]
	if s, ok := c.snapshots[size]; ok && s.generation == gen {
		return s
	}
	s := c.buildSnapshot(size, gen)
	c.snapshots[size] = s
	return s
}

func (c *FragmentCache) buildSnapshot(size int, gen uint64) *snapshot {
	s := &snapshot{
		generation: gen,
		size:       size,
		tagToCol:   make(map[fragment.Tag]int),
	}

	var candidates []*fragment.Coded
	var candidateIDs []string
	for _, id := range c.sortedIDs() {
		cf := c.contents[id]
		if cf.Size() != size {
			continue
		}
		candidates = append(candidates, cf)
		candidateIDs = append(candidateIDs, id)
		for _, tag := range cf.Brief() {
			if _, ok := s.tagToCol[tag]; !ok {
				s.tagToCol[tag] = len(s.colToTag)
				s.colToTag = append(s.colToTag, tag)
			}
		}
	}
	if len(candidates) == 0 {
		log.Debugf("no fragments of size %d, empty basis", size)
		return s
	}

	// Keep only rows that add information so the basis has full row rank
	f := field.NewBitField()
	var ref, rows [][]field.Element
	for i, cf := range candidates {
		row := field.BoolsToElements(s.indicator(cf.Brief()), f)
		next, ok := field.IsLinearlyIndependentIncremental(ref, row)
		if !ok {
			log.Debugf("skipping %s: dependent on earlier fragments of size %d", candidateIDs[i], size)
			continue
		}
		ref = next
		rows = append(rows, row)
		s.ids = append(s.ids, candidateIDs[i])
	}

	m, err := generator.New(f, rows)
	if err != nil {
		log.Errorf("building basis for size %d: %s", size, err)
		return s
	}
	if err := m.Standardize(); err != nil {
		log.Errorf("standardizing basis for size %d: %s", size, err)
	}
	s.matrix = m
	log.Debugf("rebuilt basis for size %d: %d rows over %d tags", size, m.Rows(), m.Cols())
	return s
}

// indicator returns the 0/1 row of tags over the snapshot's columns. Tags
// outside the column universe are ignored.
func (s *snapshot) indicator(tags []fragment.Tag) []bool {
	row := make([]bool, len(s.colToTag))
	for _, tag := range tags {
		if col, ok := s.tagToCol[tag]; ok {
			row[col] = true
		}
	}
	return row
}

func (s *snapshot) view() Basis {
	b := Basis{
		Size:       s.size,
		Generation: s.generation,
		Tags:       append([]fragment.Tag(nil), s.colToTag...),
		IDs:        append([]string(nil), s.ids...),
	}
	if s.matrix != nil {
		b.Rank = s.matrix.Rank()
		b.Standard = s.matrix.IsStandard()
		for _, op := range s.matrix.Ops() {
			b.Ops = append(b.Ops, op.String())
		}
	}
	return b
}

// Basis returns a copy of the basis used to decode queries of the given size
func (c *FragmentCache) Basis(size int) Basis {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.snapshotFor(size).view()
}
