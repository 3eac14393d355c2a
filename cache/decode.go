package cache

import (
	"errors"
	"fmt"

	"github.com/ppopth/coded-caching/fragment"
	"github.com/ppopth/coded-caching/generator"

	"go.uber.org/multierr"
)

// DecodeTarget is what FragmentCache.Decode accepts: a SingleFragment or a
// *FragmentBatch.
type DecodeTarget interface {
	members() []*fragment.Coded
}

// SingleFragment is a decode target holding one coded fragment
type SingleFragment struct {
	Coded *fragment.Coded
}

func (s SingleFragment) members() []*fragment.Coded {
	return []*fragment.Coded{s.Coded}
}

// Result of a decode. In soft mode the recovered fragments carry their tag
// and size but no content, except for queries that already were a single
// fragment.
type Result struct {
	Decodable bool
	Fragments []fragment.Fragment
}

// Decode tries to recover fragments from target using the stored fragments.
// Members of a batch are decoded independently; the result is decodable if
// any member is. With soft set, decodability and the recovered tags are
// reported without reconstructing the content.
func (c *FragmentCache) Decode(target DecodeTarget, soft bool) (Result, error) {
	if target == nil {
		return Result{}, fmt.Errorf("nil decode target")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	var res Result
	var errs error
	seen := make(map[fragment.Tag]struct{})
	for _, q := range target.members() {
		recovered, err := c.decodeOne(q, soft)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for _, f := range recovered {
			if _, dup := seen[f.Tag]; dup {
				continue
			}
			seen[f.Tag] = struct{}{}
			res.Fragments = append(res.Fragments, f)
		}
	}
	res.Decodable = len(res.Fragments) > 0
	return res, errs
}

// decodeOne resolves a single query. The caller holds the mutex.
func (c *FragmentCache) decodeOne(q *fragment.Coded, soft bool) ([]fragment.Fragment, error) {
	if q == nil {
		return nil, fmt.Errorf("nil query: %w", ErrMalformed)
	}
	if f, ok := q.Downgrade(); ok {
		return []fragment.Fragment{f}, nil
	}
	if q.Len() == 0 {
		return nil, nil
	}

	s := c.snapshotFor(q.Size())
	brief := q.Brief()

	var unseen []fragment.Tag
	for _, tag := range brief {
		if _, ok := s.tagToCol[tag]; !ok {
			unseen = append(unseen, tag)
		}
	}

	switch len(unseen) {
	case 0:
		// Leave one known tag out at a time; whatever remains must be a
		// combination of stored fragments for that tag to be recoverable.
		var out []fragment.Fragment
		for _, tag := range brief {
			v := s.indicator(brief)
			v[s.tagToCol[tag]] = false
			f, ok, err := c.recoverTag(s, q, v, tag, soft)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, f)
			}
		}
		log.Debugf("query %s: %d of %d known tags recoverable", q, len(out), len(brief))
		return out, nil

	case 1:
		// The unseen tag has no column, so the indicator already has it zeroed
		f, ok, err := c.recoverTag(s, q, s.indicator(brief), unseen[0], soft)
		if err != nil || !ok {
			log.Debugf("query %s: remaining tags are not a stored combination", q)
			return nil, err
		}
		return []fragment.Fragment{f}, nil

	default:
		log.Debugf("query %s: %d unseen tags, not decodable", q, len(unseen))
		return nil, nil
	}
}

// recoverTag checks whether v, the query with target removed, is a combination
// of stored fragments. If so the query XORed with those fragments is target.
func (c *FragmentCache) recoverTag(s *snapshot, q *fragment.Coded, v []bool, target fragment.Tag, soft bool) (fragment.Fragment, bool, error) {
	if s.matrix == nil {
		return fragment.Fragment{}, false, nil
	}
	coeffs, err := s.matrix.DecodeBits(v)
	switch {
	case errors.Is(err, generator.ErrNotInCodeSpace):
		return fragment.Fragment{}, false, nil
	case errors.Is(err, generator.ErrNotStandard):
		log.Debugf("basis for size %d is not standard, treating %s as not decodable", s.size, q)
		return fragment.Fragment{}, false, nil
	case err != nil:
		return fragment.Fragment{}, false, err
	}

	if soft {
		return fragment.Fragment{Tag: target, Size: q.Size()}, true, nil
	}

	acc := q.Clone()
	for i, use := range coeffs {
		if !use {
			continue
		}
		if err := acc.XorWith(c.contents[s.ids[i]]); err != nil {
			return fragment.Fragment{}, false, err
		}
	}
	f, ok := acc.Downgrade()
	if !ok || f.Tag != target {
		return fragment.Fragment{}, false, fmt.Errorf("reconstruction of %s left %s", target, acc)
	}
	return f, true, nil
}
