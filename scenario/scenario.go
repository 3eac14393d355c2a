// Package scenario loads YAML descriptions of a cache and the coded queries
// sent to it.
//
//	capacity: 3
//	fragments:
//	  - {file: 2, subfile: 1, content: "a"}
//	cache:
//	  - [[2, 1], [3, 1], [4, 2]]
//	queries:
//	  - [[2, 1], [3, 1], [4, 1], [3, 2], [4, 2]]
//	soft: false
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/ppopth/coded-caching/cache"
	"github.com/ppopth/coded-caching/fragment"

	logging "github.com/ipfs/go-log/v2"
	"gopkg.in/yaml.v3"
)

var log = logging.Logger("scenario")

// ErrInvalid is returned for scenarios that parse but cannot be built
var ErrInvalid = errors.New("invalid scenario")

// FragmentSpec declares a base fragment. Content is taken as literal bytes.
type FragmentSpec struct {
	File    int64  `yaml:"file"`
	Subfile int64  `yaml:"subfile"`
	Content string `yaml:"content"`
}

// Combination lists the [file, subfile] pairs XORed into one coded fragment
type Combination [][]int64

// Scenario is a cache setup plus the queries to decode against it
type Scenario struct {
	Capacity  int            `yaml:"capacity"`
	Fragments []FragmentSpec `yaml:"fragments"`
	Cache     []Combination  `yaml:"cache"`
	Queries   []Combination  `yaml:"queries"`
	Soft      bool           `yaml:"soft"`
}

// Load reads and parses a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the references between the sections
func (s *Scenario) Validate() error {
	if s.Capacity < 0 {
		return fmt.Errorf("negative capacity %d: %w", s.Capacity, ErrInvalid)
	}
	known := make(map[fragment.Tag]struct{}, len(s.Fragments))
	for _, fs := range s.Fragments {
		tag := fragment.Tag{FileID: fs.File, SubfileID: fs.Subfile}
		if _, dup := known[tag]; dup {
			return fmt.Errorf("fragment %s declared twice: %w", tag, ErrInvalid)
		}
		known[tag] = struct{}{}
	}
	check := func(section string, combos []Combination) error {
		for i, combo := range combos {
			if len(combo) == 0 {
				return fmt.Errorf("%s[%d] is empty: %w", section, i, ErrInvalid)
			}
			for _, pair := range combo {
				if len(pair) != 2 {
					return fmt.Errorf("%s[%d] has a tag with %d components: %w", section, i, len(pair), ErrInvalid)
				}
				tag := fragment.Tag{FileID: pair[0], SubfileID: pair[1]}
				if _, ok := known[tag]; !ok {
					return fmt.Errorf("%s[%d] uses undeclared fragment %s: %w", section, i, tag, ErrInvalid)
				}
			}
		}
		return nil
	}
	if err := check("cache", s.Cache); err != nil {
		return err
	}
	return check("queries", s.Queries)
}

func (s *Scenario) fragments() map[fragment.Tag]fragment.Fragment {
	out := make(map[fragment.Tag]fragment.Fragment, len(s.Fragments))
	for _, fs := range s.Fragments {
		tag := fragment.Tag{FileID: fs.File, SubfileID: fs.Subfile}
		out[tag] = fragment.New(tag, []byte(fs.Content))
	}
	return out
}

func combine(base map[fragment.Tag]fragment.Fragment, combo Combination) (*fragment.Coded, error) {
	fs := make([]fragment.Fragment, 0, len(combo))
	for _, pair := range combo {
		fs = append(fs, base[fragment.Tag{FileID: pair[0], SubfileID: pair[1]}])
	}
	return fragment.NewCoded(fs...)
}

// Build creates the cache described by the scenario and the coded queries
func (s *Scenario) Build() (*cache.FragmentCache, []*fragment.Coded, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	base := s.fragments()

	entries := make([]*fragment.Coded, 0, len(s.Cache))
	for i, combo := range s.Cache {
		cf, err := combine(base, combo)
		if err != nil {
			return nil, nil, fmt.Errorf("cache[%d]: %w", i, err)
		}
		entries = append(entries, cf)
	}
	c, err := cache.New(s.Capacity, cache.WithFragments(entries...))
	if err != nil {
		return nil, nil, err
	}

	queries := make([]*fragment.Coded, 0, len(s.Queries))
	for i, combo := range s.Queries {
		q, err := combine(base, combo)
		if err != nil {
			return nil, nil, fmt.Errorf("queries[%d]: %w", i, err)
		}
		queries = append(queries, q)
	}
	log.Debugf("built cache with %d entries, %d of %d in use, and %d queries", c.Len(), c.UsedSpace(), c.Capacity(), len(queries))
	return c, queries, nil
}
