package main

import (
	"sort"

	"github.com/maruel/natural"
)

// SortStrategy orders the sources expanded from a directory or archive
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(sources []Source) []Source
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

// NaturalSortStrategy orders numbered files the way people count (2 before 10)
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(sources []Source) []Source {
	result := cloneSources(sources)
	sort.SliceStable(result, func(i, j int) bool {
		return natural.Less(result[i].Ref, result[j].Ref)
	})
	return result
}

func (s *NaturalSortStrategy) Name() string { return "Natural" }
func (s *NaturalSortStrategy) ID() int      { return SortNatural }

// SimpleSortStrategy implements lexicographical sorting
type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Sort(sources []Source) []Source {
	result := cloneSources(sources)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Ref < result[j].Ref
	})
	return result
}

func (s *SimpleSortStrategy) Name() string { return "Simple" }
func (s *SimpleSortStrategy) ID() int      { return SortSimple }

// EntryOrderSortStrategy preserves the order the filesystem or archive reports
type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Sort(sources []Source) []Source {
	return cloneSources(sources)
}

func (s *EntryOrderSortStrategy) Name() string { return "Entry Order" }
func (s *EntryOrderSortStrategy) ID() int      { return SortEntryOrder }

func cloneSources(sources []Source) []Source {
	result := make([]Source, len(sources))
	copy(result, sources)
	return result
}

// GetSortStrategy returns the strategy for a config sort method, natural by default
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortSimple:
		return &SimpleSortStrategy{}
	case SortEntryOrder:
		return &EntryOrderSortStrategy{}
	default:
		return &NaturalSortStrategy{}
	}
}

// sortSources sorts with the configured strategy
func sortSources(sources []Source, sortMethod int) []Source {
	return GetSortStrategy(sortMethod).Sort(sources)
}
