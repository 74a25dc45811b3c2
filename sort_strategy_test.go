package main

import (
	"reflect"
	"testing"
)

func fileSources(refs ...string) []Source {
	sources := make([]Source, len(refs))
	for i, ref := range refs {
		sources[i] = Source{Ref: ref, Kind: SourceFile}
	}
	return sources
}

func sourceRefs(sources []Source) []string {
	refs := make([]string, 0, len(sources))
	for _, s := range sources {
		refs = append(refs, s.Ref)
	}
	return refs
}

func TestSortStrategies(t *testing.T) {
	input := []string{"test/01.png", "test/04.zip:a.png", "test/08.png", "test/09.png", "test/2.png", "test/３.png"}

	tests := []struct {
		name       string
		sortMethod int
		wantName   string
		want       []string
	}{
		{
			name:       "natural",
			sortMethod: SortNatural,
			wantName:   "Natural",
			want:       []string{"test/01.png", "test/2.png", "test/04.zip:a.png", "test/08.png", "test/09.png", "test/３.png"},
		},
		{
			name:       "simple",
			sortMethod: SortSimple,
			wantName:   "Simple",
			want:       []string{"test/01.png", "test/04.zip:a.png", "test/08.png", "test/09.png", "test/2.png", "test/３.png"},
		},
		{
			name:       "entry order",
			sortMethod: SortEntryOrder,
			wantName:   "Entry Order",
			want:       input,
		},
		{
			name:       "unknown falls back to natural",
			sortMethod: 999,
			wantName:   "Natural",
			want:       []string{"test/01.png", "test/2.png", "test/04.zip:a.png", "test/08.png", "test/09.png", "test/３.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := GetSortStrategy(tt.sortMethod)
			if strategy.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", strategy.Name(), tt.wantName)
			}

			sources := fileSources(input...)
			original := cloneSources(sources)

			got := sourceRefs(strategy.Sort(sources))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sort() = %v, want %v", got, tt.want)
			}
			if !reflect.DeepEqual(sources, original) {
				t.Error("Sort() modified its input")
			}
		})
	}
}

func TestSortStrategyEmpty(t *testing.T) {
	for _, method := range []int{SortNatural, SortSimple, SortEntryOrder} {
		result := GetSortStrategy(method).Sort(nil)
		if result == nil || len(result) != 0 {
			t.Errorf("method %d: expected empty non-nil slice, got %v", method, result)
		}
	}
}
