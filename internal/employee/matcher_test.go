package employee

import (
	"reflect"
	"sort"
	"testing"
)

func TestRankSingleOverlap(t *testing.T) {
	records := []Record{{Name: "Taro", Description: "d", Tags: []string{"Python", "AWS", "Sales"}}}

	got := Rank([]string{"Python", "Java"}, records)
	if len(got) != 1 {
		t.Fatalf("expected one result, got %d", len(got))
	}
	if got[0].Name != "Taro" || got[0].MatchCount != 1 {
		t.Fatalf("unexpected result: %+v", got[0])
	}
	if !reflect.DeepEqual(got[0].MatchedKeywords, []string{"Python"}) {
		t.Fatalf("unexpected matched keywords: %v", got[0].MatchedKeywords)
	}
	if !reflect.DeepEqual(got[0].Tags, records[0].Tags) || got[0].Description != "d" {
		t.Fatalf("record fields must be carried through: %+v", got[0])
	}
}

func TestRankNoOverlapIsEmpty(t *testing.T) {
	records := []Record{
		{Name: "Taro", Tags: []string{"Python"}},
		{Name: "Hanako", Tags: []string{"Design"}},
	}

	got := Rank([]string{"Blockchain"}, records)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestRankEmptyQuery(t *testing.T) {
	records := []Record{{Name: "Taro", Tags: []string{"Python"}}}
	if got := Rank(nil, records); len(got) != 0 {
		t.Fatalf("expected no results, got %v", got)
	}
}

func TestRankOrdering(t *testing.T) {
	records := []Record{
		{Name: "Carol", Tags: []string{"Go"}},
		{Name: "alice", Tags: []string{"Go", "AWS"}},
		{Name: "Bob", Tags: []string{"Go", "AWS"}},
		{Name: "Dave", Tags: []string{"Go", "AWS", "SQL"}},
		{Name: "Eve", Tags: []string{"Rust"}},
	}

	got := Rank([]string{"Go", "AWS", "SQL"}, records)

	var names []string
	for _, r := range got {
		names = append(names, r.Name)
	}
	// byte order: uppercase sorts before lowercase
	want := []string{"Dave", "Bob", "alice", "Carol"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}

	for i := 1; i < len(got); i++ {
		if got[i-1].MatchCount < got[i].MatchCount {
			t.Fatalf("results not sorted by match count: %+v", got)
		}
	}
}

func TestRankTreatsTagsAsSets(t *testing.T) {
	records := []Record{{Name: "Taro", Tags: []string{"Go", "Go", "AWS", ""}}}

	got := Rank([]string{"Go", "Go", "AWS"}, records)
	if len(got) != 1 || got[0].MatchCount != 2 {
		t.Fatalf("duplicates must not inflate the count: %+v", got)
	}
	if !reflect.DeepEqual(got[0].MatchedKeywords, []string{"AWS", "Go"}) {
		t.Fatalf("unexpected matched keywords: %v", got[0].MatchedKeywords)
	}
}

func TestRankIsCaseSensitive(t *testing.T) {
	records := []Record{{Name: "Taro", Tags: []string{"python"}}}
	if got := Rank([]string{"Python"}, records); len(got) != 0 {
		t.Fatalf("matching is exact, got %v", got)
	}
}

func TestRankMatchedKeywordsEqualIntersection(t *testing.T) {
	query := []string{"a", "b", "c", "d"}
	records := []Record{
		{Name: "r1", Tags: []string{"d", "x", "b"}},
		{Name: "r2", Tags: []string{"y"}},
		{Name: "r3", Tags: []string{"c", "a", "b", "d", "z"}},
	}

	got := Rank(query, records)
	if len(got) != 2 {
		t.Fatalf("expected two results, got %v", got)
	}

	for _, res := range got {
		var record Record
		for _, r := range records {
			if r.Name == res.Name {
				record = r
			}
		}
		var want []string
		for _, q := range query {
			for _, tag := range record.Tags {
				if q == tag {
					want = append(want, q)
				}
			}
		}
		sort.Strings(want)
		if !reflect.DeepEqual(res.MatchedKeywords, want) || res.MatchCount != len(want) {
			t.Fatalf("%s: expected %v, got %v", res.Name, want, res.MatchedKeywords)
		}
	}
}
