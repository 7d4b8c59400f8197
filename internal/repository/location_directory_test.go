package repository

import (
	"sort"
	"testing"
)

func TestLocationDirectory(t *testing.T) {
	directory, err := NewLocationDirectory()
	if err != nil {
		t.Fatalf("Failed to load location directory: %v", err)
	}

	t.Run("Find by city and district", func(t *testing.T) {
		loc, ok := directory.Find("北京", "朝阳")
		if !ok {
			t.Fatal("Expected to find 北京 朝阳")
		}
		if loc.Code != "101010300" {
			t.Errorf("Code = %q, want 101010300", loc.Code)
		}
		if loc.Name != "朝阳" {
			t.Errorf("Name = %q, want 朝阳", loc.Name)
		}

		if _, ok := directory.Find("北京", "不存在"); ok {
			t.Error("Found a district that should not exist")
		}
		if _, ok := directory.Find("不存在", "朝阳"); ok {
			t.Error("Found a city that should not exist")
		}
	})

	t.Run("ResolveCode", func(t *testing.T) {
		loc, ok := directory.ResolveCode("101020600")
		if !ok {
			t.Fatal("Expected to resolve 101020600")
		}
		if loc.City != "上海" || loc.District != "浦东新区" {
			t.Errorf("Resolved %s·%s, want 上海·浦东新区", loc.City, loc.District)
		}

		if _, ok := directory.ResolveCode("undefined"); ok {
			t.Error("Resolved the literal string undefined")
		}
	})

	t.Run("Cities are sorted", func(t *testing.T) {
		cities := directory.Cities()
		if len(cities) == 0 {
			t.Fatal("Directory has no cities")
		}
		if !sort.StringsAreSorted(cities) {
			t.Error("Cities are not sorted")
		}
	})

	t.Run("Districts", func(t *testing.T) {
		districts, ok := directory.Districts("北京")
		if !ok {
			t.Fatal("Expected districts for 北京")
		}
		if len(districts) < 10 {
			t.Errorf("Got %d districts for 北京, expected at least 10", len(districts))
		}
		for i := 1; i < len(districts); i++ {
			if districts[i-1].Code > districts[i].Code {
				t.Fatal("Districts are not sorted by code")
			}
		}

		if _, ok := directory.Districts("不存在"); ok {
			t.Error("Got districts for a city that should not exist")
		}
	})
}
