package sample

import (
	"slices"
	"strings"
	"testing"
)

func TestDraft(t *testing.T) {
	g := &Generator{}

	for range 200 {
		d := g.Draft()

		first, last, ok := strings.Cut(d.Name, " ")
		if !ok || first == "" || last == "" {
			t.Fatalf("name %q is not first and last", d.Name)
		}
		if !slices.Contains(surnames, last) {
			t.Errorf("surname %q not from list", last)
		}
		if d.Age < MinAge || d.Age > MaxAge {
			t.Errorf("age %d outside [%d, %d]", d.Age, MinAge, MaxAge)
		}
		if !slices.Contains(genders, d.Gender) {
			t.Errorf("gender %q not from list", d.Gender)
		}
	}
}

func TestDraftFirstNameMatchesGender(t *testing.T) {
	g := &Generator{}
	lists := map[string][]string{
		"female":    femaleNames,
		"male":      maleNames,
		"nonbinary": neutralNames,
	}

	for range 200 {
		d := g.Draft()
		first, _, _ := strings.Cut(d.Name, " ")
		if !slices.Contains(lists[d.Gender], first) {
			t.Errorf("%q is not a %s name", first, d.Gender)
		}
	}
}

func TestUnsetEvery(t *testing.T) {
	g := &Generator{UnsetEvery: 1}
	for _, d := range g.Drafts(20) {
		if d.Gender != "" {
			t.Fatalf("gender = %q, want unset", d.Gender)
		}
	}
}

func TestDrafts(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"zero", 0, 0},
		{"negative", -3, 0},
		{"several", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(New().Drafts(tt.n)); got != tt.want {
				t.Errorf("len = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDraftsVary(t *testing.T) {
	seen := make(map[string]bool)
	for _, d := range New().Drafts(50) {
		seen[d.Name] = true
	}
	if len(seen) < 10 {
		t.Errorf("only %d distinct names in 50 drafts", len(seen))
	}
}
