package engine

import "testing"

func TestPartLabel(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "a"},
		{1, "b"},
		{25, "z"},
		{26, "aa"},
		{27, "ab"},
		{51, "az"},
		{52, "ba"},
		{701, "zz"},
		{702, "aaa"},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := PartLabel(tt.index); got != tt.want {
			t.Errorf("PartLabel(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestSubpartLabel(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "i"},
		{1, "ii"},
		{3, "iv"},
		{8, "ix"},
		{11, "xii"},
		{12, "13"},
		{20, "21"},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := SubpartLabel(tt.index); got != tt.want {
			t.Errorf("SubpartLabel(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}
