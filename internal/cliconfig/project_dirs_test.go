package cliconfig

import (
	"errors"
	"testing"

	"github.com/bft-labs/buildship/internal/domain"
)

func TestParseProjectDirs(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    []ProjectDir
		wantErr bool
	}{
		{name: "empty", value: "", want: nil},
		{
			name:  "single entry",
			value: "/proj1->/dest1",
			want:  []ProjectDir{{Root: "/proj1", Dest: "/dest1"}},
		},
		{
			name:  "multiple entries with whitespace",
			value: " /proj1 -> /dest1 | /proj2->/dest2 ",
			want: []ProjectDir{
				{Root: "/proj1", Dest: "/dest1"},
				{Root: "/proj2", Dest: "/dest2"},
			},
		},
		{
			name:  "blank entries skipped",
			value: "/proj1->/dest1||",
			want:  []ProjectDir{{Root: "/proj1", Dest: "/dest1"}},
		},
		{
			name:  "bare root",
			value: "/proj1|/proj2->/dest2",
			want:  []ProjectDir{{Root: "/proj1"}, {Root: "/proj2", Dest: "/dest2"}},
		},
		{name: "two delimiters", value: "/a->/b->/c", wantErr: true},
		{name: "empty root", value: "->/dest1", wantErr: true},
		{name: "empty dest", value: "/proj1->", wantErr: true},
		{name: "one bad entry among good", value: "/proj1->/dest1|/proj2->", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProjectDirs(tt.value)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidConfig) {
					t.Fatalf("ParseProjectDirs() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseProjectDirs() unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseProjectDirs() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFormatProjectDirs(t *testing.T) {
	dirs := []ProjectDir{{Root: "/proj1", Dest: "/dest1"}, {Root: "/proj2", Dest: "/dest2"}, {Root: "/proj3"}}

	got := FormatProjectDirs(dirs)
	if got != "/proj1->/dest1|/proj2->/dest2|/proj3" {
		t.Errorf("FormatProjectDirs() = %q", got)
	}

	parsed, err := ParseProjectDirs(got)
	if err != nil || len(parsed) != 3 || parsed[1] != dirs[1] || parsed[2] != dirs[2] {
		t.Errorf("ParseProjectDirs(FormatProjectDirs()) = %+v, %v", parsed, err)
	}
}
