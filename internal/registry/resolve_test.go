package registry

import (
	"errors"
	"testing"
)

func TestFind(t *testing.T) {
	skills := []*Skill{
		{Name: "writer", SourcePath: "/src/a/writer"},
		{Name: "Writer", SourcePath: "/src/b/writer"},
		{Name: "coder", SourcePath: "/src/a/coder"},
		{Name: "dup", SourcePath: "/src/a/dup"},
		{Name: "dup", SourcePath: "/src/b/dup"},
	}

	tests := []struct {
		query   string
		want    string
		wantErr error
	}{
		{"writer", "/src/a/writer", nil},
		{"Writer", "/src/b/writer", nil},
		{"CODER", "/src/a/coder", nil},
		{"/src/b/dup", "/src/b/dup", nil},
		{"dup", "", ErrAmbiguousSkill},
		{"WRITER", "", ErrAmbiguousSkill},
		{"missing", "", ErrSkillNotFound},
		{"/src/none", "", ErrSkillNotFound},
		{"  ", "", ErrSkillNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := Find(skills, tt.query)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Find(%q) error = %v, want %v", tt.query, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Find(%q) unexpected error: %v", tt.query, err)
			}
			if got.SourcePath != tt.want {
				t.Errorf("Find(%q) = %s, want %s", tt.query, got.SourcePath, tt.want)
			}
		})
	}
}
