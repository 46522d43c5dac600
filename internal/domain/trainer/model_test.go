package trainer_test

import (
	"errors"
	"strings"
	"testing"

	"trainerweb/internal/domain/apperror"
	"trainerweb/internal/domain/trainer"
)

// TestTrainer_Validate tests validation of Trainer.
func TestTrainer_Validate(t *testing.T) {
	tests := []struct {
		name    string
		trainer trainer.Trainer
		wantErr error
	}{
		{
			name:    "valid trainer",
			trainer: trainer.Trainer{ID: "T1", Name: "Anna Berg", Email: "anna@verein.de"},
		},
		{
			name:    "blank name",
			trainer: trainer.Trainer{ID: "T2", Name: "   "},
			wantErr: trainer.ErrEmptyName,
		},
		{
			name:    "email too long",
			trainer: trainer.Trainer{ID: "T3", Name: "Ben", Email: strings.Repeat("a", 250) + "@x.de"},
			wantErr: trainer.ErrEmailTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.trainer.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrainer_RoleDefault(t *testing.T) {
	if got := (trainer.Trainer{}).Role(); got != trainer.DefaultRole {
		t.Errorf("Role() = %q, want %q", got, trainer.DefaultRole)
	}
	if got := (trainer.Trainer{DefaultRole: "Helfer"}).Role(); got != "Helfer" {
		t.Errorf("Role() = %q, want Helfer", got)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Anna Berg", "anna berg"},
		{"  ANNA   berg ", "anna berg"},
		{"anna\tberg", "anna berg"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := trainer.NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatch(t *testing.T) {
	trainers := []trainer.Trainer{
		{ID: "T1", Name: "Anna Berg"},
		{ID: "T2", Name: "anna  berg"},
		{ID: "T3", Name: "Carl Dorn"},
		{ID: "Carl Dorn", Name: "Someone Else"},
	}

	tests := []struct {
		name       string
		identifier string
		nameOnly   bool
		wantIDs    []string
	}{
		{name: "id match", identifier: "T3", wantIDs: []string{"T3"}},
		{name: "id wins over name", identifier: "Carl Dorn", wantIDs: []string{"Carl Dorn"}},
		{name: "name only skips id", identifier: "Carl Dorn", nameOnly: true, wantIDs: []string{"T3"}},
		{name: "ambiguous name", identifier: " ANNA berg", wantIDs: []string{"T1", "T2"}},
		{name: "no match", identifier: "Zoe", wantIDs: nil},
		{name: "blank identifier", identifier: "  ", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trainer.Match(trainers, tt.identifier, tt.nameOnly)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Match() returned %d trainers, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("match[%d] = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestAmbiguousError_UnwrapsToSentinel(t *testing.T) {
	err := error(trainer.NewAmbiguousError([]trainer.Trainer{
		{ID: "T1", Name: "Anna", Email: "a@x.de"},
		{ID: "T2", Name: "Anna", Email: "b@x.de"},
	}, false))

	if !errors.Is(err, trainer.ErrAmbiguousName) {
		t.Fatal("expected errors.Is to match ErrAmbiguousName")
	}
	var amb *trainer.AmbiguousError
	if !errors.As(err, &amb) {
		t.Fatal("expected *AmbiguousError")
	}
	if len(amb.Candidates) != 2 || amb.Candidates[0].Email != "" {
		t.Errorf("unexpected candidates: %+v", amb.Candidates)
	}
	if be, ok := apperror.As(err); !ok || be.Kind != apperror.KindConflict {
		t.Errorf("apperror.As = %v, %v", be, ok)
	}
}

func TestNewAmbiguousError_IncludesEmailOnNamePath(t *testing.T) {
	amb := trainer.NewAmbiguousError([]trainer.Trainer{
		{ID: "T1", Name: "Anna", Email: "a@x.de"},
		{ID: "T2", Name: "Anna", Email: "b@x.de"},
	}, true)
	if amb.Candidates[1].Email != "b@x.de" {
		t.Errorf("Email = %q, want b@x.de", amb.Candidates[1].Email)
	}
}

func TestParseTruthy(t *testing.T) {
	for _, v := range []string{"TRUE", "true", " Wahr ", "1", "ja", "YES", "x"} {
		if !trainer.ParseTruthy(v) {
			t.Errorf("ParseTruthy(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"", "0", "false", "nein", "no", "2", "y"} {
		if trainer.ParseTruthy(v) {
			t.Errorf("ParseTruthy(%q) = true, want false", v)
		}
	}
}
