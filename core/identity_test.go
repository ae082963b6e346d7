package core

import (
	"encoding/json"
	"sort"
	"testing"
)

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantNS  Namespace
		wantErr bool
	}{
		{
			name:   "numeric",
			input:  "737",
			want:   "737",
			wantNS: NamespaceNumeric,
		},
		{
			name:   "numeric with surrounding space",
			input:  " 737 ",
			want:   "737",
			wantNS: NamespaceNumeric,
		},
		{
			name:   "prefixed external",
			input:  "x-1844392010283716608",
			want:   "x-1844392010283716608",
			wantNS: NamespaceExternal,
		},
		{
			name:   "legacy unprefixed string",
			input:  "spring-showcase",
			want:   "spring-showcase",
			wantNS: NamespaceExternal,
		},
		{
			name:   "digits beyond int64 range stay verbatim",
			input:  "99999999999999999999999",
			want:   "99999999999999999999999",
			wantNS: NamespaceExternal,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseIdentity(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseIdentity(%q) expected error, got %v", tt.input, id)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIdentity(%q) unexpected error: %v", tt.input, err)
			}
			if got := id.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if id.Namespace() != tt.wantNS {
				t.Errorf("Namespace() = %d, want %d", id.Namespace(), tt.wantNS)
			}
		})
	}
}

func TestIdentity_Keys(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want []string
	}{
		{
			name: "numeric has single key",
			id:   NumericIdentity(737),
			want: []string{"737"},
		},
		{
			name: "prefixed external answers to both forms",
			id:   ExternalIdentity("x", "12345"),
			want: []string{"x-12345", "12345"},
		},
		{
			name: "legacy unprefixed has single key",
			id:   ExternalIdentity("", "12345"),
			want: []string{"12345"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.id.Keys()
			if len(got) != len(tt.want) {
				t.Fatalf("Keys() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Keys()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIdentity_Collides(t *testing.T) {
	tests := []struct {
		name string
		a    Identity
		b    Identity
		want bool
	}{
		{
			name: "same numeric",
			a:    NumericIdentity(737),
			b:    NumericIdentity(737),
			want: true,
		},
		{
			name: "different numeric",
			a:    NumericIdentity(737),
			b:    NumericIdentity(738),
			want: false,
		},
		{
			name: "prefixed collides with its legacy bare form",
			a:    ExternalIdentity("x", "12345"),
			b:    NumericIdentity(12345),
			want: true,
		},
		{
			name: "prefixed collides with unprefixed external",
			a:    ExternalIdentity("x", "12345"),
			b:    ExternalIdentity("", "12345"),
			want: true,
		},
		{
			name: "prefixed does not collide with a different raw id",
			a:    ExternalIdentity("x", "12345"),
			b:    ExternalIdentity("x", "12346"),
			want: false,
		},
		{
			name: "numeric does not collide with unrelated string",
			a:    NumericIdentity(737),
			b:    ExternalIdentity("", "spring-showcase"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Collides(tt.b); got != tt.want {
				t.Errorf("Collides() = %v, want %v", got, tt.want)
			}
			// Collision is symmetric.
			if got := tt.b.Collides(tt.a); got != tt.want {
				t.Errorf("reverse Collides() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompareIdentities_Ordering(t *testing.T) {
	parse := func(s string) Identity {
		id, err := ParseIdentity(s)
		if err != nil {
			t.Fatalf("ParseIdentity(%q): %v", s, err)
		}
		return id
	}

	ids := []Identity{
		parse("alpha-meadow"),
		parse("x-100"),
		parse("9"),
		parse("x-998877665544"),
		parse("737"),
		parse("900"),
	}

	sort.Slice(ids, func(i, j int) bool {
		return CompareIdentities(ids[i], ids[j]) < 0
	})

	want := []string{"900", "737", "9", "x-998877665544", "x-100", "alpha-meadow"}
	for i, id := range ids {
		if id.String() != want[i] {
			t.Errorf("position %d = %q, want %q", i, id.String(), want[i])
		}
	}
}

func TestCompareIdentities_Deterministic(t *testing.T) {
	a := NumericIdentity(737)
	b := ExternalIdentity("x", "12345")

	if CompareIdentities(a, b) >= 0 {
		t.Errorf("numeric tier should sort before prefixed tier")
	}
	if CompareIdentities(b, a) <= 0 {
		t.Errorf("comparison should be antisymmetric")
	}
	if CompareIdentities(a, a) != 0 {
		t.Errorf("identity should compare equal to itself")
	}
}

func TestIdentity_JSON(t *testing.T) {
	t.Run("marshals as canonical string", func(t *testing.T) {
		data, err := json.Marshal(NumericIdentity(737))
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(data) != `"737"` {
			t.Errorf("Marshal = %s, want %q", data, `"737"`)
		}

		data, err = json.Marshal(ExternalIdentity("x", "12345"))
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(data) != `"x-12345"` {
			t.Errorf("Marshal = %s, want %q", data, `"x-12345"`)
		}
	})

	t.Run("unmarshals from string", func(t *testing.T) {
		var id Identity
		if err := json.Unmarshal([]byte(`"x-12345"`), &id); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if !id.Collides(ExternalIdentity("x", "12345")) {
			t.Errorf("Unmarshal produced %v", id)
		}
	})

	t.Run("unmarshals from legacy bare number", func(t *testing.T) {
		var id Identity
		if err := json.Unmarshal([]byte(`737`), &id); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if id.Namespace() != NamespaceNumeric || id.String() != "737" {
			t.Errorf("Unmarshal produced %v, want numeric 737", id)
		}
	})

	t.Run("rejects other JSON shapes", func(t *testing.T) {
		var id Identity
		if err := json.Unmarshal([]byte(`{"id":1}`), &id); err == nil {
			t.Errorf("Unmarshal of object should fail")
		}
	})
}
