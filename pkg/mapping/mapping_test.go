package mapping

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMapping_Add(t *testing.T) {
	m := make(Mapping)
	m.Add("cpd:C00031", "path:map00010")
	m.Add("cpd:C00031", "path:map00010", "path:map00500")
	m.Add("cpd:C00001", "path:map00190")

	if got := m.RelatedIDs("cpd:C00031"); !reflect.DeepEqual(got, []string{"path:map00010", "path:map00500"}) {
		t.Errorf("RelatedIDs(cpd:C00031) = %v", got)
	}
	if got := m.RelatedIDs("cpd:C00001"); !reflect.DeepEqual(got, []string{"path:map00190"}) {
		t.Errorf("RelatedIDs(cpd:C00001) = %v", got)
	}
	if got := m.RelatedIDs("cpd:C99999"); len(got) != 0 {
		t.Errorf("RelatedIDs of unknown key = %v, want empty", got)
	}
}

func TestCombine(t *testing.T) {
	a := make(Mapping)
	a.Add("X", "A", "B")
	b := make(Mapping)
	b.Add("X", "B", "C")
	b.Add("Y", "D")

	combined := Combine(a, b)
	if got := combined.RelatedIDs("X"); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("RelatedIDs(X) = %v, want [A B C]", got)
	}
	if got := combined.RelatedIDs("Y"); !reflect.DeepEqual(got, []string{"D"}) {
		t.Errorf("RelatedIDs(Y) = %v, want [D]", got)
	}

	// Inputs stay untouched.
	if got := a.RelatedIDs("X"); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("input mapping mutated: RelatedIDs(X) = %v", got)
	}
}

func TestReverse(t *testing.T) {
	m := make(Mapping)
	m.Add("ko:K00001", "cpd:C00001", "cpd:C00002")
	m.Add("ko:K00002", "cpd:C00001")

	reversed := Reverse(m)
	if got := reversed.RelatedIDs("cpd:C00001"); !reflect.DeepEqual(got, []string{"ko:K00001", "ko:K00002"}) {
		t.Errorf("RelatedIDs(cpd:C00001) = %v", got)
	}
	if got := reversed.RelatedIDs("cpd:C00002"); !reflect.DeepEqual(got, []string{"ko:K00001"}) {
		t.Errorf("RelatedIDs(cpd:C00002) = %v", got)
	}

	// Reversing twice restores the original relation.
	if got := Reverse(reversed); !reflect.DeepEqual(got, m) {
		t.Errorf("double reverse = %v, want %v", got, m)
	}
}

func TestMapping_ToJSON(t *testing.T) {
	m := make(Mapping)
	m.Add("cpd:C00031", "path:map00500", "path:map00010")

	data, err := m.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var decoded map[string][]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	// Related IDs come out sorted for deterministic output.
	if got := decoded["cpd:C00031"]; !reflect.DeepEqual(got, []string{"path:map00010", "path:map00500"}) {
		t.Errorf("decoded IDs = %v, want sorted", got)
	}
}

func TestMapping_ToJSON_Invalid(t *testing.T) {
	m := Mapping{"": {"path:map00010": true}}
	if _, err := m.ToJSON(); err == nil {
		t.Error("ToJSON() with empty key: expected error")
	}

	m = Mapping{"cpd:C00031": {}}
	if _, err := m.ToJSON(); err == nil {
		t.Error("ToJSON() with empty ID set: expected error")
	}
}

func TestMapping_SaveAndLoad(t *testing.T) {
	m := make(Mapping)
	m.Add("cpd:C00031", "path:map00010", "path:map00500")
	m.Add("cpd:C00001", "path:map00190")

	path := filepath.Join(t.TempDir(), "mapping.json")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, m) {
		t.Errorf("Load() = %v, want %v", loaded, m)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "nope"},
		{"empty ID list", `{"cpd:C00031": []}`},
		{"empty related ID", `{"cpd:C00031": [""]}`},
		{"empty key", `{"": ["path:map00010"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mapping.json")
			if err := writeFile(path, tt.body); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load() of missing file: expected error")
	}
}
