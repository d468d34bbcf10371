package llm

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStringListUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want StringList
	}{
		{"array", `["a","b"]`, StringList{"a", "b"}},
		{"comma string", `"a, b, c"`, StringList{"a", "b", "c"}},
		{"single string", `"alone"`, StringList{"alone"}},
		{"null", `null`, StringList{}},
		{"empty array", `[]`, StringList{}},
		{"whitespace trimmed", `[" a ", "", "b"]`, StringList{"a", "b"}},
		{"mixed array keeps strings", `["a", 42, "b", null]`, StringList{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got StringList
			if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStringListUnmarshalRejectsObjects(t *testing.T) {
	var got StringList
	if err := json.Unmarshal([]byte(`{"a":1}`), &got); err == nil {
		t.Fatal("expected error for object input")
	}
}

func TestStringListMarshal(t *testing.T) {
	data, err := json.Marshal(StringList{"a", "b"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["a","b"]` {
		t.Errorf("marshaled %s", data)
	}
}

func TestStringListStrings(t *testing.T) {
	var nilList StringList
	if got := nilList.Strings(); got == nil || len(got) != 0 {
		t.Errorf("nil list Strings() = %v", got)
	}

	l := StringList{"a"}
	got := l.Strings()
	got[0] = "mutated"
	if l[0] != "a" {
		t.Error("Strings() must return a copy")
	}
}

func TestRenderTemplate(t *testing.T) {
	got := RenderTemplate("claim: {claim}\nevidence: {evidence}", map[string]string{
		"claim":    "the sky is blue",
		"evidence": "photograph",
	})
	want := "claim: the sky is blue\nevidence: photograph"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderTemplateLeavesUnknownMarkers(t *testing.T) {
	got := RenderTemplate("{known} and {unknown}", map[string]string{"known": "x"})
	if got != "x and {unknown}" {
		t.Errorf("got %q", got)
	}
}
