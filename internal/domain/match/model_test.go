package match

import "testing"

func TestEpochMillis_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  EpochMillis
	}{
		{input: `1893456000000`, want: 1893456000000},
		{input: `"1893456000000"`, want: 1893456000000},
		{input: `1893456000000.9`, want: 1893456000000},
		{input: `8.64e15`, want: 8640000000000000},
		{input: `8.7e15`, want: 0},
		{input: `1e300`, want: 0},
		{input: `"Infinity"`, want: 0},
		{input: `"NaN"`, want: 0},
		{input: `-5`, want: 0},
		{input: `null`, want: 0},
		{input: `"soon"`, want: 0},
	}
	for _, tc := range tests {
		var got EpochMillis = 42
		if err := got.UnmarshalJSON([]byte(tc.input)); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("unmarshal %s = %d, want %d", tc.input, got, tc.want)
		}
	}
}
