package nl2sql

import (
	"errors"
	"testing"
)

func TestStripMarkdownSQL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "```sql\nSELECT 1;\n```", want: "SELECT 1;"},
		{in: "```\nSELECT * FROM Assets\n```  ", want: "SELECT * FROM Assets"},
		{in: "  SELECT 2  ", want: "SELECT 2"},
		{in: "SELECT 3\n```", want: "SELECT 3"},
	}
	for _, tc := range tests {
		if got := stripMarkdownSQL(tc.in); got != tc.want {
			t.Fatalf("stripMarkdownSQL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeFirstJSONObject(t *testing.T) {
	type payload struct {
		Goal string `json:"goal"`
	}
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "bare", in: `{"goal":"x"}`, want: "x"},
		{name: "prose around", in: "Sure! Here you go:\n{\"goal\":\"x\"}\nHope that helps {really}", want: "x"},
		{name: "nested", in: `{"goal":"n","a":{"b":1},"c":[1]} trailing`, want: "n"},
		{name: "braces in strings", in: `{"goal":"count } and { things","x":"\"}"}`, want: "count } and { things"},
		{name: "unbalanced then valid", in: `{ oops {"goal":"y"}`, want: "y"},
		{name: "brace prose before object", in: "Here is my answer {as requested}:\n{\"goal\":\"List sites\"}", want: "List sites"},
		{name: "wrong shape then right shape", in: `{"goal":5} {"goal":"z"}`, want: "z"},
		{name: "none", in: "no json here", wantErr: errNoJSONObject},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeFirstJSONObject[payload](tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("decodeFirstJSONObject() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeFirstJSONObject() error = %v", err)
			}
			if got.Goal != tc.want {
				t.Fatalf("Goal = %q, want %q", got.Goal, tc.want)
			}
		})
	}
}

func TestDecodeFirstJSONObjectReportsDecodeError(t *testing.T) {
	_, err := decodeFirstJSONObject[struct {
		Goal string `json:"goal"`
	}]("{not json} {also: not}")
	if err == nil || errors.Is(err, errNoJSONObject) {
		t.Fatalf("error = %v, want a decode error", err)
	}
}
