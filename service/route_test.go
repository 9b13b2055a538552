package service

import "testing"

func TestResolveLOIRoute(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		want   string
		wantOK bool
	}{
		{
			name:   "clauses id present",
			row:    `{"id": "b2", "clauses_id": "c9"}`,
			want:   "/loi/b2/clauses",
			wantOK: true,
		},
		{
			name:   "capitalized clauses id",
			row:    `{"_id": "a1", "Clauses_id": "c1"}`,
			want:   "/loi/a1/clauses",
			wantOK: true,
		},
		{
			name:   "empty json string payload",
			row:    `{"_id": "a1", "Clauses": "{}"}`,
			want:   "/loi/a1/intake",
			wantOK: true,
		},
		{
			name:   "populated json string payload",
			row:    `{"_id": "a1", "Clauses": "{\"history\": {\"Rent\": {}}}"}`,
			want:   "/loi/a1/clauses",
			wantOK: true,
		},
		{
			name:   "native object payload",
			row:    `{"_id": "a1", "clauses": {"history": {"Rent": {"1": {}}}}}`,
			want:   "/loi/a1/clauses",
			wantOK: true,
		},
		{
			name:   "unparseable string payload",
			row:    `{"_id": "a1", "Clauses": "not json {{"}`,
			want:   "/loi/a1/intake",
			wantOK: true,
		},
		{
			name:   "array payload has no content",
			row:    `{"_id": "a1", "clauses": [1, 2, 3]}`,
			want:   "/loi/a1/intake",
			wantOK: true,
		},
		{
			name:   "object with only empty values",
			row:    `{"_id": "a1", "clauses": {"history": {}, "note": "  ", "tags": []}}`,
			want:   "/loi/a1/intake",
			wantOK: true,
		},
		{
			name:   "object with numeric value counts",
			row:    `{"_id": "a1", "clauses": {"version": 0}}`,
			want:   "/loi/a1/clauses",
			wantOK: true,
		},
		{
			name:   "whitespace clauses id is absent",
			row:    `{"_id": "a1", "clauses_id": "   "}`,
			want:   "/loi/a1/intake",
			wantOK: true,
		},
		{
			name:   "no clause signals at all",
			row:    `{"_id": "a1"}`,
			want:   "/loi/a1/intake",
			wantOK: true,
		},
		{
			name:   "underscore id wins",
			row:    `{"_id": "a1", "id": "b2"}`,
			want:   "/loi/a1/intake",
			wantOK: true,
		},
		{
			name:   "numeric id coerced",
			row:    `{"id": 42}`,
			want:   "/loi/42/intake",
			wantOK: true,
		},
		{
			name:   "no id",
			row:    `{"Clauses_id": "c1"}`,
			want:   "",
			wantOK: false,
		},
		{
			name:   "empty row",
			row:    `{}`,
			want:   "",
			wantOK: false,
		},
		{
			name:   "not json",
			row:    `garbage`,
			want:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveLOIRoute([]byte(tt.row))
			if ok != tt.wantOK {
				t.Fatalf("ResolveLOIRoute(%s) ok = %v, want %v", tt.row, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ResolveLOIRoute(%s) = %q, want %q", tt.row, got, tt.want)
			}
		})
	}
}

func TestResolveLOIRouteDeterministic(t *testing.T) {
	row := []byte(`{"_id": "x7", "clauses": {"history": {"Rent": {"1": {"status": "approved"}}}}}`)

	first, ok1 := ResolveLOIRoute(row)
	second, ok2 := ResolveLOIRoute(row)
	if first != second || ok1 != ok2 {
		t.Errorf("Expected identical results, got %q/%v and %q/%v", first, ok1, second, ok2)
	}
}
