package date

import (
	"encoding/json"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024-06-10", want: New(2024, time.June, 10)},
		{in: "2024-06-10T23:30:00+02:00", want: New(2024, time.June, 10)},
		{in: "10/06/2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want.Time) {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	base := New(2024, time.June, 10)
	tests := []struct {
		other Date
		want  int
	}{
		{New(2024, time.June, 10), 0},
		{New(2024, time.June, 11), 1},
		{New(2024, time.June, 9), -1},
		{New(2024, time.July, 10), 30},
		{New(2025, time.June, 10), 365},
	}
	for _, tt := range tests {
		if got := base.DaysUntil(tt.other); got != tt.want {
			t.Errorf("DaysUntil(%s) = %d, want %d", tt.other, got, tt.want)
		}
	}
}

func TestOfUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	ts := time.Date(2024, time.June, 10, 1, 0, 0, 0, loc) // 2024-06-09 in UTC
	if got := Of(ts).String(); got != "2024-06-10" {
		t.Errorf("Of() = %s, want 2024-06-10", got)
	}
}

func TestMarshalRoundTripFormats(t *testing.T) {
	d := New(2024, time.February, 29)

	js, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal json: %v", err)
	}
	if string(js) != `"2024-02-29"` {
		t.Errorf("json = %s, want \"2024-02-29\"", js)
	}

	var doc struct {
		Due Date `yaml:"due"`
	}
	if err := yaml.Unmarshal([]byte("due: 2024-02-29\n"), &doc); err != nil {
		t.Fatalf("unmarshal yaml: %v", err)
	}
	if !doc.Due.Equal(d.Time) {
		t.Errorf("yaml due = %v, want %v", doc.Due, d)
	}
}
