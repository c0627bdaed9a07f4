package api

import (
	"strings"
	"testing"
)

func TestFormatAnswer(t *testing.T) {
	got := FormatAnswer("The **leaf-101** switch is healthy.\n\nNo alarms.", "Nexus Dashboard Expert")

	if !strings.Contains(got, "<b>leaf-101</b>") {
		t.Errorf("bold not converted: %q", got)
	}
	if !strings.Contains(got, "healthy.<br>No alarms.") {
		t.Errorf("paragraph break not converted: %q", got)
	}
	if !strings.HasSuffix(got, "Response Provided by <b>Nexus Dashboard Expert</b>") {
		t.Errorf("attribution missing: %q", got)
	}
}

func TestFormatAnswerLeavesSingleNewlines(t *testing.T) {
	got := FormatAnswer("| a | b |\n| 1 | 2 |", "Intersight Expert")
	if !strings.Contains(got, "| a | b |\n| 1 | 2 |") {
		t.Errorf("table rows were rewritten: %q", got)
	}
}

func TestParseFollowUps(t *testing.T) {
	cases := []struct {
		reply string
		want  []string
	}{
		{
			"What about VXLAN?\nHow is BGP configured?",
			[]string{"What about VXLAN?", "How is BGP configured?"},
		},
		{
			"1. What about VXLAN?\n2) How is BGP configured?\n3. A third one?",
			[]string{"What about VXLAN?", "How is BGP configured?"},
		},
		{
			"- What about VXLAN?\nSome commentary without a question mark\n* How is BGP configured?",
			[]string{"What about VXLAN?", "How is BGP configured?"},
		},
		{"no questions here at all", nil},
	}
	for _, tc := range cases {
		got := parseFollowUps(tc.reply)
		if len(got) != len(tc.want) {
			t.Errorf("parseFollowUps(%q) = %v, want %v", tc.reply, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("parseFollowUps(%q)[%d] = %q, want %q", tc.reply, i, got[i], tc.want[i])
			}
		}
	}
}
