package handlers

import (
	"reflect"
	"testing"

	"github.com/go-telegram/bot/models"
)

func TestGroupID(t *testing.T) {
	t.Parallel()

	if got := groupID(models.Chat{ID: -1001234567890}); got != "-1001234567890" {
		t.Errorf("groupID = %q, want %q", got, "-1001234567890")
	}
}

func TestSplitArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"command only", "/listchat", []string{}},
		{"command with args", "/findchat hello world", []string{"hello", "world"}},
		{"extra whitespace", "  /findchat   a   b  ", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := splitArgs(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitArgs(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTakeOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		option    string
		wantValue string
		wantRest  []string
		wantFound bool
	}{
		{
			name:      "absent",
			args:      []string{"hello", "world"},
			option:    "-p",
			wantRest:  []string{"hello", "world"},
			wantFound: false,
		},
		{
			name:      "present with value",
			args:      []string{"-p", "3"},
			option:    "-p",
			wantValue: "3",
			wantRest:  []string{},
			wantFound: true,
		},
		{
			name:      "present among keywords",
			args:      []string{"hello", "-p", "2", "world"},
			option:    "-p",
			wantValue: "2",
			wantRest:  []string{"hello", "world"},
			wantFound: true,
		},
		{
			name:      "trailing option without value",
			args:      []string{"hello", "-p"},
			option:    "-p",
			wantRest:  []string{"hello"},
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			value, rest, found := takeOption(tt.args, tt.option)
			if value != tt.wantValue || found != tt.wantFound || !reflect.DeepEqual(rest, tt.wantRest) {
				t.Errorf("takeOption(%v, %q) = (%q, %v, %v), want (%q, %v, %v)",
					tt.args, tt.option, value, rest, found, tt.wantValue, tt.wantRest, tt.wantFound)
			}
		})
	}
}

func TestTakeFlag(t *testing.T) {
	t.Parallel()

	rest, found := takeFlag([]string{"--this"}, "--this")
	if !found || len(rest) != 0 {
		t.Errorf("takeFlag(--this) = (%v, %v), want ([], true)", rest, found)
	}

	rest, found = takeFlag([]string{"a", "--all", "b"}, "--all")
	if !found || !reflect.DeepEqual(rest, []string{"a", "b"}) {
		t.Errorf("takeFlag mid-args = (%v, %v), want ([a b], true)", rest, found)
	}

	rest, found = takeFlag([]string{"a", "b"}, "--all")
	if found || !reflect.DeepEqual(rest, []string{"a", "b"}) {
		t.Errorf("takeFlag absent = (%v, %v), want ([a b], false)", rest, found)
	}
}
