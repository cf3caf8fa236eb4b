package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsStore(t *testing.T) {
	tests := []struct {
		command string
		want    bool
	}{
		{command: "", want: false},
		{command: "help", want: false},
		{command: "flags", want: false},
		{command: "commands", want: false},
		{command: "record", want: true},
		{command: "stats", want: true},
		{command: "adjustments", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			assert.Equal(t, tt.want, needsStore(tt.command))
		})
	}
}
