package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Startup failures must surface as errors from Execute so main can report
// them, not vanish into a bare exit code.
func TestRootCommand_ReportsStartupErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "invalid pairing mode", args: []string{"--mode", "bogus"}, want: "PAIRING_MODE"},
		{name: "invalid cron expression", args: []string{"--cron", "not a cron"}, want: "CRON_EXPR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() {
				flagMode = ""
				flagCron = ""
				rootCmd.SetArgs(nil)
			})

			rootCmd.SetArgs(tt.args)
			err := rootCmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
