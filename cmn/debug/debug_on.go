//go:build debugctl

package debug

func init() { Enabled = true }
