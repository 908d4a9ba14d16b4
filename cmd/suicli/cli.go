// Package main defines the CLI structure using kong.
package main

import "github.com/alecthomas/kong"

// CLI defines the command-line interface.
type CLI struct {
	Add     AddCmd     `cmd:"" help:"Import a private key into the vault"`
	List    ListCmd    `cmd:"" help:"List stored keys"`
	Address AddressCmd `cmd:"" help:"Show the address of a stored key"`
	Remove  RemoveCmd  `cmd:"" help:"Delete a stored key (requires the vault password)"`
	Session SessionCmd `cmd:"" help:"Start an interactive agent session with a stored key"`
	Replay  ReplayCmd  `cmd:"" help:"Review a saved session transcript"`

	Config  string           `help:"Config file path" type:"path"`
	Version kong.VersionFlag `help:"Show version information"`
}

// AddCmd imports a private key under a name.
type AddCmd struct {
	Name string `arg:"" help:"Name for the key"`
}

// ListCmd lists stored keys with their addresses.
type ListCmd struct{}

// AddressCmd prints the address derived for a stored key.
type AddressCmd struct {
	Name string `arg:"" help:"Key name"`
}

// RemoveCmd deletes a stored key after password verification.
type RemoveCmd struct {
	Name string `arg:"" help:"Key name"`
}

// SessionCmd runs the interactive agent session.
type SessionCmd struct {
	Name string `arg:"" optional:"" help:"Key name (numbered menu when omitted)"`
}

// ReplayCmd shows a session transcript.
type ReplayCmd struct {
	File   string `arg:"" optional:"" help:"Transcript file (defaults to the most recent)"`
	Follow bool   `short:"f" help:"Keep the view updated while the session runs"`
}

// kongVars returns variables for kong (version info).
func kongVars() kong.Vars {
	return kong.Vars{
		"version": version,
	}
}
