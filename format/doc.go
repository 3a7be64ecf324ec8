// Package format defines the inline and block formats an editor document may
// carry, how each is styled in the terminal and how each materializes as a
// node. Highlight is the interactive format: activating one of its nodes asks
// the host to remove the highlight from the span it covers.
package format
