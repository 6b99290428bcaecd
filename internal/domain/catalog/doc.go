// Package catalog holds the table of apps known to the desktop: their
// identifiers, taskbar titles and icons. The stock table can be extended
// or overridden by a YAML or TOML file:
//
//	apps:
//	  - id: notepad
//	    title: Notes
//	  - id: terminal
//	    title: Terminal
//	    icon: https://example.com/terminal.png
package catalog
