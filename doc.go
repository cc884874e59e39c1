/*
Package cfgtree converts Go values to and from a tree of ordered sections,
sequences and scalars suitable for human-edited configuration files. The
tree type lives in package section; package yamlstore reads and writes
trees as YAML.

# Encoding and decoding

Marshal turns a struct into a *section.Section and Unmarshal fills a struct
from one:

	type Config struct {
		MaxPlayers int      `cfg:",required" comment:"Upper bound on players."`
		Motd       string   `cfg:",color"`
		Admins     []string
		Spawn      Location
	}

	sec, err := cfgtree.Marshal(&Config{MaxPlayers: 20})
	if err != nil {
		// handle error
	}
	// sec is {max-players: 20, admins: [...], spawn: {...}}

	var cfg Config
	if err := cfgtree.Unmarshal(sec, &cfg); err != nil {
		// handle error
	}

For repeated use, or to work with nodes other than sections, create an
Encoder or Decoder.

# Dispatch

Every type is classified into one shape. A type with a registered adapter
(see package adapter) is always converted by it. Otherwise bools, numbers,
strings and interfaces are written unchanged; arrays, slices and the
containers of package container become sequences; maps become sections
keyed by the string form of their keys; and structs are decomposed field by
field into nested sections.

Collections whose element type is itself decomposed into fields are written
as a section keyed "1", "2", ... instead of a sequence.

# Field tags

The cfg tag controls how a field is persisted:

	cfg:"name"          persist under name instead of the renamed field name
	cfg:"-"             do not persist the field
	cfg:",required"     decoding fails with a *ValidationError when absent
	cfg:",self"         merge this *section.Section into the parent section
	cfg:",color"        translate '&' colour codes to '§' on decode and back on encode
	cfg:",color=%"      as above with another alternate character

Field names without an explicit name are converted with the naming
strategy, "camelcase" by default, which turns MaxPlayers into max-players.
The comment tag holds lines that stores write above the field's key.
*/
package cfgtree
