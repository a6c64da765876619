// Package archive reads and writes keyed archives, the object-graph
// serialization used by Foundation's NSKeyedArchiver, on top of binary and
// XML property lists.
//
// An archive is a property list dictionary with four keys: $archiver,
// $version, $top and $objects. $objects is a flat table of every encoded
// instance; containers refer to their members by UID, so an instance that
// appears in several places of the graph is stored once. $top maps the
// top-level slots ($0, $1, ... for unkeyed values) to UIDs.
//
//	data, err := archive.Archive(archive.XML, archive.Bool(true))
//	values, err := archive.Unarchive(data)
package archive
