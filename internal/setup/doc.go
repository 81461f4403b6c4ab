// Package setup creates the configuration file interactively.
//
// The Wizard walks through camera address, credentials, a live connection
// test, location lookup, timezone and optional offsets, then writes the file
// atomically. Location lookup goes through a PlaceFinder (Nominatim by
// default) and the timezone through a TimezoneResolver chain chosen by the
// caller.
package setup
