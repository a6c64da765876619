// Package fixture builds the keyed-archive fixtures consumed by archive
// parser test suites and writes them to disk.
//
// Every fixture is an ordered sequence of values written twice under one
// stem: <stem>.bin as a binary property list and <stem>.xml as an XML
// property list. Both encode the same graph, so a reader can be checked
// against either representation.
package fixture
