// Package tags classifies plays by scanning titles and attributes against
// an ordered rule table.
//
// Tagging is read-only analysis: the rule table turns a title like
// "2009 Jets Counter Trey out of 21p" into run:counter and personnel:21,
// and Analyze aggregates tag, year, and opponent counts across the whole
// collection along with the untagged titles that still need rules. The
// persisted schema never carries tags, so the table can grow without a
// migration.
package tags
