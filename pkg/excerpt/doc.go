// Package excerpt ranks transcript units by how interesting they are and
// samples a small, chronologically ordered set of them to ground a comment.
//
// Scoring is deterministic: the base score is the text's character count,
// with bonuses for keyword hits and for exclamation or question marks.
// Selection is random but reproducible under a seeded source: units are
// stably sorted by score, the top 30% (at least one unit) forms the sampling
// pool, and the requested number of units is drawn without replacement.
package excerpt
