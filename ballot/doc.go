// Package ballot holds the ranked-choice ballot logic: the conflict resolver
// that bumps duplicate ranks, the summarizer that decides which prefix of a
// ballot will count, and the BC-STV count over effective ballots.
//
// Everything here is pure. Callers own the selectors and hand a State in;
// nothing is kept between calls.
package ballot
