// Package verdict wraps the generative AI service that produces
// web-grounded fact-check verdicts. Text claims are verified in one grounded
// call; images go through an ungrounded describe call first, then the
// description is verified as text.
package verdict
