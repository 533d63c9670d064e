package driven

// Splitter divides sanitised text into overlapping passages.
// Splitting is a stateless function of its input: the same text always
// produces the same ordered sequence, and empty input produces none.
type Splitter interface {
	// Split returns the ordered passages of text. Adjacent passages
	// share trailing/leading context so no semantic unit straddling a
	// boundary is lost entirely.
	Split(text string) ([]string, error)
}
