package search

// SearchRequest is a syntactically valid invocation: a pattern, a file and
// the case mode. Build turns it into a Command.
type SearchRequest struct {
	Pattern       string
	Filename      string
	CaseSensitive bool
}

// CaseModeFunc reports whether matching is case-sensitive. It is consulted
// only once the argument count is known to be right.
type CaseModeFunc func() (caseSensitive bool)

// ParseArguments checks that args, the positional arguments following the
// executable name, hold exactly a pattern and a filename. A nil caseMode
// means case-sensitive.
func ParseArguments(executable string, args []string, caseMode CaseModeFunc) (SearchRequest, error) {
	switch {
	case len(args) < 2:
		return SearchRequest{}, newError(KindMissing, executable, nil)
	case len(args) > 2:
		return SearchRequest{}, newError(KindTooMany, executable, nil)
	}
	caseSensitive := true
	if caseMode != nil {
		caseSensitive = caseMode()
	}
	return SearchRequest{Pattern: args[0], Filename: args[1], CaseSensitive: caseSensitive}, nil
}
