package dynamizer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidIdentifier occurs when a configured name can not be used as an identifier.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrNoSources occurs when the inputs expand to no document at all.
	ErrNoSources = errors.New("no binding sources")

	// ErrDuplicateDestination occurs when two sources would be written to the same output file.
	ErrDuplicateDestination = errors.New("duplicate destination")
)

// BindSymbol formats the loader entry binding the function pointer variable name at run time.
func BindSymbol(name string) string {
	return fmt.Sprintf("lib.bindSymbol(cast(void**)&%s, \"%s\");", name, name)
}

// ImportModule formats the loader entry making the variables of module path visible to the loader.
func ImportModule(path string) string {
	return "import " + path + ";"
}

// WriteEntries writes loader entries one per line in the given order.
func WriteEntries(w io.Writer, entries []string) (err error) {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err = bw.WriteString(e); err != nil {
			return
		}
		if err = bw.WriteByte('\n'); err != nil {
			return
		}
	}
	return bw.Flush()
}
