package upload

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// countPages returns the page count of a PDF document. The parser panics on
// some malformed inputs, so those surface as errors too.
func countPages(data []byte) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf parse panic: %v", rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}
