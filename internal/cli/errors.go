package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/samvad-hq/pawfinder/pkg/httpclient"
	"github.com/samvad-hq/pawfinder/pkg/validate"
)

// RenderError writes a user-facing description of err.
func RenderError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var netErr *httpclient.NetworkError
	var serverErr *httpclient.ServerError
	var decodeErr *httpclient.DecodeError

	switch {
	case validate.Fields(err) != nil:
		writeFields(w, "invalid input:", validate.Fields(err))
	case errors.As(err, &netErr):
		fmt.Fprintf(w, "error: cannot reach the server, check your connection (%v)\n", netErr.Err)
	case httpclient.IsUnauthorized(err):
		fmt.Fprintln(w, "error: not authorized, please log in with `pawfinder login`")
	case httpclient.IsValidation(err):
		if fields := httpclient.FieldErrors(err); len(fields) > 0 {
			writeFields(w, "the server rejected the input: "+httpclient.MessageOf(err), fields)
			return
		}
		fmt.Fprintf(w, "error: %s\n", httpclient.MessageOf(err))
	case errors.As(err, &serverErr):
		fmt.Fprintf(w, "error: %s (status %d), try again later\n", serverErr.Message, serverErr.Status)
	case errors.As(err, &decodeErr):
		fmt.Fprintf(w, "error: unexpected response from the server: %v\n", decodeErr)
	default:
		fmt.Fprintf(w, "error: %s\n", httpclient.MessageOf(err))
	}
}

func writeFields(w io.Writer, title string, fields map[string][]string) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, title)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, strings.Join(fields[name], "; "))
	}
}
