package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedInput reports a line that could not be parsed as requested.
var ErrMalformedInput = errors.New("malformed input")

// readLine prompts and returns the next trimmed line. io.EOF means the input
// is exhausted.
func (a *App) readLine(prompt string) (string, error) {
	a.print(prompt)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(a.in.Text()), nil
}

func (a *App) readInt(prompt string) (int, error) {
	line, err := a.readLine(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrMalformedInput, line)
	}
	return n, nil
}

func (a *App) readID(prompt string) (int64, error) {
	line, err := a.readLine(prompt)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a product id", ErrMalformedInput, line)
	}
	return id, nil
}
